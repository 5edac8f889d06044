// Package handler provides the HTTP endpoints of FileCabinet.
//
// Every JSON response uses the Response envelope. Record fields travel as
// RecordRequest/RecordResponse, with dates in MM/dd/yyyy form.
package handler
