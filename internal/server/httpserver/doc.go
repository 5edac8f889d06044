// Package httpserver provides the HTTP server for FileCabinet.
//
// It uses net/http with the method-aware ServeMux. Requests pass through
// Recover, RequestID, Observe and RateLimit before reaching the handlers
// in the handler subpackage.
package httpserver
