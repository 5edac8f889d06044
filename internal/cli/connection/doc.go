// Package connection is the HTTP client the CLI uses to reach a
// filecabinet server. Responses are unwrapped from the server's JSON
// envelope; error envelopes become *APIError values.
package connection
