// Package logger builds the process-wide slog logger for FileCabinet.
//
//   - logger.go: handler construction and dynamic level control
//   - context.go: request ID propagation through context.Context
//   - redact.go: masking of secrets and personal data before output
package logger
