// Package service provides the record services for FileCabinet.
//
// Services contain the business rules that sit between callers (HTTP
// handlers, CLI) and storage. They define the Repository interface for
// their storage dependency so implementations can be swapped in tests.
//
// This package contains:
//
//   - RecordService: validated create/update/remove, lookups, snapshot
//   - RestoreCoordinator: batch restore with per-record rejection
//   - Middleware: logging and metrics decorators around Cabinet
package service
