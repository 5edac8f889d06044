// Package domain defines the core domain models for FileCabinet.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling. This package contains:
//
//   - Record: a stored entity with its identity and descriptive fields
//   - Snapshot: an immutable point-in-time copy of all records
//   - Candidate: a decoded record claimed by an import source
//   - Errors: domain-specific error definitions
package domain
