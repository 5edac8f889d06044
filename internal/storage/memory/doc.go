// Package memory provides the in-memory record store for FileCabinet.
//
// Records are kept in insertion order together with three secondary
// indexes (first name, last name, date of birth). Every mutation and
// its paired index update runs under one lock, so a reader never sees
// a record whose index entries disagree with its fields.
//
// Thread Safety:
//
// Read operations use RLock, write operations and snapshot capture use Lock.
package memory
