// Package snapshot archives record snapshots as files on disk.
//
// An archive is an export artefact, not a durable store: restoring one
// goes through the same validation as any other import.
//
// File layout:
//
//	snapshot-<timestamp>-<sequence>.snap
//	[magic:8 "FCABSNAP"]
//	[HeaderLen:4][HeaderJSON:HeaderLen]
//	[DataLen:4][Data:DataLen]   (JSON records, or sealed bytes)
//	[checksum:32 SHA-256 of all bytes above]
//
// When a passphrase is configured the data block is sealed with
// XChaCha20-Poly1305 under a key derived by Argon2id from the passphrase
// and a per-archive salt stored in the header.
package snapshot
