// Package storage ties the record cabinet to its snapshot archive.
//
// The Engine captures snapshots of the cabinet into archive files,
// either on demand or on a fixed interval, and restores archives back
// through the cabinet's validating restore path. Records themselves
// live only in memory; archives are export artefacts.
package storage
