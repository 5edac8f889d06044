package domain

import "time"

// Snapshot is an immutable point-in-time copy of all records in insertion order.
type Snapshot struct {
	records []Record
	takenAt time.Time
}

// NewSnapshot copies records into a new snapshot.
func NewSnapshot(records []Record, takenAt time.Time) *Snapshot {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Snapshot{records: cp, takenAt: takenAt}
}

// Records returns a copy of the captured records.
func (s *Snapshot) Records() []Record {
	cp := make([]Record, len(s.records))
	copy(cp, s.records)
	return cp
}

// Len returns the number of captured records.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// TakenAt returns the capture time.
func (s *Snapshot) TakenAt() time.Time {
	return s.takenAt
}

// Candidate is one decoded record claimed by an import source.
// Err is set when the decoder could not build Fields; such a candidate
// is rejected without running validation.
type Candidate struct {
	ID     int
	Fields Fields
	Err    error
}

// Rejection records why one candidate was not restored.
type Rejection struct {
	ID     int    `json:"id"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// RestoreResult summarizes a restore batch.
type RestoreResult struct {
	Accepted   int         `json:"accepted"`
	Rejections []Rejection `json:"rejections"`
}
