package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/service"
)

// Compile-time check that Store satisfies the service repository.
var _ service.Repository = (*Store)(nil)

type entry struct {
	record domain.Record
	seq    uint64 // insertion position
}

// Store provides in-memory record storage with secondary indexes.
type Store struct {
	// Primary index: ID -> entry
	records map[int]*entry

	// Secondary indexes: normalized key -> set of IDs
	indexes map[domain.IndexKind]*Index

	// nextSeq orders records by insertion.
	nextSeq uint64

	// highWater is the largest id ever stored; new ids continue from it.
	highWater int

	now func() time.Time

	// Single lock covering a mutation and its index update
	mu sync.RWMutex
}

// Option configures the Store.
type Option func(*Store)

// WithClock sets the clock used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a new in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		records: make(map[int]*entry),
		indexes: make(map[domain.IndexKind]*Index, len(domain.IndexKinds)),
		now:     time.Now,
	}
	for _, kind := range domain.IndexKinds {
		s.indexes[kind] = NewIndex()
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Insert stores fields under a freshly assigned id and returns it.
// Callers must validate fields first.
func (s *Store) Insert(_ context.Context, fields domain.Fields) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.highWater + 1
	s.put(id, fields)
	return id, nil
}

// InsertWithID stores fields under the caller's id.
// It fails with *domain.DuplicateIDError if the id is taken.
func (s *Store) InsertWithID(_ context.Context, id int, fields domain.Fields) error {
	if id <= 0 {
		return domain.ErrInvalidArgument.WithDetails("record id must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; ok {
		return &domain.DuplicateIDError{ID: id}
	}
	s.put(id, fields)
	return nil
}

// Update replaces the fields of an existing record, keeping its position.
func (s *Store) Update(_ context.Context, id int, fields domain.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.records[id]
	if !ok {
		return &domain.NotFoundError{ID: id}
	}

	// Old keys must leave the indexes before the fields change,
	// otherwise the stale entries can no longer be located.
	s.unindex(e.record)
	e.record.Fields = fields
	s.index(e.record)

	return nil
}

// Remove deletes a record and every index entry referencing it.
func (s *Store) Remove(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.records[id]
	if !ok {
		return &domain.NotFoundError{ID: id}
	}

	s.unindex(e.record)
	delete(s.records, id)
	return nil
}

// Get returns a copy of one record.
func (s *Store) Get(_ context.Context, id int) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.records[id]
	if !ok {
		return domain.Record{}, &domain.NotFoundError{ID: id}
	}
	return e.record, nil
}

// Exists reports whether id is stored.
func (s *Store) Exists(_ context.Context, id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.records[id]
	return ok
}

// GetAll returns copies of all records in insertion order.
func (s *Store) GetAll(_ context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ordered(), nil
}

// FindBy returns the records whose normalized value for kind equals key,
// in insertion order. An unknown key yields an empty result.
func (s *Store) FindBy(_ context.Context, kind domain.IndexKind, key string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.indexes[kind]
	if !ok {
		return nil, domain.ErrInvalidArgument.WithDetails("unknown index " + kind.String())
	}

	ids := idx.Get(key)
	entries := make([]*entry, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.records[id]; ok {
			entries = append(entries, e)
		}
	}
	sortBySeq(entries)

	result := make([]domain.Record, len(entries))
	for i, e := range entries {
		result[i] = e.record
	}
	return result, nil
}

// Snapshot captures an immutable copy of all records.
// It takes the write lock so no mutation can interleave with the copy.
func (s *Store) Snapshot(_ context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.NewSnapshot(s.ordered(), s.now()), nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// Clear removes all records. The id high-water mark is kept so ids are
// never handed out twice.
func (s *Store) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[int]*entry)
	for _, idx := range s.indexes {
		idx.Clear()
	}
}

// ============================================================================
// Internal helpers (caller holds s.mu)
// ============================================================================

func (s *Store) put(id int, fields domain.Fields) {
	s.nextSeq++
	e := &entry{
		record: domain.Record{ID: id, Fields: fields},
		seq:    s.nextSeq,
	}
	s.records[id] = e
	s.index(e.record)

	if id > s.highWater {
		s.highWater = id
	}
}

func (s *Store) index(r domain.Record) {
	for kind, idx := range s.indexes {
		idx.Add(r.Key(kind), r.ID)
	}
}

func (s *Store) unindex(r domain.Record) {
	for kind, idx := range s.indexes {
		idx.Remove(r.Key(kind), r.ID)
	}
}

func (s *Store) ordered() []domain.Record {
	entries := make([]*entry, 0, len(s.records))
	for _, e := range s.records {
		entries = append(entries, e)
	}
	sortBySeq(entries)

	result := make([]domain.Record, len(entries))
	for i, e := range entries {
		result[i] = e.record
	}
	return result
}

func sortBySeq(entries []*entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})
}
