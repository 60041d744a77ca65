// Package store holds the authoritative in-memory collection of user
// records. The store is the sole mutable owner of the list; every
// mutation goes through Load, Append, ReplaceFields or Remove, and each
// of those is called only after the corresponding remote operation has
// confirmed success.
package store

import (
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"user-console/internal/model"
	"user-console/prometheus"
)

var (
	// ErrDuplicateID is returned when a record with the same ID is
	// already present.
	ErrDuplicateID = errors.New("duplicate record id")
	// ErrNotFound is returned when no record with the given ID exists.
	ErrNotFound = errors.New("record not found")
)

// Store is an ordered, mutex-guarded sequence of user records. Order is
// arrival/fetch order and is never re-sorted.
type Store struct {
	mu      sync.RWMutex
	records []model.User
	byID    map[int]int // id -> index into records
	log     *zap.Logger
}

// New creates an empty store.
func New(log *zap.Logger) *Store {
	return &Store{
		byID: make(map[int]int),
		log:  log,
	}
}

// Load replaces the entire sequence. Used once after the initial remote
// fetch. Records with an ID already seen in the same batch are dropped
// so the no-duplicate-ID guarantee holds even against a misbehaving
// remote.
func (s *Store) Load(records []model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]model.User, 0, len(records))
	s.byID = make(map[int]int, len(records))
	for _, r := range records {
		if _, dup := s.byID[r.ID]; dup {
			s.log.Warn("dropping duplicate record id from remote batch", zap.Int("id", r.ID))
			continue
		}
		s.byID[r.ID] = len(s.records)
		s.records = append(s.records, r)
	}
	prometheus.SetRecordCount(len(s.records))
}

// Append adds one record at the end. Called only after a confirmed
// remote create.
func (s *Store) Append(r model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.byID[r.ID]; dup {
		return ErrDuplicateID
	}
	s.byID[r.ID] = len(s.records)
	s.records = append(s.records, r)
	prometheus.SetRecordCount(len(s.records))
	return nil
}

// ReplaceFields overwrites the editable fields of the record with the
// given ID. Called only after a confirmed remote update. The ID itself
// is immutable.
func (s *Store) ReplaceFields(id int, d model.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	d.ApplyTo(&s.records[i])
	return nil
}

// Remove deletes the record with the given ID. Called only after a
// confirmed remote delete.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.byID, id)
	for j := i; j < len(s.records); j++ {
		s.byID[s.records[j].ID] = j
	}
	prometheus.SetRecordCount(len(s.records))
	return nil
}

// Get returns a copy of the record with the given ID.
func (s *Store) Get(id int) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return model.User{}, false
	}
	return s.records[i], true
}

// All returns a copy of the full sequence in original order.
func (s *Store) All() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// FilterByName returns a derived, read-only view of the records whose
// name contains term, case-insensitively, preserving relative order.
// The empty term yields the full sequence. The underlying sequence is
// never mutated; the result is recomputed on every call.
func (s *Store) FilterByName(term string) []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if term == "" {
		out := make([]model.User, len(s.records))
		copy(out, s.records)
		return out
	}

	needle := strings.ToLower(term)
	out := make([]model.User, 0, len(s.records))
	for _, r := range s.records {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}
