// Package remotemock is an in-memory remote.Store for sync tests. It
// records every write in order and can be told to fail mid-batch.
package remotemock

import (
	"context"
	"errors"
	"sync"

	"lendbook-backend/internal/domain/ledger"
	"lendbook-backend/internal/remote"
)

// WriteOp is one recorded Set/Delete call.
type WriteOp struct {
	Op         string // "set" or "delete"
	Collection string
	ID         string
	Doc        []byte
}

type Store struct {
	mu   sync.Mutex
	docs map[string]map[string][]byte // collection → id → doc
	Log  []WriteOp

	// FailAfter fails every write once this many writes succeeded.
	// Negative (default after New) disables the trip wire.
	FailAfter int
	writes    int

	// Unreachable makes every call fail, reads included.
	Unreachable bool
}

var _ remote.Store = (*Store)(nil)

func New() *Store {
	return &Store{docs: make(map[string]map[string][]byte), FailAfter: -1}
}

func (s *Store) failNow() error {
	if s.Unreachable {
		return &ledger.RemoteUnavailableError{Err: errSimulated}
	}
	if s.FailAfter >= 0 && s.writes >= s.FailAfter {
		return &ledger.RemoteUnavailableError{Err: errSimulated}
	}
	return nil
}

func (s *Store) Get(_ context.Context, collection string) ([]remote.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Unreachable {
		return nil, &ledger.RemoteUnavailableError{Err: errSimulated}
	}
	var out []remote.Document
	for id, doc := range s.docs[collection] {
		cp := make([]byte, len(doc))
		copy(cp, doc)
		out = append(out, remote.Document{ID: id, Data: cp})
	}
	return out, nil
}

func (s *Store) Set(_ context.Context, collection, id string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNow(); err != nil {
		return err
	}
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string][]byte)
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	s.docs[collection][id] = cp
	s.Log = append(s.Log, WriteOp{Op: "set", Collection: collection, ID: id, Doc: cp})
	s.writes++
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, partial []byte) error {
	return s.Set(ctx, collection, id, partial)
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNow(); err != nil {
		return err
	}
	delete(s.docs[collection], id)
	s.Log = append(s.Log, WriteOp{Op: "delete", Collection: collection, ID: id})
	s.writes++
	return nil
}

// Doc returns the current remote document, or nil.
func (s *Store) Doc(collection, id string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[collection][id]
}

// Count returns the number of documents in a collection.
func (s *Store) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs[collection])
}

var errSimulated = errors.New("simulated remote failure")
