// Package syncer keeps the local cache and the remote document store
// consistent under intermittent connectivity. Writes land in the cache
// first and either go straight to the remote store or wait in the
// durable outbox until connectivity returns.
package syncer

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"

	"lendbook-backend/internal/cachestore"
	"lendbook-backend/internal/domain/ledger"
	"lendbook-backend/internal/outbox"
	"lendbook-backend/internal/remote"
)

// Collections kept in sync. Each has its own outbox partition and its
// own in-flight drain slot.
var Collections = []string{ledger.CollectionDebtors, ledger.CollectionLoans}

// Event signals that a collection's cached snapshot changed after a
// refresh from the remote store.
type Event struct {
	Collection string
}

// Signal is a settable connectivity flag. The syncer consumes only the
// boolean; whoever detects connectivity (ping loop, OS callback, an
// operator endpoint) owns how it is produced.
type Signal struct{ v atomic.Bool }

func (s *Signal) Set(online bool) { s.v.Store(online) }
func (s *Signal) Reachable() bool { return s.v.Load() }

type Store struct {
	cache     *cachestore.Store
	queue     *outbox.Outbox
	remote    remote.Store
	reachable func() bool

	mu       sync.Mutex
	draining map[string]bool
	wasUp    bool

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

func New(cache *cachestore.Store, queue *outbox.Outbox, rs remote.Store, reachable func() bool) *Store {
	return &Store{
		cache:     cache,
		queue:     queue,
		remote:    rs,
		reachable: reachable,
		draining:  make(map[string]bool),
		subs:      make(map[int]chan Event),
	}
}

// ReadAll returns a collection snapshot. Online, the remote store is
// authoritative and the cache is refreshed from it; offline or on
// remote failure the last cached snapshot is served. An offline read
// is a supported state, not an error.
func (s *Store) ReadAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if s.reachable() {
		if err := s.Refresh(ctx, collection); err != nil {
			log.Printf("syncer: remote read %s failed, serving cache: %v", collection, err)
		}
	}
	return s.cache.Get(ctx, collection)
}

// ReadOne returns one cached document, refreshing the collection first
// when online.
func (s *Store) ReadOne(ctx context.Context, collection, id string) (json.RawMessage, error) {
	if s.reachable() {
		if err := s.Refresh(ctx, collection); err != nil {
			log.Printf("syncer: remote read %s failed, serving cache: %v", collection, err)
		}
	}
	return s.cache.GetOne(ctx, collection, id)
}

// Write upserts a document. The local cache write is the commit point:
// once it is durable the operation has succeeded from the caller's
// perspective, whatever the remote store is doing. Offline (or on a
// failed remote write) the mutation is queued for the next drain.
func (s *Store) Write(ctx context.Context, collection, id string, doc []byte, op outbox.Op) error {
	if err := s.cache.Put(ctx, collection, id, doc); err != nil {
		return err
	}
	if s.reachable() {
		if err := s.remote.Set(ctx, collection, id, doc); err != nil {
			log.Printf("syncer: remote write %s/%s failed, queueing: %v", collection, id, err)
			return s.queue.Enqueue(ctx, collection, id, op, doc)
		}
		return nil
	}
	return s.queue.Enqueue(ctx, collection, id, op, doc)
}

// Delete removes a document, with the same commit semantics as Write.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := s.cache.Remove(ctx, collection, id); err != nil {
		return err
	}
	if s.reachable() {
		if err := s.remote.Delete(ctx, collection, id); err != nil {
			log.Printf("syncer: remote delete %s/%s failed, queueing: %v", collection, id, err)
			return s.queue.Enqueue(ctx, collection, id, outbox.OpDelete, nil)
		}
		return nil
	}
	return s.queue.Enqueue(ctx, collection, id, outbox.OpDelete, nil)
}

// Drain replays the collection's queued mutations against the remote
// store in enqueue order, as one all-or-nothing batch. On any failure
// the queue is left untouched and the next connectivity-confirmed
// trigger retries the whole batch; remote upserts are idempotent, so a
// duplicate replay is harmless. A drain already in flight for the same
// collection coalesces the call into a no-op.
func (s *Store) Drain(ctx context.Context, collection string) error {
	s.mu.Lock()
	if s.draining[collection] {
		s.mu.Unlock()
		return nil
	}
	s.draining[collection] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.draining, collection)
		s.mu.Unlock()
	}()

	items, err := s.queue.Pending(ctx, collection)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	for _, it := range items {
		switch it.Op {
		case outbox.OpDelete:
			err = s.remote.Delete(ctx, collection, it.EntityID)
		default:
			err = s.remote.Set(ctx, collection, it.EntityID, it.Payload)
		}
		if err != nil {
			return err
		}
	}

	if err := s.queue.Clear(ctx, collection, items[len(items)-1].ID); err != nil {
		return err
	}
	log.Printf("syncer: drained %d item(s) for %s", len(items), collection)

	if err := s.Refresh(ctx, collection); err != nil {
		log.Printf("syncer: refresh after drain %s: %v", collection, err)
	}
	return nil
}

// Refresh overwrites the cached snapshot with the authoritative remote
// one and notifies subscribers. Last remote write wins at the cache
// layer.
func (s *Store) Refresh(ctx context.Context, collection string) error {
	docs, err := s.remote.Get(ctx, collection)
	if err != nil {
		return err
	}
	snapshot := make(map[string][]byte, len(docs))
	for _, d := range docs {
		snapshot[d.ID] = d.Data
	}
	if err := s.cache.Replace(ctx, collection, snapshot); err != nil {
		return err
	}
	s.notify(collection)
	return nil
}

// DrainAll drains every collection, returning the first failure. A
// failed collection keeps its queue for the next attempt.
func (s *Store) DrainAll(ctx context.Context) error {
	var firstErr error
	for _, c := range Collections {
		if err := s.Drain(ctx, c); err != nil {
			log.Printf("syncer: drain %s: %v", c, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ObserveConnectivity feeds the current connectivity value through the
// edge detector. A false→true transition triggers exactly one drain
// attempt per collection; repeated true observations do nothing.
func (s *Store) ObserveConnectivity(ctx context.Context) bool {
	up := s.reachable()
	s.mu.Lock()
	rising := up && !s.wasUp
	s.wasUp = up
	s.mu.Unlock()
	if rising {
		_ = s.DrainAll(ctx)
	}
	return up
}

// Subscribe returns a collection-changed feed and its cancel func.
// Slow consumers miss events rather than blocking the sync path.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()
	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *Store) notify(collection string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- Event{Collection: collection}:
		default:
		}
	}
}
