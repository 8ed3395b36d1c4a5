// Package outbox is the durable queue of mutations made while the
// remote store was unreachable. Items survive process restarts and are
// removed only after their remote write succeeds.
package outbox

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lendbook-backend/internal/domain/ledger"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Item is one pending mutation. ID is monotonically increasing, so ID
// order is enqueue order.
type Item struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	Collection string    `gorm:"size:32;index:idx_outbox_collection" json:"collection"`
	EntityID   string    `gorm:"size:32;column:entity_id" json:"entity_id"`
	Op         Op        `gorm:"size:16" json:"op"`
	Payload    []byte    `gorm:"type:blob" json:"payload"`
	EnqueuedAt time.Time `gorm:"autoCreateTime" json:"enqueued_at"`
}

func (Item) TableName() string { return "sync_outbox" }

type Outbox struct{ db *gorm.DB }

func Open(db *gorm.DB) (*Outbox, error) {
	if err := db.AutoMigrate(&Item{}); err != nil {
		return nil, &ledger.PersistenceError{Op: "migrate outbox", Err: err}
	}
	return &Outbox{db: db}, nil
}

// Enqueue appends a pending mutation. The item is durable before
// Enqueue returns.
func (o *Outbox) Enqueue(ctx context.Context, collection, entityID string, op Op, payload []byte) error {
	item := Item{
		Collection: collection,
		EntityID:   entityID,
		Op:         op,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := o.db.WithContext(ctx).Create(&item).Error; err != nil {
		return &ledger.PersistenceError{Op: "enqueue " + collection + "/" + entityID, Err: err}
	}
	return nil
}

// Pending returns the queued items for a collection in enqueue order.
func (o *Outbox) Pending(ctx context.Context, collection string) ([]Item, error) {
	var items []Item
	res := o.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("id ASC").
		Find(&items)
	if res.Error != nil {
		return nil, &ledger.PersistenceError{Op: "pending " + collection, Err: res.Error}
	}
	return items, nil
}

// Clear removes all items for a collection up to and including
// throughID. Called only after the whole replayed batch succeeded, so
// a failed drain leaves every item in place.
func (o *Outbox) Clear(ctx context.Context, collection string, throughID uint64) error {
	res := o.db.WithContext(ctx).
		Where("collection = ? AND id <= ?", collection, throughID).
		Delete(&Item{})
	if res.Error != nil {
		return &ledger.PersistenceError{Op: "clear " + collection, Err: res.Error}
	}
	return nil
}

// Len reports how many items are queued for a collection.
func (o *Outbox) Len(ctx context.Context, collection string) (int64, error) {
	var n int64
	res := o.db.WithContext(ctx).Model(&Item{}).Where("collection = ?", collection).Count(&n)
	if res.Error != nil {
		return 0, &ledger.PersistenceError{Op: "count " + collection, Err: res.Error}
	}
	return n, nil
}
