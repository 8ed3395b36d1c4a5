// Package cachestore is the local durable mirror of the remote
// collections. Reads never touch the network; a put or remove is
// visible to the next get immediately, online or not.
package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lendbook-backend/internal/domain/ledger"
)

// record is one cached document. The (collection, entity_id) pair is
// the merge key for upserts.
type record struct {
	Collection string    `gorm:"primaryKey;size:32;column:collection"`
	EntityID   string    `gorm:"primaryKey;size:32;column:entity_id"`
	Doc        []byte    `gorm:"type:blob;column:doc"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (record) TableName() string { return "cache_records" }

type Store struct{ db *gorm.DB }

// Open migrates the cache schema and returns a ready store. The store
// is an injected instance; there is no package-level state.
func Open(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, &ledger.PersistenceError{Op: "migrate cache", Err: err}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get returns the last-known snapshot of a collection as raw JSON
// documents, newest first.
func (s *Store) Get(ctx context.Context, collection string) ([]json.RawMessage, error) {
	var rows []record
	res := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("updated_at DESC").
		Find(&rows)
	if res.Error != nil {
		return nil, &ledger.PersistenceError{Op: "get " + collection, Err: res.Error}
	}
	docs := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, json.RawMessage(r.Doc))
	}
	return docs, nil
}

// GetOne returns a single cached document or ErrRecordNotFound.
func (s *Store) GetOne(ctx context.Context, collection, id string) (json.RawMessage, error) {
	var row record
	res := s.db.WithContext(ctx).
		Where("collection = ? AND entity_id = ?", collection, id).
		First(&row)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, res.Error
	}
	if res.Error != nil {
		return nil, &ledger.PersistenceError{Op: "get " + collection + "/" + id, Err: res.Error}
	}
	return json.RawMessage(row.Doc), nil
}

// Put upserts a document by id.
func (s *Store) Put(ctx context.Context, collection, id string, doc []byte) error {
	row := record{Collection: collection, EntityID: id, Doc: doc, UpdatedAt: time.Now().UTC()}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "entity_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"doc", "updated_at"}),
		}).
		Create(&row)
	if res.Error != nil {
		return &ledger.PersistenceError{Op: "put " + collection + "/" + id, Err: res.Error}
	}
	return nil
}

// Remove deletes a document by id. Removing an absent id is a no-op.
func (s *Store) Remove(ctx context.Context, collection, id string) error {
	res := s.db.WithContext(ctx).
		Where("collection = ? AND entity_id = ?", collection, id).
		Delete(&record{})
	if res.Error != nil {
		return &ledger.PersistenceError{Op: "remove " + collection + "/" + id, Err: res.Error}
	}
	return nil
}

// Replace swaps the whole collection snapshot in one transaction. Used
// when reconciling from an authoritative remote read; optimistic local
// values are overwritten (last-remote-write-wins).
func (s *Store) Replace(ctx context.Context, collection string, docs map[string][]byte) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", collection).Delete(&record{}).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		for id, doc := range docs {
			row := record{Collection: collection, EntityID: id, Doc: doc, UpdatedAt: now}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &ledger.PersistenceError{Op: "replace " + collection, Err: err}
	}
	return nil
}
