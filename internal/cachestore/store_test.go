package cachestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s, err := Open(db)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestPutGet_ReadYourWrites(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	doc := []byte(`{"id":"a","name":"x"}`)
	if err := s.Put(ctx, "debtors", "a", doc); err != nil {
		t.Fatalf("Put: %v", err)
	}
	docs, err := s.Get(ctx, "debtors")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(docs) != 1 || !bytes.Equal(docs[0], doc) {
		t.Fatalf("snapshot = %s", docs)
	}
}

func TestPut_UpsertsById(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "debtors", "a", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "debtors", "a", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Put again: %v", err)
	}
	docs, err := s.Get(ctx, "debtors")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("id must be the merge key, got %d docs", len(docs))
	}
	if !bytes.Equal(docs[0], []byte(`{"v":2}`)) {
		t.Fatalf("doc = %s, want v2", docs[0])
	}
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.Remove(ctx, "debtors", "missing"); err != nil {
		t.Fatalf("Remove absent: %v", err)
	}

	if err := s.Put(ctx, "debtors", "a", []byte(`{}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Remove(ctx, "debtors", "a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.GetOne(ctx, "debtors", "a"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want record not found", err)
	}
}

func TestCollectionsAreIsolated(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "debtors", "a", []byte(`{"who":"debtor"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "loans", "a", []byte(`{"who":"loan"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	loans, err := s.Get(ctx, "loans")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(loans) != 1 || !bytes.Equal(loans[0], []byte(`{"who":"loan"}`)) {
		t.Fatalf("loans snapshot = %s", loans)
	}
}

func TestReplace_SwapsSnapshot(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "loans", "stale", []byte(`{"v":"old"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	err := s.Replace(ctx, "loans", map[string][]byte{
		"a": []byte(`{"v":"a"}`),
		"b": []byte(`{"v":"b"}`),
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	docs, err := s.Get(ctx, "loans")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("snapshot size = %d, want 2", len(docs))
	}
	if _, err := s.GetOne(ctx, "loans", "stale"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatal("stale doc must be gone after Replace")
	}
}
