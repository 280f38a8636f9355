package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestBolt(t *testing.T, opts Options) *boltStore {
	t.Helper()
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "messages.db"), normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreKeepsInsertionOrder(t *testing.T) {
	store := openTestBolt(t, Options{})
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, text := range []string{"first", "second", "third"} {
		if err := store.AppendMessage(text, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
	}

	entries, err := store.Messages()
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Text != "first" || entries[2].Text != "third" {
		t.Fatalf("unexpected order %#v", entries)
	}
	if !entries[1].At.Equal(base.Add(time.Second)) {
		t.Fatalf("timestamp = %v", entries[1].At)
	}
}

func TestBoltStoreExpiresMessages(t *testing.T) {
	store := openTestBolt(t, Options{
		MessageTTL:      time.Minute,
		CleanupInterval: time.Minute,
	})
	now := time.Now()
	store.now = func() time.Time { return now }

	if err := store.AppendMessage("old", now); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	entries, err := store.Messages()
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected 1 live entry, got %d err=%v", len(entries), err)
	}

	// Fast-forward past the TTL and the cleanup cadence.
	now = now.Add(2 * time.Minute)

	entries, err = store.Messages()
	if err != nil {
		t.Fatalf("Messages after expiry: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected entry to expire, got %#v", entries)
	}
}

func TestBoltStoreClearAndPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.db")
	first, err := NewStore("bbolt", path, Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := first.AppendMessage("kept", time.Now()); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := NewStore("bbolt", path, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	entries, err := second.Messages()
	if err != nil || len(entries) != 1 || entries[0].Text != "kept" {
		t.Fatalf("expected persisted entry, got %#v err=%v", entries, err)
	}

	if err := second.ClearMessages(); err != nil {
		t.Fatalf("ClearMessages: %v", err)
	}
	entries, err = second.Messages()
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty store after clear, got %#v err=%v", entries, err)
	}
	if err := second.AppendMessage("after clear", time.Now()); err != nil {
		t.Fatalf("AppendMessage after clear: %v", err)
	}
}

func TestNewStoreVariants(t *testing.T) {
	mem, err := NewStore("memory", "", Options{})
	if err != nil {
		t.Fatalf("NewStore memory: %v", err)
	}
	if err := mem.AppendMessage("x", time.Now()); err != nil {
		t.Fatalf("memory AppendMessage: %v", err)
	}
	if entries, _ := mem.Messages(); len(entries) != 1 {
		t.Fatalf("memory store lost entry")
	}

	none, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := none.AppendMessage("x", time.Now()); err != nil {
		t.Fatalf("noop store AppendMessage: %v", err)
	}
	if entries, _ := none.Messages(); len(entries) != 0 {
		t.Fatalf("noop store kept entries")
	}

	if _, err := NewStore("bbolt", "  ", Options{}); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
