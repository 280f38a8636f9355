package storage

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Package storage persists the message log between runs.

// Entry is one stored message.
type Entry struct {
	Text string
	At   time.Time
}

// Store keeps message log entries in insertion order.
type Store interface {
	Close() error
	AppendMessage(text string, at time.Time) error
	Messages() ([]Entry, error)
	ClearMessages() error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	MessageTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultMessageTTL      = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "memory":
		return &memoryStore{}, nil
	case "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.MessageTTL <= 0 {
		opts.MessageTTL = defaultMessageTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                          { return nil }
func (noopStore) AppendMessage(string, time.Time) error { return nil }
func (noopStore) Messages() ([]Entry, error)            { return nil, nil }
func (noopStore) ClearMessages() error                  { return nil }

// memoryStore lives for the process only.
type memoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) AppendMessage(text string, at time.Time) error {
	m.mu.Lock()
	m.entries = append(m.entries, Entry{Text: text, At: at})
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Messages() ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *memoryStore) ClearMessages() error {
	m.mu.Lock()
	m.entries = nil
	m.mu.Unlock()
	return nil
}
