package messages

import (
	"fmt"
	"sync"
	"time"

	"github.com/Adda-Baaj/tour-of-heroes/internal/logger"
	"github.com/Adda-Baaj/tour-of-heroes/internal/storage"
)

// Service is the application message log. It satisfies heroes.MessageLogger.
type Service struct {
	mu      sync.RWMutex
	entries []storage.Entry
	store   storage.Store
	log     logger.Logger
	now     func() time.Time
}

// NewService loads the surviving history from store. A nil store keeps
// messages in memory only.
func NewService(store storage.Store, log logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.NopLogger{}
	}

	s := &Service{store: store, log: log, now: time.Now}
	if store == nil {
		return s, nil
	}

	history, err := store.Messages()
	if err != nil {
		return nil, fmt.Errorf("load message history: %w", err)
	}
	s.entries = history
	return s, nil
}

// Add appends message to the log. Persistence failures are logged and dropped.
func (s *Service) Add(message string) {
	at := s.now()

	s.mu.Lock()
	s.entries = append(s.entries, storage.Entry{Text: message, At: at})
	s.mu.Unlock()

	if s.store == nil {
		return
	}
	if err := s.store.AppendMessage(message, at); err != nil {
		s.log.WarnObj("message persist failed", "message_error", map[string]any{
			"message": message,
			"error":   err.Error(),
		})
	}
}

// Messages returns a copy of the message texts, oldest first.
func (s *Service) Messages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Text
	}
	return out
}

// Entries returns a copy of the timestamped log.
func (s *Service) Entries() []storage.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]storage.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear empties the log and its backing store.
func (s *Service) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()

	if s.store == nil {
		return
	}
	if err := s.store.ClearMessages(); err != nil {
		s.log.WarnObj("message clear failed", "message_error", map[string]any{
			"error": err.Error(),
		})
	}
}
