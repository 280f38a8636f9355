package publishers

import (
	"errors"
	"time"

	"github.com/Adda-Baaj/tour-of-heroes/pkg/httpclient"
	"github.com/google/uuid"
)

// Event represents a failed hero request forwarded to remote sinks.
type Event struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Operation  string    `json:"operation"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent constructs an Event for the failed operation.
func NewEvent(source, operation string, err error) Event {
	evt := Event{
		ID:         uuid.NewString(),
		Source:     source,
		Operation:  operation,
		OccurredAt: time.Now().UTC(),
	}
	if err != nil {
		evt.Message = err.Error()
		var httpErr *httpclient.Error
		if errors.As(err, &httpErr) {
			evt.StatusCode = httpErr.StatusCode
		}
	}
	return evt
}

// attributes are the string attributes attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"source":    e.Source,
		"operation": e.Operation,
	}
}

// stringAttributes visits the non-empty attributes.
func stringAttributes(attrs map[string]string, fn func(key, value string)) {
	for k, v := range attrs {
		if v == "" {
			continue
		}
		fn(k, v)
	}
}
