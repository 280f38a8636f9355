package publishers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Adda-Baaj/tour-of-heroes/pkg/httpclient"
)

func TestNewEventCapturesStatusCode(t *testing.T) {
	httpErr := &httpclient.Error{StatusCode: 404, Message: "Http failure response for api/heroes/5: 404 Not Found"}
	evt := NewEvent("heroes-cli", "getHero id=5", fmt.Errorf("outer: %w", httpErr))

	if evt.ID == "" {
		t.Fatalf("expected generated id")
	}
	if evt.StatusCode != 404 {
		t.Fatalf("StatusCode = %d", evt.StatusCode)
	}
	if evt.Message != "outer: Http failure response for api/heroes/5: 404 Not Found" {
		t.Fatalf("Message = %q", evt.Message)
	}
	if evt.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
}

func TestNewEventPlainError(t *testing.T) {
	evt := NewEvent("heroes-cli", "getHeroes", errors.New("connection refused"))
	if evt.StatusCode != 0 {
		t.Fatalf("StatusCode = %d, want 0", evt.StatusCode)
	}
	attrs := evt.attributes()
	if attrs["source"] != "heroes-cli" || attrs["operation"] != "getHeroes" {
		t.Fatalf("attributes = %#v", attrs)
	}
}

func TestNewEventIDsAreUnique(t *testing.T) {
	a := NewEvent("s", "op", nil)
	b := NewEvent("s", "op", nil)
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %s twice", a.ID)
	}
}
