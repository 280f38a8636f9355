package heroes

import "context"

// MessageLogger receives human readable status lines. It is fire-and-forget.
type MessageLogger interface {
	Add(message string)
}

// Reporter is the diagnostic channel for failed requests, distinct from the
// MessageLogger that users see.
type Reporter interface {
	ReportError(ctx context.Context, operation string, err error)
}

// Ref identifies a hero either by record or by bare id.
type Ref interface {
	HeroID() int
}

// ID is a bare hero id usable as a Ref.
type ID int

// HeroID returns the id itself.
func (id ID) HeroID() int { return int(id) }
