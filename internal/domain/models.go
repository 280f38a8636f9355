package domain

// Domain contains core models shared by the client and the mock API.

// Hero is the single record type served by the heroes resource. The id is
// assigned by the server; a zero id is left out of request bodies.
type Hero struct {
	ID   int    `json:"id,omitempty" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// HeroID lets a Hero be passed wherever a hero reference is accepted.
func (h Hero) HeroID() int { return h.ID }
