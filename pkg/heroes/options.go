package heroes

import "strings"

const defaultPath = "api/heroes"

// Option configures a Service during construction.
type Option func(*Service)

// WithPath overrides the collection path (default "api/heroes").
func WithPath(path string) Option {
	return func(s *Service) {
		if p := strings.Trim(strings.TrimSpace(path), "/"); p != "" {
			s.path = p
		}
	}
}

// WithReporter sets the diagnostic channel used for failed requests.
func WithReporter(r Reporter) Option {
	return func(s *Service) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithEncodedSearch makes Search query-escape the term. The default sends it
// exactly as given.
func WithEncodedSearch(enabled bool) Option {
	return func(s *Service) { s.encodeSearch = enabled }
}
