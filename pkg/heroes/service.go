package heroes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	"github.com/Adda-Baaj/tour-of-heroes/internal/logger"
	"github.com/Adda-Baaj/tour-of-heroes/pkg/httpclient"
)

const messagePrefix = "HeroService: "

// Service is the heroes gateway. See the package documentation for the
// failure contract.
type Service struct {
	transport    httpclient.Client
	messages     MessageLogger
	reporter     Reporter
	path         string
	encodeSearch bool
}

// NewService builds a gateway over transport that logs outcomes to messages.
func NewService(transport httpclient.Client, messages MessageLogger, opts ...Option) (*Service, error) {
	if transport == nil {
		return nil, fmt.Errorf("heroes transport must not be nil")
	}
	if messages == nil {
		messages = discardMessages{}
	}

	s := &Service{
		transport: transport,
		messages:  messages,
		reporter:  logReporter{},
		path:      defaultPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the collection path requests are issued against.
func (s *Service) Path() string { return s.path }

// List returns every hero, or an empty slice when the request fails.
func (s *Service) List(ctx context.Context) []domain.Hero {
	var heroes []domain.Hero
	_, err := s.do(s.path, func() (httpclient.Response, error) {
		return s.transport.Get(ctx, s.path, nil)
	}, &heroes)
	if err != nil {
		s.handleError(ctx, "getHeroes", "getHeroes", err)
		return []domain.Hero{}
	}

	s.succeed("getHeroes", "Fetched heroes")
	return nonNil(heroes)
}

// Get returns the hero with id, or nil when the request fails.
func (s *Service) Get(ctx context.Context, id int) *domain.Hero {
	u := s.itemURL(id)

	var hero domain.Hero
	found, err := s.do(u, func() (httpclient.Response, error) {
		return s.transport.Get(ctx, u, nil)
	}, &hero)
	if err != nil {
		s.handleError(ctx, "getHero", fmt.Sprintf("getHero id=%d", id), err)
		return nil
	}

	s.succeed("getHero", fmt.Sprintf("Fetched hero id=%d", id))
	if !found {
		return nil
	}
	return &hero
}

// Search returns heroes whose name matches term. A blank term returns an
// empty slice without issuing a request.
func (s *Service) Search(ctx context.Context, term string) []domain.Hero {
	if strings.TrimSpace(term) == "" {
		observe("searchHeroes", outcomeSkipped)
		return []domain.Hero{}
	}

	u := s.searchURL(term)

	var heroes []domain.Hero
	_, err := s.do(u, func() (httpclient.Response, error) {
		return s.transport.Get(ctx, u, nil)
	}, &heroes)
	if err != nil {
		s.handleError(ctx, "searchHeroes", "searchHeroes", err)
		return []domain.Hero{}
	}

	s.succeed("searchHeroes", fmt.Sprintf(`Found heroes matching "%s"`, term))
	return nonNil(heroes)
}

// Add creates hero on the server and returns the stored record, whose id the
// server assigned. It returns nil when the request fails.
func (s *Service) Add(ctx context.Context, hero domain.Hero) *domain.Hero {
	var created domain.Hero
	found, err := s.do(s.path, func() (httpclient.Response, error) {
		return s.transport.Post(ctx, s.path, hero, jsonHeaders())
	}, &created)
	if err != nil {
		s.handleError(ctx, "addHero", "addHero", err)
		return nil
	}
	if !found {
		created = hero
	}

	s.succeed("addHero", fmt.Sprintf("Added hero w/ id=%d", created.ID))
	return &created
}

// Delete removes the referenced hero. Passing a domain.Hero or an ID issues
// the same request. A body-less success returns a hero carrying only the id;
// failure returns nil.
func (s *Service) Delete(ctx context.Context, ref Ref) *domain.Hero {
	if ref == nil {
		s.handleError(ctx, "deleteHero", "deleteHero", errors.New("hero reference is nil"))
		return nil
	}
	id := ref.HeroID()
	u := s.itemURL(id)

	var deleted domain.Hero
	found, err := s.do(u, func() (httpclient.Response, error) {
		return s.transport.Delete(ctx, u, jsonHeaders())
	}, &deleted)
	if err != nil {
		s.handleError(ctx, "deleteHero", "deleteHero", err)
		return nil
	}
	if !found {
		deleted = domain.Hero{ID: id}
	}

	s.succeed("deleteHero", fmt.Sprintf("Deleted hero id=%d", id))
	return &deleted
}

// Update replaces the hero identified by hero.ID. The server picks the record
// from the body, so the request goes to the collection path. A body-less
// success returns a copy of hero; failure returns nil.
func (s *Service) Update(ctx context.Context, hero domain.Hero) *domain.Hero {
	var updated domain.Hero
	found, err := s.do(s.path, func() (httpclient.Response, error) {
		return s.transport.Put(ctx, s.path, hero, jsonHeaders())
	}, &updated)
	if err != nil {
		s.handleError(ctx, "updateHero", "updateHero", err)
		return nil
	}
	if !found {
		updated = hero
	}

	s.succeed("updateHero", fmt.Sprintf("Updated hero id=%d", hero.ID))
	return &updated
}

// do runs one request and decodes a JSON body into out. It reports whether a
// body was present. Non-2xx statuses and undecodable bodies are errors.
func (s *Service) do(u string, call func() (httpclient.Response, error), out any) (bool, error) {
	resp, err := call()
	if err != nil {
		return false, err
	}
	if err := httpclient.CheckStatus(u, resp); err != nil {
		return false, err
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, &httpclient.Error{
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("Http failure during parsing for %s: %v", u, err),
			Err:        err,
		}
	}
	return true, nil
}

// handleError sends err to the diagnostic channel, then summarises it to the
// message log. The caller returns its fallback value.
func (s *Service) handleError(ctx context.Context, metric, operation string, err error) {
	observe(metric, outcomeFailure)
	s.reporter.ReportError(ctx, operation, err)
	s.log(fmt.Sprintf("%s failed: %s", operation, err.Error()))
}

func (s *Service) succeed(metric, message string) {
	observe(metric, outcomeSuccess)
	s.log(message)
}

func (s *Service) log(message string) {
	s.messages.Add(messagePrefix + message)
}

func (s *Service) itemURL(id int) string {
	return fmt.Sprintf("%s/%d", s.path, id)
}

// searchURL concatenates term into the query string. Unless encoding is
// enabled the term is not escaped, so reserved characters reach the server
// verbatim.
func (s *Service) searchURL(term string) string {
	if s.encodeSearch {
		term = url.QueryEscape(term)
	}
	return fmt.Sprintf("%s/?name=%s", s.path, term)
}

func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

func nonNil(heroes []domain.Hero) []domain.Hero {
	if heroes == nil {
		return []domain.Hero{}
	}
	return heroes
}

// logReporter writes failures to the process log.
type logReporter struct{}

func (logReporter) ReportError(_ context.Context, operation string, err error) {
	logger.ErrorObj("hero request failed", "hero_error", map[string]any{
		"operation": operation,
		"error":     err.Error(),
	})
}

type discardMessages struct{}

func (discardMessages) Add(string) {}
