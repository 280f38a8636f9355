package heroes

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	"github.com/Adda-Baaj/tour-of-heroes/pkg/httpclient"
)

// fakeResponse implements httpclient.Response.
type fakeResponse struct {
	body       []byte
	statusCode int
}

func (f fakeResponse) Body() []byte    { return f.body }
func (f fakeResponse) StatusCode() int { return f.statusCode }

type call struct {
	method  string
	url     string
	body    any
	headers map[string]string
}

type reply struct {
	status int
	body   string
	err    error
}

// fakeTransport records every call and answers from a "METHOD url" table.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []call
	replies map[string]reply
}

func newFakeTransport(replies map[string]reply) *fakeTransport {
	if replies == nil {
		replies = map[string]reply{}
	}
	return &fakeTransport{replies: replies}
}

func (f *fakeTransport) record(method, url string, body any, headers map[string]string) (httpclient.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{method: method, url: url, body: body, headers: headers})
	r, ok := f.replies[method+" "+url]
	if !ok {
		return nil, errors.New("no reply configured")
	}
	if r.err != nil {
		return nil, r.err
	}
	status := r.status
	if status == 0 {
		status = 200
	}
	return fakeResponse{body: []byte(r.body), statusCode: status}, nil
}

func (f *fakeTransport) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	return f.record("GET", url, nil, headers)
}

func (f *fakeTransport) Post(_ context.Context, url string, body any, headers map[string]string) (httpclient.Response, error) {
	return f.record("POST", url, body, headers)
}

func (f *fakeTransport) Put(_ context.Context, url string, body any, headers map[string]string) (httpclient.Response, error) {
	return f.record("PUT", url, body, headers)
}

func (f *fakeTransport) Delete(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	return f.record("DELETE", url, nil, headers)
}

// recordingLog collects messages passed to Add.
type recordingLog struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingLog) Add(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recordingLog) contains(sub string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

type reported struct {
	operation string
	err       error
}

type recordingReporter struct {
	mu      sync.Mutex
	reports []reported
}

func (r *recordingReporter) ReportError(_ context.Context, operation string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, reported{operation: operation, err: err})
}

func newTestService(t *testing.T, transport *fakeTransport, opts ...Option) (*Service, *recordingLog, *recordingReporter) {
	t.Helper()
	log := &recordingLog{}
	rep := &recordingReporter{}
	svc, err := NewService(transport, log, append([]Option{WithReporter(rep)}, opts...)...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, log, rep
}

func TestNewServiceRequiresTransport(t *testing.T) {
	if _, err := NewService(nil, &recordingLog{}); err == nil {
		t.Fatalf("expected error for nil transport")
	}
}

func TestListFetchesHeroes(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"GET api/heroes": {body: `[{"id":1,"name":"A"}]`},
	})
	svc, log, _ := newTestService(t, transport)

	got := svc.List(context.Background())
	want := []domain.Hero{{ID: 1, Name: "A"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List = %#v, want %#v", got, want)
	}
	if len(log.messages) != 1 || log.messages[0] != "HeroService: Fetched heroes" {
		t.Fatalf("messages = %#v", log.messages)
	}
}

func TestListFallsBackToEmptySlice(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"GET api/heroes": {err: errors.New("connection refused")},
	})
	svc, log, rep := newTestService(t, transport)

	got := svc.List(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if !log.contains("HeroService: getHeroes failed: connection refused") {
		t.Fatalf("messages = %#v", log.messages)
	}
	if len(rep.reports) != 1 || rep.reports[0].operation != "getHeroes" {
		t.Fatalf("reports = %#v", rep.reports)
	}
}

func TestListNormalisesNullBody(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"GET api/heroes": {body: `null`},
	})
	svc, _, _ := newTestService(t, transport)

	if got := svc.List(context.Background()); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestGetFallsBackToNil(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"GET api/heroes/5": {err: &httpclient.Error{StatusCode: 404, Message: "404"}},
	})
	svc, log, rep := newTestService(t, transport)

	if got := svc.Get(context.Background(), 5); got != nil {
		t.Fatalf("expected nil hero, got %#v", got)
	}
	if !log.contains("getHero id=5 failed: 404") {
		t.Fatalf("messages = %#v", log.messages)
	}
	if len(rep.reports) != 1 || rep.reports[0].operation != "getHero id=5" {
		t.Fatalf("reports = %#v", rep.reports)
	}
}

func TestGetTreatsErrorStatusAsFailure(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"GET api/heroes/9": {status: 404, body: `{"error":"Hero with id=9 not found"}`},
	})
	svc, log, _ := newTestService(t, transport)

	if got := svc.Get(context.Background(), 9); got != nil {
		t.Fatalf("expected nil hero, got %#v", got)
	}
	if !log.contains("getHero id=9 failed: Http failure response for api/heroes/9: 404 Not Found") {
		t.Fatalf("messages = %#v", log.messages)
	}
}

func TestGetReturnsHero(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"GET api/heroes/12": {body: `{"id":12,"name":"Narco"}`},
	})
	svc, log, _ := newTestService(t, transport)

	got := svc.Get(context.Background(), 12)
	if got == nil || *got != (domain.Hero{ID: 12, Name: "Narco"}) {
		t.Fatalf("Get = %#v", got)
	}
	if !log.contains("HeroService: Fetched hero id=12") {
		t.Fatalf("messages = %#v", log.messages)
	}
}

func TestGetTreatsUndecodableBodyAsFailure(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"GET api/heroes/1": {body: `<html>`},
	})
	svc, log, _ := newTestService(t, transport)

	if got := svc.Get(context.Background(), 1); got != nil {
		t.Fatalf("expected nil hero, got %#v", got)
	}
	if !log.contains("getHero id=1 failed: Http failure during parsing") {
		t.Fatalf("messages = %#v", log.messages)
	}
}

func TestSearchBlankTermSkipsTransport(t *testing.T) {
	transport := newFakeTransport(nil)
	svc, log, _ := newTestService(t, transport)

	for _, term := range []string{"", "   ", "\t\n"} {
		got := svc.Search(context.Background(), term)
		if got == nil || len(got) != 0 {
			t.Fatalf("Search(%q) = %#v", term, got)
		}
	}
	if len(transport.calls) != 0 {
		t.Fatalf("expected no transport calls, got %#v", transport.calls)
	}
	if len(log.messages) != 0 {
		t.Fatalf("expected no messages, got %#v", log.messages)
	}
}

func TestSearchIssuesSingleGet(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"GET api/heroes/?name=abc": {body: `[{"id":3,"name":"abcde"}]`},
	})
	svc, log, _ := newTestService(t, transport)

	got := svc.Search(context.Background(), "abc")
	if len(got) != 1 || got[0].Name != "abcde" {
		t.Fatalf("Search = %#v", got)
	}
	if len(transport.calls) != 1 || transport.calls[0].method != "GET" || transport.calls[0].url != "api/heroes/?name=abc" {
		t.Fatalf("calls = %#v", transport.calls)
	}
	if !log.contains(`HeroService: Found heroes matching "abc"`) {
		t.Fatalf("messages = %#v", log.messages)
	}
}

func TestSearchSendsTermVerbatimByDefault(t *testing.T) {
	transport := newFakeTransport(nil)
	svc, _, _ := newTestService(t, transport)

	svc.Search(context.Background(), "a&b c")
	if got := transport.calls[0].url; got != "api/heroes/?name=a&b c" {
		t.Fatalf("url = %q", got)
	}
}

func TestSearchEncodesTermWhenEnabled(t *testing.T) {
	transport := newFakeTransport(nil)
	svc, _, _ := newTestService(t, transport, WithEncodedSearch(true))

	svc.Search(context.Background(), "a&b c")
	if got := transport.calls[0].url; got != "api/heroes/?name=a%26b+c" {
		t.Fatalf("url = %q", got)
	}
}

func TestSearchFallsBackToEmptySlice(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"GET api/heroes/?name=x": {err: errors.New("timeout")},
	})
	svc, log, _ := newTestService(t, transport)

	if got := svc.Search(context.Background(), "x"); got == nil || len(got) != 0 {
		t.Fatalf("Search = %#v", got)
	}
	if !log.contains("searchHeroes failed: timeout") {
		t.Fatalf("messages = %#v", log.messages)
	}
}

func TestAddPostsHeroOnce(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"POST api/heroes": {status: 201, body: `{"id":21,"name":"Nova"}`},
	})
	svc, log, _ := newTestService(t, transport)

	hero := domain.Hero{Name: "Nova"}
	got := svc.Add(context.Background(), hero)
	if got == nil || got.ID != 21 || got.Name != "Nova" {
		t.Fatalf("Add = %#v", got)
	}
	if len(transport.calls) != 1 {
		t.Fatalf("expected one call, got %d", len(transport.calls))
	}
	c := transport.calls[0]
	if c.method != "POST" || c.url != "api/heroes" {
		t.Fatalf("call = %#v", c)
	}
	if !reflect.DeepEqual(c.body, hero) {
		t.Fatalf("body = %#v", c.body)
	}
	if c.headers["Content-Type"] != "application/json" {
		t.Fatalf("headers = %#v", c.headers)
	}
	if !log.contains("HeroService: Added hero w/ id=21") {
		t.Fatalf("messages = %#v", log.messages)
	}
}

func TestAddPostedBodyOmitsZeroID(t *testing.T) {
	raw, err := json.Marshal(domain.Hero{Name: "Nova"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"name":"Nova"}` {
		t.Fatalf("encoded hero = %s", raw)
	}
}

func TestAddFallsBackToNil(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"POST api/heroes": {err: errors.New("500")},
	})
	svc, log, _ := newTestService(t, transport)

	if got := svc.Add(context.Background(), domain.Hero{Name: "Nova"}); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
	if !log.contains("addHero failed") {
		t.Fatalf("messages = %#v", log.messages)
	}
}

func TestDeleteByHeroOrIDIsEquivalent(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"DELETE api/heroes/13": {status: 204},
	})
	svc, log, _ := newTestService(t, transport)

	hero := domain.Hero{ID: 13, Name: "Bombasto"}
	byHero := svc.Delete(context.Background(), hero)
	byID := svc.Delete(context.Background(), ID(hero.ID))

	if byHero == nil || byID == nil || *byHero != *byID || byHero.ID != 13 {
		t.Fatalf("Delete results differ: %#v vs %#v", byHero, byID)
	}
	if len(transport.calls) != 2 {
		t.Fatalf("expected two calls, got %d", len(transport.calls))
	}
	if !reflect.DeepEqual(transport.calls[0], transport.calls[1]) {
		t.Fatalf("calls differ: %#v vs %#v", transport.calls[0], transport.calls[1])
	}
	if transport.calls[0].method != "DELETE" || transport.calls[0].url != "api/heroes/13" {
		t.Fatalf("call = %#v", transport.calls[0])
	}
	if !log.contains("HeroService: Deleted hero id=13") {
		t.Fatalf("messages = %#v", log.messages)
	}
}

func TestDeleteFallsBackToNil(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"DELETE api/heroes/4": {status: 500},
	})
	svc, log, _ := newTestService(t, transport)

	if got := svc.Delete(context.Background(), ID(4)); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
	if !log.contains("deleteHero failed") {
		t.Fatalf("messages = %#v", log.messages)
	}
}

func TestDeleteNilRefIssuesNoRequest(t *testing.T) {
	transport := newFakeTransport(nil)
	svc, log, _ := newTestService(t, transport)

	if got := svc.Delete(context.Background(), nil); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
	if len(transport.calls) != 0 {
		t.Fatalf("expected no calls, got %#v", transport.calls)
	}
	if !log.contains("deleteHero failed") {
		t.Fatalf("messages = %#v", log.messages)
	}
}

func TestUpdateIsNotDeduplicated(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"PUT api/heroes": {status: 204},
	})
	svc, log, _ := newTestService(t, transport)

	hero := domain.Hero{ID: 15, Name: "Magneta"}
	first := svc.Update(context.Background(), hero)
	second := svc.Update(context.Background(), hero)

	if first == nil || second == nil || *first != hero || *second != hero {
		t.Fatalf("Update results = %#v, %#v", first, second)
	}
	if len(transport.calls) != 2 {
		t.Fatalf("expected two PUTs, got %d", len(transport.calls))
	}
	if !reflect.DeepEqual(transport.calls[0], transport.calls[1]) {
		t.Fatalf("PUTs differ: %#v vs %#v", transport.calls[0], transport.calls[1])
	}
	if transport.calls[0].url != "api/heroes" || transport.calls[0].headers["Content-Type"] != "application/json" {
		t.Fatalf("call = %#v", transport.calls[0])
	}
	if !log.contains("HeroService: Updated hero id=15") {
		t.Fatalf("messages = %#v", log.messages)
	}
}

func TestUpdateFallsBackToNil(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"PUT api/heroes": {err: errors.New("offline")},
	})
	svc, log, rep := newTestService(t, transport)

	if got := svc.Update(context.Background(), domain.Hero{ID: 1, Name: "x"}); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
	if !log.contains("HeroService: updateHero failed: offline") {
		t.Fatalf("messages = %#v", log.messages)
	}
	if len(rep.reports) != 1 || rep.reports[0].err.Error() != "offline" {
		t.Fatalf("reports = %#v", rep.reports)
	}
}

func TestWithPathTrimsSlashes(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"GET v2/heroes/3": {body: `{"id":3,"name":"C"}`},
	})
	svc, _, _ := newTestService(t, transport, WithPath("/v2/heroes/"))

	if got := svc.Get(context.Background(), 3); got == nil {
		t.Fatalf("expected hero from custom path")
	}
	if svc.Path() != "v2/heroes" {
		t.Fatalf("Path = %q", svc.Path())
	}
}

func TestOverlappingCallsAreIndependent(t *testing.T) {
	transport := newFakeTransport(map[string]reply{
		"GET api/heroes/1": {body: `{"id":1,"name":"A"}`},
		"GET api/heroes/2": {body: `{"id":2,"name":"B"}`},
	})
	svc, log, _ := newTestService(t, transport)

	var wg sync.WaitGroup
	results := make([]*domain.Hero, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Get(context.Background(), i+1)
		}(i)
	}
	wg.Wait()

	for i, h := range results {
		if h == nil || h.ID != i+1 {
			t.Fatalf("result %d = %#v", i, h)
		}
	}
	if len(log.messages) != 2 {
		t.Fatalf("expected two messages, got %#v", log.messages)
	}
}
