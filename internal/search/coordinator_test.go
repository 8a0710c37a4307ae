package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/omnibar/internal/candidate"
)

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && t.at <= c.now {
			t.stopped = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

// gatedSearcher blocks each query until its gate is released.
type gatedSearcher struct {
	mu    sync.Mutex
	calls []string
	gates map[string]chan struct{}
	err   error
}

func newGatedSearcher() *gatedSearcher {
	return &gatedSearcher{gates: map[string]chan struct{}{}}
}

func (s *gatedSearcher) gate(q string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[q]
	if !ok {
		g = make(chan struct{})
		s.gates[q] = g
	}
	return g
}

func (s *gatedSearcher) open(q string) { close(s.gate(q)) }

func (s *gatedSearcher) Search(ctx context.Context, q string) (Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, q)
	s.mu.Unlock()
	select {
	case <-s.gate(q):
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return Response{}, err
	}
	return Response{
		Results:          []candidate.RemoteHit{{ID: q, Type: candidate.HitLead, Title: q, Score: 1}},
		TotalHits:        1,
		BackendAvailable: true,
	}, nil
}

func (s *gatedSearcher) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func TestDebounceIssuesOnlyLastQuery(t *testing.T) {
	s := newGatedSearcher()
	s.open("dos")
	clock := &fakeClock{}
	c, err := NewCoordinator(s, WithClock(clock))
	require.NoError(t, err)
	defer c.Close()

	c.SetQuery("d")
	clock.Advance(100 * time.Millisecond)
	c.SetQuery("do")
	clock.Advance(100 * time.Millisecond)
	c.SetQuery("dos")
	clock.Advance(299 * time.Millisecond)
	assert.Empty(t, s.Calls())

	clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool { return !c.State().Searching && c.State().Query == "dos" }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"dos"}, s.Calls())
	assert.Len(t, c.State().Response.Results, 1)
}

func TestStaleResponseDiscarded(t *testing.T) {
	s := newGatedSearcher()
	c, err := NewCoordinator(s, WithPoolSize(2))
	require.NoError(t, err)
	defer c.Close()

	c.Issue("dos")
	require.Eventually(t, func() bool { return len(s.Calls()) == 1 }, time.Second, time.Millisecond)
	c.Issue("dossier")
	require.Eventually(t, func() bool { return len(s.Calls()) == 2 }, time.Second, time.Millisecond)

	s.open("dossier")
	require.Eventually(t, func() bool { return !c.State().Searching }, time.Second, time.Millisecond)
	assert.Equal(t, "dossier", c.State().Query)

	s.open("dos")
	time.Sleep(20 * time.Millisecond)
	st := c.State()
	assert.Equal(t, "dossier", st.Query)
	require.Len(t, st.Response.Results, 1)
	assert.Equal(t, "dossier", st.Response.Results[0].ID)
}

func TestZeroDebounceIssuesInCallOrder(t *testing.T) {
	s := newGatedSearcher()
	c, err := NewCoordinator(s, WithDebounce(0), WithPoolSize(2))
	require.NoError(t, err)
	defer c.Close()

	c.SetQuery("dos")
	c.SetQuery("dossier")
	st := c.State()
	assert.Equal(t, "dossier", st.Query)
	assert.Equal(t, uint64(2), st.Generation)

	s.open("dossier")
	s.open("dos")
	require.Eventually(t, func() bool { return !c.State().Searching }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	st = c.State()
	assert.Equal(t, "dossier", st.Query)
	require.Len(t, st.Response.Results, 1)
	assert.Equal(t, "dossier", st.Response.Results[0].ID)
}

func TestSearchingStaysWhileNewestInFlight(t *testing.T) {
	s := newGatedSearcher()
	c, err := NewCoordinator(s, WithPoolSize(2))
	require.NoError(t, err)
	defer c.Close()

	c.Issue("dos")
	c.Issue("doss")
	s.open("dos")
	time.Sleep(20 * time.Millisecond)
	assert.True(t, c.State().Searching, "old response must not clear the indicator")
	s.open("doss")
	require.Eventually(t, func() bool { return !c.State().Searching }, time.Second, time.Millisecond)
}

func TestShortQueryResolvesEmptyWithoutRemote(t *testing.T) {
	s := newGatedSearcher()
	var updates []State
	var mu sync.Mutex
	c, err := NewCoordinator(s, WithOnUpdate(func(st State) {
		mu.Lock()
		updates = append(updates, st)
		mu.Unlock()
	}))
	require.NoError(t, err)
	defer c.Close()

	c.Issue(" d ")
	assert.Empty(t, s.Calls())
	st := c.State()
	assert.False(t, st.Searching)
	assert.Empty(t, st.Response.Results)
	mu.Lock()
	assert.Len(t, updates, 1)
	mu.Unlock()
}

func TestDistinctUntilChanged(t *testing.T) {
	s := newGatedSearcher()
	s.open("villa")
	c, err := NewCoordinator(s)
	require.NoError(t, err)
	defer c.Close()

	c.Issue("villa")
	require.Eventually(t, func() bool { return !c.State().Searching }, time.Second, time.Millisecond)
	c.Issue("villa ")
	c.Issue("villa")
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, []string{"villa"}, s.Calls())
}

func TestRemoteFailureSetsErrorAndClearsResults(t *testing.T) {
	s := newGatedSearcher()
	s.err = errors.New("backend down")
	s.open("villa")
	s.open("rabat")
	c, err := NewCoordinator(SearcherFunc(s.Search))
	require.NoError(t, err)
	defer c.Close()

	c.Issue("villa")
	require.Eventually(t, func() bool { return c.State().Err != "" }, time.Second, time.Millisecond)
	st := c.State()
	assert.False(t, st.Searching)
	assert.Empty(t, st.Response.Results)

	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
	c.Issue("rabat")
	require.Eventually(t, func() bool { return !c.State().Searching && c.State().Query == "rabat" }, time.Second, time.Millisecond)
	assert.Empty(t, c.State().Err)
}

func TestNewCoordinatorRequiresSearcher(t *testing.T) {
	_, err := NewCoordinator(nil)
	assert.ErrorIs(t, err, ErrSearcherRequired)
}

func TestHTTPSearcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, autocompletePath, r.URL.Path)
		assert.Equal(t, "villa anfa", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"id": "12", "type": "annonce", "title": "Villa Anfa", "description": "Casablanca", "relevanceScore": 8.5},
			},
			"totalHits":              1,
			"elasticsearchAvailable": true,
		})
	}))
	defer srv.Close()

	resp, err := NewHTTPSearcher(srv.URL + "/").Search(context.Background(), "villa anfa")
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Villa Anfa", resp.Results[0].Title)
	assert.Equal(t, 8.5, resp.Results[0].Score)
	assert.True(t, resp.BackendAvailable)
	assert.Equal(t, candidate.CategoryListings, resp.Results[0].Group())
}

func TestHTTPSearcherStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPSearcher(srv.URL).Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
