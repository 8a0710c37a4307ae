package engine

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jask/omnibar/internal/candidate"
	"github.com/jask/omnibar/internal/catalog"
	"github.com/jask/omnibar/internal/intent"
	"github.com/jask/omnibar/internal/ranker"
	"github.com/jask/omnibar/internal/scorer"
	"github.com/jask/omnibar/internal/search"
)

// Item is the serializable form of a ranked candidate.
type Item struct {
	Kind        string           `json:"kind"`
	ID          string           `json:"id"`
	Label       string           `json:"label"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category"`
	Score       float64          `json:"score"`
	Segments    []scorer.Segment `json:"segments,omitempty"`
	Hint        string           `json:"hint,omitempty"`
	Route       string           `json:"route,omitempty"`
}

// Items converts ranked candidates for JSON output.
func Items(scored []ranker.Scored) []Item {
	out := make([]Item, 0, len(scored))
	for _, s := range scored {
		it := Item{
			Kind:     s.Candidate.Kind().String(),
			ID:       s.Candidate.Key().ID,
			Label:    s.Candidate.Text(),
			Category: s.Candidate.Group(),
			Score:    s.Score,
			Segments: s.Segments,
		}
		switch v := s.Candidate.(type) {
		case candidate.Command:
			it.Description = v.Description.String()
			it.Hint = v.ShortcutHint
		case candidate.RemoteHit:
			it.Description = v.Description
			it.Route = candidate.HitRoute(v)
		case candidate.RecentItem:
			it.Description = v.Subtitle
			it.Route = v.Route
		}
		out = append(out, it)
	}
	return out
}

// Lookup ranks query as if the palette were open on route, without touching
// the session. Remote search runs synchronously when a searcher is set; a
// failed search leaves only the local candidates.
func (e *Engine) Lookup(ctx context.Context, route, query string) ranker.Result {
	e.mu.Lock()
	commands := e.commands
	e.mu.Unlock()

	sources := []ranker.Source{
		{Role: ranker.RoleContextual, Items: catalog.AsCandidates(catalog.Contextual(route, e.hooks))},
		{Role: ranker.RoleRecent, Items: e.Recents.Candidates(ctx)},
		{Role: ranker.RoleGlobal, Items: catalog.AsCandidates(commands)},
	}
	q := strings.TrimSpace(query)
	if e.deps.Searcher != nil && utf8.RuneCountInString(q) >= e.minQuery() {
		if items, ok := e.searchNow(ctx, q); ok {
			sources = append(sources, ranker.Source{Role: ranker.RoleRemote, Items: items})
		}
	}
	res := e.Ranker.Rank(query, sources...)
	res.Items = ranker.Flatten(e.Ranker.Group(res.Items))
	return res
}

func (e *Engine) searchNow(ctx context.Context, q string) ([]candidate.Candidate, bool) {
	ctx, cancel := context.WithTimeout(ctx, e.searchTimeout())
	defer cancel()
	resp, err := e.deps.Searcher.Search(ctx, q)
	if err != nil {
		e.log.Warn("remote search failed", "query", q, "err", err)
		return nil, false
	}
	items := make([]candidate.Candidate, len(resp.Results))
	for i, h := range resp.Results {
		items[i] = h
	}
	return items, true
}

// Classify runs the intent pipeline on text without dispatching it.
func (e *Engine) Classify(ctx context.Context, text string) intent.Intent {
	return e.Agent.Classify(ctx, text)
}

func (e *Engine) minQuery() int {
	if e.settings.MinQueryLength > 0 {
		return e.settings.MinQueryLength
	}
	return search.DefaultMinQueryLength
}

func (e *Engine) searchTimeout() time.Duration {
	if e.settings.SearchTimeout > 0 {
		return e.settings.SearchTimeout
	}
	return search.DefaultTimeout
}
