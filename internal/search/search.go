// Package search coordinates debounced remote search requests and keeps
// only the newest response.
package search

import (
	"context"

	"github.com/jask/omnibar/internal/candidate"
)

// Response is one remote search result page.
type Response struct {
	Results          []candidate.RemoteHit `json:"results"`
	TotalHits        int                   `json:"totalHits"`
	BackendAvailable bool                  `json:"elasticsearchAvailable"`
}

// Searcher is the remote search capability.
type Searcher interface {
	Search(ctx context.Context, query string) (Response, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, query string) (Response, error)

func (f SearcherFunc) Search(ctx context.Context, query string) (Response, error) {
	return f(ctx, query)
}

// State is what the host renders. Err is a user-facing message, empty when
// the last request succeeded.
type State struct {
	Query      string
	Response   Response
	Searching  bool
	Err        string
	Generation uint64
}
