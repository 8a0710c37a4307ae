// Package history keeps the palette's recent searches and recently visited
// items on top of the persistence capability.
package history

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	// SearchesKey is the persistence key for recent searches.
	SearchesKey = "globalSearchRecent"

	DefaultMaxSearches = 5
	DefaultMaxItems    = 10

	minSearchLength = 2
)

// KV is the synchronous best-effort key-value access the history needs.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Search is one remembered query. Timestamp is in Unix milliseconds.
type Search struct {
	Query     string `json:"query"`
	Timestamp int64  `json:"timestamp"`
}

// Searches is the recent-search list, newest first.
type Searches struct {
	Max int
	Now func() time.Time

	mu    sync.Mutex
	kv    KV
	items []Search
	log   *slog.Logger
}

// NewSearches loads the list from kv. Corrupt data starts an empty list.
func NewSearches(kv KV, max int) *Searches {
	if max <= 0 {
		max = DefaultMaxSearches
	}
	s := &Searches{Max: max, Now: time.Now, kv: kv, log: slog.Default().With("component", "history")}
	if kv == nil {
		return s
	}
	raw, ok := kv.Get(SearchesKey)
	if !ok || raw == "" {
		return s
	}
	if err := json.Unmarshal([]byte(raw), &s.items); err != nil {
		s.log.Warn("recent searches unreadable", "err", err)
		s.items = nil
	}
	if len(s.items) > s.Max {
		s.items = s.items[:s.Max]
	}
	return s
}

// Add remembers q at the front. Queries shorter than two runes are ignored
// and an existing entry for the same query moves to the front.
func (s *Searches) Add(q string) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < minSearchLength {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Search, 0, len(s.items)+1)
	out = append(out, Search{Query: q, Timestamp: s.Now().UnixMilli()})
	for _, it := range s.items {
		if it.Query != q {
			out = append(out, it)
		}
	}
	if len(out) > s.Max {
		out = out[:s.Max]
	}
	s.items = out
	s.saveLocked()
}

// Remove drops q and reports whether it was present.
func (s *Searches) Remove(q string) bool {
	q = strings.TrimSpace(q)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.Query == q {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			s.saveLocked()
			return true
		}
	}
	return false
}

func (s *Searches) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.saveLocked()
}

// List returns a copy of the searches, newest first.
func (s *Searches) List() []Search {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Search(nil), s.items...)
}

func (s *Searches) saveLocked() {
	if s.kv == nil {
		return
	}
	items := s.items
	if items == nil {
		items = []Search{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		s.log.Warn("encode recent searches", "err", err)
		return
	}
	s.kv.Set(SearchesKey, string(b))
}
