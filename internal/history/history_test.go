package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/omnibar/internal/candidate"
	"github.com/jask/omnibar/internal/store"
)

func steppingClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}

func queries(list []Search) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Query
	}
	return out
}

func TestSearchesDedupeCapAndMinLength(t *testing.T) {
	kv := store.NewMemory()
	s := NewSearches(kv, 0)
	s.Now = steppingClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	s.Add("a")
	s.Add("  ")
	for _, q := range []string{"villa", "rabat", "t3", "dossier", "karim", "villa ", "fès"} {
		s.Add(q)
	}
	assert.Equal(t, []string{"fès", "villa", "karim", "dossier", "t3"}, queries(s.List()))

	assert.True(t, s.Remove("karim"))
	assert.False(t, s.Remove("karim"))
	assert.Equal(t, []string{"fès", "villa", "dossier", "t3"}, queries(s.List()))
}

func TestSearchesPersist(t *testing.T) {
	kv := store.NewMemory()
	s := NewSearches(kv, 3)
	s.Add("villa")
	s.Add("rabat")

	reloaded := NewSearches(kv, 3)
	assert.Equal(t, []string{"rabat", "villa"}, queries(reloaded.List()))

	reloaded.Clear()
	raw, ok := kv.Get(SearchesKey)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestSearchesCorruptDataStartsEmpty(t *testing.T) {
	kv := store.NewMemory()
	kv.Set(SearchesKey, "{not json")
	s := NewSearches(kv, 0)
	assert.Empty(t, s.List())
	s.Add("villa")
	assert.Equal(t, []string{"villa"}, queries(s.List()))
}

func TestItemsVisitDedupesAndCaps(t *testing.T) {
	ctx := context.Background()
	h := NewItems(store.NewMemory(), 3)
	h.Now = steppingClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	for _, id := range []string{"1", "2", "3", "1", "4"} {
		require.NoError(t, h.Visit(ctx, candidate.RecentItem{ID: id, Type: candidate.HitLead, Title: "Dossier " + id}))
	}
	got := h.List(ctx)
	require.Len(t, got, 3)
	assert.Equal(t, "4", got[0].ID)
	assert.Equal(t, "1", got[1].ID)
	assert.Equal(t, "3", got[2].ID)
	assert.False(t, got[0].LastVisitedAt.IsZero())

	cands := h.Candidates(ctx)
	require.Len(t, cands, 3)
	assert.Equal(t, candidate.CategoryRecent, cands[0].Group())

	require.NoError(t, h.Remove(ctx, candidate.HitLead, "1"))
	assert.Len(t, h.List(ctx), 2)
	require.NoError(t, h.Clear(ctx))
	assert.Empty(t, h.List(ctx))
}

func TestItemsRejectsIncompleteItem(t *testing.T) {
	h := NewItems(store.NewMemory(), 0)
	assert.Error(t, h.Visit(context.Background(), candidate.RecentItem{Title: "x"}))
}

func TestVisitHitUsesDetailRoute(t *testing.T) {
	ctx := context.Background()
	h := NewItems(store.NewMemory(), 0)
	require.NoError(t, h.VisitHit(ctx, candidate.RemoteHit{ID: "42", Type: candidate.HitListing, Title: "Villa Anfa", Description: "Casablanca"}))

	got := h.List(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "/annonces/42", got[0].Route)
	assert.Equal(t, "Casablanca", got[0].Subtitle)
}
