package history

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jask/omnibar/internal/candidate"
)

// Log is the recent-item persistence the Items tracker writes through.
type Log interface {
	Visit(ctx context.Context, it candidate.RecentItem, keep int) error
	Recent(ctx context.Context, limit int) ([]candidate.RecentItem, error)
	DeleteRecent(ctx context.Context, kind, id string) error
	ClearRecent(ctx context.Context) error
}

// Items tracks recently visited entities, newest first, deduplicated by kind
// and id.
type Items struct {
	Max int
	Now func() time.Time

	store Log
	log   *slog.Logger
}

func NewItems(store Log, max int) *Items {
	if max <= 0 {
		max = DefaultMaxItems
	}
	return &Items{Max: max, Now: time.Now, store: store, log: slog.Default().With("component", "history")}
}

// Visit records it as the most recent item. A zero LastVisitedAt is stamped
// with the current time.
func (h *Items) Visit(ctx context.Context, it candidate.RecentItem) error {
	if strings.TrimSpace(it.ID) == "" || strings.TrimSpace(it.Type) == "" {
		return fmt.Errorf("recent item needs kind and id")
	}
	if it.LastVisitedAt.IsZero() {
		it.LastVisitedAt = h.Now()
	}
	if err := h.store.Visit(ctx, it, h.Max); err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// VisitHit records a remote hit that was opened from the palette.
func (h *Items) VisitHit(ctx context.Context, hit candidate.RemoteHit) error {
	return h.Visit(ctx, FromHit(hit))
}

// List returns the tracked items. A read failure is logged and reads as empty.
func (h *Items) List(ctx context.Context) []candidate.RecentItem {
	items, err := h.store.Recent(ctx, h.Max)
	if err != nil {
		h.log.Warn("recent items unreadable", "err", err)
		return nil
	}
	return items
}

// Candidates returns the tracked items as palette candidates.
func (h *Items) Candidates(ctx context.Context) []candidate.Candidate {
	items := h.List(ctx)
	out := make([]candidate.Candidate, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func (h *Items) Remove(ctx context.Context, kind, id string) error {
	return h.store.DeleteRecent(ctx, kind, id)
}

func (h *Items) Clear(ctx context.Context) error {
	return h.store.ClearRecent(ctx)
}

// FromHit converts a remote hit to the recent item it becomes once visited.
func FromHit(hit candidate.RemoteHit) candidate.RecentItem {
	return candidate.RecentItem{
		ID:       hit.ID,
		Type:     hit.Type,
		Title:    hit.Title,
		Subtitle: hit.Description,
		Route:    candidate.HitRoute(hit),
	}
}
