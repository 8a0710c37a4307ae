package ranker

import "github.com/jask/omnibar/internal/candidate"

// Group is a run of ranked items sharing a category.
type Group struct {
	Category string
	Items    []Scored
}

// Group buckets items by category following r.CategoryOrder. Categories not
// in the order land in a trailing Other group. Empty groups are omitted and
// items keep their ranked order inside each group.
func (r *Ranker) Group(items []Scored) []Group {
	known := make(map[string]bool, len(r.CategoryOrder))
	for _, c := range r.CategoryOrder {
		known[c] = true
	}
	buckets := make(map[string][]Scored)
	for _, it := range items {
		cat := it.Candidate.Group()
		if !known[cat] {
			cat = candidate.CategoryOther
		}
		buckets[cat] = append(buckets[cat], it)
	}

	out := make([]Group, 0, len(buckets))
	for _, cat := range r.CategoryOrder {
		if cat == candidate.CategoryOther {
			continue
		}
		if len(buckets[cat]) > 0 {
			out = append(out, Group{Category: cat, Items: buckets[cat]})
		}
	}
	if other := buckets[candidate.CategoryOther]; len(other) > 0 {
		out = append(out, Group{Category: candidate.CategoryOther, Items: other})
	}
	return out
}

// Flatten returns grouped items in display order.
func Flatten(groups []Group) []Scored {
	var out []Scored
	for _, g := range groups {
		out = append(out, g.Items...)
	}
	return out
}
