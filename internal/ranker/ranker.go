// Package ranker merges candidates from several sources into one ranked,
// categorized list.
package ranker

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jask/omnibar/internal/candidate"
	"github.com/jask/omnibar/internal/scorer"
)

// Role says where a source's candidates come from. With an empty query the
// output follows role precedence, not the order sources were passed in.
type Role int

const (
	RoleContextual Role = iota
	RoleRecent
	RoleGlobal
	RoleRemote
)

// Source is one list of candidates of a given role.
type Source struct {
	Role  Role
	Items []candidate.Candidate
}

// Scored is a candidate with its effective score. Segments always join back
// to the candidate label.
type Scored struct {
	Candidate candidate.Candidate
	Score     float64
	Segments  []scorer.Segment
}

// Result is the output of Rank.
type Result struct {
	Query string
	Items []Scored
	// Highlights holds label segments for candidates whose label matched.
	Highlights     map[candidate.Key][]scorer.Segment
	Conversational bool
}

// AssistantID is the id of the synthetic "ask the assistant" command.
const AssistantID = "assistant:ask"

// Ranker holds the ranking policy. The zero value is not usable; call New.
type Ranker struct {
	Weights       candidate.Weights
	CategoryOrder []string
	// Verbs mark a query as conversational when it starts with one of them.
	Verbs []string
	// MinTokens marks a query as conversational from this many words on.
	MinTokens int
	// Ask receives the raw query when the assistant candidate is executed.
	Ask func(query string)
}

// DefaultCategoryOrder is the grouping order; anything else goes to Other.
func DefaultCategoryOrder() []string {
	return []string{
		candidate.CategoryAssistant,
		candidate.CategoryContext,
		candidate.CategoryRecent,
		candidate.CategoryNavigation,
		candidate.CategoryActions,
		candidate.CategoryListings,
		candidate.CategoryLeads,
		candidate.CategoryContacts,
		candidate.CategoryHelp,
	}
}

// DefaultVerbs lists French and English action verbs.
func DefaultVerbs() []string {
	return []string{
		"trouve", "cherche", "montre", "affiche", "liste",
		"crée", "créer", "cree", "creer", "ajoute",
		"envoie", "contacte", "appelle", "marque", "change",
		"find", "search", "show", "create", "add", "send", "open", "go",
	}
}

func New() *Ranker {
	return &Ranker{
		Weights:       candidate.DefaultWeights(),
		CategoryOrder: DefaultCategoryOrder(),
		Verbs:         DefaultVerbs(),
		MinTokens:     3,
	}
}

// Rank scores every candidate against query and returns them best first.
// Ties keep input order. An empty query returns contextual, recent and
// global candidates in that order, unscored.
func (r *Ranker) Rank(query string, sources ...Source) Result {
	q := strings.TrimSpace(query)
	res := Result{Query: q, Highlights: map[candidate.Key][]scorer.Segment{}}
	if q == "" {
		res.Items = r.unscored(sources)
		return res
	}

	var items []Scored
	for _, src := range sources {
		for _, c := range src.Items {
			score := r.effectiveScore(q, c)
			if score <= 0 {
				continue
			}
			label := scorer.Score(q, c.Text())
			if label.Matched() {
				res.Highlights[c.Key()] = label.Segments
			}
			items = append(items, Scored{Candidate: c, Score: score, Segments: label.Segments})
		}
	}
	slices.SortStableFunc(items, func(a, b Scored) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	res.Conversational = r.IsConversational(q)
	if res.Conversational || len(items) == 0 {
		items = append([]Scored{r.assistant(q, items)}, items...)
	}
	res.Items = items
	return res
}

// effectiveScore is the best weighted field score. Remote hits keep the score
// the backend gave them.
func (r *Ranker) effectiveScore(q string, c candidate.Candidate) float64 {
	if hit, ok := c.(candidate.RemoteHit); ok {
		return hit.Score
	}
	best := 0.0
	for _, f := range r.Weights.Fields(c) {
		if s := float64(scorer.Score(q, f.Text).Score) * f.Weight; s > best {
			best = s
		}
	}
	return best
}

func (r *Ranker) unscored(sources []Source) []Scored {
	ordered := slices.Clone(sources)
	slices.SortStableFunc(ordered, func(a, b Source) int { return int(a.Role) - int(b.Role) })
	var out []Scored
	for _, src := range ordered {
		if src.Role == RoleRemote {
			continue
		}
		for _, c := range src.Items {
			out = append(out, Scored{Candidate: c, Segments: []scorer.Segment{{Text: c.Text()}}})
		}
	}
	return out
}

func (r *Ranker) assistant(q string, ranked []Scored) Scored {
	top := 0.0
	if len(ranked) > 0 {
		top = ranked[0].Score
	}
	ask := r.Ask
	cmd := candidate.Command{
		ID:          AssistantID,
		Label:       candidate.Static("Demander à l'assistant : " + q),
		Description: candidate.Static("Interpréter la demande en langage naturel"),
		Icon:        candidate.Static("smart_toy"),
		Category:    candidate.CategoryAssistant,
		Action: candidate.ActionFunc(func() {
			if ask != nil {
				ask(q)
			}
		}),
	}
	return Scored{Candidate: cmd, Score: top + 1, Segments: []scorer.Segment{{Text: cmd.Text()}}}
}

// IsConversational reports whether q reads like a sentence rather than a
// command name.
func (r *Ranker) IsConversational(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return false
	}
	if r.MinTokens > 0 && len(strings.Fields(q)) >= r.MinTokens {
		return true
	}
	for _, verb := range r.Verbs {
		if startsWithWord(q, strings.ToLower(verb)) {
			return true
		}
	}
	return false
}

// startsWithWord reports whether s begins with word followed by a non-word
// rune or the end of s.
func startsWithWord(s, word string) bool {
	if word == "" || !strings.HasPrefix(s, word) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(s[len(word):])
	return next == utf8.RuneError || !(unicode.IsLetter(next) || unicode.IsDigit(next))
}
