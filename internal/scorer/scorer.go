// Package scorer matches a query against a piece of text and reports a
// relevance score together with highlight segments.
//
// Matching is case-insensitive and works on runes. Diacritics are kept as-is.
package scorer

import (
	"math"
	"unicode"
)

// Tier identifies which match strategy produced a score.
type Tier int

const (
	TierNone Tier = iota
	TierFuzzy
	TierSubstring
	TierPrefix
)

func (t Tier) String() string {
	switch t {
	case TierPrefix:
		return "prefix"
	case TierSubstring:
		return "substring"
	case TierFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

const (
	PrefixScore = 100

	substringBase     = 70
	substringProximal = 50
	// Substring matches stay strictly below any prefix match.
	substringCeiling = PrefixScore - 1

	fuzzyBase     = 10
	fuzzyCoverage = 30
)

// Segment is a contiguous run of the scored text.
type Segment struct {
	Text    string `json:"text"`
	IsMatch bool   `json:"isMatch"`
}

// Result is the outcome of scoring one text.
type Result struct {
	Score    int       `json:"score"`
	Tier     Tier      `json:"tier"`
	Segments []Segment `json:"segments"`
}

// Matched reports whether the query matched at all.
func (r Result) Matched() bool { return r.Score > 0 }

// Score matches query against text. The first tier that matches wins:
// prefix, then substring, then in-order subsequence.
func Score(query, text string) Result {
	if query == "" || text == "" {
		return noMatch(text)
	}

	orig := []rune(text)
	t := lowerRunes(orig)
	q := lowerRunes([]rune(query))

	if hasPrefix(t, q) {
		return Result{
			Score: PrefixScore,
			Tier:  TierPrefix,
			Segments: compact([]Segment{
				{Text: string(orig[:len(q)]), IsMatch: true},
				{Text: string(orig[len(q):])},
			}),
		}
	}

	if idx := index(t, q); idx >= 0 {
		score := substringBase + max(0, substringProximal-idx)
		if score > substringCeiling {
			score = substringCeiling
		}
		end := idx + len(q)
		return Result{
			Score: score,
			Tier:  TierSubstring,
			Segments: compact([]Segment{
				{Text: string(orig[:idx])},
				{Text: string(orig[idx:end]), IsMatch: true},
				{Text: string(orig[end:])},
			}),
		}
	}

	if mask, ok := subsequence(t, q); ok {
		score := fuzzyBase + int(math.Round(fuzzyCoverage*float64(len(q))/float64(len(t))))
		return Result{
			Score:    score,
			Tier:     TierFuzzy,
			Segments: runs(orig, mask),
		}
	}

	return noMatch(text)
}

func noMatch(text string) Result {
	return Result{Segments: []Segment{{Text: text}}}
}

// subsequence greedily consumes query runes left to right and returns the
// positions in t that were consumed.
func subsequence(t, q []rune) ([]bool, bool) {
	if len(q) > len(t) {
		return nil, false
	}
	mask := make([]bool, len(t))
	qi := 0
	for ti := 0; ti < len(t) && qi < len(q); ti++ {
		if t[ti] == q[qi] {
			mask[ti] = true
			qi++
		}
	}
	return mask, qi == len(q)
}

// runs splits orig into alternating matched and unmatched segments.
func runs(orig []rune, mask []bool) []Segment {
	var out []Segment
	start := 0
	for i := 1; i <= len(orig); i++ {
		if i == len(orig) || mask[i] != mask[start] {
			out = append(out, Segment{Text: string(orig[start:i]), IsMatch: mask[start]})
			start = i
		}
	}
	return out
}

func compact(in []Segment) []Segment {
	out := in[:0]
	for _, s := range in {
		if s.Text != "" {
			out = append(out, s)
		}
	}
	return out
}

func lowerRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func hasPrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}

func index(s, sub []rune) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if hasPrefix(s[i:], sub) {
			return i
		}
	}
	return -1
}
