package intent

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

const unknownConfidence = 0.2

// Parser classifies queries with the local pattern table.
type Parser struct {
	nav      Navigator
	patterns []pattern
	statuses []statusWord
	targets  []navTarget
}

// NewParser folds the keyword tables once. A nil nav makes suggested
// actions no-ops.
func NewParser(nav Navigator) *Parser {
	if nav == nil {
		nav = nopNavigator{}
	}
	p := &Parser{nav: nav}
	for _, pt := range intentPatterns {
		p.patterns = append(p.patterns, pattern{typ: pt.typ, verbs: foldAll(pt.verbs), weight: pt.weight})
	}
	for _, s := range statusWords {
		p.statuses = append(p.statuses, statusWord{word: fold(s.word), code: s.code})
	}
	for _, t := range navTargets {
		p.targets = append(p.targets, navTarget{keywords: foldAll(t.keywords), path: t.path, label: t.label})
	}
	return p
}

// Parse never fails; the worst case is an UNKNOWN intent.
func (p *Parser) Parse(query string) Intent {
	raw := strings.TrimSpace(query)
	q := fold(raw)

	typ, best := p.classify(q)
	entities := p.extract(q, raw)
	return Intent{
		ID:          uuid.NewString(),
		Type:        typ,
		Confidence:  confidence(typ, best),
		RawQuery:    raw,
		Entities:    entities,
		Description: p.describe(typ, entities, raw),
		Suggestions: p.suggest(typ),
	}
}

// classify returns the best scoring type. A verb scores its group weight,
// plus 2 when the query starts with it. Strictly greater wins, so earlier
// groups keep ties.
func (p *Parser) classify(q string) (Type, int) {
	typ, best := Unknown, 0
	if q == "" {
		return typ, best
	}
	for _, pt := range p.patterns {
		for _, verb := range pt.verbs {
			if !strings.Contains(q, verb) {
				continue
			}
			score := pt.weight
			if strings.HasPrefix(q, verb) {
				score += 2
			}
			if score > best {
				typ, best = pt.typ, score
			}
		}
	}
	return typ, best
}

func confidence(typ Type, best int) float64 {
	if typ == Unknown || best <= 0 {
		return unknownConfidence
	}
	return math.Min(float64(5+best)/10, 1)
}

// Complete fills what a remote classifier may leave out. Suggestions are
// always rebuilt locally since actions do not travel over the wire. Unknown
// types become UNKNOWN and confidence is clamped to [0,1].
func (p *Parser) Complete(in Intent, query string) Intent {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.RawQuery == "" {
		in.RawQuery = strings.TrimSpace(query)
	}
	if !in.Type.Valid() {
		in.Type = Unknown
	}
	in.Confidence = math.Max(0, math.Min(in.Confidence, 1))
	if in.Entities == nil {
		in.Entities = map[string]string{}
	}
	if in.Description == "" {
		in.Description = p.describe(in.Type, in.Entities, in.RawQuery)
	}
	in.Suggestions = p.suggest(in.Type)
	return in
}
