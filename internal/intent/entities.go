package intent

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

var (
	// A number token starting a word: "2M", "500 000", "1.5".
	budgetPattern  = regexp.MustCompile(`(?:^|\s)(\d[\d,.]*(?:\s\d{3}\b)*)`)
	millionPattern = regexp.MustCompile(`(?i)\d+m\b`)
	namePattern    = regexp.MustCompile(`(?:^|\s)(?:pour|de|à|monsieur|madame|mr|mme|M\.)\s+([A-ZÀ-Ü][a-zà-ü]+(?:\s+[A-ZÀ-Ü][a-zà-ü]+)?)`)
	searchVerbs    = regexp.MustCompile(`(?i)(?:trouve|cherche|montre|affiche|liste)\s+(.+)`)
)

const (
	minBudget       = 1000
	fuzzyCityMinLen = 5
)

// extract runs every extractor. q is the folded query, raw the original.
func (p *Parser) extract(q, raw string) map[string]string {
	out := map[string]string{}
	if v := propertyType(q); v != "" {
		out[EntityPropertyType] = v
	}
	if v := city(q); v != "" {
		out[EntityCity] = v
	}
	if v := budget(raw); v != "" {
		out[EntityBudget] = v
	}
	if v := personName(raw); v != "" {
		out[EntityPersonName] = v
	}
	for _, s := range p.statuses {
		if strings.Contains(q, s.word) {
			out[EntityStatus] = s.code
			break
		}
	}
	return out
}

func propertyType(q string) string {
	for _, t := range propertyTypes {
		if strings.Contains(q, t) {
			return strings.ToUpper(t)
		}
	}
	return ""
}

// city matches the keyword list, then falls back to a one-edit typo match
// on longer words.
func city(q string) string {
	for _, c := range cities {
		if strings.Contains(q, c) {
			return capitalize(c)
		}
	}
	words := strings.FieldsFunc(q, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, w := range words {
		if utf8.RuneCountInString(w) < fuzzyCityMinLen {
			continue
		}
		for _, c := range cities {
			if levenshtein.ComputeDistance(w, c) <= 1 {
				return capitalize(c)
			}
		}
	}
	return ""
}

func isCity(name string) bool {
	n := fold(name)
	for _, c := range cities {
		if n == c {
			return true
		}
	}
	return false
}

func budget(raw string) string {
	m := budgetPattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	digits := strings.NewReplacer(",", "", " ", "").Replace(m[1])
	digits = strings.TrimRight(digits, ".")
	val, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return ""
	}
	if strings.Contains(strings.ToLower(raw), "million") || millionPattern.MatchString(raw) {
		val *= 1_000_000
	}
	if val <= minBudget {
		return ""
	}
	return strconv.FormatInt(int64(math.Round(val)), 10)
}

// personName takes the first capitalized name after a lead-in word that is
// not a city.
func personName(raw string) string {
	for _, m := range namePattern.FindAllStringSubmatch(raw, -1) {
		name := m[1]
		if first, _, _ := strings.Cut(name, " "); isCity(first) || isCity(name) {
			continue
		}
		return name
	}
	return ""
}

// SearchTerms returns the text following a leading search verb, or "".
func SearchTerms(raw string) string {
	m := searchVerbs.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
