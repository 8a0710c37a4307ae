// Package llm provides the remote intent classifiers consulted when the local
// parser is not confident enough.
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jask/omnibar/internal/intent"
)

var (
	ErrNoAPIKey        = errors.New("llm: api key not configured")
	ErrUnknownProvider = errors.New("llm: unknown provider")
)

// Provider names accepted by New.
const (
	ProviderNone    = "none"
	ProviderOpenAI  = "openai"
	ProviderBackend = "backend"
)

// Settings selects and configures a classifier.
type Settings struct {
	Provider string
	BaseURL  string
	Model    string
	APIKey   string
}

// New builds the classifier named by s.Provider. The "none" provider (and an
// empty name) returns a nil classifier so the agent stays local.
func New(s Settings) (intent.Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case "", ProviderNone:
		return nil, nil
	case ProviderOpenAI:
		c, err := NewChatClassifier(s.BaseURL, s.Model, s.APIKey)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderBackend:
		if strings.TrimSpace(s.BaseURL) == "" {
			return nil, fmt.Errorf("backend classifier: base url required")
		}
		return NewBackendClassifier(s.BaseURL), nil
	default:
		return nil, fmt.Errorf("%q: %w", s.Provider, ErrUnknownProvider)
	}
}

// wireIntent is the JSON shape both remotes answer with. Params values may
// come back as numbers.
type wireIntent struct {
	Type        string         `json:"type"`
	Confidence  float64        `json:"confidence"`
	Query       string         `json:"query"`
	Params      map[string]any `json:"params"`
	Description string         `json:"description"`
}

func (w wireIntent) toIntent() *intent.Intent {
	in := &intent.Intent{
		Type:        intent.Type(strings.ToUpper(strings.TrimSpace(w.Type))),
		Confidence:  clamp01(w.Confidence),
		RawQuery:    w.Query,
		Description: w.Description,
		Entities:    make(map[string]string, len(w.Params)),
	}
	for k, v := range w.Params {
		switch t := v.(type) {
		case nil:
		case string:
			if t != "" {
				in.Entities[k] = t
			}
		case float64:
			in.Entities[k] = fmt.Sprintf("%.0f", t)
		default:
			in.Entities[k] = fmt.Sprint(t)
		}
	}
	return in
}

// decodeJSON unmarshals a model reply, tolerating markdown code fences.
func decodeJSON(s string, v any) error {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("empty reply")
	}
	return json.Unmarshal([]byte(s), v)
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(1, f))
}
