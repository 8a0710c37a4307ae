// Package intent classifies free-text requests into typed intents with
// extracted entities, and dispatches them to navigation and conversation
// collaborators.
package intent

import (
	"errors"
	"net/url"

	"github.com/jask/omnibar/internal/candidate"
)

// Type is the classified purpose of a query.
type Type string

const (
	Search       Type = "SEARCH"
	Create       Type = "CREATE"
	StatusChange Type = "STATUS_CHANGE"
	SendMessage  Type = "SEND_MESSAGE"
	Navigate     Type = "NAVIGATE"
	Unknown      Type = "UNKNOWN"
)

// Valid reports whether t is one of the known intent types.
func (t Type) Valid() bool {
	switch t {
	case Search, Create, StatusChange, SendMessage, Navigate, Unknown:
		return true
	}
	return false
}

// Entity keys.
const (
	EntityPropertyType = "propertyType"
	EntityCity         = "city"
	EntityBudget       = "budget"
	EntityPersonName   = "personName"
	EntityStatus       = "status"
)

// ErrAlreadyDispatched is returned when an intent is dispatched twice.
var ErrAlreadyDispatched = errors.New("intent already dispatched")

// Intent is one classified query. ID identifies a produced intent for the
// dispatch-once rule.
type Intent struct {
	ID          string            `json:"id"`
	Type        Type              `json:"type"`
	Confidence  float64           `json:"confidence"`
	RawQuery    string            `json:"query"`
	Entities    map[string]string `json:"params"`
	Description string            `json:"description"`
	Suggestions []Suggestion      `json:"suggestedActions,omitempty"`
}

// Suggestion is a follow-up chip offered with an intent.
type Suggestion struct {
	Label  string           `json:"label"`
	Icon   string           `json:"icon"`
	Action candidate.Action `json:"-"`
}

// Navigator is the navigation capability. It is fire-and-forget.
type Navigator interface {
	Navigate(path string, params url.Values)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string, params url.Values)

func (f NavigatorFunc) Navigate(path string, params url.Values) { f(path, params) }

type nopNavigator struct{}

func (nopNavigator) Navigate(string, url.Values) {}
