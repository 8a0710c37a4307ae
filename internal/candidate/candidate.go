// Package candidate defines the items the palette can rank and execute.
//
// A Candidate is a closed sum type: Command, RemoteHit and RecentItem are the
// only implementations. Consumers switch on Kind (or on the concrete type)
// and key items on Key, since ids are only unique within their own source.
package candidate

import (
	"strings"
	"time"
)

// Kind is the discriminant of the Candidate sum type.
type Kind int

const (
	KindCommand Kind = iota + 1
	KindRemoteHit
	KindRecentItem
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindRemoteHit:
		return "remote"
	case KindRecentItem:
		return "recent"
	default:
		return "unknown"
	}
}

// Key identifies a candidate across sources.
type Key struct {
	Kind Kind
	ID   string
}

func (k Key) String() string { return k.Kind.String() + ":" + k.ID }

// Category names used for grouping.
const (
	CategoryAssistant  = "Assistant"
	CategoryContext    = "Context"
	CategoryRecent     = "Recent"
	CategoryNavigation = "Navigation"
	CategoryActions    = "Actions"
	CategoryListings   = "Listings"
	CategoryLeads      = "Leads"
	CategoryContacts   = "Contacts"
	CategoryHelp       = "Help"
	CategoryOther      = "Other"
)

// Remote hit kinds returned by the search backend.
const (
	HitListing = "annonce"
	HitLead    = "dossier"
	HitContact = "contact"
)

// Candidate is implemented by Command, RemoteHit and RecentItem only.
type Candidate interface {
	Kind() Kind
	Key() Key
	// Text is the label shown for the item.
	Text() string
	// Group is the display category, derived for remote hits and recents.
	Group() string
	sealed()
}

// Command is a static or context-sensitive action.
type Command struct {
	ID           string
	Label        Label
	Description  Label
	Icon         Label
	Category     string
	Keywords     []string
	ShortcutHint string
	Action       Action
}

// RemoteHit is a result from the remote full-text search.
type RemoteHit struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Score       float64 `json:"relevanceScore"`
}

// RecentItem is a previously visited entity.
type RecentItem struct {
	ID            string    `json:"id"`
	Type          string    `json:"kind"`
	Title         string    `json:"title"`
	Subtitle      string    `json:"subtitle,omitempty"`
	Route         string    `json:"route"`
	LastVisitedAt time.Time `json:"lastVisitedAt"`
}

func (Command) Kind() Kind    { return KindCommand }
func (RemoteHit) Kind() Kind  { return KindRemoteHit }
func (RecentItem) Kind() Kind { return KindRecentItem }

func (c Command) Key() Key    { return Key{Kind: KindCommand, ID: c.ID} }
func (h RemoteHit) Key() Key  { return Key{Kind: KindRemoteHit, ID: h.ID} }
func (r RecentItem) Key() Key { return Key{Kind: KindRecentItem, ID: r.ID} }

func (c Command) Text() string    { return c.Label.String() }
func (h RemoteHit) Text() string  { return h.Title }
func (r RecentItem) Text() string { return r.Title }

func (c Command) Group() string {
	if strings.TrimSpace(c.Category) == "" {
		return CategoryOther
	}
	return c.Category
}

func (h RemoteHit) Group() string { return HitCategory(h.Type) }

func (RecentItem) Group() string { return CategoryRecent }

func (Command) sealed()    {}
func (RemoteHit) sealed()  {}
func (RecentItem) sealed() {}

// HitCategory maps a remote hit type to its display category.
func HitCategory(hitType string) string {
	switch strings.ToLower(strings.TrimSpace(hitType)) {
	case HitListing:
		return CategoryListings
	case HitLead:
		return CategoryLeads
	case HitContact:
		return CategoryContacts
	default:
		return CategoryOther
	}
}

// HitRoute returns the detail route for a remote hit, or "" when its type has
// no page.
func HitRoute(h RemoteHit) string {
	switch strings.ToLower(strings.TrimSpace(h.Type)) {
	case HitListing:
		return "/annonces/" + h.ID
	case HitLead:
		return "/dossiers/" + h.ID
	case HitContact:
		return "/parties-prenantes/" + h.ID
	default:
		return ""
	}
}
