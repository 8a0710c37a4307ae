package intent

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	DefaultThreshold     = 0.65
	DefaultRemoteTimeout = 8 * time.Second
)

// Classifier is a remote intent classifier. A nil intent with a nil error
// means the remote had no opinion.
type Classifier interface {
	Classify(ctx context.Context, query string) (*Intent, error)
}

// Sink receives conversational turns.
type Sink interface {
	AddUser(content string)
	AddTyping()
	// AddAgent appends a reply and clears any typing indicator.
	AddAgent(content string, related *Intent)
}

// Agent runs the parse, classify and dispatch flow for one session.
type Agent struct {
	Parser *Parser
	Remote Classifier
	Sink   Sink
	Nav    Navigator

	// Threshold below which the remote classifier is consulted.
	Threshold float64
	Timeout   time.Duration

	log        *slog.Logger
	mu         sync.Mutex
	dispatched map[string]struct{}
}

// NewAgent builds an agent with the default threshold and timeout. remote
// may be nil.
func NewAgent(nav Navigator, sink Sink, remote Classifier) *Agent {
	if nav == nil {
		nav = nopNavigator{}
	}
	return &Agent{
		Parser:     NewParser(nav),
		Remote:     remote,
		Sink:       sink,
		Nav:        nav,
		Threshold:  DefaultThreshold,
		Timeout:    DefaultRemoteTimeout,
		log:        slog.Default().With("component", "intent"),
		dispatched: map[string]struct{}{},
	}
}

// Process parses query, consults the remote classifier when the local
// result is weak, and dispatches the final intent. Remote failures fall back
// to the local intent.
func (a *Agent) Process(ctx context.Context, query string) Intent {
	q := strings.TrimSpace(query)
	local := a.parser().Parse(q)

	a.sink().AddUser(q)
	a.sink().AddTyping()

	final := a.override(ctx, q, local)
	if err := a.Dispatch(final); err != nil {
		a.logger().Warn("dispatch intent", "id", final.ID, "err", err)
	}
	return final
}

// Classify returns the intent Process would dispatch, without touching the
// sink or navigating.
func (a *Agent) Classify(ctx context.Context, query string) Intent {
	q := strings.TrimSpace(query)
	return a.override(ctx, q, a.parser().Parse(q))
}

func (a *Agent) override(ctx context.Context, q string, local Intent) Intent {
	if local.Type == Unknown || local.Confidence < a.Threshold {
		return a.classifyRemote(ctx, q, local)
	}
	return local
}

func (a *Agent) classifyRemote(ctx context.Context, q string, local Intent) Intent {
	if a.Remote == nil {
		return local
	}
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	remote, err := a.Remote.Classify(ctx, q)
	if err != nil {
		a.logger().Warn("remote classify failed, using local intent", "err", err)
		return local
	}
	if remote == nil {
		return local
	}
	return a.parser().Complete(*remote, q)
}

// Dispatch performs the side effect of in and appends the agent reply. An
// intent can be dispatched once.
func (a *Agent) Dispatch(in Intent) error {
	if in.ID != "" {
		a.mu.Lock()
		if a.dispatched == nil {
			a.dispatched = map[string]struct{}{}
		}
		if _, dup := a.dispatched[in.ID]; dup {
			a.mu.Unlock()
			return fmt.Errorf("%s: %w", in.ID, ErrAlreadyDispatched)
		}
		a.dispatched[in.ID] = struct{}{}
		a.mu.Unlock()
	}

	nav := a.Nav
	if nav == nil {
		nav = nopNavigator{}
	}
	name := in.Entities[EntityPersonName]

	var reply string
	switch in.Type {
	case Search:
		q := searchQuery(in)
		nav.Navigate("/search", url.Values{"q": {q}})
		reply = fmt.Sprintf("Je recherche %q dans les annonces et dossiers.", q)
	case Create:
		nav.Navigate("/dossiers", url.Values{"action": {"create"}})
		if name != "" {
			reply = "J'ouvre le formulaire de création pour " + name + "."
		} else {
			reply = "J'ouvre le formulaire de création de dossier."
		}
	case StatusChange:
		reply = "Pour changer un statut, ouvrez d'abord le dossier concerné. Voulez-vous que je cherche un dossier spécifique ?"
	case SendMessage:
		nav.Navigate("/dossiers", url.Values{"action": {"message"}})
		if name != "" {
			reply = "Recherche du dossier de " + name + " pour ouvrir la messagerie…"
		} else {
			reply = "Ouvrez un dossier et utilisez l'onglet Messagerie pour envoyer un WhatsApp."
		}
	case Navigate:
		if t, ok := a.parser().target(fold(in.RawQuery)); ok {
			nav.Navigate(t.path, nil)
		}
		reply = "Navigation en cours…"
	default:
		reply = `Je n'ai pas compris votre demande. Essayez : "Trouve des T3 à Casablanca", "Crée un dossier", ou "Envoie un message à M. Alami".`
	}
	a.sink().AddAgent(reply, &in)
	return nil
}

// searchQuery joins the structured search entities, falling back to the
// free terms after the search verb and then to the raw query.
func searchQuery(in Intent) string {
	var parts []string
	for _, k := range []string{EntityPropertyType, EntityCity} {
		if v := in.Entities[k]; v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if terms := SearchTerms(in.RawQuery); terms != "" {
		return terms
	}
	return in.RawQuery
}

func (a *Agent) parser() *Parser {
	if a.Parser == nil {
		a.Parser = NewParser(a.Nav)
	}
	return a.Parser
}

func (a *Agent) sink() Sink {
	if a.Sink == nil {
		return nopSink{}
	}
	return a.Sink
}

func (a *Agent) logger() *slog.Logger {
	if a.log == nil {
		return slog.Default().With("component", "intent")
	}
	return a.log
}

type nopSink struct{}

func (nopSink) AddUser(string)           {}
func (nopSink) AddTyping()               {}
func (nopSink) AddAgent(string, *Intent) {}
