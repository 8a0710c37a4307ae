package intent

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jask/omnibar/internal/candidate"
)

var frPrinter = message.NewPrinter(language.French)

// FormatBudget renders an integer budget with French digit grouping.
func FormatBudget(budget string) string {
	n, err := strconv.ParseInt(budget, 10, 64)
	if err != nil {
		return budget
	}
	return frPrinter.Sprintf("%d MAD", n)
}

func (p *Parser) describe(typ Type, e map[string]string, raw string) string {
	switch typ {
	case Search:
		var parts []string
		if v := e[EntityPropertyType]; v != "" {
			parts = append(parts, v)
		}
		if v := e[EntityCity]; v != "" {
			parts = append(parts, "à "+v)
		}
		if v := e[EntityBudget]; v != "" {
			parts = append(parts, "< "+FormatBudget(v))
		}
		if len(parts) > 0 {
			return "Rechercher : " + strings.Join(parts, ", ")
		}
		terms := SearchTerms(raw)
		if terms == "" {
			terms = raw
		}
		return fmt.Sprintf("Rechercher %q", terms)
	case Create:
		if name := e[EntityPersonName]; name != "" {
			return "Créer un dossier pour " + name
		}
		return "Créer un nouveau dossier / lead"
	case StatusChange:
		if st := e[EntityStatus]; st != "" {
			return fmt.Sprintf("Changer le statut en %q", st)
		}
		return "Modifier le statut d'un dossier"
	case SendMessage:
		if name := e[EntityPersonName]; name != "" {
			return "Envoyer un message à " + name
		}
		return "Ouvrir la messagerie WhatsApp"
	case Navigate:
		if t, ok := p.target(fold(raw)); ok {
			return "Naviguer vers " + t.label
		}
		return "Naviguer vers une section"
	default:
		return "Je vais analyser votre demande…"
	}
}

func (p *Parser) target(q string) (navTarget, bool) {
	for _, t := range p.targets {
		for _, kw := range t.keywords {
			if strings.Contains(q, kw) {
				return t, true
			}
		}
	}
	return navTarget{}, false
}

func (p *Parser) navigateTo(path string, params url.Values) candidate.Action {
	nav := p.nav
	return candidate.ActionFunc(func() { nav.Navigate(path, params) })
}

func (p *Parser) suggest(typ Type) []Suggestion {
	switch typ {
	case Search:
		return []Suggestion{
			{Label: "Voir les annonces", Icon: "campaign", Action: p.navigateTo("/annonces", nil)},
			{Label: "Voir les dossiers", Icon: "folder", Action: p.navigateTo("/dossiers", nil)},
		}
	case Create:
		return []Suggestion{
			{Label: "Créer un dossier", Icon: "person_add", Action: p.navigateTo("/dossiers", url.Values{"action": {"create"}})},
			{Label: "Créer une annonce", Icon: "add_circle", Action: p.navigateTo("/annonces/new", nil)},
		}
	case SendMessage:
		return []Suggestion{
			{Label: "Aller aux dossiers", Icon: "folder", Action: p.navigateTo("/dossiers", nil)},
		}
	default:
		return []Suggestion{
			{Label: "Voir le tableau de bord", Icon: "dashboard", Action: p.navigateTo("/dashboard", nil)},
			{Label: "Recherche globale", Icon: "search", Action: p.navigateTo("/search", nil)},
		}
	}
}
