// Package catalog holds the built-in commands, per-page contextual commands
// and default keyboard shortcuts of the CRM palette.
package catalog

import (
	"net/url"
	"strings"
	"sync"

	"github.com/jask/omnibar/internal/candidate"
	"github.com/jask/omnibar/internal/intent"
)

// Hooks are the host capabilities commands and shortcuts call into. Nil
// hooks are no-ops.
type Hooks struct {
	Nav           intent.Navigator
	FocusSearch   func()
	TogglePalette func()
	ToggleHelp    func()
	ListDown      func()
	ListUp        func()
	ListOpen      func()
	// Dismiss runs on Escape when no overlay is open.
	Dismiss func()
}

func (h Hooks) navigate(path string, params url.Values) candidate.Action {
	return candidate.ActionFunc(func() {
		if h.Nav != nil {
			h.Nav.Navigate(path, params)
		}
	})
}

func call(fn func()) candidate.Action {
	return candidate.ActionFunc(func() {
		if fn != nil {
			fn()
		}
	})
}

// Theme is the light/dark switch behind the theme toggle command.
type Theme struct {
	mu   sync.Mutex
	dark bool
	// OnChange receives the new state after each toggle.
	OnChange func(dark bool)
}

func (t *Theme) Dark() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dark
}

func (t *Theme) Toggle() {
	t.mu.Lock()
	t.dark = !t.dark
	dark, fn := t.dark, t.OnChange
	t.mu.Unlock()
	if fn != nil {
		fn(dark)
	}
}

// Commands returns the global command list.
func Commands(h Hooks, theme *Theme) []candidate.Command {
	if theme == nil {
		theme = &Theme{}
	}
	nav := func(id, label, desc, icon, path, hint string, keywords ...string) candidate.Command {
		return candidate.Command{
			ID:           id,
			Label:        candidate.Static(label),
			Description:  candidate.Static(desc),
			Icon:         candidate.Static(icon),
			Category:     candidate.CategoryNavigation,
			Keywords:     keywords,
			ShortcutHint: hint,
			Action:       h.navigate(path, nil),
		}
	}
	return []candidate.Command{
		nav("nav-dashboard", "Aller au tableau de bord", "Voir le tableau de bord principal", "dashboard", "/dashboard", "g h", "accueil", "home"),
		nav("nav-annonces", "Aller aux annonces", "Liste de toutes les annonces", "campaign", "/annonces", "g a", "biens", "listings"),
		nav("nav-dossiers", "Aller aux dossiers", "Liste de tous les dossiers", "folder", "/dossiers", "g d", "leads", "clients"),
		nav("nav-tasks", "Aller aux tâches", "Voir toutes les tâches", "task", "/tasks", "g t", "todo"),
		nav("nav-reports", "Aller aux rapports", "Voir les rapports et KPIs", "insights", "/reports", "", "kpi", "statistiques"),
		nav("nav-observability", "Aller à l'observabilité", "Dashboard d'observabilité", "analytics", "/observability", "", "monitoring"),
		nav("nav-search", "Rechercher", "Rechercher des annonces et dossiers", "search", "/search", "/"),
		{
			ID:          "create-annonce",
			Label:       candidate.Static("Créer une annonce"),
			Description: candidate.Static("Créer une nouvelle annonce"),
			Icon:        candidate.Static("add_circle"),
			Category:    candidate.CategoryActions,
			Keywords:    []string{"nouvelle", "ajouter"},
			Action:      h.navigate("/annonces/new", nil),
		},
		{
			ID:          "create-dossier",
			Label:       candidate.Static("Créer un dossier"),
			Description: candidate.Static("Ouvrir le formulaire de nouveau dossier"),
			Icon:        candidate.Static("create_new_folder"),
			Category:    candidate.CategoryActions,
			Keywords:    []string{"nouveau", "lead", "prospect"},
			Action:      h.navigate("/dossiers", url.Values{"action": {"create"}}),
		},
		{
			ID: "toggle-theme",
			Label: candidate.Dynamic(func() string {
				if theme.Dark() {
					return "Passer au thème clair"
				}
				return "Passer au thème sombre"
			}),
			Description: candidate.Static("Changer l'apparence de l'application"),
			Icon: candidate.Dynamic(func() string {
				if theme.Dark() {
					return "light_mode"
				}
				return "dark_mode"
			}),
			Category: candidate.CategoryActions,
			Keywords: []string{"mode sombre", "dark", "theme"},
			Action:   candidate.ActionFunc(theme.Toggle),
		},
		{
			ID:           "show-shortcuts",
			Label:        candidate.Static("Afficher les raccourcis clavier"),
			Description:  candidate.Static("Voir tous les raccourcis disponibles"),
			Icon:         candidate.Static("keyboard"),
			Category:     candidate.CategoryHelp,
			ShortcutHint: "?",
			Action:       call(h.ToggleHelp),
		},
	}
}

// Contextual returns the commands that only make sense on route, placed
// ahead of global commands.
func Contextual(route string, h Hooks) []candidate.Command {
	path, _, _ := strings.Cut(route, "?")
	path = strings.TrimRight(path, "/")
	section, id, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	id, _, _ = strings.Cut(id, "/")

	ctx := func(cid, label, desc, icon string, a candidate.Action) candidate.Command {
		return candidate.Command{
			ID:          cid,
			Label:       candidate.Static(label),
			Description: candidate.Static(desc),
			Icon:        candidate.Static(icon),
			Category:    candidate.CategoryContext,
			Action:      a,
		}
	}

	switch {
	case section == "dossiers" && id != "":
		return []candidate.Command{
			ctx("ctx-dossier-status", "Changer le statut du dossier", "Qualifier, gagner ou perdre ce dossier", "flag", h.navigate(path, url.Values{"action": {"status"}})),
			ctx("ctx-dossier-message", "Envoyer un message", "Ouvrir la messagerie WhatsApp du dossier", "chat", h.navigate(path, url.Values{"tab": {"messagerie"}})),
			ctx("ctx-dossier-rdv", "Planifier un rendez-vous", "Ajouter un rendez-vous au calendrier", "event", h.navigate("/calendar", url.Values{"dossier": {id}})),
		}
	case section == "annonces" && id != "" && id != "new":
		return []candidate.Command{
			ctx("ctx-annonce-edit", "Modifier l'annonce", "Éditer le bien", "edit", h.navigate(path+"/edit", nil)),
			ctx("ctx-annonce-match", "Trouver des dossiers compatibles", "Chercher les prospects intéressés par ce bien", "person_search", h.navigate("/search", url.Values{"annonce": {id}})),
		}
	case section == "dossiers":
		return []candidate.Command{
			ctx("ctx-dossiers-create", "Nouveau dossier", "Créer un dossier depuis la liste", "add", h.navigate("/dossiers", url.Values{"action": {"create"}})),
		}
	case section == "annonces":
		return []candidate.Command{
			ctx("ctx-annonces-create", "Nouvelle annonce", "Créer une annonce depuis la liste", "add", h.navigate("/annonces/new", nil)),
		}
	default:
		return nil
	}
}

// AsCandidates widens a command list for the ranker.
func AsCandidates(cmds []candidate.Command) []candidate.Candidate {
	out := make([]candidate.Candidate, len(cmds))
	for i, c := range cmds {
		out[i] = c
	}
	return out
}
