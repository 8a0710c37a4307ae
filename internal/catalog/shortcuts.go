package catalog

import (
	"github.com/jask/omnibar/internal/keyseq"
)

// Bindings returns the default keyboard shortcuts.
func Bindings(h Hooks) []keyseq.Binding {
	nav := func(seq, desc, path string) keyseq.Binding {
		return keyseq.Binding{Key: seq, Sequence: true, Category: keyseq.CategoryNavigation, Description: desc, Action: h.navigate(path, nil)}
	}
	return []keyseq.Binding{
		{Key: "/", Category: keyseq.CategoryNavigation, Description: "Focus recherche", Action: call(h.FocusSearch)},
		{Key: "Ctrl+K", Category: keyseq.CategoryActions, Description: "Ouvrir la palette de commandes", Action: call(h.TogglePalette)},
		nav("g+a", "Aller aux annonces", "/annonces"),
		nav("g+d", "Aller aux dossiers", "/dossiers"),
		nav("g+h", "Aller au tableau de bord", "/dashboard"),
		nav("g+t", "Aller aux tâches", "/tasks"),
		{Key: "Escape", Category: keyseq.CategoryActions, Description: "Fermer les modales", Action: call(h.Dismiss)},
		{Key: "?", Category: keyseq.CategoryActions, Description: "Afficher les raccourcis clavier", Action: call(h.ToggleHelp)},
		{Key: "j", Category: keyseq.CategoryLists, Description: "Élément suivant dans la liste", Action: call(h.ListDown)},
		{Key: "k", Category: keyseq.CategoryLists, Description: "Élément précédent dans la liste", Action: call(h.ListUp)},
		{Key: "Enter", Category: keyseq.CategoryLists, Description: "Ouvrir l'élément sélectionné", Action: call(h.ListOpen)},
	}
}

// Register adds the default shortcuts to reg.
func Register(reg *keyseq.Registry, h Hooks) {
	for _, b := range Bindings(h) {
		reg.Register(b)
	}
}
