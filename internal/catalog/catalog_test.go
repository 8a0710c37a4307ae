package catalog

import (
	"net/url"
	"testing"

	"github.com/jask/omnibar/internal/candidate"
	"github.com/jask/omnibar/internal/keyseq"
)

type navCall struct {
	path   string
	params url.Values
}

type recordingNav struct{ calls []navCall }

func (r *recordingNav) Navigate(path string, params url.Values) {
	r.calls = append(r.calls, navCall{path, params})
}

func find(t *testing.T, cmds []candidate.Command, id string) candidate.Command {
	t.Helper()
	for _, c := range cmds {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("command %q not found", id)
	return candidate.Command{}
}

func TestCommandsNavigate(t *testing.T) {
	nav := &recordingNav{}
	cmds := Commands(Hooks{Nav: nav}, nil)

	candidate.Run(find(t, cmds, "nav-dossiers").Action)
	candidate.Run(find(t, cmds, "create-dossier").Action)
	if len(nav.calls) != 2 {
		t.Fatalf("calls = %v, want 2", nav.calls)
	}
	if nav.calls[0].path != "/dossiers" || nav.calls[1].params.Get("action") != "create" {
		t.Fatalf("calls = %+v", nav.calls)
	}

	seen := map[string]bool{}
	for _, c := range cmds {
		if seen[c.ID] {
			t.Fatalf("duplicate command id %q", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestThemeLabelIsDynamic(t *testing.T) {
	theme := &Theme{}
	var changes []bool
	theme.OnChange = func(dark bool) { changes = append(changes, dark) }
	cmd := find(t, Commands(Hooks{}, theme), "toggle-theme")

	if !cmd.Label.IsDynamic() {
		t.Fatalf("theme label should be dynamic")
	}
	if got := cmd.Text(); got != "Passer au thème sombre" {
		t.Fatalf("label = %q", got)
	}
	candidate.Run(cmd.Action)
	if got := cmd.Text(); got != "Passer au thème clair" {
		t.Fatalf("label after toggle = %q", got)
	}
	if got := cmd.Icon.String(); got != "light_mode" {
		t.Fatalf("icon after toggle = %q", got)
	}
	if len(changes) != 1 || !changes[0] {
		t.Fatalf("changes = %v", changes)
	}
}

func TestContextual(t *testing.T) {
	cases := []struct {
		route string
		ids   []string
	}{
		{"/dossiers/42", []string{"ctx-dossier-status", "ctx-dossier-message", "ctx-dossier-rdv"}},
		{"/dossiers/42/", []string{"ctx-dossier-status", "ctx-dossier-message", "ctx-dossier-rdv"}},
		{"/annonces/7?tab=photos", []string{"ctx-annonce-edit", "ctx-annonce-match"}},
		{"/annonces/new", []string{"ctx-annonces-create"}},
		{"/dossiers", []string{"ctx-dossiers-create"}},
		{"/dashboard", nil},
		{"", nil},
	}
	for _, tc := range cases {
		got := Contextual(tc.route, Hooks{})
		if len(got) != len(tc.ids) {
			t.Fatalf("Contextual(%q) = %d commands, want %d", tc.route, len(got), len(tc.ids))
		}
		for i, c := range got {
			if c.ID != tc.ids[i] {
				t.Fatalf("Contextual(%q)[%d] = %q, want %q", tc.route, i, c.ID, tc.ids[i])
			}
			if c.Group() != candidate.CategoryContext {
				t.Fatalf("Contextual(%q)[%d] category = %q", tc.route, i, c.Group())
			}
		}
	}
}

func TestContextualRendezVousCarriesID(t *testing.T) {
	nav := &recordingNav{}
	cmds := Contextual("/dossiers/42", Hooks{Nav: nav})
	candidate.Run(find(t, cmds, "ctx-dossier-rdv").Action)
	if len(nav.calls) != 1 || nav.calls[0].path != "/calendar" || nav.calls[0].params.Get("dossier") != "42" {
		t.Fatalf("calls = %+v", nav.calls)
	}
}

func TestDefaultShortcuts(t *testing.T) {
	nav := &recordingNav{}
	var palette, help, down int
	reg := keyseq.NewRegistry()
	Register(reg, Hooks{
		Nav:           nav,
		TogglePalette: func() { palette++ },
		ToggleHelp:    func() { help++ },
		ListDown:      func() { down++ },
	})
	d := keyseq.NewDispatcher(reg)

	for _, ev := range []keyseq.KeyEvent{
		{Key: "k", Ctrl: true},
		{Key: "g"}, {Key: "h"},
		{Key: "?"},
		{Key: "j"},
	} {
		if !d.Handle(ev) && ev.Key != "g" {
			t.Fatalf("key %+v not handled", ev)
		}
	}
	if palette != 1 || help != 1 || down != 1 {
		t.Fatalf("palette=%d help=%d down=%d", palette, help, down)
	}
	if len(nav.calls) != 1 || nav.calls[0].path != "/dashboard" {
		t.Fatalf("calls = %+v", nav.calls)
	}

	groups := reg.ByCategory()
	if len(groups) != 3 || groups[0].Category != keyseq.CategoryNavigation {
		t.Fatalf("groups = %+v", groups)
	}
	if n := len(reg.All()); n != 11 {
		t.Fatalf("bindings = %d, want 11", n)
	}
}
