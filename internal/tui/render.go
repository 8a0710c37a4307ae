package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/omnibar/internal/candidate"
	"github.com/jask/omnibar/internal/conversation"
	"github.com/jask/omnibar/internal/keyseq"
	"github.com/jask/omnibar/internal/ranker"
	"github.com/jask/omnibar/internal/scorer"
)

const (
	maxRows     = 14
	maxMessages = 6
)

var groupTitles = map[string]string{
	candidate.CategoryAssistant:  "Assistant",
	candidate.CategoryContext:    "Contexte",
	candidate.CategoryRecent:     "Récents",
	candidate.CategoryNavigation: "Navigation",
	candidate.CategoryActions:    "Actions",
	candidate.CategoryListings:   "Annonces",
	candidate.CategoryLeads:      "Dossiers",
	candidate.CategoryContacts:   "Contacts",
	candidate.CategoryHelp:       "Aide",
	candidate.CategoryOther:      "Autres",
}

func (a *App) renderHeader(st styles) string {
	line := st.header.Render("Omnibar")
	if route := a.engine.Route(); route != "" {
		line += "  " + st.route.Render(route)
	}
	if pending := a.engine.Keys.Pending(); pending != "" {
		line += "  " + st.hint.Render(pending+" …")
	}
	return line
}

func (a *App) renderHome(st styles) string {
	var lines []string
	recent := a.engine.RecentItems()
	if len(recent) > 0 {
		lines = append(lines, st.section.Render("Récents:"))
		active := a.engine.List.Index()
		for i, it := range recent {
			row := "  " + st.label.Render(it.Title)
			if it.Subtitle != "" {
				row += st.desc.Render(" - " + it.Subtitle)
			}
			lines = append(lines, styleRow(st, row, i == active, a.width))
		}
	} else {
		lines = append(lines, st.desc.Render("Ctrl+K pour ouvrir la palette, ? pour les raccourcis"))
	}
	if searches := a.engine.RecentSearches(); len(searches) > 0 {
		lines = append(lines, "", st.section.Render("Recherches récentes:"))
		for _, s := range searches {
			lines = append(lines, "  "+st.desc.Render(s.Query))
		}
	}
	if last := a.lastNavigation(); last != "" {
		lines = append(lines, "", st.status.Render("→ "+last))
	}
	return strings.Join(lines, "\n")
}

func (a *App) lastNavigation() string {
	if a.nav == nil {
		return ""
	}
	return a.nav.Last()
}

func (a *App) renderPalette(st styles) string {
	lines := []string{a.input.View()}
	if status := a.renderSearchStatus(st); status != "" {
		lines = append(lines, status)
	}

	cursor := a.engine.Palette.Cursor()
	showHints := a.engine.Preferences().ShowHints
	idx := 0
	for _, g := range a.engine.Groups() {
		if idx >= maxRows {
			break
		}
		lines = append(lines, st.section.Render(groupTitle(g.Category)+":"))
		for _, s := range g.Items {
			if idx >= maxRows {
				break
			}
			lines = append(lines, styleRow(st, renderItem(st, s, showHints), idx == cursor, a.width))
			idx++
		}
	}
	if idx == 0 {
		lines = append(lines, st.desc.Render("Aucun résultat"))
	}
	lines = append(lines, "", st.desc.Render("↑/↓ naviguer  enter ouvrir  esc fermer"))
	return st.modal.Render(strings.Join(lines, "\n"))
}

func (a *App) renderSearchStatus(st styles) string {
	s := a.engine.SearchState()
	switch {
	case s.Searching:
		return a.spin.View() + st.desc.Render(" Recherche…")
	case s.Err != "":
		return st.errStatus.Render(s.Err)
	case s.Query != "" && !s.Response.BackendAvailable:
		return st.warn.Render("Recherche plein texte indisponible")
	case s.Query != "":
		return st.desc.Render(fmt.Sprintf("%d résultat(s)", s.Response.TotalHits))
	}
	return ""
}

func renderItem(st styles, s ranker.Scored, showHints bool) string {
	row := "  " + renderSegments(st, s.Candidate.Text(), s.Segments)
	var desc, hint string
	switch v := s.Candidate.(type) {
	case candidate.Command:
		desc = v.Description.String()
		hint = v.ShortcutHint
	case candidate.RemoteHit:
		desc = v.Description
	case candidate.RecentItem:
		desc = v.Subtitle
	}
	if desc != "" {
		row += st.desc.Render(" - " + desc)
	}
	if showHints && hint != "" {
		row += "  " + st.hint.Render(hint)
	}
	return row
}

// renderSegments highlights the matched runs of text. Without segments the
// text is shown plain.
func renderSegments(st styles, text string, segs []scorer.Segment) string {
	if len(segs) == 0 {
		return st.label.Render(text)
	}
	var b strings.Builder
	for _, seg := range segs {
		if seg.IsMatch {
			b.WriteString(st.match.Render(seg.Text))
		} else {
			b.WriteString(st.label.Render(seg.Text))
		}
	}
	return b.String()
}

func (a *App) renderShortcuts(st styles) string {
	lines := []string{st.header.Render("Raccourcis clavier")}
	filter := a.engine.HelpFilter()
	if filter != "" {
		lines = append(lines, st.desc.Render("Filtre: ")+st.label.Render(filter))
	}
	for _, g := range a.engine.Help() {
		lines = append(lines, st.section.Render(g.Category+":"))
		for _, b := range g.Bindings {
			lines = append(lines, "  "+st.hint.Render(padRight(keyseq.DisplayKey(b), 8))+st.desc.Render(b.Description))
		}
	}
	lines = append(lines, "", st.desc.Render("tapez pour filtrer  ? fermer  esc fermer"))
	return st.modal.Render(strings.Join(lines, "\n"))
}

func (a *App) renderConversation(st styles) string {
	msgs := a.engine.Conversation.Messages()
	if len(msgs) == 0 {
		return ""
	}
	msgs = msgs[max(len(msgs)-maxMessages, 0):]
	var lines []string
	for _, m := range msgs {
		switch {
		case m.Typing:
			lines = append(lines, a.spin.View()+st.desc.Render(" L'assistant réfléchit…"))
		case m.Role == conversation.RoleUser:
			lines = append(lines, st.user.Render("vous: ")+st.label.Render(m.Content))
		default:
			lines = append(lines, st.agent.Render(m.Content))
			if len(m.Actions) > 0 {
				chips := make([]string, len(m.Actions))
				for i, s := range m.Actions {
					chips[i] = st.chip.Render(s.Label)
				}
				lines = append(lines, "  "+strings.Join(chips, " "))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func groupTitle(category string) string {
	if t, ok := groupTitles[category]; ok {
		return t
	}
	return category
}

func styleRow(st styles, content string, isCursor bool, width int) string {
	if !isCursor {
		return content
	}
	return st.cursorRow.Render(padStyledLine(content, width))
}

func padStyledLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s + " "
}
