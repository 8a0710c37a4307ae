package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	app       lipgloss.Style
	header    lipgloss.Style
	route     lipgloss.Style
	section   lipgloss.Style
	label     lipgloss.Style
	match     lipgloss.Style
	desc      lipgloss.Style
	hint      lipgloss.Style
	cursorRow lipgloss.Style
	status    lipgloss.Style
	errStatus lipgloss.Style
	warn      lipgloss.Style
	user      lipgloss.Style
	agent     lipgloss.Style
	chip      lipgloss.Style
	modal     lipgloss.Style
}

func newStyles(p palette) styles {
	return styles{
		app:     lipgloss.NewStyle().Foreground(p.Text),
		header:  lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		route:   lipgloss.NewStyle().Foreground(p.Subtext0),
		section: lipgloss.NewStyle().Foreground(p.Info).Bold(true),
		label:   lipgloss.NewStyle().Foreground(p.Text),
		match:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true).Underline(true),
		desc:    lipgloss.NewStyle().Foreground(p.Subtext0),
		hint:    lipgloss.NewStyle().Foreground(p.Focus).Bold(true),
		cursorRow: lipgloss.NewStyle().
			Background(p.Surface1).
			Bold(true),
		status:    lipgloss.NewStyle().Foreground(p.Success),
		errStatus: lipgloss.NewStyle().Foreground(p.Error),
		warn:      lipgloss.NewStyle().Foreground(p.Warning),
		user:      lipgloss.NewStyle().Foreground(p.Focus).Bold(true),
		agent:     lipgloss.NewStyle().Foreground(p.Text),
		chip: lipgloss.NewStyle().
			Foreground(p.Base).
			Background(p.Info).
			Padding(0, 1),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Overlay1).
			Padding(0, 1),
	}
}
