package tui

import "github.com/charmbracelet/lipgloss"

// palette is one Catppuccin flavour.
// https://catppuccin.com/palette
type palette struct {
	Text     lipgloss.Color
	Subtext0 lipgloss.Color
	Overlay1 lipgloss.Color
	Surface0 lipgloss.Color
	Surface1 lipgloss.Color
	Base     lipgloss.Color
	Mantle   lipgloss.Color

	Accent  lipgloss.Color
	Focus   lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Info    lipgloss.Color
}

// mocha is the dark flavour.
var mocha = palette{
	Text:     "#cdd6f4",
	Subtext0: "#a6adc8",
	Overlay1: "#7f849c",
	Surface0: "#313244",
	Surface1: "#45475a",
	Base:     "#1e1e2e",
	Mantle:   "#181825",
	Accent:   "#f5c2e7",
	Focus:    "#b4befe",
	Success:  "#a6e3a1",
	Error:    "#f38ba8",
	Warning:  "#f9e2af",
	Info:     "#94e2d5",
}

// latte is the light flavour.
var latte = palette{
	Text:     "#4c4f69",
	Subtext0: "#6c6f85",
	Overlay1: "#8c8fa1",
	Surface0: "#ccd0da",
	Surface1: "#bcc0cc",
	Base:     "#eff1f5",
	Mantle:   "#e6e9ef",
	Accent:   "#ea76cb",
	Focus:    "#7287fd",
	Success:  "#40a02b",
	Error:    "#d20f39",
	Warning:  "#df8e1d",
	Info:     "#179299",
}

func paletteFor(dark bool) palette {
	if dark {
		return mocha
	}
	return latte
}
