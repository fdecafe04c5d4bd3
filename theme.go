package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Rshep3087/atmtui/config"
	"github.com/Rshep3087/atmtui/history"
)

// Theme contains all the colors used by the kiosk screens.
type Theme struct {
	Primary       lipgloss.Color
	Error         lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
	Muted         lipgloss.Color
	Income        lipgloss.Color
	Expense       lipgloss.Color
	Border        lipgloss.Color
	Background    lipgloss.Color
	Text          lipgloss.Color
	SecondaryText lipgloss.Color
}

// newTheme creates a Theme from config.Colors. The defaults follow the
// kiosk palette: cyan headings, green money, red errors on a dark blue screen.
func newTheme(colors config.Colors) Theme {
	return Theme{
		Primary:       parseColor(colors.Primary, "#67e8f9"),
		Error:         parseColor(colors.Error, "#f87171"),
		Success:       parseColor(colors.Success, "#86efac"),
		Warning:       parseColor(colors.Warning, "#e05951"),
		Muted:         parseColor(colors.Muted, "#9ca3af"),
		Income:        parseColor(colors.Income, "#4ade80"),
		Expense:       parseColor(colors.Expense, "#f87171"),
		Border:        parseColor(colors.Border, "#4b5563"),
		Background:    parseColor(colors.Background, "#1e3a8a"),
		Text:          parseColor(colors.Text, "#FAFAFA"),
		SecondaryText: parseColor(colors.SecondaryText, "#888888"),
	}
}

// parseColor returns colorStr as a lipgloss.Color, or defaultColor when it is empty.
// lipgloss accepts both hex ("#ff0000") and ANSI ("21") values.
func parseColor(colorStr, defaultColor string) lipgloss.Color {
	if colorStr == "" {
		return lipgloss.Color(defaultColor)
	}
	return lipgloss.Color(colorStr)
}

func (t Theme) historyColors() history.Colors {
	return history.Colors{
		Primary: string(t.Primary),
		Muted:   string(t.Muted),
		Income:  string(t.Income),
		Expense: string(t.Expense),
	}
}
