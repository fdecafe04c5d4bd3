package main

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	docStyle     lipgloss.Style
	titleStyle   lipgloss.Style
	headingStyle lipgloss.Style
	textStyle    lipgloss.Style
	mutedStyle   lipgloss.Style
	errorStyle   lipgloss.Style
	successStyle lipgloss.Style
	moneyStyle   lipgloss.Style
	displayStyle lipgloss.Style
	menuKeyStyle lipgloss.Style
	exitKeyStyle lipgloss.Style
	screenStyle  lipgloss.Style
}

func createStyles(theme Theme) styles {
	return styles{
		docStyle: lipgloss.NewStyle().Margin(1, standardMargin),
		titleStyle: lipgloss.NewStyle().Foreground(
			lipgloss.AdaptiveColor{Light: "#000000", Dark: string(theme.Primary)},
		).Bold(true),
		headingStyle: lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).MarginBottom(1),
		textStyle:    lipgloss.NewStyle().Foreground(theme.Text),
		mutedStyle:   lipgloss.NewStyle().Foreground(theme.Muted),
		errorStyle:   lipgloss.NewStyle().Foreground(theme.Error).Bold(true),
		successStyle: lipgloss.NewStyle().Foreground(theme.Success).Bold(true),
		moneyStyle:   lipgloss.NewStyle().Foreground(theme.Success).Bold(true),
		displayStyle: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 2),
		menuKeyStyle: lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		exitKeyStyle: lipgloss.NewStyle().Foreground(theme.Warning).Bold(true),
		screenStyle: lipgloss.NewStyle().
			Background(theme.Background).
			Border(lipgloss.ThickBorder()).
			BorderForeground(theme.Border).
			Padding(1, 4).
			Width(64).
			Align(lipgloss.Center),
	}
}

func createHelpModel(theme Theme) help.Model {
	helpModel := help.New()
	helpModel.ShortSeparator = " + "
	helpModel.Styles = help.Styles{
		Ellipsis:       lipgloss.NewStyle().Foreground(theme.SecondaryText),
		ShortKey:       lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		ShortDesc:      lipgloss.NewStyle().Foreground(theme.Text),
		ShortSeparator: lipgloss.NewStyle().Foreground(theme.SecondaryText),
		FullKey:        lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		FullDesc:       lipgloss.NewStyle().Foreground(theme.Text),
		FullSeparator:  lipgloss.NewStyle().Foreground(theme.SecondaryText),
	}
	return helpModel
}
