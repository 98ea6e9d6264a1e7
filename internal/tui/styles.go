package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/droplet/internal/constants"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("25")).
			Padding(0, 1)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

func gradeStyle(g constants.Grade) lipgloss.Style {
	color := lipgloss.Color("42")
	switch g {
	case constants.GradeB:
		color = lipgloss.Color("214")
	case constants.GradeC:
		color = lipgloss.Color("196")
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Padding(0, 1).Border(lipgloss.RoundedBorder())
}
