package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/history"
	"github.com/julianstephens/droplet/internal/scoring"
	"github.com/julianstephens/droplet/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateHistory:
		content = m.viewHistory()
	case constants.StateStats:
		content = m.viewStats()
	case constants.StateWizard:
		content = docStyle.Render(m.step.Form().View())
	case constants.StateComputing:
		content = m.viewComputing()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active != constants.StateHistory && active != constants.StateStats {
		active = m.previousState
	}

	var tabs []string
	for i, title := range []string{"History", "Stats"} {
		if active == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}

	who := "local"
	if id := m.session.Identity(); id != "" {
		who = id
	}
	tabs = append(tabs, mutedStyle.Render("  "+who))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHistory() string {
	view := history.AggregateAt(m.session.Snapshot(), m.cursor, m.opts.Location, m.opts.Now())
	header := headerStyle.Render(fmt.Sprintf("%s  ·  %s L", view.Cursor.Label(), utils.FormatLiters(view.Total)))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.recordList.View(),
		"  ",
		m.monthChart.View(),
	)
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))
}

func (m Model) viewStats() string {
	records := m.session.Snapshot()
	snap := scoring.Score(records)

	grade := lipgloss.JoinHorizontal(lipgloss.Center,
		gradeStyle(snap.Grade).Render(string(snap.Grade)),
		"  ",
		scoring.Description(snap.Grade),
	)

	summary := fmt.Sprintf("Total: %s L   Average: %s L   Records: %d",
		utils.FormatLiters(snap.TotalLiters),
		utils.FormatLiters(snap.AverageLiters),
		snap.Count,
	)

	var badges []string
	for _, b := range snap.Badges {
		badges = append(badges, badgeStyle.Render(string(b)))
	}
	badgeLine := mutedStyle.Render("No badges yet")
	if len(badges) > 0 {
		badgeLine = strings.Join(badges, " ")
	}

	var top strings.Builder
	top.WriteString(headerStyle.Render("Top consumers"))
	top.WriteString("\n")
	consumers := scoring.TopConsumers(records, constants.DefaultTopConsumers)
	if len(consumers) == 0 {
		top.WriteString(mutedStyle.Render("Nothing tracked yet"))
	}
	for i, c := range consumers {
		fmt.Fprintf(&top, "%d. %s  %s L (%d)\n", i+1, c.ItemName, utils.FormatLiters(c.TotalLiters), c.Count)
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		grade, "", summary, badgeLine, "", m.weekChart.View(), top.String(),
	))
}

func (m Model) viewComputing() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		headerStyle.Render("Computing your daily baseline..."),
	)
}

func (m Model) viewConfirmDelete() string {
	name := ""
	if m.pendingDelete != nil {
		name = m.pendingDelete.ItemName
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q from your history?", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewStatus() string {
	var parts []string
	if m.inFlight > 0 {
		parts = append(parts, mutedStyle.Render("syncing..."))
	}
	if m.notification != "" {
		parts = append(parts, warningStyle.Render(m.notification))
	}
	return strings.Join(parts, "  ")
}
