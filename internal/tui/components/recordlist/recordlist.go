package recordlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/droplet/internal/history"
	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/utils"
)

// DeleteRecordMsg asks the dashboard to confirm deleting Record
type DeleteRecordMsg struct {
	Record models.FootprintRecord
}

type Item struct {
	Record models.FootprintRecord
	Date   string
}

func (i Item) Title() string {
	return fmt.Sprintf("%s  %s", i.Date, i.Record.ItemName)
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s L", utils.FormatLiters(i.Record.WaterFootprintLiters))
	if i.Record.Category != "" {
		desc += " | " + i.Record.Category
	}
	if i.Record.Severity != "" {
		desc += " | " + i.Record.Severity
	}
	return desc
}

func (i Item) FilterValue() string { return i.Record.ItemName }

type KeyMap struct {
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Delete: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "History"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Delete}
	}
	return Model{list: l, keys: keys}
}

// SetView lists the view's records, newest day first
func (m *Model) SetView(view history.MonthView) {
	var items []list.Item
	for _, b := range view.Buckets {
		for i := len(b.Records) - 1; i >= 0; i-- {
			items = append(items, Item{Record: b.Records[i], Date: b.Date})
		}
	}
	m.list.SetItems(items)
}

// Selected returns the highlighted record
func (m Model) Selected() (models.FootprintRecord, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Record, true
	}
	return models.FootprintRecord{}, false
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Delete) {
		if rec, ok := m.Selected(); ok {
			return m, func() tea.Msg { return DeleteRecordMsg{Record: rec} }
		}
		return m, nil
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No records this month.\n  Press 'w' to estimate your daily baseline."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
