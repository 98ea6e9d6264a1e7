package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/droplet/internal/history"
)

const (
	labelWidth  = 7
	valueWidth  = 10
	minBarWidth = 10
	barRune     = "█"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(labelWidth)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)
)

// LabelFunc names one bar of the chart
type LabelFunc func(history.DayTotal) string

// DayOfMonth labels bars with the day number
func DayOfMonth(d history.DayTotal) string { return fmt.Sprintf("%2d", d.Day) }

// ShortDate labels bars with MM-DD
func ShortDate(d history.DayTotal) string {
	if len(d.Date) >= 10 {
		return d.Date[5:10]
	}
	return d.Date
}

// Render draws a horizontal bar per entry scaled to the largest total.
// Bars use plain text so the output also works outside the TUI.
func Render(series []history.DayTotal, width int, label LabelFunc) string {
	if len(series) == 0 {
		return "No data."
	}
	if label == nil {
		label = ShortDate
	}

	barWidth := width - labelWidth - valueWidth - 2
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	max := history.MaxTotal(series)

	var b strings.Builder
	for _, d := range series {
		n := 0
		if max > 0 {
			n = int(d.Total / max * float64(barWidth))
		}
		if n == 0 && d.Total > 0 {
			n = 1
		}
		fmt.Fprintf(&b, "%-*s %s %s\n",
			labelWidth, label(d),
			strings.Repeat(barRune, n)+strings.Repeat(" ", barWidth-n),
			fmt.Sprintf("%.0f L", d.Total),
		)
	}
	return b.String()
}

// Model shows a chart inside a scrollable viewport
type Model struct {
	viewport viewport.Model
	Title    string
	series   []history.DayTotal
	label    LabelFunc
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

func (m *Model) SetSeries(series []history.DayTotal, label LabelFunc) {
	m.series = series
	m.label = label
	m.render()
}

func (m *Model) render() {
	var b strings.Builder
	if m.Title != "" {
		b.WriteString(valueStyle.Render(m.Title))
		b.WriteString("\n\n")
	}
	for _, line := range strings.Split(strings.TrimRight(Render(m.series, m.width, m.label), "\n"), "\n") {
		if len(line) > labelWidth {
			b.WriteString(labelStyle.Render(line[:labelWidth]))
			b.WriteString(barStyle.Render(line[labelWidth:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}
