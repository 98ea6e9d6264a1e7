package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/controller"
	"github.com/julianstephens/droplet/internal/history"
	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/tui/components/chart"
	"github.com/julianstephens/droplet/internal/tui/components/recordlist"
	"github.com/julianstephens/droplet/internal/tui/wizardform"
	"github.com/julianstephens/droplet/internal/wizard"
)

const notificationTTL = 4 * time.Second

// Options tunes the dashboard. Zero values fall back to defaults.
type Options struct {
	Location *time.Location
	Now      func() time.Time
	Wizard   wizard.Config
	// Timeout bounds each remote call issued from the dashboard
	Timeout time.Duration
}

type Model struct {
	session       *controller.Session
	opts          Options
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	cursor        history.MonthCursor
	recordList    recordlist.Model
	monthChart    chart.Model
	weekChart     chart.Model
	wiz           *wizard.Session
	step          *wizardform.Step
	pendingDelete *models.FootprintRecord
	notification  string
	noticeSeq     int
	inFlight      int
	quitting      bool
	width         int
	height        int
}

// Messages produced by commands issued from the dashboard
type (
	hydratedMsg  struct{ err error }
	committedMsg struct {
		record models.FootprintRecord
		err    error
	}
	deletedMsg struct {
		record models.FootprintRecord
		err    error
	}
	computeDoneMsg struct{}
	clearNoticeMsg struct{ seq int }
)

func NewModel(session *controller.Session, opts Options) Model {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultRemoteTimeout
	}

	weekChart := chart.New(0, 0)
	weekChart.Title = "Last 7 days"

	m := Model{
		session:    session,
		opts:       opts,
		state:      constants.StateHistory,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		cursor:     history.CursorFor(opts.Now().In(opts.Location)),
		recordList: recordlist.New(0, 0),
		monthChart: chart.New(0, 0),
		weekChart:  weekChart,
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateHistory:
		keys = append(keys, m.keys.PrevMonth, m.keys.NextMonth, m.keys.Delete, m.keys.Wizard)
	case constants.StateStats:
		keys = append(keys, m.keys.Wizard, m.keys.Refresh)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.PrevMonth, m.keys.NextMonth}
	actions := []key.Binding{m.keys.Delete, m.keys.Wizard}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return m.hydrateCmd()
}

// refresh rederives every view from the current session snapshot
func (m *Model) refresh() {
	records := m.session.Snapshot()
	now := m.opts.Now()

	view := history.AggregateAt(records, m.cursor, m.opts.Location, now)
	m.recordList.SetView(view)
	m.monthChart.Title = view.Cursor.Label()
	m.monthChart.SetSeries(view.Daily, chart.DayOfMonth)
	m.weekChart.SetSeries(history.LastNDays(records, constants.ChartWindowDays, m.opts.Location, now), chart.ShortDate)
}

func (m *Model) notify(text string) tea.Cmd {
	m.noticeSeq++
	m.notification = text
	seq := m.noticeSeq
	return tea.Tick(notificationTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

func (m Model) hydrateCmd() tea.Cmd {
	session, timeout := m.session, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return hydratedMsg{err: session.Hydrate(ctx)}
	}
}

func (m Model) commitCmd(rec models.FootprintRecord) tea.Cmd {
	session, timeout := m.session, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		stored, err := session.Commit(ctx, rec)
		return committedMsg{record: stored, err: err}
	}
}

// deleteCmd finishes a delete whose removal is already on screen
func (m Model) deleteCmd(pending *controller.PendingDelete) tea.Cmd {
	timeout := m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deletedMsg{record: pending.Record(), err: pending.Confirm(ctx)}
	}
}

func computeCmd(delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return computeDoneMsg{} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return computeDoneMsg{} })
}
