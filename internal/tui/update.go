package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/errors"
	"github.com/julianstephens/droplet/internal/logger"
	"github.com/julianstephens/droplet/internal/tui/components/recordlist"
	"github.com/julianstephens/droplet/internal/tui/wizardform"
	"github.com/julianstephens/droplet/internal/utils"
	"github.com/julianstephens/droplet/internal/wizard"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case hydratedMsg:
		m.refresh()
		if msg.err != nil {
			cmd := m.notify(errors.Notification(msg.err))
			return m, cmd
		}
		return m, nil

	case committedMsg:
		m.inFlight--
		m.refresh()
		if msg.err != nil {
			cmd := m.notify(errors.Notification(msg.err))
			return m, cmd
		}
		cmd := m.notify(fmt.Sprintf("Saved %s (%s L)", msg.record.ItemName, utils.FormatLiters(msg.record.WaterFootprintLiters)))
		return m, cmd

	case deletedMsg:
		m.inFlight--
		m.refresh()
		if msg.err != nil {
			cmd := m.notify(errors.Notification(msg.err))
			return m, cmd
		}
		cmd := m.notify(fmt.Sprintf("Deleted %s", msg.record.ItemName))
		return m, cmd

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notification = ""
		}
		return m, nil

	case computeDoneMsg:
		return m.finishWizard()

	case recordlist.DeleteRecordMsg:
		rec := msg.Record
		m.pendingDelete = &rec
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return m, nil
	}

	switch m.state {
	case constants.StateWizard:
		return m.updateWizard(msg)
	case constants.StateComputing:
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
			if m.state == constants.StateHistory {
				m.state = constants.StateStats
			} else {
				m.state = constants.StateHistory
			}
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.PrevMonth):
			m.cursor = m.cursor.Prev()
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.NextMonth):
			m.cursor = m.cursor.Next()
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.hydrateCmd()
		case key.Matches(msg, m.keys.Wizard):
			return m.startWizard()
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateHistory:
		m.recordList, cmd = m.recordList.Update(msg)
	case constants.StateStats:
		m.weekChart, cmd = m.weekChart.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize() {
	h := m.height - 6
	if h < 3 {
		h = 3
	}
	listWidth := m.width / 2
	m.recordList.SetSize(listWidth, h)
	m.monthChart.SetSize(m.width-listWidth-4, h)
	m.weekChart.SetSize(m.width-4, constants.ChartWindowDays+3)
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		m.state = m.previousState
		if m.pendingDelete == nil {
			return m, nil
		}
		rec := *m.pendingDelete
		m.pendingDelete = nil
		pending, err := m.session.BeginDelete(rec)
		if err != nil {
			cmd := m.notify(errors.Notification(err))
			return m, cmd
		}
		m.refresh()
		m.inFlight++
		return m, m.deleteCmd(pending)
	case "n", "N", "esc":
		m.pendingDelete = nil
		m.state = m.previousState
	}
	return m, nil
}

func (m Model) startWizard() (tea.Model, tea.Cmd) {
	m.wiz = wizard.NewDefault(m.opts.Wizard)
	step, err := wizardform.NewStep(m.wiz)
	if err != nil {
		logger.Error("Failed to start wizard", "error", err)
		cmd := m.notify(errors.Format(err))
		return m, cmd
	}
	m.step = step
	m.previousState = m.state
	m.state = constants.StateWizard
	return m, step.Form().Init()
}

func (m Model) rebuildStep() (tea.Model, tea.Cmd) {
	step, err := wizardform.NewStep(m.wiz)
	if err != nil {
		return m.abandonWizard()
	}
	m.step = step
	return m, step.Form().Init()
}

func (m Model) abandonWizard() (tea.Model, tea.Cmd) {
	m.wiz = nil
	m.step = nil
	m.state = m.previousState
	return m, nil
}

func (m Model) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		if err := m.wiz.Back(); err != nil {
			return m.abandonWizard()
		}
		return m.rebuildStep()
	}

	form, cmd := m.step.Form().Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.step.SetForm(f)
	}

	switch m.step.Form().State {
	case huh.StateCompleted:
		if err := m.step.Apply(m.wiz); err != nil {
			next, rebuild := m.rebuildStep()
			nm := next.(Model)
			notice := nm.notify(err.Error())
			return nm, tea.Batch(rebuild, notice)
		}
		if m.wiz.Phase() == wizard.PhaseComputing {
			m.state = constants.StateComputing
			m.step = nil
			return m, computeCmd(m.wiz.ComputeDelay())
		}
		return m.rebuildStep()
	case huh.StateAborted:
		return m.abandonWizard()
	}
	return m, cmd
}

func (m Model) finishWizard() (tea.Model, tea.Cmd) {
	if m.wiz == nil {
		return m, nil
	}
	rec, err := m.wiz.Finish(m.opts.Now())
	m.wiz = nil
	m.state = m.previousState
	if err != nil {
		cmd := m.notify(errors.Format(err))
		return m, cmd
	}
	m.inFlight++
	return m, m.commitCmd(rec)
}
