package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	session, err := ctx.OpenSession(context.Background())
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	model := tui.NewModel(session, tui.Options{
		Location: ctx.Location(),
		Wizard:   ctx.WizardConfig(),
		Timeout:  ctx.Timeout(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
