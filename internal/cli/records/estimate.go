package records

import (
	"context"
	"os"
	"os/signal"

	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/tui/wizardform"
	"github.com/julianstephens/droplet/internal/wizard"
)

type EstimateCmd struct {
	DryRun bool `help:"Show the estimate without saving it."`
}

func (c *EstimateCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rec, err := wizardform.Run(sigCtx, wizard.NewDefault(ctx.WizardConfig()), ctx.Writer())
	if err != nil {
		return err
	}

	ctx.Printf("Your daily baseline: %s\n", describe(rec))
	if c.DryRun {
		return nil
	}
	return commit(ctx, rec)
}
