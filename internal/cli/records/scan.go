package records

import (
	"context"
	"errors"
	"strings"

	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/recognition"
)

type ScanCmd struct {
	Query   []string `arg:"" help:"Item to look up, e.g. 'cup of coffee'."`
	Service string   `help:"Recognition service base URL (defaults to recognition.url)."`
	DryRun  bool     `help:"Show the result without saving it."`
}

func (c *ScanCmd) Run(ctx *cli.Context) error {
	url := c.Service
	if url == "" && ctx.Config != nil {
		url = ctx.Config.Recognition.URL
	}
	if url == "" {
		return errors.New("no recognition service configured (use --service or recognition.url)")
	}

	rctx, cancel := context.WithTimeout(context.Background(), ctx.Timeout())
	defer cancel()
	rec, err := recognition.New(url).Recognize(rctx, strings.Join(c.Query, " "))
	if err != nil {
		return err
	}

	ctx.Printf("%s: %s\n", rec.ItemName, describe(rec))
	if rec.Description != "" {
		ctx.Printf("  %s\n", rec.Description)
	}
	if b := rec.Breakdown; b != nil {
		ctx.Printf("  green %.0f L · blue %.0f L · grey %.0f L\n", b.GreenWater, b.BlueWater, b.GreyWater)
	}
	if c.DryRun {
		return nil
	}
	return commit(ctx, rec)
}
