package system

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/droplet/internal/backup"
	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/history"
	"github.com/julianstephens/droplet/internal/validation"
)

type DebugCmd struct {
	Paths      DebugPathsCmd      `cmd:"" help:"Show storage locations as JSON."`
	DumpRecord DebugDumpRecordCmd `cmd:"" help:"Dump one record as JSON."`
	DumpMonth  DebugDumpMonthCmd  `cmd:"" help:"Dump the derived month view as JSON."`
}

type DebugPathsCmd struct{}

func (cmd *DebugPathsCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"local":   ctx.Local.GetConfigPath(),
		"backups": backup.NewManager(ctx.Local.GetConfigPath()).Dir(),
	}
	if ctx.Remote != nil {
		output["remote"] = ctx.Remote.GetConfigPath()
	}
	if ctx.Config != nil {
		output["config_dir"] = ctx.Config.ConfigDir()
	}
	return printJSON(ctx, output)
}

type DebugDumpRecordCmd struct {
	ID string `arg:"" help:"ID of the record to dump."`
}

func (cmd *DebugDumpRecordCmd) Run(ctx *cli.Context) error {
	session, err := ctx.OpenSession(context.Background())
	if err != nil {
		return err
	}
	for _, rec := range session.Snapshot() {
		if rec.ID == cmd.ID {
			return printJSON(ctx, rec)
		}
	}
	return fmt.Errorf("record not found: %s", cmd.ID)
}

type DebugDumpMonthCmd struct {
	Month string `arg:"" optional:"" help:"Month to dump (YYYY-MM). Defaults to the current month."`
}

func (cmd *DebugDumpMonthCmd) Run(ctx *cli.Context) error {
	loc := ctx.Location()
	now := time.Now().In(loc)
	cursor := history.CursorFor(now)
	if cmd.Month != "" {
		c, err := history.ParseCursor(cmd.Month)
		if err != nil {
			return err
		}
		cursor = c
	}

	session, err := ctx.OpenSession(context.Background())
	if err != nil {
		return err
	}
	return printJSON(ctx, history.AggregateAt(session.Snapshot(), cursor, loc, now))
}

func printJSON(ctx *cli.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}

// ValidateCmd checks every record of the current history
type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	session, err := ctx.OpenSession(context.Background())
	if err != nil {
		return err
	}

	records := session.Snapshot()
	ctx.Printf("Validating %d records...\n", len(records))
	result := validation.New().ValidateHistory(records)
	if !result.HasIssues() {
		ctx.Println("✓ No issues found")
		return nil
	}
	ctx.Println(result.FormatReport())
	return fmt.Errorf("%d issue(s) found", len(result.Issues))
}
