package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/keyring"
	"github.com/julianstephens/droplet/internal/validation"
)

type DoctorCmd struct{}

// check is one diagnostic. Warnings are reported but never fail the run.
type check struct {
	name    string
	run     func(ctx *cli.Context) error
	needsDB bool
	warning bool
}

var checks = []check{
	{name: "Schema migrations", run: checkMigrationsComplete, needsDB: true},
	{name: "Data validation", run: checkValidation, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "OS keyring", run: checkKeyring, warning: true},
	{name: "Remote store", run: checkRemote},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := ctx.Local.Load(); err != nil {
		ctx.Printf("❌ Local history reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Local history reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (local history not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case errors.Is(err, errSkipped):
			ctx.Printf("⊘ %s: SKIPPED\n", c.name)
		case err != nil && c.warning:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		case err != nil:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		default:
			ctx.Printf("✓ %s: OK\n", c.name)
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Some checks failed.")
		return errors.New("diagnostics failed")
	}
	ctx.Println("All checks passed.")
	return nil
}

var errSkipped = errors.New("skipped")

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Local.(migrator)
	if !ok {
		// JSON history has no schema
		return errSkipped
	}
	st, err := m.MigrationStatus(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if !st.UpToDate() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", st.Current, st.Latest)
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	records, err := ctx.Local.LocalLoad()
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	result := validation.New().ValidateHistory(records)
	if result.HasIssues() {
		return fmt.Errorf("%d issue(s) found\n%s", len(result.Issues), result.FormatReport())
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Config != nil && ctx.Config.Timezone != "" {
		if _, err := time.LoadLocation(ctx.Config.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", ctx.Config.Timezone, err)
		}
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available; sign-in and stored connection strings will not work")
	}
	return nil
}

func checkRemote(ctx *cli.Context) error {
	if ctx.Remote == nil {
		return errSkipped
	}
	return ctx.LoadRemote()
}
