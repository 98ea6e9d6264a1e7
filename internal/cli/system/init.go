package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/droplet/internal/backup"
	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/logger"
	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/storage/backends"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing local history before initialization."`
	Source string `help:"Local history (.json or SQLite) to import records from."`
	Remote bool   `help:"Also initialize the configured remote store."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		path := ctx.Local.GetConfigPath()
		if c.Source != "" {
			absPath, err := filepath.Abs(path)
			if err == nil {
				path = absPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == path {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
			}
		}
		if _, err := os.Stat(path); err == nil {
			if snapshot, err := backup.NewManager(path).Create(); err != nil {
				logger.Warn("Failed to back up history before reset", "error", err)
			} else {
				ctx.Printf("Backed up existing history to: %s\n", snapshot)
			}
			// close first so SQLite releases the file
			if err := ctx.Local.Close(); err != nil {
				return fmt.Errorf("failed to close existing history: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing history: %w", err)
			}
			ctx.Printf("Deleted existing history at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing history: %w", err)
		}
	}

	if err := ctx.Local.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized droplet storage at: %s\n", ctx.Local.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Importing records from: %s\n", c.Source)
		n, err := c.importRecords(ctx)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		ctx.Printf("  Imported %d records\n", n)
	}

	if c.Remote {
		if ctx.Remote == nil {
			return fmt.Errorf("--remote given but no remote store is configured")
		}
		if err := ctx.Remote.Init(); err != nil {
			return fmt.Errorf("failed to initialize remote store: %w", err)
		}
		ctx.Printf("Initialized remote store at: %s\n", ctx.Remote.GetConfigPath())
	}
	return nil
}

// importRecords merges the source history into the local one, skipping
// records already present
func (c *InitCmd) importRecords(ctx *cli.Context) (int, error) {
	source := backends.OpenLocal(c.Source)
	if err := source.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source history: %w", err)
	}
	defer source.Close()

	incoming, err := source.LocalLoad()
	if err != nil {
		return 0, fmt.Errorf("failed to read source history: %w", err)
	}
	existing, err := ctx.Local.LocalLoad()
	if err != nil {
		return 0, fmt.Errorf("failed to read local history: %w", err)
	}

	merged := existing
	added := 0
	for _, rec := range incoming {
		if containsRecord(merged, rec) {
			continue
		}
		merged = append(merged, rec)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := ctx.Local.LocalSave(merged); err != nil {
		return 0, fmt.Errorf("failed to save local history: %w", err)
	}
	return added, nil
}

func containsRecord(records []models.FootprintRecord, rec models.FootprintRecord) bool {
	for _, r := range records {
		if r.SameRecord(rec) {
			return true
		}
	}
	return false
}
