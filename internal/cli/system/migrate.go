package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/migration"
	"github.com/julianstephens/droplet/internal/storage"
)

// migrator is implemented by the SQL-backed stores
type migrator interface {
	Open() error
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	MigrationStatus(ctx context.Context) (migration.Status, error)
}

type MigrateCmd struct {
	Remote bool `help:"Migrate the remote store instead of the local history."`
	Status bool `help:"Only report the schema version."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	var store storage.Provider = ctx.Local
	if c.Remote {
		if ctx.Remote == nil {
			return fmt.Errorf("no remote store configured")
		}
		store = ctx.Remote
	}

	m, ok := store.(migrator)
	if !ok {
		return fmt.Errorf("%s does not use schema migrations", store.GetConfigPath())
	}
	if err := m.Open(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if c.Status {
		st, err := m.MigrationStatus(context.Background())
		if err != nil {
			return err
		}
		ctx.Printf("Schema version %d of %d\n", st.Current, st.Latest)
		for _, p := range st.Pending {
			ctx.Printf("  pending: %03d_%s\n", p.Version, p.Name)
		}
		return nil
	}

	count, err := m.Migrate(context.Background(), func(msg string) { ctx.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
