package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/cli/records"
	"github.com/julianstephens/droplet/internal/cli/system"
	"github.com/julianstephens/droplet/internal/config"
	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/errors"
	"github.com/julianstephens/droplet/internal/logger"
	"github.com/julianstephens/droplet/internal/storage/backends"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	Local   string `help:"Local history path (.json or SQLite). Overrides storage.local_path."`
	Remote  string `help:"Remote store: PostgreSQL connection string, redis:// URL or persistence service URL. Credentials must NOT be embedded; use the OS keyring or DROPLET_DB_CONNECTION instead."`
	Verbose bool   `name:"debug" help:"Enable debug logging."`

	Init     system.InitCmd      `cmd:"" help:"Initialize droplet storage."`
	Migrate  system.MigrateCmd   `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd       `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Serve    system.ServeCmd     `cmd:"" help:"Run the history persistence service."`
	Login    system.LoginCmd     `cmd:"" help:"Sign in with an identity key."`
	Logout   system.LogoutCmd    `cmd:"" help:"Sign out and use local history."`
	Whoami   system.WhoamiCmd    `cmd:"" help:"Show the signed-in identity."`
	Add      records.AddCmd      `cmd:"" help:"Record a water footprint."`
	Scan     records.ScanCmd     `cmd:"" help:"Look up an item's footprint and record it."`
	Estimate records.EstimateCmd `cmd:"" help:"Estimate your daily baseline footprint."`
	History  records.HistoryCmd  `cmd:"" help:"Show the history of a month."`
	Stats    records.StatsCmd    `cmd:"" help:"Show grade, badges and trends."`
	Delete   records.DeleteCmd   `cmd:"" help:"Delete a record."`
	Validate system.ValidateCmd  `cmd:"" help:"Validate every record of the history."`
	Backup   system.BackupCmd    `cmd:"" help:"Manage local history backups."`
	Debug    system.DebugCmd     `cmd:"" help:"Debug commands for troubleshooting."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the remote connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Water footprint tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Local != "" {
		cfg.Storage.LocalPath = CLI.Local
	}
	if CLI.Remote != "" {
		cfg.Storage.Remote = CLI.Remote
	}
	if CLI.Verbose {
		cfg.Logging.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}

	logCfg := cfg.LoggerConfig()
	// the dashboard owns the terminal
	logCfg.Quiet = ctx.Command() == "tui"
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	remote, err := backends.OpenRemote(backends.ResolveRemote(cfg.Storage.Remote))
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Config: cfg,
		Local:  backends.OpenLocal(cfg.Storage.LocalPath),
		Remote: remote,
	}

	err = ctx.Run(appCtx)
	appCtx.Close()
	if err != nil {
		errors.Fatal(err)
	}
}
