package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/droplet/internal/backup"
	"github.com/julianstephens/droplet/internal/config"
	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/controller"
	dropleterrors "github.com/julianstephens/droplet/internal/errors"
	"github.com/julianstephens/droplet/internal/keyring"
	"github.com/julianstephens/droplet/internal/logger"
	"github.com/julianstephens/droplet/internal/storage"
	"github.com/julianstephens/droplet/internal/wizard"
)

type Context struct {
	Config *config.Config
	Local  storage.LocalStore
	// Remote is nil when no remote store is configured
	Remote storage.RemoteStore
	Out    io.Writer

	remoteLoaded bool
}

// Writer is where command output goes, stdout unless Out is set
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...)
}

// Timeout bounds a single remote call
func (c *Context) Timeout() time.Duration {
	if c.Config == nil || c.Config.Storage.Timeout <= 0 {
		return constants.DefaultRemoteTimeout
	}
	return c.Config.Storage.Timeout
}

func (c *Context) Location() *time.Location {
	if c.Config == nil {
		return time.Local
	}
	return c.Config.Location()
}

func (c *Context) WizardConfig() wizard.Config {
	if c.Config == nil {
		return wizard.DefaultConfig()
	}
	return wizard.Config{ComputeDelay: c.Config.Wizard.ComputeDelay}
}

// LoadRemote connects the remote store once
func (c *Context) LoadRemote() error {
	if c.Remote == nil {
		return errors.New("no remote store configured (set storage.remote or use 'droplet keyring set')")
	}
	if c.remoteLoaded {
		return nil
	}
	if err := c.Remote.Load(); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.Remote.GetConfigPath(), err)
	}
	c.remoteLoaded = true
	return nil
}

// Identity returns the signed-in identity, or "" when signed out
func (c *Context) Identity() string {
	id, err := keyring.GetIdentity()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Could not read identity from keyring", "error", err)
		}
		return ""
	}
	return id
}

// OpenSession loads the stores and hydrates a controller session for the
// current identity. A signed-in identity without a reachable remote store
// falls back to local history with a warning.
func (c *Context) OpenSession(ctx context.Context) (*controller.Session, error) {
	if err := c.Local.Load(); err != nil {
		return nil, err
	}

	var opts []controller.Option
	var remote storage.Remote
	if identity := c.Identity(); identity != "" {
		if err := c.LoadRemote(); err != nil {
			logger.Warn("Remote store unavailable, using local history", "error", err)
			c.Printf("⚠ %v\n  Using local history instead.\n", err)
		} else {
			remote = c.Remote
			opts = append(opts, controller.WithIdentity(identity))
		}
	}

	session := controller.New(remote, c.Local, opts...)

	hctx, cancel := context.WithTimeout(ctx, c.Timeout())
	defer cancel()
	if err := session.Hydrate(hctx); err != nil {
		c.Printf("⚠ %s\n", dropleterrors.Notification(err))
	}
	return session, nil
}

// PerformAutomaticBackup snapshots the local history, logging failures only
func (c *Context) PerformAutomaticBackup() {
	if _, err := backup.NewManager(c.Local.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Close releases every store
func (c *Context) Close() {
	if c.Local != nil {
		if err := c.Local.Close(); err != nil {
			logger.Warn("Failed to close local store", "error", err)
		}
	}
	if c.Remote != nil && c.remoteLoaded {
		if err := c.Remote.Close(); err != nil {
			logger.Warn("Failed to close remote store", "error", err)
		}
	}
}
