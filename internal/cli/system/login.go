package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/keyring"
)

// LoginCmd signs in by storing an identity key. Records committed while
// signed in go to the remote store under that identity.
type LoginCmd struct {
	Identity string `arg:"" help:"Identity key (e.g. an email address)."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if err := keyring.SetIdentity(c.Identity); err != nil {
		return err
	}
	ctx.Printf("✓ Signed in as %s\n", ctx.Identity())

	if ctx.Remote == nil {
		ctx.Println("⚠ No remote store configured; history stays local until one is set")
		return nil
	}
	session, err := ctx.OpenSession(context.Background())
	if err != nil {
		return err
	}
	if session.Authenticated() {
		ctx.Printf("  %d records in cloud history\n", len(session.Snapshot()))
	}
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteIdentity(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("not signed in")
		}
		return fmt.Errorf("failed to sign out: %w", err)
	}
	ctx.Println("✓ Signed out. New records are saved to local history.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	id := ctx.Identity()
	if id == "" {
		ctx.Println("Not signed in (local history)")
		return nil
	}
	ctx.Printf("%s\n", id)
	if ctx.Remote != nil {
		ctx.Printf("  remote: %s\n", ctx.Remote.GetConfigPath())
	}
	return nil
}
