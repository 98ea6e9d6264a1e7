package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/server"
	"github.com/julianstephens/droplet/internal/storage"
	"github.com/julianstephens/droplet/internal/storage/backends"
)

type ServeCmd struct {
	Addr string `help:"Listen address (defaults to server.addr)."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	store, err := c.backingStore(ctx)
	if err != nil {
		return err
	}

	addr := c.Addr
	if addr == "" && ctx.Config != nil {
		addr = ctx.Config.Server.Addr
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.Printf("Serving history from %s on %s\n", store.GetConfigPath(), addr)
	return server.New(store).Run(sigCtx, addr)
}

// backingStore picks the configured remote store, or the local SQLite
// history when none is configured
func (c *ServeCmd) backingStore(ctx *cli.Context) (storage.RemoteStore, error) {
	if ctx.Remote != nil {
		if backends.Detect(ctx.Remote.GetConfigPath()) == backends.KindHTTP {
			return nil, fmt.Errorf("cannot serve from another persistence service (%s)", ctx.Remote.GetConfigPath())
		}
		if err := ctx.LoadRemote(); err != nil {
			return nil, err
		}
		return ctx.Remote, nil
	}

	local, ok := ctx.Local.(storage.RemoteStore)
	if !ok {
		return nil, fmt.Errorf("serving requires a SQL or Redis store; %s is a JSON history", ctx.Local.GetConfigPath())
	}
	if err := local.Init(); err != nil {
		return nil, err
	}
	return local, nil
}
