package system

import (
	"bytes"
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/droplet/internal/cli"
	"github.com/julianstephens/droplet/internal/storage/backends"
)

func setupContext(t *testing.T, name string) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	gokeyring.MockInit()
	t.Setenv("DROPLET_IDENTITY", "")

	path := filepath.Join(t.TempDir(), name)
	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Local: backends.OpenLocal(path),
		Out:   out,
	}
	t.Cleanup(ctx.Close)
	return ctx, out, path
}
