package system

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julianstephens/droplet/internal/keyring"
	"github.com/julianstephens/droplet/internal/server"
	"github.com/julianstephens/droplet/internal/storage/httpremote"
	"github.com/julianstephens/droplet/internal/storage/sqlite"
)

func TestLoginLogoutWhoami(t *testing.T) {
	ctx, out, _ := setupContext(t, "history.json")
	if err := ctx.Local.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if err := (&WhoamiCmd{}).Run(ctx); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if !strings.Contains(out.String(), "Not signed in") {
		t.Errorf("unexpected whoami output: %q", out.String())
	}

	out.Reset()
	if err := (&LoginCmd{Identity: "  ada@example.com "}).Run(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !strings.Contains(out.String(), "Signed in as ada@example.com") {
		t.Errorf("unexpected login output: %q", out.String())
	}
	if !strings.Contains(out.String(), "No remote store configured") {
		t.Errorf("expected remote warning: %q", out.String())
	}

	out.Reset()
	if err := (&WhoamiCmd{}).Run(ctx); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "ada@example.com" {
		t.Errorf("whoami = %q", out.String())
	}

	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := keyring.GetIdentity(); err == nil {
		t.Error("identity still stored after logout")
	}
	if err := (&LogoutCmd{}).Run(ctx); err == nil {
		t.Error("expected error on second logout")
	}
}

func TestLoginCmd_HydratesRemote(t *testing.T) {
	ctx, out, _ := setupContext(t, "history.json")
	if err := ctx.Local.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	defer func() { _ = keyring.DeleteIdentity() }()

	backing := sqlite.NewStore(t.TempDir() + "/server.db")
	if err := backing.Init(); err != nil {
		t.Fatalf("failed to init server store: %v", err)
	}
	defer backing.Close()
	srv := httptest.NewServer(server.New(backing).Handler())
	defer srv.Close()
	ctx.Remote = httpremote.New(srv.URL)

	if err := (&LoginCmd{Identity: "ada@example.com"}).Run(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !strings.Contains(out.String(), "0 records in cloud history") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestLoginCmd_EmptyIdentity(t *testing.T) {
	ctx, _, _ := setupContext(t, "history.json")
	if err := (&LoginCmd{Identity: "   "}).Run(ctx); err == nil {
		t.Error("expected error for empty identity")
	}
}
