package backends

import (
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/keyring"
	"github.com/julianstephens/droplet/internal/storage/httpremote"
	"github.com/julianstephens/droplet/internal/storage/jsonfile"
	"github.com/julianstephens/droplet/internal/storage/postgres"
	"github.com/julianstephens/droplet/internal/storage/redis"
	"github.com/julianstephens/droplet/internal/storage/sqlite"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		target string
		want   Kind
	}{
		{"", KindNone},
		{"   ", KindNone},
		{"postgres://u@localhost/droplet", KindPostgres},
		{"postgresql://u@localhost/droplet", KindPostgres},
		{"redis://localhost:6379/0", KindRedis},
		{"http://localhost:8080", KindHTTP},
		{"https://droplet.example.com", KindHTTP},
		{"/tmp/history.JSON", KindJSON},
		{"/tmp/droplet.db", KindSQLite},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := Detect(tt.target); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestOpenLocal(t *testing.T) {
	dir := t.TempDir()
	if _, ok := OpenLocal(filepath.Join(dir, "h.json")).(*jsonfile.Store); !ok {
		t.Error("OpenLocal(.json) should return the JSON store")
	}
	if _, ok := OpenLocal(filepath.Join(dir, "h.db")).(*sqlite.Store); !ok {
		t.Error("OpenLocal(.db) should return the SQLite store")
	}
}

func TestOpenRemote(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		check   func(any) bool
		wantErr bool
	}{
		{"empty", "", func(s any) bool { return s == nil }, false},
		{"postgres", "postgres://u@localhost/droplet", func(s any) bool { _, ok := s.(*postgres.Store); return ok }, false},
		{"postgres password", "postgres://u:p@localhost/droplet", func(s any) bool { _, ok := s.(*postgres.Store); return ok }, false},
		{"postgres malformed", "postgres://localhost:abc/droplet", nil, true},
		{"redis", "redis://localhost:6379/0", func(s any) bool { _, ok := s.(*redis.Store); return ok }, false},
		{"http", "http://localhost:8080", func(s any) bool { _, ok := s.(*httpremote.Client); return ok }, false},
		{"sqlite", "/tmp/remote.db", func(s any) bool { _, ok := s.(*sqlite.Store); return ok }, false},
		{"json", "/tmp/remote.json", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := OpenRemote(tt.target)
			if tt.wantErr {
				if err == nil {
					t.Error("OpenRemote() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("OpenRemote() error = %v", err)
			}
			var got any
			if store != nil {
				got = store
			}
			if !tt.check(got) {
				t.Errorf("OpenRemote(%q) = %T", tt.target, store)
			}
		})
	}
}

func TestResolveRemote(t *testing.T) {
	gokeyring.MockInit()
	t.Setenv(constants.EnvDBConnection, "")

	if got := ResolveRemote(""); got != "" {
		t.Errorf("ResolveRemote() with nothing configured = %q", got)
	}

	if err := keyring.SetConnectionString("postgres://kr@localhost/droplet"); err != nil {
		t.Fatal(err)
	}
	if got := ResolveRemote(""); got != "postgres://kr@localhost/droplet" {
		t.Errorf("ResolveRemote() = %q, want keyring value", got)
	}

	t.Setenv(constants.EnvDBConnection, "postgres://env@localhost/droplet")
	if got := ResolveRemote(""); got != "postgres://env@localhost/droplet" {
		t.Errorf("ResolveRemote() = %q, want env value", got)
	}

	if got := ResolveRemote(" https://droplet.example.com "); got != "https://droplet.example.com" {
		t.Errorf("ResolveRemote() = %q, want configured value", got)
	}
}
