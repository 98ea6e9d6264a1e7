// Package backends picks a storage adapter from a configured path or URL.
package backends

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/keyring"
	"github.com/julianstephens/droplet/internal/logger"
	"github.com/julianstephens/droplet/internal/storage"
	"github.com/julianstephens/droplet/internal/storage/httpremote"
	"github.com/julianstephens/droplet/internal/storage/jsonfile"
	"github.com/julianstephens/droplet/internal/storage/postgres"
	"github.com/julianstephens/droplet/internal/storage/redis"
	"github.com/julianstephens/droplet/internal/storage/sqlite"
)

// Kind names the adapter a target resolves to
type Kind string

const (
	KindNone     Kind = ""
	KindJSON     Kind = "json"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindRedis    Kind = "redis"
	KindHTTP     Kind = "http"
)

// Detect classifies a local path or remote URL
func Detect(target string) Kind {
	target = strings.TrimSpace(target)
	switch {
	case target == "":
		return KindNone
	case postgres.IsConnString(target):
		return KindPostgres
	case redis.IsURL(target):
		return KindRedis
	case httpremote.IsURL(target):
		return KindHTTP
	case strings.HasSuffix(strings.ToLower(target), ".json"):
		return KindJSON
	default:
		return KindSQLite
	}
}

// OpenLocal returns the local fallback store for path: a JSON document for
// .json paths, SQLite otherwise.
func OpenLocal(path string) storage.LocalStore {
	if Detect(path) == KindJSON {
		return jsonfile.New(path)
	}
	return sqlite.NewStore(path)
}

// ResolveRemote returns the configured remote target, falling back to
// DROPLET_DB_CONNECTION and then the connection string stored in the keyring.
func ResolveRemote(configured string) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	if env := strings.TrimSpace(os.Getenv(constants.EnvDBConnection)); env != "" {
		return env
	}
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup failed", "error", err)
		}
		return ""
	}
	return connStr
}

// OpenRemote returns the remote store for target, or nil when target is empty
func OpenRemote(target string) (storage.RemoteStore, error) {
	switch Detect(target) {
	case KindNone:
		return nil, nil
	case KindPostgres:
		// embedded passwords are only reachable through the keyring or
		// environment; config.Validate rejects them everywhere else
		if _, err := postgres.ValidateConnString(target); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		return postgres.New(target), nil
	case KindRedis:
		return redis.New(target), nil
	case KindHTTP:
		return httpremote.New(target), nil
	case KindJSON:
		return nil, fmt.Errorf("a JSON file cannot serve as a remote store: %s", target)
	default:
		return sqlite.NewStore(target), nil
	}
}
