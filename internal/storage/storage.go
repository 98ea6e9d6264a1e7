package storage

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/droplet/internal/errors"
	"github.com/julianstephens/droplet/internal/models"
)

var (
	// ErrNotFound is returned when a record to delete does not exist
	ErrNotFound = errors.ErrNotFound
	// ErrNotLoaded is returned when a store is used before Init or Load
	ErrNotLoaded = stderrors.New("storage not loaded")
)

// Provider is the lifecycle every backing store shares
type Provider interface {
	Init() error
	Load() error
	Close() error

	// GetConfigPath returns a non-sensitive description of where data lives
	GetConfigPath() string
}

// Remote is the per-identity persistence service
type Remote interface {
	FetchHistory(ctx context.Context, identity string) ([]models.FootprintRecord, error)
	// CommitHistory stores rec and returns the authoritative stored form, carrying its ID
	CommitHistory(ctx context.Context, identity string, rec models.FootprintRecord) (models.FootprintRecord, error)
	DeleteHistory(ctx context.Context, identity, recordID string) error
}

// Local is the durable fallback used when no identity is signed in
type Local interface {
	LocalLoad() ([]models.FootprintRecord, error)
	LocalSave([]models.FootprintRecord) error
}

// LocalStore is a Provider serving the local fallback
type LocalStore interface {
	Provider
	Local
}

// RemoteStore is a Provider serving the persistence service
type RemoteStore interface {
	Provider
	Remote
}

// NewID returns a fresh server-side record identifier
func NewID() string {
	return uuid.NewString()
}

// PrepareCommit assigns the server-side fields of a record about to be stored
func PrepareCommit(rec models.FootprintRecord, now time.Time) models.FootprintRecord {
	rec = rec.Clone().Stamped(now)
	rec.ID = NewID()
	return rec
}
