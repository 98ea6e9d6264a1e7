// Package controller owns the in-memory history and applies commits and deletes
// against the remote store when an identity is signed in, or the local store otherwise.
package controller

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/droplet/internal/errors"
	"github.com/julianstephens/droplet/internal/logger"
	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/storage"
	"github.com/julianstephens/droplet/internal/validation"
)

var (
	ErrCommitFailed = errors.ErrCommitFailed
	ErrDeleteFailed = errors.ErrDeleteFailed
	ErrFetchFailed  = errors.ErrFetchFailed
	// ErrNoRemote is returned when an identity is signed in but no remote store is configured
	ErrNoRemote = stderrors.New("no remote store configured")
)

// Session is the explicitly owned session context: the current identity and its history.
type Session struct {
	mu       sync.Mutex
	remote   storage.Remote
	local    storage.Local
	identity string
	history  []models.FootprintRecord
	now      func() time.Time
	validate *validation.Validator
}

type Option func(*Session)

// WithClock overrides the clock used to stamp local commits
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIdentity starts the session already signed in
func WithIdentity(identity string) Option {
	return func(s *Session) { s.identity = identity }
}

// New builds a session. Either store may be nil; a nil local store keeps
// unauthenticated history in memory only.
func New(remote storage.Remote, local storage.Local, opts ...Option) *Session {
	s := &Session{
		remote:   remote,
		local:    local,
		history:  []models.FootprintRecord{},
		now:      time.Now,
		validate: validation.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

func (s *Session) Authenticated() bool {
	return s.Identity() != ""
}

// Snapshot returns a copy of the current history in insertion order
func (s *Session) Snapshot() []models.FootprintRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneRecords(s.history)
}

// rollback reverses cmd unless the identity changed since it was applied,
// in which case the history it touched is already gone.
func (s *Session) rollback(identity string, cmd command) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != identity {
		return false
	}
	s.history = cmd.undo(s.history)
	return true
}

// persistLocal rewrites the local store. Failures are logged only.
func (s *Session) persistLocal(history []models.FootprintRecord) {
	if s.local == nil {
		return
	}
	if err := s.local.LocalSave(history); err != nil {
		logger.Error("Failed to persist local history", "error", err)
	}
}

// Hydrate replaces the in-memory history from the backing store. A failed
// remote fetch keeps the last-known history and reports ErrFetchFailed.
func (s *Session) Hydrate(ctx context.Context) error {
	identity := s.Identity()

	if identity == "" {
		if s.local == nil {
			return nil
		}
		records, err := s.local.LocalLoad()
		if err != nil {
			logger.Error("Failed to load local history", "error", err)
			records = nil
		}
		s.mu.Lock()
		s.history = models.CloneRecords(records)
		s.mu.Unlock()
		return nil
	}

	if s.remote == nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, ErrNoRemote)
	}
	records, err := s.remote.FetchHistory(ctx, identity)
	if err != nil {
		logger.Warn("Failed to fetch remote history, keeping last known", "error", err)
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	s.mu.Lock()
	// a sign-out or sign-in during the fetch wins
	if s.identity == identity {
		s.history = models.CloneRecords(records)
	}
	s.mu.Unlock()
	logger.Debug("Hydrated remote history", "count", len(records))
	return nil
}

// SignIn switches the session to identity and loads its history
func (s *Session) SignIn(ctx context.Context, identity string) error {
	if identity == "" {
		return fmt.Errorf("identity cannot be empty")
	}
	s.mu.Lock()
	s.identity = identity
	s.history = []models.FootprintRecord{}
	s.mu.Unlock()
	return s.Hydrate(ctx)
}

// SignOut forgets the identity and its in-memory history. Nothing is removed from persistence.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.identity = ""
	s.history = []models.FootprintRecord{}
	s.mu.Unlock()
}

// Commit adds rec to the history and returns the stored form. Records that
// fail validation are refused before anything is stored.
func (s *Session) Commit(ctx context.Context, rec models.FootprintRecord) (models.FootprintRecord, error) {
	identity := s.Identity()

	if identity == "" {
		stored := rec.Clone().Stamped(s.now())
		stored.ID = ""
		if err := s.validate.ValidateRecord(stored); err != nil {
			return models.FootprintRecord{}, err
		}
		cmd := &appendCommand{record: stored}

		s.mu.Lock()
		s.history = cmd.apply(s.history)
		current := models.CloneRecords(s.history)
		s.mu.Unlock()

		s.persistLocal(current)
		return stored, nil
	}

	if err := s.validate.ValidateRecord(rec); err != nil {
		return models.FootprintRecord{}, err
	}
	if s.remote == nil {
		return models.FootprintRecord{}, fmt.Errorf("%w: %w", ErrCommitFailed, ErrNoRemote)
	}

	stored, err := s.remote.CommitHistory(ctx, identity, rec.Clone())
	if err != nil {
		logger.Warn("Remote commit failed", "item", rec.ItemName, "error", err)
		return models.FootprintRecord{}, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	s.mu.Lock()
	// a sign-out during the call leaves the stored record with its owner only
	if s.identity == identity {
		s.history = (&appendCommand{record: stored}).apply(s.history)
	}
	s.mu.Unlock()
	logger.Debug("Committed record", "id", stored.ID, "item", stored.ItemName)
	return stored, nil
}

// PendingDelete is a delete whose removal is already visible in the history
// and waits on Confirm for the remote call.
type PendingDelete struct {
	session  *Session
	identity string
	cmd      *removeCommand
}

// Record returns the record being deleted as it was held in the history
func (p *PendingDelete) Record() models.FootprintRecord {
	return p.cmd.target.Clone()
}

// BeginDelete removes rec from the in-memory history right away. Signed out,
// the local store is rewritten and the delete is already final.
func (s *Session) BeginDelete(rec models.FootprintRecord) (*PendingDelete, error) {
	cmd := &removeCommand{target: rec}

	s.mu.Lock()
	identity := s.identity
	s.history = cmd.apply(s.history)
	current := models.CloneRecords(s.history)
	s.mu.Unlock()

	if !cmd.removed {
		return nil, fmt.Errorf("%w: %w", ErrDeleteFailed, errors.ErrNotFound)
	}
	if identity == "" {
		s.persistLocal(current)
	}
	return &PendingDelete{session: s, identity: identity, cmd: cmd}, nil
}

// Confirm issues the remote delete. On failure only this record is put back;
// commits and deletes that finished meanwhile are kept.
func (p *PendingDelete) Confirm(ctx context.Context) error {
	if p.identity == "" {
		return nil
	}

	rec := p.cmd.target
	var err error
	switch {
	case p.session.remote == nil:
		err = ErrNoRemote
	case rec.ID == "":
		err = fmt.Errorf("record %q has no remote id", rec.ItemName)
	default:
		err = p.session.remote.DeleteHistory(ctx, p.identity, rec.ID)
	}
	if err != nil {
		if p.session.rollback(p.identity, p.cmd) {
			logger.Warn("Remote delete failed, restored record", "id", rec.ID, "error", err)
		}
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return nil
}

// Delete removes rec from the history. Signed in, the removal is applied
// before the remote call and undone if the call fails.
func (s *Session) Delete(ctx context.Context, rec models.FootprintRecord) error {
	pending, err := s.BeginDelete(rec)
	if err != nil {
		return err
	}
	return pending.Confirm(ctx)
}
