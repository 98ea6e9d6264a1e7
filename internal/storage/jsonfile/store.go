package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/julianstephens/droplet/internal/logger"
	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/storage"
)

const documentVersion = 1

// document is the on-disk layout
type document struct {
	Version int                      `json:"version"`
	History []models.FootprintRecord `json:"waterFootprintHistory"`
}

// Store keeps the local history in a single JSON file
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// Init creates the file with an empty history unless it already exists
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	return s.LocalSave(nil)
}

func (s *Store) Load() error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'droplet init' first")
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// LocalLoad reads the history. A missing file is an empty history.
func (s *Store) LocalLoad() ([]models.FootprintRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.FootprintRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		// older files hold a bare array
		var bare []models.FootprintRecord
		if bareErr := json.Unmarshal(data, &bare); bareErr != nil {
			return nil, fmt.Errorf("failed to parse storage: %w", err)
		}
		doc.History = bare
	}
	if doc.Version > documentVersion {
		logger.Warn("Local history written by a newer droplet", "version", doc.Version, "path", s.path)
	}
	if doc.History == nil {
		doc.History = []models.FootprintRecord{}
	}
	return doc.History, nil
}

// LocalSave replaces the whole history. The write goes to a temp file first so
// a crash never leaves a truncated file behind.
func (s *Store) LocalSave(records []models.FootprintRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if records == nil {
		records = []models.FootprintRecord{}
	}
	data, err := json.MarshalIndent(document{Version: documentVersion, History: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set storage permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

var _ storage.LocalStore = (*Store)(nil)
