// Package backup keeps rotating snapshots of the local history file.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/droplet/internal/logger"
	"github.com/julianstephens/droplet/internal/storage/jsonfile"
)

const (
	// MaxBackups is how many snapshots rotation keeps
	MaxBackups = 14
	DirName    = "backups"
	FilePrefix = "droplet-"

	stampFormat = "20060102-150405"
)

// Info describes one snapshot on disk
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager snapshots the history file at path into a sibling backups directory
type Manager struct {
	path string
	dir  string
	ext  string
	now  func() time.Time
}

func NewManager(historyPath string) *Manager {
	ext := strings.ToLower(filepath.Ext(historyPath))
	if ext == "" {
		ext = ".db"
	}
	return &Manager{
		path: historyPath,
		dir:  filepath.Join(filepath.Dir(historyPath), DirName),
		ext:  ext,
		now:  time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) isJSON() bool {
	return m.ext == ".json"
}

// Create writes a new snapshot and rotates old ones
func (m *Manager) Create() (string, error) {
	return m.create(true)
}

func (m *Manager) create(rotate bool) (string, error) {
	if _, err := os.Stat(m.path); os.IsNotExist(err) {
		return "", fmt.Errorf("history does not exist: %s", m.path)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dest, err := m.nextName()
	if err != nil {
		return "", err
	}
	if m.isJSON() {
		err = copyFile(m.path, dest)
	} else {
		err = vacuumInto(m.path, dest)
	}
	if err != nil {
		return "", fmt.Errorf("failed to back up history: %w", err)
	}

	if rotate {
		if err := m.rotate(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}
	return dest, nil
}

// nextName picks an unused file name for the current second
func (m *Manager) nextName() (string, error) {
	stamp := m.now().Format(stampFormat)
	name := filepath.Join(m.dir, FilePrefix+stamp+m.ext)
	for n := 1; ; n++ {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return name, nil
		}
		if n > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		name = filepath.Join(m.dir, fmt.Sprintf("%s%s-%d%s", FilePrefix, stamp, n, m.ext))
	}
}

// vacuumInto writes a consistent copy of a live SQLite database
func vacuumInto(src, dest string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("history appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		db.Close()
		return copyFile(src, dest)
	}
	return nil
}

// List returns the snapshots, newest first
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := m.parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.dir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName reads the timestamp out of droplet-YYYYMMDD-HHMMSS[-N].ext
func (m *Manager) parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, m.ext) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, FilePrefix), m.ext)
	if len(stamp) > len(stampFormat) {
		counter := strings.TrimPrefix(stamp[len(stampFormat):], "-")
		if _, err := strconv.Atoi(counter); err != nil {
			return time.Time{}, false
		}
		stamp = stamp[:len(stampFormat)]
	}
	ts, err := time.ParseInLocation(stampFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Latest returns the newest snapshot, if any
func (m *Manager) Latest() (Info, bool, error) {
	backups, err := m.List()
	if err != nil || len(backups) == 0 {
		return Info{}, false, err
	}
	return backups[0], true, nil
}

// Resolve maps a bare file name to its path in the backups directory
func (m *Manager) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	candidate := filepath.Join(m.dir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return name
}

// Restore replaces the history with the snapshot at backupPath. The current
// history is snapshotted first and returned as safety. The history store must
// be closed by the caller.
func (m *Manager) Restore(backupPath string) (safety string, err error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.verify(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(m.path); err == nil {
		// no rotation here, it could delete the snapshot being restored
		safety, err = m.create(false)
		if err != nil {
			return "", fmt.Errorf("failed to back up current history before restore: %w", err)
		}
	}

	tmp := m.path + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return safety, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmp, "error", removeErr)
		}
		return safety, fmt.Errorf("failed to restore history: %w", err)
	}
	return safety, nil
}

func (m *Manager) verify(path string) error {
	if m.isJSON() {
		_, err := jsonfile.New(path).LocalLoad()
		return err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM footprint_records").Scan(&count)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
