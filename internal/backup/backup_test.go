package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/storage"
	"github.com/julianstephens/droplet/internal/storage/jsonfile"
	"github.com/julianstephens/droplet/internal/storage/sqlite"
)

var seed = []models.FootprintRecord{
	{ItemName: "Coffee", WaterFootprintLiters: 140, Timestamp: "2024-05-01T08:00:00Z"},
	{ItemName: "Jeans", WaterFootprintLiters: 8000, Timestamp: "2024-05-02T08:00:00Z"},
}

func setupHistory(t *testing.T, name string) (string, storage.LocalStore) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	var store storage.LocalStore
	if filepath.Ext(name) == ".json" {
		store = jsonfile.New(path)
	} else {
		store = sqlite.NewStore(path)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init history: %v", err)
	}
	if err := store.LocalSave(seed); err != nil {
		t.Fatalf("failed to seed history: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return path, store
}

func load(t *testing.T, path string) []models.FootprintRecord {
	t.Helper()
	var store storage.LocalStore
	if filepath.Ext(path) == ".json" {
		store = jsonfile.New(path)
	} else {
		store = sqlite.NewStore(path)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load %s: %v", path, err)
	}
	defer store.Close()
	records, err := store.LocalLoad()
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return records
}

func TestCreate(t *testing.T) {
	for _, name := range []string{"droplet.db", "droplet.json"} {
		t.Run(name, func(t *testing.T) {
			path, _ := setupHistory(t, name)
			mgr := NewManager(path)

			backupPath, err := mgr.Create()
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if filepath.Dir(backupPath) != mgr.Dir() {
				t.Errorf("backup written to %s, want %s", filepath.Dir(backupPath), mgr.Dir())
			}
			if filepath.Ext(backupPath) != filepath.Ext(name) {
				t.Errorf("backup extension = %s", filepath.Ext(backupPath))
			}
			if got := load(t, backupPath); len(got) != len(seed) {
				t.Errorf("backup holds %d records, want %d", len(got), len(seed))
			}
		})
	}
}

func TestCreate_MissingHistory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("expected error for missing history")
	}
}

func TestCreate_UniqueNames(t *testing.T) {
	path, _ := setupHistory(t, "droplet.json")
	mgr := NewManager(path)
	fixed := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		p, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		if seen[p] {
			t.Fatalf("duplicate backup name %s", p)
		}
		seen[p] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if !b.Timestamp.Equal(fixed) {
			t.Errorf("timestamp %v parsed from %s, want %v", b.Timestamp, b.Path, fixed)
		}
	}
}

func TestList(t *testing.T) {
	path, _ := setupHistory(t, "droplet.json")
	mgr := NewManager(path)

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		mgr.now = func() time.Time { return ts }
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	// unrelated files are ignored
	if err := os.WriteFile(filepath.Join(mgr.Dir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(mgr.Dir(), FilePrefix+"garbage.json"), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	backups, err = mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if !backups[i-1].Timestamp.After(backups[i].Timestamp) {
			t.Errorf("backups not sorted newest first: %v then %v", backups[i-1].Timestamp, backups[i].Timestamp)
		}
	}

	latest, ok, err := mgr.Latest()
	if err != nil || !ok {
		t.Fatalf("Latest() = %v, %v", ok, err)
	}
	if !latest.Timestamp.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("Latest() = %v", latest.Timestamp)
	}
}

func TestRotation(t *testing.T) {
	path, _ := setupHistory(t, "droplet.json")
	mgr := NewManager(path)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < MaxBackups+5; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		mgr.now = func() time.Time { return ts }
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", MaxBackups, len(backups))
	}
	oldestKept := base.Add(5 * time.Minute)
	if !backups[len(backups)-1].Timestamp.Equal(oldestKept) {
		t.Errorf("oldest kept = %v, want %v", backups[len(backups)-1].Timestamp, oldestKept)
	}
}

func TestRestore(t *testing.T) {
	for _, name := range []string{"droplet.db", "droplet.json"} {
		t.Run(name, func(t *testing.T) {
			path, store := setupHistory(t, name)
			mgr := NewManager(path)

			backupPath, err := mgr.Create()
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			if err := store.LocalSave(seed[:1]); err != nil {
				t.Fatalf("failed to change history: %v", err)
			}
			if err := store.Close(); err != nil {
				t.Fatalf("failed to close history: %v", err)
			}

			safety, err := mgr.Restore(backupPath)
			if err != nil {
				t.Fatalf("Restore failed: %v", err)
			}
			if safety == "" {
				t.Error("expected a safety snapshot of the replaced history")
			} else if got := load(t, safety); len(got) != 1 {
				t.Errorf("safety snapshot holds %d records, want 1", len(got))
			}

			if got := load(t, path); len(got) != len(seed) {
				t.Errorf("restored history holds %d records, want %d", len(got), len(seed))
			}
			if _, err := os.Stat(path + ".restore.tmp"); !os.IsNotExist(err) {
				t.Error("temporary restore file left behind")
			}
		})
	}
}

func TestRestore_Invalid(t *testing.T) {
	path, _ := setupHistory(t, "droplet.json")
	mgr := NewManager(path)

	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing backup")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(bad); err == nil {
		t.Error("expected error for corrupted backup")
	}
	if got := load(t, path); len(got) != len(seed) {
		t.Errorf("history changed by failed restore: %d records", len(got))
	}
}

func TestResolve(t *testing.T) {
	path, _ := setupHistory(t, "droplet.json")
	mgr := NewManager(path)
	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if got := mgr.Resolve(filepath.Base(backupPath)); got != backupPath {
		t.Errorf("Resolve(name) = %s, want %s", got, backupPath)
	}
	if got := mgr.Resolve("elsewhere.json"); got != "elsewhere.json" {
		t.Errorf("Resolve(unknown) = %s", got)
	}
}
