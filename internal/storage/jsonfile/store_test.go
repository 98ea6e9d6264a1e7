package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/droplet/internal/storage/storagetest"
)

func setupStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "droplet.json")
	store := New(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return store, path
}

func TestStore_Local(t *testing.T) {
	store, _ := setupStore(t)
	storagetest.TestLocal(t, store)
}

func TestStore_InitIsIdempotent(t *testing.T) {
	store, path := setupStore(t)

	if err := store.LocalSave(storagetest.SampleRecords()); err != nil {
		t.Fatalf("LocalSave() error = %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	got, err := store.LocalLoad()
	if err != nil {
		t.Fatalf("LocalLoad() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Init() clobbered existing history: %d records", len(got))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
}

func TestStore_LoadRequiresInit(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); err == nil {
		t.Error("Load() should fail before Init")
	}
	got, err := store.LocalLoad()
	if err != nil || len(got) != 0 {
		t.Errorf("LocalLoad() on missing file = %v, %v; want empty, nil", got, err)
	}
}

func TestStore_ReadsBareArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	legacy := `[{"item_name":"Rice","water_footprint_liters":2500,"timestamp":"2024-01-05T10:00:00.000Z"}]`
	if err := os.WriteFile(path, []byte(legacy), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := New(path).LocalLoad()
	if err != nil {
		t.Fatalf("LocalLoad() error = %v", err)
	}
	if len(got) != 1 || got[0].ItemName != "Rice" || got[0].WaterFootprintLiters != 2500 {
		t.Errorf("LocalLoad() = %+v", got)
	}
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := New(path).LocalLoad(); err == nil {
		t.Error("expected parse error")
	}
}

func TestStore_NoTempFilesLeftBehind(t *testing.T) {
	store, path := setupStore(t)
	for i := 0; i < 3; i++ {
		if err := store.LocalSave(storagetest.SampleRecords()); err != nil {
			t.Fatalf("LocalSave() error = %v", err)
		}
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the store file, found %d entries", len(entries))
	}
}
