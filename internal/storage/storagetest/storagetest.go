// Package storagetest holds behaviour checks shared by every storage adapter's tests.
package storagetest

import (
	"context"
	stderrors "errors"
	"reflect"
	"sort"
	"testing"

	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/storage"
)

// SampleRecords returns a small history exercising every optional field
func SampleRecords() []models.FootprintRecord {
	return []models.FootprintRecord{
		{
			ItemName:             "Coffee",
			WaterFootprintLiters: 140,
			Unit:                 "L",
			Category:             "Beverage",
			Timestamp:            "2024-03-01T08:00:00Z",
			Severity:             "Low",
			ConfidenceScore:      92,
			Description:          "One cup of brewed coffee",
			Breakdown:            &models.Breakdown{GreenWater: 130, BlueWater: 5, GreyWater: 5},
		},
		{
			ItemName:             "Daily Baseline Estimate",
			WaterFootprintLiters: 2735,
			Unit:                 "L",
			Category:             "baseline",
			Timestamp:            "2024-03-02T21:15:00Z",
		},
		{
			ItemName:             "Cotton T-shirt",
			WaterFootprintLiters: 2700,
			Timestamp:            "2024-03-02T21:15:00Z",
			Severity:             "High",
		},
	}
}

func sortKey(r models.FootprintRecord) string {
	return r.Timestamp + "|" + r.ItemName
}

// AssertSameSet fails unless got and want hold the same records, ignoring order
func AssertSameSet(t *testing.T, got, want []models.FootprintRecord) {
	t.Helper()
	g := models.CloneRecords(got)
	w := models.CloneRecords(want)
	sort.SliceStable(g, func(i, j int) bool { return sortKey(g[i]) < sortKey(g[j]) })
	sort.SliceStable(w, func(i, j int) bool { return sortKey(w[i]) < sortKey(w[j]) })
	if !reflect.DeepEqual(g, w) {
		t.Errorf("record sets differ:\n got: %+v\nwant: %+v", g, w)
	}
}

// TestLocal checks that saving then loading reproduces the same records
func TestLocal(t *testing.T, store storage.Local) {
	t.Helper()

	t.Run("EmptyLoad", func(t *testing.T) {
		got, err := store.LocalLoad()
		if err != nil {
			t.Fatalf("LocalLoad() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("LocalLoad() on fresh store = %d records, want 0", len(got))
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		want := SampleRecords()
		if err := store.LocalSave(want); err != nil {
			t.Fatalf("LocalSave() error = %v", err)
		}
		got, err := store.LocalLoad()
		if err != nil {
			t.Fatalf("LocalLoad() error = %v", err)
		}
		AssertSameSet(t, got, want)
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		want := SampleRecords()[:1]
		if err := store.LocalSave(want); err != nil {
			t.Fatalf("LocalSave() error = %v", err)
		}
		got, err := store.LocalLoad()
		if err != nil {
			t.Fatalf("LocalLoad() error = %v", err)
		}
		AssertSameSet(t, got, want)

		if err := store.LocalSave(nil); err != nil {
			t.Fatalf("LocalSave(nil) error = %v", err)
		}
		got, err = store.LocalLoad()
		if err != nil {
			t.Fatalf("LocalLoad() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("after LocalSave(nil) got %d records", len(got))
		}
	})
}

// TestRemote checks commit, fetch and delete against a per-identity store
func TestRemote(t *testing.T, store storage.Remote) {
	t.Helper()
	ctx := context.Background()

	const alice, bob = "alice", "bob"

	var committed []models.FootprintRecord
	t.Run("Commit", func(t *testing.T) {
		for _, rec := range SampleRecords() {
			got, err := store.CommitHistory(ctx, alice, rec)
			if err != nil {
				t.Fatalf("CommitHistory() error = %v", err)
			}
			if got.ID == "" {
				t.Fatal("CommitHistory() did not assign an id")
			}
			if got.ItemName != rec.ItemName || got.WaterFootprintLiters != rec.WaterFootprintLiters {
				t.Errorf("CommitHistory() = %+v, want fields of %+v", got, rec)
			}
			committed = append(committed, got)
		}

		stamped, err := store.CommitHistory(ctx, bob, models.FootprintRecord{ItemName: "Tea", WaterFootprintLiters: 30})
		if err != nil {
			t.Fatalf("CommitHistory() error = %v", err)
		}
		if stamped.Timestamp == "" {
			t.Error("CommitHistory() should stamp a missing timestamp")
		}
	})

	t.Run("FetchIsScopedAndOrdered", func(t *testing.T) {
		got, err := store.FetchHistory(ctx, alice)
		if err != nil {
			t.Fatalf("FetchHistory() error = %v", err)
		}
		if !reflect.DeepEqual(got, committed) {
			t.Errorf("FetchHistory() =\n%+v\nwant\n%+v", got, committed)
		}

		none, err := store.FetchHistory(ctx, "nobody")
		if err != nil {
			t.Fatalf("FetchHistory(unknown) error = %v", err)
		}
		if len(none) != 0 {
			t.Errorf("FetchHistory(unknown) = %d records, want 0", len(none))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if len(committed) == 0 {
			t.Skip("nothing committed")
		}
		if err := store.DeleteHistory(ctx, bob, committed[0].ID); !stderrors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteHistory() across identities error = %v, want ErrNotFound", err)
		}
		if err := store.DeleteHistory(ctx, alice, committed[0].ID); err != nil {
			t.Fatalf("DeleteHistory() error = %v", err)
		}
		if err := store.DeleteHistory(ctx, alice, committed[0].ID); !stderrors.Is(err, storage.ErrNotFound) {
			t.Errorf("second DeleteHistory() error = %v, want ErrNotFound", err)
		}

		got, err := store.FetchHistory(ctx, alice)
		if err != nil {
			t.Fatalf("FetchHistory() error = %v", err)
		}
		if !reflect.DeepEqual(got, committed[1:]) {
			t.Errorf("after delete FetchHistory() = %+v, want %+v", got, committed[1:])
		}
	})
}
