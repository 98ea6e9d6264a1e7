package controller

import (
	"reflect"
	"testing"

	"github.com/julianstephens/droplet/internal/models"
)

func recs(names ...string) []models.FootprintRecord {
	out := make([]models.FootprintRecord, 0, len(names))
	for _, id := range names {
		out = append(out, models.FootprintRecord{ID: id, ItemName: id})
	}
	return out
}

func ids(history []models.FootprintRecord) []string {
	out := make([]string, 0, len(history))
	for _, rec := range history {
		out = append(out, rec.ID)
	}
	return out
}

func TestAppendCommandUndo(t *testing.T) {
	cmd := &appendCommand{record: models.FootprintRecord{ID: "x", ItemName: "x"}}
	history := cmd.apply(recs("a", "b"))
	history = append(history, recs("c")...)

	if got := ids(cmd.undo(history)); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("undo() = %v, want [a b c]", got)
	}
}

func TestRemoveCommandUndo(t *testing.T) {
	tests := []struct {
		name   string
		start  []string
		target string
		// change applied between apply and undo
		meanwhile func([]models.FootprintRecord) []models.FootprintRecord
		want      []string
	}{
		{
			name: "nothing changed", start: []string{"a", "b", "c"}, target: "b",
			meanwhile: func(h []models.FootprintRecord) []models.FootprintRecord { return h },
			want:      []string{"a", "b", "c"},
		},
		{
			name: "previous neighbour removed", start: []string{"a", "b", "c"}, target: "b",
			meanwhile: func(h []models.FootprintRecord) []models.FootprintRecord { return h[1:] },
			want:      []string{"b", "c"},
		},
		{
			name: "everything else removed", start: []string{"a", "b", "c"}, target: "c",
			meanwhile: func([]models.FootprintRecord) []models.FootprintRecord { return nil },
			want:      []string{"c"},
		},
		{
			name: "record appended", start: []string{"a"}, target: "a",
			meanwhile: func(h []models.FootprintRecord) []models.FootprintRecord { return append(h, recs("x")...) },
			want:      []string{"a", "x"},
		},
		{
			name: "already back after refetch", start: []string{"a", "b"}, target: "a",
			meanwhile: func([]models.FootprintRecord) []models.FootprintRecord { return recs("a", "b") },
			want:      []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &removeCommand{target: models.FootprintRecord{ID: tt.target}}
			history := tt.meanwhile(cmd.apply(recs(tt.start...)))
			if got := ids(cmd.undo(history)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("undo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoveCommandUndoWithoutMatch(t *testing.T) {
	cmd := &removeCommand{target: models.FootprintRecord{ID: "missing"}}
	history := cmd.apply(recs("a"))
	if cmd.removed {
		t.Fatal("apply() removed a record that is not there")
	}
	if got := ids(cmd.undo(history)); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("undo() = %v, want [a]", got)
	}
}
