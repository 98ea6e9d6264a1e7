package models

import (
	"strings"
	"time"

	"github.com/julianstephens/droplet/internal/constants"
)

// Breakdown splits a footprint into its green, blue and grey water components
type Breakdown struct {
	GreenWater float64 `json:"green_water"`
	BlueWater  float64 `json:"blue_water"`
	GreyWater  float64 `json:"grey_water"`
}

// FootprintRecord is one measured or estimated water-footprint event.
// Records are immutable once created; the only mutation is deletion.
type FootprintRecord struct {
	ID                   string     `json:"id,omitempty"` // set only once persisted remotely
	ItemName             string     `json:"item_name" validate:"required"`
	WaterFootprintLiters float64    `json:"water_footprint_liters" validate:"gte=0"`
	Unit                 string     `json:"water_footprint_unit,omitempty"` // display only, aggregation assumes liters
	Category             string     `json:"category,omitempty"`
	Timestamp            string     `json:"timestamp,omitempty"` // RFC 3339; kept as text so one bad value never fails a load
	Severity             string     `json:"severity,omitempty" validate:"omitempty,oneof=Low Medium High"`
	ConfidenceScore      float64    `json:"confidence_score,omitempty" validate:"gte=0,lte=100"`
	Description          string     `json:"description,omitempty"`
	Breakdown            *Breakdown `json:"breakdown,omitempty"`
}

// timestampLayouts lists the accepted timestamp encodings, most specific first.
// Zone-less layouts come from producers that write local ISO-8601 without an offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	constants.DateFormat,
}

// ParseTimestamp parses a record timestamp. Zone-less values are read in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, value)
		} else {
			t, err = time.ParseInLocation(layout, value, loc)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Time returns the record's timestamp in loc, and whether it was present and parsable
func (r FootprintRecord) Time(loc *time.Location) (time.Time, bool) {
	t, ok := ParseTimestamp(r.Timestamp, loc)
	if !ok {
		return time.Time{}, false
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t, true
}

// HasID reports whether the record carries a server-assigned identifier
func (r FootprintRecord) HasID() bool {
	return r.ID != ""
}

// SameRecord reports whether two records denote the same stored event.
// Records are matched by ID when both have one, otherwise by (timestamp, item name).
func (r FootprintRecord) SameRecord(other FootprintRecord) bool {
	if r.HasID() && other.HasID() {
		return r.ID == other.ID
	}
	return r.Timestamp == other.Timestamp && r.ItemName == other.ItemName
}

// Stamped returns a copy of r with Timestamp set to now when it is missing
func (r FootprintRecord) Stamped(now time.Time) FootprintRecord {
	if strings.TrimSpace(r.Timestamp) == "" {
		r.Timestamp = now.Format(constants.TimestampFormat)
	}
	return r
}

// Clone returns a deep copy of r
func (r FootprintRecord) Clone() FootprintRecord {
	if r.Breakdown != nil {
		b := *r.Breakdown
		r.Breakdown = &b
	}
	return r
}

// CloneRecords returns a deep copy of records, preserving order. A nil input yields an empty slice.
func CloneRecords(records []FootprintRecord) []FootprintRecord {
	out := make([]FootprintRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
