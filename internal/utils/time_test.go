package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "valid timezone Asia/Kolkata", timezone: "Asia/Kolkata"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
			if ValidateTimezone(tt.timezone) == tt.wantErr {
				t.Errorf("ValidateTimezone(%q) disagrees with LoadLocation", tt.timezone)
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	ts := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)

	if got := DateKey(ts, loc); got != "2024-02-29" {
		t.Errorf("DateKey() = %q, want 2024-02-29", got)
	}
	if got := DateKey(ts, nil); got != "2024-03-01" {
		t.Errorf("DateKey(nil loc) = %q, want 2024-03-01", got)
	}
}

func TestParseMonth(t *testing.T) {
	year, month, err := ParseMonth("2024-12")
	if err != nil {
		t.Fatalf("ParseMonth() error = %v", err)
	}
	if year != 2024 || month != time.December {
		t.Errorf("ParseMonth() = %d-%s", year, month)
	}

	if _, _, err := ParseMonth("2024-13"); err == nil {
		t.Error("expected error for month 13")
	}
}
