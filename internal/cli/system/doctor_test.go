package system

import (
	"strings"
	"testing"

	"github.com/julianstephens/droplet/internal/config"
	"github.com/julianstephens/droplet/internal/models"
)

func TestDoctorCmd_Healthy(t *testing.T) {
	ctx, out, _ := setupContext(t, "history.db")
	if err := ctx.Local.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed on healthy history: %v\n%s", err, out.String())
	}
	for _, want := range []string{
		"✓ Local history reachable: OK",
		"✓ Schema migrations: OK",
		"✓ Data validation: OK",
		"⊘ Remote store: SKIPPED",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorCmd_NotInitialized(t *testing.T) {
	ctx, out, _ := setupContext(t, "history.db")

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail without a history")
	}
	if !strings.Contains(out.String(), "⊘ Data validation: SKIPPED") {
		t.Errorf("expected dependent checks to be skipped:\n%s", out.String())
	}
}

func TestDoctorCmd_InvalidRecords(t *testing.T) {
	ctx, out, _ := setupContext(t, "history.json")
	if err := ctx.Local.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	bad := []models.FootprintRecord{{ItemName: "", WaterFootprintLiters: -5}}
	if err := ctx.Local.LocalSave(bad); err != nil {
		t.Fatalf("failed to seed history: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail on invalid records")
	}
	if !strings.Contains(out.String(), "❌ Data validation: FAIL") {
		t.Errorf("expected validation failure:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "⊘ Schema migrations: SKIPPED") {
		t.Errorf("expected migrations to be skipped for JSON history:\n%s", out.String())
	}
}

func TestCheckClockTimezone(t *testing.T) {
	ctx, _, _ := setupContext(t, "history.db")

	ctx.Config = &config.Config{Timezone: "Europe/Berlin"}
	if err := checkClockTimezone(ctx); err != nil {
		t.Errorf("valid timezone rejected: %v", err)
	}

	ctx.Config = &config.Config{Timezone: "Mars/Olympus"}
	if err := checkClockTimezone(ctx); err == nil {
		t.Error("expected invalid timezone to fail")
	}
}
