package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDirectivesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aras.conf")
	content := `
ScheduleFile /etc/aras/schedule.conf
BlockFile /etc/aras/block.conf
ScheduleMode soft
FadeOutSlope 0.25
FadeOutTime -500
TimeSignalMode hour
# a comment
GarbageDirective should-be-ignored
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ScheduleFile != "/etc/aras/schedule.conf" {
		t.Fatalf("ScheduleFile = %q", cfg.ScheduleFile)
	}
	if cfg.ScheduleMode != ScheduleSoft {
		t.Fatalf("ScheduleMode = %v, want Soft", cfg.ScheduleMode)
	}
	if cfg.FadeOutSlope != 0.25 {
		t.Fatalf("FadeOutSlope = %v, want 0.25", cfg.FadeOutSlope)
	}
	if cfg.FadeOutTime != 0 {
		t.Fatalf("FadeOutTime = %v, want 0 (max(0,-500))", cfg.FadeOutTime)
	}
	if cfg.TimeSignalMode != TimeSignalHour {
		t.Fatalf("TimeSignalMode = %v, want Hour", cfg.TimeSignalMode)
	}
	// Untouched directives keep their defaults.
	if cfg.EnginePeriod != 100 {
		t.Fatalf("EnginePeriod = %v, want default 100", cfg.EnginePeriod)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.ScheduleMode != ScheduleHard || cfg.DefaultBlockMode != DefaultBlockOn {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
