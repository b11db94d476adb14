package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arung-agamani/denpa-radio/internal/player/playertest"
)

func TestDriverRunsUntilCancelled(t *testing.T) {
	dir := t.TempDir()

	blockFile := filepath.Join(dir, "block.conf")
	if err := os.WriteFile(blockFile, []byte(`news file file:///n.ogg`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	scheduleFile := filepath.Join(dir, "schedule.conf")
	if err := os.WriteFile(scheduleFile, []byte(`Monday 08:00:00 news`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	logFile := filepath.Join(dir, "history.log")
	cfgFile := filepath.Join(dir, "aras.conf")
	cfgContent := "BlockFile " + blockFile + "\n" +
		"ScheduleFile " + scheduleFile + "\n" +
		"LogFile " + logFile + "\n" +
		"ConfigurationPeriod 60000\n" +
		"EnginePeriod 20\n"
	if err := os.WriteFile(cfgFile, []byte(cfgContent), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := NewDriver(cfgFile, playertest.New(), playertest.New())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}
