package engine

import (
	"path/filepath"
	"testing"

	"github.com/arung-agamani/denpa-radio/internal/block"
	"github.com/arung-agamani/denpa-radio/internal/config"
	"github.com/arung-agamani/denpa-radio/internal/player"
	"github.com/arung-agamani/denpa-radio/internal/player/playertest"
	"github.com/arung-agamani/denpa-radio/internal/schedule"
	"github.com/arung-agamani/denpa-radio/internal/wtime"
)

func newsMusic() *block.Catalog {
	cat := block.New()
	cat.Add(block.Record{Name: "news", Kind: block.KindFile, Data: "file:///n.ogg"})
	cat.Add(block.Record{Name: "music", Kind: block.KindFile, Data: "file:///m.ogg"})
	return cat
}

func newsMusicSchedule() *schedule.Schedule {
	s := schedule.New()
	s.Add(schedule.Entry{Time: 1*wtime.Day + 8*wtime.Hour, Block: "news"})
	s.Add(schedule.Entry{Time: 1*wtime.Day + 9*wtime.Hour, Block: "music"})
	return s
}

func tempLogWriter(t *testing.T) *LogWriter {
	t.Helper()
	lw, err := NewLogWriter(filepath.Join(t.TempDir(), "history.log"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { lw.Close() })
	return lw
}

// TestHardCutAtBoundary reproduces the spec's literal scenario 1: at
// Monday 08:59:59.950 nothing happens; by the tick where 09:00:00.000 is
// reached the engine has cut to music, and after 20 ticks of 100ms at
// slope 0.1 the new deck dominates the old one.
func TestHardCutAtBoundary(t *testing.T) {
	cat := newsMusic()
	sched := newsMusicSchedule()
	pl := playertest.New()
	log := tempLogWriter(t)

	now := 1*wtime.Day + 8*wtime.Hour + 59*wtime.Minute + 59*wtime.Second + 950
	cfg := config.Defaults()
	cfg.ScheduleMode = config.ScheduleHard
	cfg.DefaultBlockMode = config.DefaultBlockOff
	cfg.BlockPlayer.Volume = 1.0
	cfg.EnginePeriod = 100
	e := NewBlockEngine(cfg, sched, cat, pl, log, func() int64 { return now })

	e.Tick(now, cfg.EnginePeriod)
	if _, ok := e.State().(StateMonitorScheduleHard); !ok {
		t.Fatalf("state before boundary = %#v, want StateMonitorScheduleHard", e.State())
	}

	now = 1*wtime.Day + 9*wtime.Hour
	e.Tick(now, cfg.EnginePeriod) // monitor notices the cut is due
	e.Tick(now, cfg.EnginePeriod) // PlayCurrent executes it

	if _, ok := e.State().(StateCrossfade); !ok {
		t.Fatalf("state after cut = %#v, want StateCrossfade", e.State())
	}
	newUnit := pl.CurrentUnit()
	oldUnit := newUnit.Other()
	if pl.URI(newUnit) != "file:///m.ogg" {
		t.Fatalf("new deck URI = %q, want file:///m.ogg", pl.URI(newUnit))
	}

	for i := 0; i < 20; i++ {
		e.Tick(now, cfg.EnginePeriod)
	}
	if v := pl.Volume(newUnit); v < 0.87 {
		t.Fatalf("new deck volume after 20 ticks = %v, want >= 0.87", v)
	}
	if v := pl.Volume(oldUnit); v > 0.13 {
		t.Fatalf("old deck volume after 20 ticks = %v, want <= 0.13", v)
	}
}

// TestSoftCutDeferred reproduces scenario 2: the soft monitor latches
// pending_playlist at the boundary but only actually cuts once the
// in-flight item is within fade_out_time of its end.
func TestSoftCutDeferred(t *testing.T) {
	cat := newsMusic()
	sched := newsMusicSchedule()
	pl := playertest.New()
	log := tempLogWriter(t)

	cfg := config.Defaults()
	cfg.ScheduleMode = config.ScheduleSoft
	cfg.DefaultBlockMode = config.DefaultBlockOff
	cfg.EnginePeriod = 100
	cfg.FadeOutTime = 2000

	now := 1*wtime.Day + 8*wtime.Hour + 59*wtime.Minute + 59*wtime.Second + 0
	e := NewBlockEngine(cfg, sched, cat, pl, log, func() int64 { return now })
	// Put the engine mid-playback of the current (news) block.
	e.playlist = []string{"file:///n.ogg"}
	e.cursor = 0
	e.state = StateMonitorScheduleSoft{}
	pl.SetURI(pl.CurrentUnit(), "file:///n.ogg")
	pl.SetState(pl.CurrentUnit(), player.StatePlaying)
	pl.SetPlaybackProgress(pl.CurrentUnit(), 10_000, 9_000)

	now = 1*wtime.Day + 9*wtime.Hour
	e.Tick(now, cfg.EnginePeriod)
	if !e.pendingPlaylist {
		t.Fatalf("pendingPlaylist not set at boundary")
	}
	if _, ok := e.State().(StateMonitorScheduleSoft); !ok {
		t.Fatalf("state right at boundary = %#v, want still StateMonitorScheduleSoft", e.State())
	}

	// Duration-position = 1000ms <= fade_out_time(2000ms): once the
	// boundary's reached-window has passed, the inspection clause fires.
	now += 200
	e.Tick(now, cfg.EnginePeriod)
	if _, ok := e.State().(StatePlayCurrent); !ok {
		t.Fatalf("state after inspection clause fires = %#v, want StatePlayCurrent", e.State())
	}
	if e.pendingPlaylist {
		t.Fatalf("pendingPlaylist should be consumed")
	}
}

// TestTimeSignalPreempt reproduces scenario 6: the time-signal engine
// preempts on its own schedule, independent of the block engine, and
// never touches the block engine's decks.
func TestTimeSignalPreempt(t *testing.T) {
	cat := block.New()
	cat.Add(block.Record{Name: "ts", Kind: block.KindFile, Data: "file:///ts.ogg"})
	pl := playertest.New()
	log := tempLogWriter(t)

	cfg := config.Defaults()
	cfg.TimeSignalMode = config.TimeSignalHour
	cfg.TimeSignalAdvance = 4_000
	cfg.TimeSignalBlock = "ts"
	cfg.EnginePeriod = 100
	cfg.FadeOutTime = 2_000

	now := 1*wtime.Day + 8*wtime.Hour + 59*wtime.Minute + 56*wtime.Second
	e := NewTimeSignalEngine(cfg, cat, pl, log, func() int64 { return now })

	e.Tick(now, cfg.EnginePeriod) // Null -> MonitorTimeSignal
	e.Tick(now, cfg.EnginePeriod) // monitor fires the cut -> PlayCurrent
	e.Tick(now, cfg.EnginePeriod) // PlayCurrent executes it -> Crossfade
	if _, ok := e.State().(StateCrossfade); !ok {
		t.Fatalf("state at 08:59:56 = %#v, want StateCrossfade (cutting in ts)", e.State())
	}
	if pl.URI(pl.CurrentUnit()) != "file:///ts.ogg" {
		t.Fatalf("time-signal deck URI = %q", pl.URI(pl.CurrentUnit()))
	}
}

func TestSkipHonoredOnlyInMonitorStates(t *testing.T) {
	cat := newsMusic()
	sched := newsMusicSchedule()
	pl := playertest.New()
	log := tempLogWriter(t)
	cfg := config.Defaults()
	now := int64(0)
	e := NewBlockEngine(cfg, sched, cat, pl, log, func() int64 { return now })

	e.state = StateCrossfade{DeadlineMs: 2000}
	if e.Skip(SkipNext) {
		t.Fatalf("skip honored outside a Monitor state")
	}

	e.state = StateMonitorScheduleHard{}
	if !e.Skip(SkipNext) {
		t.Fatalf("skip not honored in StateMonitorScheduleHard")
	}
	if _, ok := e.State().(StatePlayNext); !ok {
		t.Fatalf("state after skip = %#v, want StatePlayNext", e.State())
	}
}

func TestLoadBlockEmptyExpansionKeepsCursorNone(t *testing.T) {
	cat := block.New()
	cat.Add(block.Record{Name: "empty", Kind: block.KindPlaylist, Data: filepath.Join(t.TempDir(), "missing.m3u")})
	e := &Engine{catalog: cat}
	e.loadBlock("empty")
	if e.cursor != noCursor {
		t.Fatalf("cursor = %v, want noCursor after empty expansion", e.cursor)
	}
}

