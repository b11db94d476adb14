package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/arung-agamani/denpa-radio/internal/block"
	"github.com/arung-agamani/denpa-radio/internal/config"
	"github.com/arung-agamani/denpa-radio/internal/player"
	"github.com/arung-agamani/denpa-radio/internal/schedule"
	"github.com/arung-agamani/denpa-radio/internal/wtime"
)

// Driver is the single-threaded cooperative loop (§4.7/§5): one goroutine
// multiplexes the configuration-reload, engine-tick and GUI-refresh
// tickers through a single select, so the two engines and any reload
// never run concurrently with each other.
type Driver struct {
	cfgPath string
	cfg     *config.Config

	blockEngine *Engine
	blockMon    *scheduleMonitor
	tsEngine    *Engine
	tsMon       *timeSignalMonitor

	log       *LogWriter
	onGUITick func()
}

// NewDriver loads the directive file at cfgPath along with the schedule
// and block files it names, opens the log file, and builds both engines.
// blockPlayer and timeSignalPlayer must never share a deck.
func NewDriver(cfgPath string, blockPlayer, timeSignalPlayer player.Player) (*Driver, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	cfg.LogSummary()

	catalog, loaded, skipped, err := block.Load(cfg.BlockFile)
	if err != nil {
		return nil, err
	}
	slog.Info("block file loaded", "loaded", loaded, "skipped", skipped)

	sched, loaded, skipped, err := schedule.Load(cfg.ScheduleFile)
	if err != nil {
		return nil, err
	}
	slog.Info("schedule file loaded", "loaded", loaded, "skipped", skipped)

	log, err := NewLogWriter(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	d := &Driver{cfgPath: cfgPath, cfg: cfg, log: log}

	if cfg.ScheduleMode == config.ScheduleSoft {
		d.blockMon = newSoftMonitor(sched, wtime.Now, cfg.EnginePeriod)
	} else {
		d.blockMon = newHardMonitor(sched, wtime.Now, cfg.EnginePeriod)
	}
	d.blockEngine = New("block", blockParams(cfg), catalog, blockPlayer, log, d.blockMon)

	d.tsMon = newTimeSignalMonitor(cfg.TimeSignalMode, cfg.TimeSignalAdvance, cfg.TimeSignalBlock, wtime.Now, cfg.EnginePeriod)
	d.tsEngine = New("time-signal", timeSignalParams(cfg), catalog, timeSignalPlayer, log, d.tsMon)

	return d, nil
}

func blockParams(cfg *config.Config) Params {
	p := Params{
		FadeOutTimeMs: cfg.FadeOutTime,
		FadeOutSlope:  cfg.FadeOutSlope,
		TargetVolume:  cfg.BlockPlayer.Volume,
	}
	if cfg.DefaultBlockMode == config.DefaultBlockOn {
		p.DefaultBlock = cfg.DefaultBlock
	}
	return p
}

func timeSignalParams(cfg *config.Config) Params {
	return Params{
		FadeOutTimeMs: cfg.FadeOutTime,
		FadeOutSlope:  cfg.FadeOutSlope,
		TargetVolume:  cfg.TimeSignalPlayer.Volume,
	}
}

// OnGUITick registers the periodic GUI-refresh callback. Passing nil
// disables the GUI ticker entirely.
func (d *Driver) OnGUITick(fn func()) {
	d.onGUITick = fn
}

// BlockEngine and TimeSignalEngine expose the two engines for a control
// surface to query status or issue skip commands.
func (d *Driver) BlockEngine() *Engine      { return d.blockEngine }
func (d *Driver) TimeSignalEngine() *Engine { return d.tsEngine }

// Run drives the engines until ctx is cancelled. The block engine always
// ticks before the time-signal engine within a single engine-period tick
// (§5's ordering guarantee); neither a configuration reload nor the GUI
// callback can interleave with an in-progress tick, since all three
// tickers are served by the same goroutine.
func (d *Driver) Run(ctx context.Context) error {
	cfgTicker := time.NewTicker(time.Duration(d.cfg.ConfigurationPeriod) * time.Millisecond)
	defer cfgTicker.Stop()
	engineTicker := time.NewTicker(time.Duration(d.cfg.EnginePeriod) * time.Millisecond)
	defer engineTicker.Stop()

	var guiCh <-chan time.Time
	if d.onGUITick != nil && d.cfg.GUIPeriod > 0 {
		guiTicker := time.NewTicker(time.Duration(d.cfg.GUIPeriod) * time.Millisecond)
		defer guiTicker.Stop()
		guiCh = guiTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			return d.log.Close()
		case <-cfgTicker.C:
			d.reload()
		case <-engineTicker.C:
			now := wtime.Now()
			d.blockEngine.Tick(now, d.cfg.EnginePeriod)
			d.tsEngine.Tick(now, d.cfg.EnginePeriod)
		case <-guiCh:
			d.onGUITick()
		}
	}
}

// Reload triggers the same free-then-rebuild reload the configuration
// ticker performs, for a DJ-initiated "reload now" control endpoint.
func (d *Driver) Reload() {
	d.reload()
}

// reload re-reads the directive, schedule and block files and swaps them
// into the running engines atomically (free-then-rebuild, §4.7/§179):
// each engine's own in-flight playlist is left exactly as it was, only
// the tables a future expansion or monitor decision will consult change.
func (d *Driver) reload() {
	cfg, err := config.Load(d.cfgPath)
	if err != nil {
		slog.Error("configuration reload failed", "error", err)
		return
	}
	catalog, loaded, skipped, err := block.Load(cfg.BlockFile)
	if err != nil {
		slog.Error("block file reload failed", "error", err)
		return
	}
	sched, schedLoaded, schedSkipped, err := schedule.Load(cfg.ScheduleFile)
	if err != nil {
		slog.Error("schedule file reload failed", "error", err)
		return
	}

	d.cfg = cfg
	d.blockEngine.SetCatalog(catalog)
	d.blockEngine.SetParams(blockParams(cfg))
	d.blockMon.SetSchedule(sched)
	d.blockMon.SetEnginePeriod(cfg.EnginePeriod)

	d.tsEngine.SetCatalog(catalog)
	d.tsEngine.SetParams(timeSignalParams(cfg))
	d.tsMon.SetConfig(cfg.TimeSignalMode, cfg.TimeSignalAdvance, cfg.TimeSignalBlock, cfg.EnginePeriod)

	slog.Info("configuration reloaded", "blocks_loaded", loaded, "blocks_skipped", skipped,
		"schedule_loaded", schedLoaded, "schedule_skipped", schedSkipped)
}
