package engine

import (
	"github.com/arung-agamani/denpa-radio/internal/block"
	"github.com/arung-agamani/denpa-radio/internal/config"
	"github.com/arung-agamani/denpa-radio/internal/player"
	"github.com/arung-agamani/denpa-radio/internal/schedule"
)

// NewBlockEngine builds the block-scheduling automaton (§4.6.1-3): hard
// or soft, per cfg.ScheduleMode.
func NewBlockEngine(cfg *config.Config, sched *schedule.Schedule, catalog *block.Catalog, pl player.Player, log *LogWriter, now func() int64) *Engine {
	params := Params{
		FadeOutTimeMs: cfg.FadeOutTime,
		FadeOutSlope:  cfg.FadeOutSlope,
		TargetVolume:  cfg.BlockPlayer.Volume,
	}
	if cfg.DefaultBlockMode == config.DefaultBlockOn {
		params.DefaultBlock = cfg.DefaultBlock
	}

	var monitor Monitor
	if cfg.ScheduleMode == config.ScheduleSoft {
		monitor = newSoftMonitor(sched, now, cfg.EnginePeriod)
	} else {
		monitor = newHardMonitor(sched, now, cfg.EnginePeriod)
	}
	return New("block", params, catalog, pl, log, monitor)
}

// NewTimeSignalEngine builds the time-signal automaton (§4.6.4). Its
// default block is always off: a time-signal slot that runs dry simply
// fades out rather than falling back to a default block.
func NewTimeSignalEngine(cfg *config.Config, catalog *block.Catalog, pl player.Player, log *LogWriter, now func() int64) *Engine {
	params := Params{
		FadeOutTimeMs: cfg.FadeOutTime,
		FadeOutSlope:  cfg.FadeOutSlope,
		TargetVolume:  cfg.TimeSignalPlayer.Volume,
	}
	monitor := newTimeSignalMonitor(cfg.TimeSignalMode, cfg.TimeSignalAdvance, cfg.TimeSignalBlock, now, cfg.EnginePeriod)
	return New("time-signal", params, catalog, pl, log, monitor)
}
