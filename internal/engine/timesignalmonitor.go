package engine

import (
	"github.com/arung-agamani/denpa-radio/internal/config"
	"github.com/arung-agamani/denpa-radio/internal/wtime"
)

// timeSignalMonitor implements §4.6.4: a single periodic trigger (top of
// the hour, or top of the hour and half hour) that preempts the
// time-signal player's own two-deck engine, advanced the same way as the
// block engine's PlayNext once the current item is done.
type timeSignalMonitor struct {
	mode         config.TimeSignalMode
	advance      int64 // ms before the trigger instant to start the cut
	block        string
	now          func() int64
	enginePeriod int64
}

func newTimeSignalMonitor(mode config.TimeSignalMode, advance int64, block string, now func() int64, enginePeriod int64) *timeSignalMonitor {
	return &timeSignalMonitor{mode: mode, advance: advance, block: block, now: now, enginePeriod: enginePeriod}
}

func (m *timeSignalMonitor) initial() State {
	return StateMonitorTimeSignal{}
}

// SetConfig updates the monitor's mode/advance/block/engine-period, for
// the configuration-reload tick.
func (m *timeSignalMonitor) SetConfig(mode config.TimeSignalMode, advance int64, block string, enginePeriod int64) {
	m.mode = mode
	m.advance = advance
	m.block = block
	m.enginePeriod = enginePeriod
}

// period returns the trigger granularity in milliseconds, or 0 if the
// monitor is off.
func (m *timeSignalMonitor) period() int64 {
	switch m.mode {
	case config.TimeSignalHour:
		return wtime.Hour
	case config.TimeSignalHalf:
		return wtime.Hour / 2
	default:
		return 0
	}
}

// nextTrigger returns the smallest multiple of period() strictly greater
// than now, normalized to the cyclic week.
func (m *timeSignalMonitor) nextTrigger(now, period int64) int64 {
	t := ((now / period) + 1) * period
	return t % wtime.Week
}

func (m *timeSignalMonitor) tick(e *Engine) {
	period := m.period()
	if period == 0 {
		return
	}
	now := m.now()
	trigger := wtime.CyclicDiff(m.nextTrigger(now, period), m.advance)

	if wtime.Reached(now, trigger, m.enginePeriod) {
		e.loadBlock(m.block)
		e.log.TimeSignalBlock(m.block)
		e.state = StatePlayCurrent{}
		return
	}

	if e.cursor == noCursor {
		return
	}
	if e.inspectCurrentDeck() == deckAdvance {
		e.state = StatePlayNext{}
	}
}
