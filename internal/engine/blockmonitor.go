package engine

import (
	"github.com/arung-agamani/denpa-radio/internal/schedule"
	"github.com/arung-agamani/denpa-radio/internal/wtime"
)

// lookahead guards against cutting to a new schedule entry so close to
// the next one that the crossfade for the first would still be running
// when the second is due; six engine periods of slack mirrors the
// original daemon's guard band.
const lookaheadPeriods = 6

// scheduleMonitor is the shared body of the hard and soft schedule
// monitors (§4.6.2/§4.6.3): both watch the same schedule and catalog and
// differ only in whether a cut happens immediately or is latched until
// the in-flight item ends.
type scheduleMonitor struct {
	sched        *schedule.Schedule
	now          func() int64
	enginePeriod int64
	soft         bool
}

func newHardMonitor(sched *schedule.Schedule, now func() int64, enginePeriod int64) *scheduleMonitor {
	return &scheduleMonitor{sched: sched, now: now, enginePeriod: enginePeriod}
}

func newSoftMonitor(sched *schedule.Schedule, now func() int64, enginePeriod int64) *scheduleMonitor {
	return &scheduleMonitor{sched: sched, now: now, enginePeriod: enginePeriod, soft: true}
}

func (m *scheduleMonitor) initial() State {
	if m.soft {
		return StateMonitorScheduleSoft{}
	}
	return StateMonitorScheduleHard{}
}

// SetSchedule replaces the schedule watched by this monitor, for the
// configuration-reload tick's "free-then-rebuild" semantics.
func (m *scheduleMonitor) SetSchedule(sched *schedule.Schedule) {
	m.sched = sched
}

// SetEnginePeriod updates the monitor's notion of the configured engine
// period, for the configuration-reload tick.
func (m *scheduleMonitor) SetEnginePeriod(ms int64) {
	m.enginePeriod = ms
}

// tick implements §4.6.2's seven ordered preconditions (shared verbatim
// by the soft monitor of §4.6.3, which only changes what happens once a
// cut is due: immediately for hard, latched in pendingPlaylist for soft).
func (m *scheduleMonitor) tick(e *Engine) {
	now := m.now()

	// 1. Empty playlist with a default block configured: fill it (soft
	// mode only latches the cut; it does not jump to PlayCurrent here
	// any more than it does at precondition 5).
	if e.cursor == noCursor && e.hasDefaultBlock() {
		if m.soft {
			e.pendingPlaylist = true
			return
		}
		e.loadBlock(e.params.DefaultBlock)
		e.log.DefaultBlock(e.params.DefaultBlock)
		e.state = StatePlayCurrent{}
		return
	}

	// 2. No next entry at all: nothing to monitor for.
	next, ok := m.sched.Next(now)
	if !ok {
		return
	}

	// 3. No current entry either (same emptiness as 2; kept distinct to
	// mirror the source precondition list).
	current, ok := m.sched.Current(now)
	if !ok {
		return
	}

	// 4. Too close to the next entry to start a cut safely: wait.
	if wtime.CyclicDiff(next.Time, now) < e.params.FadeOutTimeMs+lookaheadPeriods*m.enginePeriod {
		return
	}

	// 5. The current entry has just been reached: cut (or latch) to it.
	if wtime.Reached(now, current.Time, m.enginePeriod) {
		if m.soft {
			e.pendingPlaylist = true
			return
		}
		e.loadBlock(current.Block)
		e.log.RegularBlock(current.Block)
		e.state = StatePlayCurrent{}
		return
	}

	// 6. Nothing playing to inspect: idle.
	if e.cursor == noCursor {
		return
	}

	// 7. Inspect the current deck; advance (or apply a latched cut) once
	// it is done or about to be.
	m.inspect(e, current)
}

// inspect runs precondition 7: it acts (consuming a latched cut, or
// moving on to PlayNext) once the current deck signals it is done.
func (m *scheduleMonitor) inspect(e *Engine, current schedule.Entry) {
	if e.inspectCurrentDeck() != deckAdvance {
		return
	}
	if m.soft && e.pendingPlaylist {
		e.pendingPlaylist = false
		e.loadBlock(current.Block)
		e.log.RegularBlock(current.Block)
		e.state = StatePlayCurrent{}
		return
	}
	e.state = StatePlayNext{}
}
