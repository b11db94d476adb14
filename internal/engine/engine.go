// Package engine implements the block-scheduling and time-signal
// automata (§4.6): the two state machines that decide what a player
// should be doing next and drive the crossfade/fade-out transitions
// between decks.
package engine

import (
	"github.com/arung-agamani/denpa-radio/internal/block"
	"github.com/arung-agamani/denpa-radio/internal/expand"
	"github.com/arung-agamani/denpa-radio/internal/player"
)

// noCursor marks an engine with no current position in its playlist.
const noCursor = -1

// Params holds the timing/volume knobs an Engine needs; both the
// block-scheduling and time-signal automata are instances of the same
// Engine, differing only in Params and Monitor.
type Params struct {
	FadeOutTimeMs int64
	FadeOutSlope  float64
	TargetVolume  float64 // volume PlayCurrent/Crossfade ramps the current deck toward
	DefaultBlock  string  // empty means "no default block configured"
}

// Monitor is the automaton-specific half of an Engine: the hard/soft
// schedule monitor or the time-signal monitor. tick runs only while the
// engine is in its own Monitor state; initial returns that state.
type Monitor interface {
	tick(e *Engine)
	initial() State
}

// Engine is one instance of the §4.6.1 state machine: a cursor into a
// playlist of URIs, a two-deck player, and a Monitor that decides when to
// load a new playlist and when to advance/retreat the cursor.
type Engine struct {
	name    string // for logging: "block" or "time-signal"
	params  Params
	catalog *block.Catalog
	pl      player.Player
	log     *LogWriter
	monitor Monitor

	state    State
	playlist []string
	cursor   int // noCursor, or a valid index into playlist

	// pendingPlaylist is the soft-schedule monitor's latch: set when a
	// new schedule/default block should replace the playlist once the
	// in-flight item ends, rather than immediately. Unused by the hard
	// and time-signal monitors, but kept as an Engine field (not a
	// separate soft-only type) since it is part of the same state the
	// hard monitor and the timed states already read and write.
	pendingPlaylist bool
}

// New constructs an Engine in its initial Null state.
func New(name string, params Params, catalog *block.Catalog, pl player.Player, log *LogWriter, monitor Monitor) *Engine {
	return &Engine{
		name:    name,
		params:  params,
		catalog: catalog,
		pl:      pl,
		log:     log,
		monitor: monitor,
		state:   StateNull{},
		cursor:  noCursor,
	}
}

// SetCatalog replaces the catalog used by future playlist expansions,
// for the configuration-reload tick's "free-then-rebuild" semantics
// (§4.7). The in-flight playlist, already expanded, is left untouched.
func (e *Engine) SetCatalog(catalog *block.Catalog) {
	e.catalog = catalog
}

// SetParams replaces the engine's timing/volume parameters, for the
// configuration-reload tick.
func (e *Engine) SetParams(params Params) {
	e.params = params
}

// State returns the engine's current state, mainly for tests and status
// reporting.
func (e *Engine) State() State {
	return e.state
}

// Name returns the engine's label ("block" or "time-signal"), for status
// reporting.
func (e *Engine) Name() string {
	return e.name
}

// PlaylistLen returns the number of entries in the engine's current
// playlist, for status reporting.
func (e *Engine) PlaylistLen() int {
	return len(e.playlist)
}

// Cursor returns the engine's current playlist index, or -1 if none.
func (e *Engine) Cursor() int {
	return e.cursor
}

// CurrentURI returns the URI at the current cursor, or "" if the engine
// has no current position.
func (e *Engine) CurrentURI() string {
	if e.cursor == noCursor {
		return ""
	}
	return e.playlist[e.cursor]
}

// Player exposes the engine's backend, for status reporting (deck
// volumes, positions, current unit) by a control surface.
func (e *Engine) Player() player.Player {
	return e.pl
}

// Skip honors a user skip command (§4.6.5): only while the engine is in
// one of its Monitor states. cmd selects which of the four skip targets
// to move to.
func (e *Engine) Skip(cmd SkipCommand) bool {
	if !IsMonitorState(e.state) {
		return false
	}
	switch cmd {
	case SkipPrevious:
		e.state = StatePlayPrevious{}
	case SkipNext:
		e.state = StatePlayNext{}
	case SkipCurrent:
		e.state = StatePlayCurrent{}
	case SkipDefault:
		e.state = StatePlayDefault{}
	default:
		return false
	}
	return true
}

// SkipCommand enumerates the user-issued skip targets of §4.6.5.
type SkipCommand int

const (
	SkipPrevious SkipCommand = iota
	SkipNext
	SkipCurrent
	SkipDefault
)

// Tick advances the engine by one engine period. now is the current
// week-time in milliseconds; periodMs is the configured engine period,
// added to the elapsed time of the timed states (Crossfade, FadeOut).
func (e *Engine) Tick(now int64, periodMs int64) {
	switch st := e.state.(type) {
	case StateNull:
		e.state = e.monitor.initial()
	case StateMonitorScheduleHard, StateMonitorScheduleSoft, StateMonitorTimeSignal:
		e.monitor.tick(e)
	case StatePlayCurrent:
		e.doPlayCurrent()
	case StatePlayPrevious:
		e.doPlayPrevious()
	case StatePlayNext:
		e.doPlayNext()
	case StatePlayDefault:
		e.doPlayDefault()
	case StateCrossfade:
		e.doCrossfade(st, periodMs)
	case StateFadeOut:
		e.doFadeOut(st, periodMs)
	}
}

// loadBlock expands name into a fresh playlist and positions the cursor
// at its head. If the block expands to nothing, the cursor is left at
// noCursor so PlayCurrent's invariant (cursor is none, or a valid index)
// always holds; the engine then idles back to Null via PlayCurrent.
func (e *Engine) loadBlock(name string) {
	e.playlist = expand.Expand(nil, name, e.catalog, 0)
	if len(e.playlist) == 0 {
		e.cursor = noCursor
		return
	}
	e.cursor = 0
}

func (e *Engine) hasDefaultBlock() bool {
	return e.params.DefaultBlock != ""
}

// loadDefaultOrFadeOut implements the shared "playlist exhausted" tail of
// PlayPrevious/PlayNext/PlayDefault: fall back to the default block when
// configured, otherwise fade out to Null.
func (e *Engine) loadDefaultOrFadeOut() {
	e.playlist = nil
	e.cursor = noCursor
	if e.hasDefaultBlock() {
		e.loadBlock(e.params.DefaultBlock)
		e.log.DefaultBlock(e.params.DefaultBlock)
		e.state = StatePlayCurrent{}
		return
	}
	e.state = StateFadeOut{DeadlineMs: e.params.FadeOutTimeMs}
}

func (e *Engine) doPlayCurrent() {
	if e.cursor == noCursor {
		e.state = StateNull{}
		return
	}
	uri := e.playlist[e.cursor]
	e.pl.SwapCurrentUnit()
	cur := e.pl.CurrentUnit()
	e.pl.SetVolume(cur, 0)
	e.pl.SetURI(cur, uri)
	e.pl.SetStatePlaying(cur)
	e.log.URI(uri)
	e.state = StateCrossfade{DeadlineMs: e.params.FadeOutTimeMs}
}

func (e *Engine) doPlayPrevious() {
	if e.cursor == noCursor {
		e.state = StateNull{}
		return
	}
	e.cursor--
	if e.cursor < 0 {
		e.loadDefaultOrFadeOut()
		return
	}
	e.state = StatePlayCurrent{}
}

func (e *Engine) doPlayNext() {
	if e.cursor == noCursor {
		e.state = StateNull{}
		return
	}
	e.cursor++
	if e.cursor >= len(e.playlist) {
		e.loadDefaultOrFadeOut()
		return
	}
	e.state = StatePlayCurrent{}
}

func (e *Engine) doPlayDefault() {
	e.playlist = nil
	e.cursor = noCursor
	if e.hasDefaultBlock() {
		e.loadBlock(e.params.DefaultBlock)
		e.log.DefaultBlock(e.params.DefaultBlock)
		e.state = StatePlayCurrent{}
		return
	}
	e.state = StateFadeOut{DeadlineMs: e.params.FadeOutTimeMs}
}

func (e *Engine) doCrossfade(st StateCrossfade, periodMs int64) {
	cur := e.pl.CurrentUnit()
	other := cur.Other()
	e.pl.SetVolumeIncrement(cur, e.params.FadeOutSlope, e.params.TargetVolume)
	e.pl.SetVolumeIncrement(other, e.params.FadeOutSlope, 0)

	st.ElapsedMs += periodMs
	if st.ElapsedMs >= st.DeadlineMs {
		e.pl.SetVolume(cur, e.params.TargetVolume)
		e.pl.SetVolume(other, 0)
		e.pl.SetStateReady(other)
		e.state = StateNull{}
		return
	}
	e.state = st
}

func (e *Engine) doFadeOut(st StateFadeOut, periodMs int64) {
	a, b := player.UnitA, player.UnitB
	e.pl.SetVolumeIncrement(a, e.params.FadeOutSlope, 0)
	e.pl.SetVolumeIncrement(b, e.params.FadeOutSlope, 0)

	st.ElapsedMs += periodMs
	if st.ElapsedMs >= st.DeadlineMs {
		e.pl.SetVolume(a, 0)
		e.pl.SetVolume(b, 0)
		e.pl.SetStateReady(a)
		e.pl.SetStateReady(b)
		e.state = StateNull{}
		return
	}
	e.state = st
}

// deckOutcome classifies what the current deck's media state demands of
// a monitor, shared between the hard/soft schedule monitor and the
// time-signal monitor (§4.6.2/§4.6.3/§4.6.4's final precondition).
type deckOutcome int

const (
	deckIdle deckOutcome = iota
	deckAdvance
)

func (e *Engine) inspectCurrentDeck() deckOutcome {
	cur := e.pl.CurrentUnit()
	switch e.pl.State(cur) {
	case player.StateError:
		e.pl.SetStateReady(cur)
		return deckAdvance
	case player.StateStopped:
		return deckAdvance
	case player.StatePlaying:
		dur := e.pl.Duration(cur)
		if dur > 0 && dur-e.pl.Position(cur) <= e.params.FadeOutTimeMs {
			return deckAdvance
		}
		return deckIdle
	default: // Buffering, Other
		return deckIdle
	}
}

