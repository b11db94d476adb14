// Package playertest provides a deterministic in-memory implementation of
// player.Player for exercising the engine's state machine without a real
// media backend.
package playertest

import "github.com/arung-agamani/denpa-radio/internal/player"

type deck struct {
	volume  float64
	uri     string
	state   player.MediaState
	buffer  int
	dur     int64
	pos     int64
}

// Player is a test double: tests set a deck's media state and its
// duration/position through SetState and SetPlaybackProgress to simulate
// backend callbacks (EOS, errors, near-end) arriving between ticks.
type Player struct {
	decks   [2]deck
	current player.Unit
}

// New returns a Player with both decks Stopped and unit A current.
func New() *Player {
	p := &Player{}
	p.decks[0].state = player.StateStopped
	p.decks[1].state = player.StateStopped
	return p
}

func (p *Player) SetVolume(unit player.Unit, v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.decks[unit].volume = v
}

func (p *Player) SetVolumeIncrement(unit player.Unit, slope, limit float64) {
	v := p.decks[unit].volume
	v += slope * (limit - v)
	p.SetVolume(unit, v)
}

func (p *Player) SetURI(unit player.Unit, uri string)   { p.decks[unit].uri = uri }
func (p *Player) URI(unit player.Unit) string           { return p.decks[unit].uri }
func (p *Player) SetStateNull(unit player.Unit)         { p.decks[unit].state = player.StateStopped }
func (p *Player) SetStateReady(unit player.Unit)        { p.decks[unit].state = player.StateStopped }
func (p *Player) SetStatePaused(unit player.Unit)       { p.decks[unit].state = player.StateOther }
func (p *Player) SetStatePlaying(unit player.Unit)      { p.decks[unit].state = player.StatePlaying }
func (p *Player) SetCurrentUnit(unit player.Unit)       { p.current = unit }
func (p *Player) SwapCurrentUnit()                      { p.current = p.current.Other() }
func (p *Player) CurrentUnit() player.Unit              { return p.current }
func (p *Player) Volume(unit player.Unit) float64       { return p.decks[unit].volume }
func (p *Player) State(unit player.Unit) player.MediaState { return p.decks[unit].state }
func (p *Player) BufferPercent(unit player.Unit) int    { return p.decks[unit].buffer }
func (p *Player) Duration(unit player.Unit) int64       { return p.decks[unit].dur }
func (p *Player) Position(unit player.Unit) int64       { return p.decks[unit].pos }

// SetState lets a test simulate a backend callback changing a deck's
// reported media state (e.g. to StateError or StateStopped for EOS).
func (p *Player) SetState(unit player.Unit, s player.MediaState) {
	p.decks[unit].state = s
}

// SetPlaybackProgress lets a test simulate a deck reporting duration and
// position (used by the "near end" fade-out trigger).
func (p *Player) SetPlaybackProgress(unit player.Unit, duration, position int64) {
	p.decks[unit].dur = duration
	p.decks[unit].pos = position
}
