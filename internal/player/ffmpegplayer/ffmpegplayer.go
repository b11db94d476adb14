// Package ffmpegplayer implements player.Player on top of two independent
// ffmpeg decode pipelines (one per deck) whose raw PCM output is mixed in
// Go and re-encoded into a single broadcast stream. The decode and encode
// subprocesses are both spawned through internal/ffmpeg.Encoder (extended
// here with PCM stdin/stdout streaming methods beyond its original
// file-to-file/file-to-stdout use); the client fan-out is grounded on the
// teacher's internal/radio Broadcaster/clientSub, generalized from "one
// track, one deck" to "two decks, volume-mixed".
package ffmpegplayer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/arung-agamani/denpa-radio/internal/ffmpeg"
	"github.com/arung-agamani/denpa-radio/internal/player"
)

const (
	sampleRate = 44100
	channels   = 2
	bytesPerFrame = channels * 2 // s16le stereo
	chunkFrames   = 1024
	chunkBytes    = chunkFrames * bytesPerFrame
)

// deck owns one ffmpeg decode process and the Go-side state the engine
// observes through player.Player.
type deck struct {
	mu     sync.Mutex
	uri    string
	state  player.MediaState
	cancel context.CancelFunc
	pcm    chan []byte // raw s16le stereo chunks, produced by the decode goroutine

	volumeBits atomic.Uint64 // math.Float64bits(volume)
	posMs      atomic.Int64
	durationMs atomic.Int64
}

func newDeck() *deck {
	d := &deck{state: player.StateStopped}
	d.volumeBits.Store(math.Float64bits(0))
	return d
}

func (d *deck) volume() float64 {
	return math.Float64frombits(d.volumeBits.Load())
}

func (d *deck) setVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	d.volumeBits.Store(math.Float64bits(v))
}

// Player is a two-deck player.Player backed by ffmpeg. Exactly one mixer
// goroutine runs for the lifetime of the Player, continuously reading
// both decks (silence for an idle deck) and feeding the result to an
// encoding ffmpeg process; Subscribe/Unsubscribe fan that encoded stream
// out to HTTP listeners the way the teacher's Broadcaster does.
type Player struct {
	decks   [2]*deck
	current atomic.Int32 // player.Unit

	bitrate string
	enc     *ffmpeg.Encoder

	mu      sync.Mutex
	clients map[uint64]*subscriber
	nextID  uint64
}

type subscriber struct {
	ch chan []byte
}

// New starts the mixer and encoder pipeline and returns a ready Player.
// ctx governs the lifetime of the mixer/encoder goroutines; cancelling it
// stops broadcasting.
func New(ctx context.Context, bitrate string) *Player {
	p := &Player{
		decks:   [2]*deck{newDeck(), newDeck()},
		bitrate: bitrate,
		enc:     ffmpeg.NewEncoder(bitrate, fmt.Sprint(sampleRate), fmt.Sprint(channels)),
		clients: make(map[uint64]*subscriber),
	}
	go p.runMixer(ctx)
	return p
}

func (p *Player) SetVolume(unit player.Unit, v float64) {
	p.decks[unit].setVolume(v)
}

func (p *Player) SetVolumeIncrement(unit player.Unit, slope, limit float64) {
	d := p.decks[unit]
	v := d.volume()
	v += slope * (limit - v)
	d.setVolume(v)
}

func (p *Player) SetURI(unit player.Unit, uri string) {
	d := p.decks[unit]
	d.mu.Lock()
	d.uri = uri
	d.mu.Unlock()
	d.durationMs.Store(probeDurationMs(uri))
}

func (p *Player) URI(unit player.Unit) string {
	d := p.decks[unit]
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.uri
}

func (p *Player) SetStateNull(unit player.Unit)  { p.stopDeck(unit) }
func (p *Player) SetStateReady(unit player.Unit) { p.stopDeck(unit) }

// SetStatePaused has no true pause/resume over a live ffmpeg decode
// pipeline; the engine never calls it (only SetStateReady/Playing
// appear in the automaton), so it is treated as a stop for API
// completeness against the player.Player contract.
func (p *Player) SetStatePaused(unit player.Unit) { p.stopDeck(unit) }

func (p *Player) SetStatePlaying(unit player.Unit) {
	d := p.decks[unit]
	d.mu.Lock()
	uri := d.uri
	already := d.cancel != nil
	d.mu.Unlock()
	if already || uri == "" {
		return
	}
	p.startDeck(unit, d, uri)
}

func (p *Player) stopDeck(unit player.Unit) {
	d := p.decks[unit]
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.state = player.StateStopped
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	d.posMs.Store(0)
}

func (p *Player) startDeck(unit player.Unit, d *deck, uri string) {
	dctx, cancel := context.WithCancel(context.Background())

	cmd, stdout, err := p.enc.StartDecoder(dctx, uri)
	if err != nil {
		slog.Error("ffmpegplayer: start decode", "unit", unit, "uri", uri, "error", err)
		d.mu.Lock()
		d.state = player.StateError
		d.mu.Unlock()
		cancel()
		return
	}

	pcm := make(chan []byte, 32)
	d.mu.Lock()
	d.cancel = cancel
	d.pcm = pcm
	d.state = player.StatePlaying
	d.mu.Unlock()

	go p.decodeLoop(unit, d, stdout, pcm)
	go func() {
		err := cmd.Wait()
		d.mu.Lock()
		stillOurs := d.pcm == pcm
		d.mu.Unlock()
		if !stillOurs {
			return // superseded by a newer SetURI/SetStatePlaying
		}
		d.mu.Lock()
		if err != nil && dctx.Err() == nil {
			d.state = player.StateError
		}
		d.mu.Unlock()
	}()
}

// decodeLoop reads fixed-size raw PCM chunks, scales them by the deck's
// current volume, and hands the scaled bytes to the mixer. EOF marks the
// deck Stopped (the engine's inspection clause treats Stopped as "done").
func (p *Player) decodeLoop(unit player.Unit, d *deck, stdout io.ReadCloser, pcm chan<- []byte) {
	defer close(pcm)
	buf := make([]byte, chunkBytes)
	for {
		n, err := io.ReadFull(stdout, buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			scaleInPlace(chunk, d.volume())
			select {
			case pcm <- chunk:
			default:
				// Mixer is behind; drop this chunk rather than block decode.
			}
			d.posMs.Add(int64(n) * 1000 / (sampleRate * bytesPerFrame))
		}
		if err != nil {
			d.mu.Lock()
			if d.state != player.StateError {
				d.state = player.StateStopped
			}
			d.mu.Unlock()
			return
		}
	}
}

func scaleInPlace(pcm []byte, vol float64) {
	if vol >= 0.999 {
		return
	}
	for i := 0; i+1 < len(pcm); i += 2 {
		sample := int16(uint16(pcm[i]) | uint16(pcm[i+1])<<8)
		scaled := float64(sample) * vol
		if scaled > 32767 {
			scaled = 32767
		}
		if scaled < -32768 {
			scaled = -32768
		}
		out := int16(scaled)
		pcm[i] = byte(out)
		pcm[i+1] = byte(out >> 8)
	}
}

func (p *Player) SetCurrentUnit(unit player.Unit) { p.current.Store(int32(unit)) }
func (p *Player) SwapCurrentUnit()                { p.current.Store(int32(player.Unit(p.current.Load()).Other())) }
func (p *Player) CurrentUnit() player.Unit         { return player.Unit(p.current.Load()) }

func (p *Player) Volume(unit player.Unit) float64 { return p.decks[unit].volume() }

func (p *Player) State(unit player.Unit) player.MediaState {
	d := p.decks[unit]
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// BufferPercent is not observable from this backend (ffmpeg does its own
// internal buffering); report full once a deck has started and empty
// otherwise, which is enough for a status display.
func (p *Player) BufferPercent(unit player.Unit) int {
	if p.State(unit) == player.StatePlaying {
		return 100
	}
	return 0
}

func (p *Player) Duration(unit player.Unit) int64 { return p.decks[unit].durationMs.Load() }
func (p *Player) Position(unit player.Unit) int64 { return p.decks[unit].posMs.Load() }
