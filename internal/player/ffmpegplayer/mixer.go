package ffmpegplayer

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

const chunkPeriod = time.Duration(chunkFrames) * time.Second / sampleRate

// runMixer pulls one PCM chunk from each deck per tick (silence if a deck
// has nothing ready), sums them sample-by-sample with clipping, and
// writes the result into the encoder's stdin. It runs for the Player's
// entire lifetime; an idle station mixes silence into a live, listenable
// (if quiet) stream rather than stalling.
func (p *Player) runMixer(ctx context.Context) {
	encCmd, stdin, stdout, err := p.startEncoder(ctx)
	if err != nil {
		slog.Error("ffmpegplayer: start encoder", "error", err)
		return
	}
	go p.fanOut(stdout)

	ticker := time.NewTicker(chunkPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			stdin.Close()
			_ = encCmd.Wait()
			return
		case <-ticker.C:
			a := p.readChunk(p.decks[0])
			b := p.readChunk(p.decks[1])
			mixed := mix(a, b)
			if _, err := stdin.Write(mixed); err != nil {
				slog.Error("ffmpegplayer: encoder stdin write", "error", err)
				return
			}
		}
	}
}

func (p *Player) startEncoder(ctx context.Context) (*exec.Cmd, io.WriteCloser, io.ReadCloser, error) {
	return p.enc.StartPCMEncoder(ctx)
}

// fanOut relays encoded MP3 bytes read from the mixer's ffmpeg encoder to
// every subscriber, dropping chunks for a client whose buffer is full
// rather than blocking the whole station (mirrors the teacher's
// broadcastWriter).
func (p *Player) fanOut(r io.Reader) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			p.mu.Lock()
			for _, sub := range p.clients {
				select {
				case sub.ch <- chunk:
				default:
				}
			}
			p.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// readChunk returns the deck's next ready PCM chunk, or nil (which mix
// treats as silence) if the deck has nothing buffered (idle, stopped, or
// behind).
func (p *Player) readChunk(d *deck) []byte {
	d.mu.Lock()
	pcm := d.pcm
	d.mu.Unlock()
	if pcm == nil {
		return nil
	}
	select {
	case chunk, ok := <-pcm:
		if !ok {
			return nil
		}
		return chunk
	default:
		return nil
	}
}

func mix(a, b []byte) []byte {
	out := make([]byte, chunkBytes)
	for i := 0; i+1 < chunkBytes; i += 2 {
		var sa, sb int32
		if i+1 < len(a) {
			sa = int32(int16(uint16(a[i]) | uint16(a[i+1])<<8))
		}
		if i+1 < len(b) {
			sb = int32(int16(uint16(b[i]) | uint16(b[i+1])<<8))
		}
		sum := sa + sb
		if sum > 32767 {
			sum = 32767
		}
		if sum < -32768 {
			sum = -32768
		}
		out[i] = byte(sum)
		out[i+1] = byte(sum >> 8)
	}
	return out
}

// Subscribe registers a new listener; the caller must call Unsubscribe
// when done. Mirrors the teacher's Broadcaster.Subscribe.
func (p *Player) Subscribe() (id uint64, ch <-chan []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id = p.nextID
	p.nextID++
	sub := &subscriber{ch: make(chan []byte, 512)}
	p.clients[id] = sub
	return id, sub.ch
}

// Unsubscribe removes a listener.
func (p *Player) Unsubscribe(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if sub, ok := p.clients[id]; ok {
		delete(p.clients, id)
		close(sub.ch)
	}
}

// ActiveClients returns the number of currently connected listeners.
func (p *Player) ActiveClients() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}
