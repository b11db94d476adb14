package ffmpegplayer

import (
	"testing"

	"github.com/arung-agamani/denpa-radio/internal/player"
)

func int16Bytes(v int16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func TestScaleInPlaceHalvesAmplitude(t *testing.T) {
	pcm := append(int16Bytes(10000), int16Bytes(-10000)...)
	scaleInPlace(pcm, 0.5)
	got1 := int16(uint16(pcm[0]) | uint16(pcm[1])<<8)
	got2 := int16(uint16(pcm[2]) | uint16(pcm[3])<<8)
	if got1 != 5000 || got2 != -5000 {
		t.Fatalf("got %d, %d; want 5000, -5000", got1, got2)
	}
}

func TestScaleInPlaceNoopAtFullVolume(t *testing.T) {
	pcm := int16Bytes(12345)
	scaleInPlace(pcm, 1.0)
	got := int16(uint16(pcm[0]) | uint16(pcm[1])<<8)
	if got != 12345 {
		t.Fatalf("got %d, want unchanged 12345", got)
	}
}

func TestMixSumsAndClips(t *testing.T) {
	a := append(int16Bytes(20000), make([]byte, chunkBytes-2)...)
	b := append(int16Bytes(20000), make([]byte, chunkBytes-2)...)
	out := mix(a, b)
	got := int16(uint16(out[0]) | uint16(out[1])<<8)
	if got != 32767 {
		t.Fatalf("got %d, want clipped 32767", got)
	}
}

func TestMixHandlesNilDeck(t *testing.T) {
	out := mix(nil, nil)
	if len(out) != chunkBytes {
		t.Fatalf("len(out) = %d, want %d", len(out), chunkBytes)
	}
	for _, b := range out {
		if b != 0 {
			t.Fatalf("expected silence, got non-zero byte")
		}
	}
}

func TestDeckVolumeSetAndIncrement(t *testing.T) {
	p := &Player{decks: [2]*deck{newDeck(), newDeck()}}
	p.SetVolume(player.UnitA, 0.5)
	if v := p.Volume(player.UnitA); v != 0.5 {
		t.Fatalf("Volume = %v, want 0.5", v)
	}
	p.SetVolumeIncrement(player.UnitA, 0.1, 1.0)
	if v := p.Volume(player.UnitA); v <= 0.5 || v >= 0.6 {
		t.Fatalf("Volume after increment = %v, want in (0.5, 0.6)", v)
	}
}

func TestCurrentUnitSwap(t *testing.T) {
	p := &Player{decks: [2]*deck{newDeck(), newDeck()}}
	p.SetCurrentUnit(player.UnitA)
	if p.CurrentUnit() != player.UnitA {
		t.Fatalf("CurrentUnit = %v, want UnitA", p.CurrentUnit())
	}
	p.SwapCurrentUnit()
	if p.CurrentUnit() != player.UnitB {
		t.Fatalf("CurrentUnit after swap = %v, want UnitB", p.CurrentUnit())
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	p := &Player{clients: make(map[uint64]*subscriber)}
	id, ch := p.Subscribe()
	if p.ActiveClients() != 1 {
		t.Fatalf("ActiveClients = %d, want 1", p.ActiveClients())
	}
	p.Unsubscribe(id)
	if p.ActiveClients() != 0 {
		t.Fatalf("ActiveClients after unsubscribe = %d, want 0", p.ActiveClients())
	}
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after Unsubscribe")
	}
}
