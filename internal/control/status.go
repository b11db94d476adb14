package control

import (
	"net/http"

	"github.com/arung-agamani/denpa-radio/internal/engine"
	"github.com/arung-agamani/denpa-radio/internal/player"
	"github.com/gin-gonic/gin"
)

// deckStatus is one deck's observable state for the status snapshot.
type deckStatus struct {
	URI         string  `json:"uri"`
	Volume      float64 `json:"volume"`
	State       string  `json:"state"`
	Duration    int64   `json:"duration_ms"`
	Position    int64   `json:"position_ms"`
	BufferedPct int     `json:"buffer_percent"`
}

// engineStatus is one engine's observable state for the status snapshot.
type engineStatus struct {
	Name         string     `json:"name"`
	State        string     `json:"state"`
	PlaylistLen  int        `json:"playlist_len"`
	Cursor       int        `json:"cursor"`
	CurrentURI   string     `json:"current_uri"`
	CurrentUnit  string     `json:"current_unit"`
	DeckA        deckStatus `json:"deck_a"`
	DeckB        deckStatus `json:"deck_b"`
}

func mediaStateName(s player.MediaState) string {
	switch s {
	case player.StateError:
		return "error"
	case player.StateBuffering:
		return "buffering"
	case player.StateStopped:
		return "stopped"
	case player.StatePlaying:
		return "playing"
	default:
		return "other"
	}
}

func unitName(u player.Unit) string {
	if u == player.UnitA {
		return "a"
	}
	return "b"
}

func snapshot(e *engine.Engine) engineStatus {
	p := e.Player()
	deck := func(u player.Unit) deckStatus {
		return deckStatus{
			URI:         p.URI(u),
			Volume:      p.Volume(u),
			State:       mediaStateName(p.State(u)),
			Duration:    p.Duration(u),
			Position:    p.Position(u),
			BufferedPct: p.BufferPercent(u),
		}
	}
	return engineStatus{
		Name:        e.Name(),
		State:       engine.StateName(e.State()),
		PlaylistLen: e.PlaylistLen(),
		Cursor:      e.Cursor(),
		CurrentURI:  e.CurrentURI(),
		CurrentUnit: unitName(p.CurrentUnit()),
		DeckA:       deck(player.UnitA),
		DeckB:       deck(player.UnitB),
	}
}

// statusHandler serves GET /api/status: a read-only snapshot of both
// engines, with no authentication required (listeners may poll it from
// a now-playing widget).
func statusHandler(d *Driver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"block":       snapshot(d.BlockEngine()),
			"time_signal": snapshot(d.TimeSignalEngine()),
			"listeners":   d.ActiveClients(),
		})
	}
}
