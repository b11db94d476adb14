package control

import (
	"net/http"

	"github.com/arung-agamani/denpa-radio/internal/engine"
	"github.com/gin-gonic/gin"
)

var skipCommandNames = map[string]engine.SkipCommand{
	"previous": engine.SkipPrevious,
	"next":     engine.SkipNext,
	"current":  engine.SkipCurrent,
	"default":  engine.SkipDefault,
}

// skipHandler handles POST /api/:engine/skip/:command (§4.6.5): the
// command is only honored while the named engine is in a Monitor state,
// matching Engine.Skip's own gate.
func skipHandler(d *Driver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var e *engine.Engine
		switch c.Param("engine") {
		case "block":
			e = d.BlockEngine()
		case "time-signal":
			e = d.TimeSignalEngine()
		default:
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "unknown engine"})
			return
		}

		cmd, ok := skipCommandNames[c.Param("command")]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "unknown skip command"})
			return
		}
		if !e.Skip(cmd) {
			c.JSON(http.StatusConflict, gin.H{"status": "error", "error": "engine is not in a monitor state"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// reloadHandler handles POST /api/reload: a DJ-triggered configuration
// reload, otherwise identical to the periodic configuration-reload tick.
func reloadHandler(d *Driver) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.Reload()
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
