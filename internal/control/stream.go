package control

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxStreamClients = 64

// streamHandler serves GET /stream: the block engine's two decks, mixed
// and MP3-encoded, relayed chunk-by-chunk to the response. Adapted from
// the teacher's StreamHandler.ServeHTTP.
func streamHandler(d *Driver, stationName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.ActiveClients() >= maxStreamClients {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": "too many listeners"})
			slog.Warn("listener rejected", "reason", "max_clients_reached", "max", maxStreamClients)
			return
		}

		id, ch := d.stream.Subscribe()
		clientIP := c.Request.RemoteAddr
		slog.Info("listener connected", "ip", clientIP, "active_clients", d.ActiveClients())
		defer func() {
			d.stream.Unsubscribe(id)
			slog.Info("listener disconnected", "ip", clientIP, "active_clients", d.ActiveClients())
		}()

		w := c.Writer
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Transfer-Encoding", "chunked")
		w.Header().Set("icy-name", stationName)
		w.Header().Set("Cache-Control", "no-cache, no-store")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		ctx := c.Request.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case chunk, ok := <-ch:
				if !ok {
					return
				}
				if _, err := w.Write(chunk); err != nil {
					return
				}
				w.Flush()
			}
		}
	}
}
