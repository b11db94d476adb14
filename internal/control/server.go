package control

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/arung-agamani/denpa-radio/internal/auth"
	"github.com/arung-agamani/denpa-radio/internal/engine"
	"github.com/gin-gonic/gin"
)

// Server is the gin-based HTTP control/status surface of §4.10: station
// status, the restreamed MP3 feed, and the DJ-only login/skip/reload
// routes. Adapted from the teacher's Server, which wired the same
// concerns against a hand-rolled net/http.ServeMux.
type Server struct {
	httpServer *http.Server
}

// NewServer builds the route table and binds it to addr (":8080"-style).
// stationName is reported in the stream's icy-name header; eng drives
// both the scheduling engines and the configuration-reload trigger.
func NewServer(addr, stationName string, eng *engine.Driver, stream streamSource, a *auth.Auth) *Server {
	d := NewDriver(eng, stream)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(securityHeaders())

	r.GET("/stream", streamHandler(d, stationName))
	r.GET("/api/status", statusHandler(d))

	r.POST("/api/auth/login", loginHandler(a))
	r.GET("/api/auth/verify", authRequired(a), verifyHandler)

	authed := r.Group("/api", authRequired(a))
	authed.POST("/reload", reloadHandler(d))
	authed.POST("/:engine/skip/:command", skipHandler(d))

	return &Server{
		httpServer: &http.Server{
			Addr:           addr,
			Handler:        r,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   0, // no timeout: /stream is long-lived
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
	}
}

// Start runs the HTTP server until ctx is cancelled, mirroring the
// teacher's Server.Start shutdown pattern.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("control server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
