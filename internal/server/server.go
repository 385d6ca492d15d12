package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ivlev/captionsync/internal/frame"
	"github.com/ivlev/captionsync/internal/playback"
	"github.com/ivlev/captionsync/internal/style"
	"github.com/ivlev/captionsync/internal/timeline"
)

// Server exposes a playback session over HTTP and a websocket event stream.
type Server struct {
	session  *playback.Session
	renderer *frame.Renderer
	router   *gin.Engine
}

// New builds the router. Request logging is only enabled in debug mode.
func New(session *playback.Session, renderer *frame.Renderer, debug bool) *Server {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if debug {
		r.Use(gin.Logger())
	}

	s := &Server{session: session, renderer: renderer, router: r}

	r.GET("/api/health", s.health)

	api := r.Group("/api/session")
	{
		api.GET("", s.getSession)
		api.POST("/play", s.play)
		api.POST("/pause", s.pause)
		api.POST("/stop", s.stop)
		api.POST("/seek", s.seek)

		api.GET("/scenes", s.getScenes)
		api.PUT("/scenes", s.putScenes)
		api.PUT("/scenes/:index", s.putScene)
		api.DELETE("/scenes/:index", s.deleteScene)

		api.GET("/style", s.getStyle)
		api.PUT("/style", s.putStyle)

		api.GET("/captions.srt", s.captionsSRT)
		api.GET("/frame.png", s.framePNG)
		api.GET("/qr.png", s.qrPNG)
		api.GET("/ws", s.stream)
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[*] HTTP server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Printf("[*] Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

// statusFor maps session errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, timeline.ErrEmptyTimeline):
		return http.StatusConflict
	case errors.Is(err, style.ErrInvalidColor):
		return http.StatusUnprocessableEntity
	case errors.Is(err, playback.ErrSceneIndex):
		return http.StatusNotFound
	case errors.Is(err, playback.ErrClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Printf("[!] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
