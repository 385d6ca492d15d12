package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ivlev/captionsync/internal/caption"
	"github.com/ivlev/captionsync/internal/frame"
	"github.com/ivlev/captionsync/internal/playback"
	"github.com/ivlev/captionsync/internal/scene"
	"github.com/ivlev/captionsync/internal/style"
	"github.com/ivlev/captionsync/internal/subtitle"
	"github.com/ivlev/captionsync/internal/system"
)

type sessionView struct {
	State   playback.State `json:"state"`
	Caption string         `json:"caption"`
	Style   style.Config   `json:"style"`
}

type seekRequest struct {
	Time *float64 `json:"time" binding:"required"`
}

func (s *Server) health(c *gin.Context) {
	usage, err := system.CurrentUsage()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "usage": usage})
}

func (s *Server) getSession(c *gin.Context) {
	text, err := s.session.Caption()
	if err != nil && statusFor(err) != http.StatusConflict {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, sessionView{
		State:   s.session.State(),
		Caption: text,
		Style:   s.session.Style(),
	})
}

func (s *Server) play(c *gin.Context) {
	if err := s.session.Play(); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, s.session.State())
}

func (s *Server) pause(c *gin.Context) {
	s.session.Pause()
	c.JSON(http.StatusOK, s.session.State())
}

func (s *Server) stop(c *gin.Context) {
	s.session.Stop()
	c.JSON(http.StatusOK, s.session.State())
}

func (s *Server) seek(c *gin.Context) {
	var req seekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := s.session.Seek(*req.Time); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, s.session.State())
}

func (s *Server) getScenes(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Scenes())
}

func (s *Server) putScenes(c *gin.Context) {
	var scenes []scene.Scene
	if err := c.ShouldBindJSON(&scenes); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	s.session.SetScenes(scenes)
	c.JSON(http.StatusOK, s.session.State())
}

func (s *Server) putScene(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("scene index: %w", err))
		return
	}
	var sc scene.Scene
	if err := c.ShouldBindJSON(&sc); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := s.session.UpdateScene(index, sc); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, s.session.State())
}

func (s *Server) deleteScene(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("scene index: %w", err))
		return
	}
	if err := s.session.RemoveScene(index); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, s.session.State())
}

func (s *Server) getStyle(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Style())
}

// putStyle merges the body over the current style, so partial updates work.
func (s *Server) putStyle(c *gin.Context) {
	cfg := s.session.Style()
	if err := c.ShouldBindJSON(&cfg); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if _, err := style.Resolve(cfg); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	s.session.SetStyle(cfg)
	c.JSON(http.StatusOK, s.session.Style())
}

func (s *Server) captionsSRT(c *gin.Context) {
	cues := caption.Cues(s.session.Scenes(), s.session.Style())

	var buf bytes.Buffer
	if err := subtitle.WriteSRT(&buf, cues); err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "application/x-subrip; charset=utf-8", buf.Bytes())
}

// framePNG renders the frame at ?t=seconds, or at the current time.
func (s *Server) framePNG(c *gin.Context) {
	t := s.session.State().CurrentTime
	if raw := c.Query("t"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fail(c, http.StatusBadRequest, fmt.Errorf("query t: %w", err))
			return
		}
		t = v
	}

	img, err := s.renderer.RenderAt(s.session.Scenes(), t, s.session.Style())
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	defer s.renderer.Release(img)

	var buf bytes.Buffer
	if err := frame.EncodePNG(&buf, img); err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
