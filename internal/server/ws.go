package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// command is a control message a websocket client may send.
type command struct {
	Action string  `json:"action"` // play, pause, stop, seek
	Time   float64 `json:"time"`
}

type commandError struct {
	Error string `json:"error"`
}

// stream forwards every session event to the client as JSON and applies
// control commands read from it.
func (s *Server) stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[!] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := s.session.Subscribe()
	defer cancel()

	replies := make(chan commandError, 8)
	done := make(chan struct{})
	go s.readCommands(conn, replies, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	// Snapshot first so the client can draw before the next event.
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(s.snapshot()); err != nil {
		return
	}

	for {
		select {
		case ev, ok := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case reply := <-replies:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(reply); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *Server) readCommands(conn *websocket.Conn, replies chan<- commandError, done chan<- struct{}) {
	defer close(done)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[!] websocket read: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		if err := s.apply(cmd); err != nil {
			select {
			case replies <- commandError{Error: err.Error()}:
			default:
			}
		}
	}
}

func (s *Server) apply(cmd command) error {
	switch cmd.Action {
	case "play":
		return s.session.Play()
	case "pause":
		s.session.Pause()
	case "stop":
		s.session.Stop()
	case "seek":
		return s.session.Seek(cmd.Time)
	default:
		return fmt.Errorf("unknown action %q", cmd.Action)
	}
	return nil
}

func (s *Server) snapshot() sessionView {
	text, _ := s.session.Caption()
	return sessionView{
		State:   s.session.State(),
		Caption: text,
		Style:   s.session.Style(),
	}
}
