package controller

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ytlooper/server/internal/domain"
	"github.com/ytlooper/server/internal/service/looper"
)

const (
	sendBufferSize = 256
	writeWait      = 10 * time.Second
	closeWait      = time.Second
)

var ErrSessionClosed = errors.New("session closed")

// session is one page connection. It owns the page's controller and player
// bridge, and every outgoing message goes through its send queue.
type session struct {
	id     string
	conn   *websocket.Conn
	send   chan *Output
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger

	looper *looper.Controller
	player *playerBridge
}

func newSession(id string, conn *websocket.Conn, logger *slog.Logger) *session {
	return &session{
		id:     id,
		conn:   conn,
		send:   make(chan *Output, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// write queues out without blocking. It is called while the controller holds
// its lock.
func (s *session) write(out *Output) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	select {
	case s.send <- out:
		return nil
	case <-s.done:
		return ErrSessionClosed
	default:
		s.logger.Warn("send queue full, dropping message", "type", out.Type)
		return errors.New("send queue full")
	}
}

func (s *session) writeLoop() {
	for {
		select {
		case <-s.done:
			return
		case out := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Info("failed to set write deadline", "error", err)
			}
			if err := s.conn.WriteJSON(out); err != nil {
				s.logger.Info("failed to write to conn", "error", err)
				s.Close()
				return
			}
		}
	}
}

// Close says goodbye to the page and closes the socket. Safe to call more
// than once.
func (s *session) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(closeWait))
		err = s.conn.Close()
	})

	return err
}

func (s *session) Notify(n domain.Notification) {
	_ = s.write(newNotificationOutput(n))
}

func (s *session) StateChanged(snapshot looper.Snapshot) {
	_ = s.write(newStateOutput(snapshot))
}
