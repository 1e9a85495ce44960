package controller

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/ytlooper/server/internal/service/looper"
	"github.com/ytlooper/server/pkg/ctxlogger"
)

// ServeSession upgrades the page connection and runs one loop controller for
// it until the page goes away.
func (c controller) ServeSession(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	sessionID := c.generateTimeBasedId()
	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("session_id", sessionID))
	logger := c.logger.With("session_id", sessionID)

	s := newSession(sessionID, conn, logger)
	defer s.Close()

	if err := c.sessionRepo.Add(s, sessionID); err != nil {
		c.logger.ErrorContext(ctx, "failed to register session", "error", err)
		return
	}
	defer c.sessionRepo.RemoveByConn(s)

	go s.writeLoop()

	s.player = newPlayerBridge(s)
	s.looper = looper.NewController(s.player, s, &c.looperCfg, logger)
	defer s.looper.Close()

	if err := s.write(&Output{Type: "SESSION", Payload: sessionOutput{SessionID: sessionID}}); err != nil {
		c.logger.InfoContext(ctx, "failed to write session", "error", err)
		return
	}

	if err := s.looper.Start(ctx); err != nil {
		c.logger.ErrorContext(ctx, "failed to start looper", "error", err)
		return
	}
	c.logger.InfoContext(ctx, "session started")

	err = c.wsRouter.ServeConn(withSession(ctx, s), conn)
	if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		c.logger.InfoContext(ctx, "session closed unexpectedly", "error", err)
		return
	}
	c.logger.InfoContext(ctx, "session closed")
}
