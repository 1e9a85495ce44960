package controller

import (
	"context"
	"errors"

	"github.com/ytlooper/server/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsLoggingMw)
	mux.OnError(c.handleWSError)

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)

	// player
	wsrouter.Handle(mux, "PLAYER_READY", c.handlePlayerReady)
	wsrouter.Handle(mux, "PLAYER_STATE_CHANGE", c.handlePlayerStateChange)
	wsrouter.Handle(mux, "PLAYER_TIME", c.handlePlayerTime)
	wsrouter.Handle(mux, "PLAYER_UNAVAILABLE", c.handlePlayerUnavailable)

	// user actions
	wsrouter.Handle(mux, "LOAD_VIDEO", c.handleLoadVideo)
	wsrouter.Handle(mux, "SET_LOOP_POINTS", c.handleSetLoopPoints)
	wsrouter.Handle(mux, "START_LOOPING", c.handleStartLooping)
	wsrouter.Handle(mux, "STOP_LOOPING", c.handleStopLooping)
	wsrouter.Handle(mux, "TOGGLE_LOOPING", c.handleToggleLooping)
	wsrouter.Handle(mux, "RESET_COUNTER", c.handleResetCounter)
	wsrouter.Handle(mux, "TOGGLE_PLAYBACK", c.handleTogglePlayback)

	return mux
}

func (c controller) handleWSError(ctx context.Context, err error) {
	c.logger.InfoContext(ctx, "failed to handle ws message", "error", err)

	s := c.getSessionFromCtx(ctx)
	if s == nil {
		return
	}

	out := errorOutput{Error: err.Error()}
	var vErr *validationError
	if errors.As(err, &vErr) {
		out.Errors = vErr.fields
	}

	_ = s.write(&Output{Type: "ERROR", Payload: out})
}
