package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/ytlooper/server/internal/domain"
	"github.com/ytlooper/server/internal/service/looper"
)

// validationError wraps field errors of an inbound payload.
type validationError struct {
	fields any
}

func (e *validationError) Error() string {
	return ErrValidationError.Error()
}

func (e *validationError) Unwrap() error {
	return ErrValidationError
}

func (c controller) validateInput(input any) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return &validationError{fields: validationErrors}
	}

	return nil
}

// userError reports whether the controller already told the user about err.
func userError(err error) bool {
	return errors.Is(err, looper.ErrValidation) || errors.Is(err, looper.ErrNotReady)
}

func (c controller) handleAlive(ctx context.Context, _ struct{}) error {
	return nil
}

type PlayerReadyInput struct {
	Duration float64 `json:"duration" validate:"gte=0"`
}

func (c controller) handlePlayerReady(ctx context.Context, input PlayerReadyInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	s := c.getSessionFromCtx(ctx)
	s.player.ready(input.Duration)

	return nil
}

type PlayerStateChangeInput struct {
	State    int     `json:"state" validate:"oneof=-1 0 1 2 3 5"`
	Duration float64 `json:"duration" validate:"gte=0"`
}

func (c controller) handlePlayerStateChange(ctx context.Context, input PlayerStateChangeInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	s := c.getSessionFromCtx(ctx)
	s.player.stateChanged(domain.PlayerState(input.State), input.Duration)

	return nil
}

type PlayerTimeInput struct {
	CurrentTime float64 `json:"current_time" validate:"gte=0"`
	Duration    float64 `json:"duration" validate:"gte=0"`
	State       int     `json:"state" validate:"oneof=-1 0 1 2 3 5"`
	Seq         uint64  `json:"seq"`
}

func (c controller) handlePlayerTime(ctx context.Context, input PlayerTimeInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	s := c.getSessionFromCtx(ctx)
	if !s.player.reportTime(input.Seq, input.CurrentTime, input.Duration, domain.PlayerState(input.State)) {
		c.logger.DebugContext(ctx, "dropped stale time report", "seq", input.Seq)
	}

	return nil
}

type PlayerUnavailableInput struct {
	Reason string `json:"reason" validate:"max=512"`
}

func (c controller) handlePlayerUnavailable(ctx context.Context, input PlayerUnavailableInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	s := c.getSessionFromCtx(ctx)
	if !s.player.unavailable(input.Reason) {
		c.logger.InfoContext(ctx, "player reported unavailable after construction", "reason", input.Reason)
	}

	return nil
}

type LoadVideoInput struct {
	URL string `json:"url" validate:"max=2048"`
}

func (c controller) handleLoadVideo(ctx context.Context, input LoadVideoInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	s := c.getSessionFromCtx(ctx)
	if err := s.looper.LoadVideo(input.URL); err != nil && !userError(err) {
		return fmt.Errorf("failed to load video: %w", err)
	}

	return nil
}

// SetLoopPointsInput keeps the raw field text; parsing is the controller's job.
type SetLoopPointsInput struct {
	Start string `json:"start" validate:"max=64"`
	End   string `json:"end" validate:"max=64"`
}

func (c controller) handleSetLoopPoints(ctx context.Context, input SetLoopPointsInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	s := c.getSessionFromCtx(ctx)
	if err := s.looper.SetLoopPoints(input.Start, input.End); err != nil && !userError(err) {
		return fmt.Errorf("failed to set loop points: %w", err)
	}

	return nil
}

func (c controller) handleStartLooping(ctx context.Context, _ struct{}) error {
	s := c.getSessionFromCtx(ctx)
	if err := s.looper.StartLooping(); err != nil && !userError(err) {
		return fmt.Errorf("failed to start looping: %w", err)
	}

	return nil
}

func (c controller) handleStopLooping(ctx context.Context, _ struct{}) error {
	s := c.getSessionFromCtx(ctx)
	s.looper.StopLooping()

	return nil
}

func (c controller) handleToggleLooping(ctx context.Context, _ struct{}) error {
	s := c.getSessionFromCtx(ctx)
	if err := s.looper.ToggleLooping(); err != nil && !userError(err) {
		return fmt.Errorf("failed to toggle looping: %w", err)
	}

	return nil
}

func (c controller) handleResetCounter(ctx context.Context, _ struct{}) error {
	s := c.getSessionFromCtx(ctx)
	s.looper.ResetCounter()

	return nil
}

func (c controller) handleTogglePlayback(ctx context.Context, _ struct{}) error {
	s := c.getSessionFromCtx(ctx)
	s.looper.TogglePlayback()

	return nil
}
