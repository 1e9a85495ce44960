package looper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ytlooper/server/internal/domain"
)

// Player is the transport surface of the embedded video player. Commands are
// fire-and-forget.
type Player interface {
	LoadVideoByID(videoID string)
	SeekTo(seconds float64)
	PlayVideo()
	PauseVideo()
}

// Query capabilities. A player instance may exist before it can answer them,
// so the controller type-asserts before every call.
type (
	CurrentTimer interface {
		CurrentTime() (float64, bool)
	}
	DurationReporter interface {
		Duration() (float64, bool)
	}
	StateReporter interface {
		PlayerState() (domain.PlayerState, bool)
	}
)

// PlayerListener receives player notifications for one controller.
type PlayerListener interface {
	OnReady(Player)
	OnStateChange(domain.PlayerState)
	OnUnavailable(error)
}

type PlayerConstructor interface {
	// Construct may block for as long as the capability takes to appear,
	// including forever.
	Construct(context.Context, *PlayerConfig, PlayerListener) (Player, error)
}

// Observer is the presentation layer.
type Observer interface {
	Notify(domain.Notification)
	StateChanged(Snapshot)
}

type Config struct {
	PollInterval    time.Duration
	ReadyTimeout    time.Duration
	NotificationTTL time.Duration
	Player          PlayerConfig
	Clock           clock.Clock
}

func DefaultConfig() *Config {
	return &Config{
		PollInterval:    100 * time.Millisecond,
		ReadyTimeout:    5 * time.Second,
		NotificationTTL: domain.DefaultNotificationTTL,
		Player:          DefaultPlayerConfig(),
	}
}

type poller struct {
	ticker *clock.Ticker
	done   chan struct{}
}

// Controller is the loop state machine for a single page. Every entry point
// holds mu for its whole run, so handlers never interleave.
type Controller struct {
	mu          sync.Mutex
	constructor PlayerConstructor
	observer    Observer
	logger      *slog.Logger
	clock       clock.Clock
	cfg         Config

	player  Player
	loop    domain.LoopConfiguration
	state   domain.LoopState
	session domain.PlayerSession

	// endEdited is set once the user commits loop points; the default end
	// is no longer clamped to the video duration after that.
	endEdited bool

	poller      *poller
	fallback    *clock.Timer
	cancel      context.CancelFunc
	started     bool
	closed      bool
	shownSecond int
}

func NewController(constructor PlayerConstructor, observer Observer, cfg *Config, logger *slog.Logger) *Controller {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := Controller{
		constructor: constructor,
		observer:    observer,
		logger:      logger,
		clock:       cfg.Clock,
		cfg:         *cfg,
		loop:        domain.NewLoopConfiguration(),
	}
	if c.clock == nil {
		c.clock = clock.New()
	}

	return &c
}

// Start requests the player and arms the readiness fallback.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.started {
		return ErrAlreadyStarted
	}
	c.started = true

	ctx, c.cancel = context.WithCancel(ctx)
	c.fallback = c.clock.AfterFunc(c.cfg.ReadyTimeout, c.readyTimeout)
	go c.construct(ctx)

	c.publish()
	return nil
}

func (c *Controller) construct(ctx context.Context) {
	player, err := c.constructor.Construct(ctx, &c.cfg.Player, c)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.OnUnavailable(fmt.Errorf("failed to construct player: %w", err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.player == nil {
		c.player = player
	}
	c.logger.Debug("player constructed")
}

// Close stops every timer owned by the controller. It is safe to call more
// than once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.stopFallback()
	c.stopPolling()
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot()
}

func (c *Controller) snapshot() Snapshot {
	session := c.session
	if session.VideoID != nil {
		videoID := *session.VideoID
		session.VideoID = &videoID
	}

	return Snapshot{
		Loop:    c.loop,
		State:   c.state,
		Session: session,
		Controls: Controls{
			CanLoadVideo:     session.IsReady,
			CanSetLoopPoints: !c.state.IsLooping,
			CanStartLooping:  !c.state.IsLooping,
			CanStopLooping:   c.state.IsLooping,
		},
	}
}

func (c *Controller) publish() {
	c.observer.StateChanged(c.snapshot())
}

func (c *Controller) notify(kind domain.NotificationKind, message string) {
	c.observer.Notify(domain.Notification{
		Message: message,
		Kind:    kind,
		TTL:     c.cfg.NotificationTTL,
	})
}

func (c *Controller) succeed(message string) {
	c.notify(domain.NotificationSuccess, message)
	c.publish()
}

func (c *Controller) fail(err error) error {
	c.logger.Debug("operation rejected", "error", err)
	c.notify(domain.NotificationError, err.Error())
	return err
}

type nopObserver struct{}

func (nopObserver) Notify(domain.Notification) {}
func (nopObserver) StateChanged(Snapshot)      {}
