package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ytlooper/server/internal/domain"
	"github.com/ytlooper/server/internal/service/looper"
)

var ErrPlayerUnavailable = errors.New("player unavailable")

type outbox interface {
	write(*Output) error
}

// playerBridge drives the player hosted by the page. Commands go out as
// PLAYER_COMMAND messages, queries are answered from the last values the page
// reported.
type playerBridge struct {
	mu       sync.Mutex
	out      outbox
	listener looper.PlayerListener

	settled    chan struct{}
	settleOnce sync.Once
	settleErr  error

	seq         uint64
	lastSeekSeq uint64

	currentTime float64
	hasTime     bool
	duration    float64
	hasDuration bool
	state       domain.PlayerState
	hasState    bool
}

func newPlayerBridge(out outbox) *playerBridge {
	return &playerBridge{
		out:     out,
		settled: make(chan struct{}),
	}
}

// Construct asks the page to build the player and waits until the page
// reports it ready or unavailable.
func (b *playerBridge) Construct(ctx context.Context, cfg *looper.PlayerConfig, listener looper.PlayerListener) (looper.Player, error) {
	b.mu.Lock()
	b.listener = listener
	b.mu.Unlock()

	if err := b.out.write(&Output{Type: "CONSTRUCT_PLAYER", Payload: cfg}); err != nil {
		return nil, fmt.Errorf("failed to request player: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.settled:
		if b.settleErr != nil {
			return nil, b.settleErr
		}
		return b, nil
	}
}

func (b *playerBridge) settle(err error) {
	b.settleOnce.Do(func() {
		b.settleErr = err
		close(b.settled)
	})
}

func (b *playerBridge) getListener() looper.PlayerListener {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.listener
}

func (b *playerBridge) command(out playerCommandOutput, seek bool) {
	b.mu.Lock()
	b.seq++
	out.Seq = b.seq
	if seek {
		b.lastSeekSeq = b.seq
	}
	b.mu.Unlock()

	_ = b.out.write(&Output{Type: "PLAYER_COMMAND", Payload: out})
}

func (b *playerBridge) LoadVideoByID(videoID string) {
	b.mu.Lock()
	b.currentTime, b.hasTime = 0, true
	b.mu.Unlock()

	b.command(playerCommandOutput{Command: "loadVideoById", VideoID: videoID}, true)
}

func (b *playerBridge) SeekTo(seconds float64) {
	b.mu.Lock()
	b.currentTime, b.hasTime = seconds, true
	b.mu.Unlock()

	b.command(playerCommandOutput{Command: "seekTo", Seconds: &seconds}, true)
}

func (b *playerBridge) PlayVideo() {
	b.command(playerCommandOutput{Command: "playVideo"}, false)
}

func (b *playerBridge) PauseVideo() {
	b.command(playerCommandOutput{Command: "pauseVideo"}, false)
}

func (b *playerBridge) CurrentTime() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.currentTime, b.hasTime
}

func (b *playerBridge) Duration() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.duration, b.hasDuration
}

func (b *playerBridge) PlayerState() (domain.PlayerState, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state, b.hasState
}

func (b *playerBridge) setDuration(duration float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.duration, b.hasDuration = duration, true
}

func (b *playerBridge) ready(duration float64) {
	b.setDuration(duration)
	b.settle(nil)

	if l := b.getListener(); l != nil {
		l.OnReady(b)
	}
}

func (b *playerBridge) stateChanged(state domain.PlayerState, duration float64) {
	b.mu.Lock()
	b.state, b.hasState = state, true
	b.duration, b.hasDuration = duration, true
	b.mu.Unlock()

	if l := b.getListener(); l != nil {
		l.OnStateChange(state)
	}
}

// reportTime records a position report. Reports sent before the page applied
// the latest seek are dropped, so a stale position cannot restart the loop
// twice.
func (b *playerBridge) reportTime(seq uint64, currentTime, duration float64, state domain.PlayerState) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if seq < b.lastSeekSeq {
		return false
	}

	b.currentTime, b.hasTime = currentTime, true
	b.duration, b.hasDuration = duration, true
	b.state, b.hasState = state, true

	return true
}

// unavailable fails a pending Construct. It reports whether the player was
// still pending.
func (b *playerBridge) unavailable(reason string) bool {
	pending := false
	b.settleOnce.Do(func() {
		b.settleErr = fmt.Errorf("%w: %s", ErrPlayerUnavailable, reason)
		close(b.settled)
		pending = true
	})

	return pending
}
