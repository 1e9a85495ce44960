package looper

import (
	"context"
	"fmt"
	"sync"

	"github.com/ytlooper/server/internal/domain"
)

type fakePlayer struct {
	mu          sync.Mutex
	calls       []string
	currentTime float64
	hasTime     bool
	duration    float64
	hasDuration bool
	state       domain.PlayerState
	hasState    bool
	timeQueries int
}

func (p *fakePlayer) LoadVideoByID(videoID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "load:"+videoID)
}

func (p *fakePlayer) SeekTo(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf("seek:%g", seconds))
	p.currentTime = seconds
}

func (p *fakePlayer) PlayVideo() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "play")
	p.state, p.hasState = domain.PlayerStatePlaying, true
}

func (p *fakePlayer) PauseVideo() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "pause")
	p.state, p.hasState = domain.PlayerStatePaused, true
}

func (p *fakePlayer) CurrentTime() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeQueries++
	return p.currentTime, p.hasTime
}

func (p *fakePlayer) Duration() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration, p.hasDuration
}

func (p *fakePlayer) PlayerState() (domain.PlayerState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.hasState
}

func (p *fakePlayer) setTime(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentTime, p.hasTime = seconds, true
}

func (p *fakePlayer) setDuration(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duration, p.hasDuration = seconds, true
}

func (p *fakePlayer) setState(state domain.PlayerState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state, p.hasState = state, true
}

func (p *fakePlayer) takeCalls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	calls := p.calls
	p.calls = nil
	return calls
}

func (p *fakePlayer) queries() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timeQueries
}

// transportOnly has no query capabilities.
type transportOnly struct {
	calls []string
}

func (p *transportOnly) LoadVideoByID(videoID string) { p.calls = append(p.calls, "load:"+videoID) }
func (p *transportOnly) SeekTo(seconds float64)       { p.calls = append(p.calls, fmt.Sprintf("seek:%g", seconds)) }
func (p *transportOnly) PlayVideo()                   { p.calls = append(p.calls, "play") }
func (p *transportOnly) PauseVideo()                  { p.calls = append(p.calls, "pause") }

type constructorFunc func(context.Context, *PlayerConfig, PlayerListener) (Player, error)

func (f constructorFunc) Construct(ctx context.Context, cfg *PlayerConfig, l PlayerListener) (Player, error) {
	return f(ctx, cfg, l)
}

// blockingConstructor never produces a player until ctx is done.
func blockingConstructor() PlayerConstructor {
	return constructorFunc(func(ctx context.Context, _ *PlayerConfig, _ PlayerListener) (Player, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
}

func instantConstructor(p Player) PlayerConstructor {
	return constructorFunc(func(context.Context, *PlayerConfig, PlayerListener) (Player, error) {
		return p, nil
	})
}

type recordingObserver struct {
	mu            sync.Mutex
	notifications []domain.Notification
	snapshots     []Snapshot
}

func (o *recordingObserver) Notify(n domain.Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notifications = append(o.notifications, n)
}

func (o *recordingObserver) StateChanged(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snapshots = append(o.snapshots, s)
}

func (o *recordingObserver) last() domain.Notification {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.notifications) == 0 {
		return domain.Notification{}
	}
	return o.notifications[len(o.notifications)-1]
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.notifications)
}

// tickOnce runs one poll tick on behalf of the current poller.
func tickOnce(c *Controller) {
	c.mu.Lock()
	p := c.poller
	c.mu.Unlock()

	c.tick(p)
}
