package looper

import (
	"math"

	"github.com/ytlooper/server/internal/domain"
)

// OnReady handles the player's readiness notification. player is the
// notifying instance and may be nil when the caller has none to offer.
func (c *Controller) OnReady(player Player) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.stopFallback()
	if player != nil {
		c.player = player
	}
	if !c.markReady() {
		c.logger.Debug("player ready after controls were already unblocked")
	}

	c.refreshDuration()
	c.startPolling()
	c.logger.Info("player ready", "duration", c.session.Duration)

	c.publish()
}

func (c *Controller) OnStateChange(state domain.PlayerState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.logger.Debug("player state changed", "state", state.String())
	c.refreshDuration()
	if state == domain.PlayerStateEnded {
		c.restartLoop()
	}

	c.publish()
}

// OnUnavailable unblocks the controls right away; commands will fail at the
// player boundary instead.
func (c *Controller) OnUnavailable(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.logger.Warn("player unavailable, unblocking controls", "error", err)
	c.stopFallback()
	c.markReady()

	c.publish()
}

func (c *Controller) readyTimeout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.fallback == nil {
		return
	}
	c.fallback = nil

	if c.markReady() {
		c.logger.Warn("player readiness timed out, unblocking controls", "timeout", c.cfg.ReadyTimeout)
		c.publish()
	}
}

// markReady reports whether this call performed the transition.
func (c *Controller) markReady() bool {
	if c.session.IsReady {
		return false
	}
	c.session.IsReady = true

	return true
}

func (c *Controller) stopFallback() {
	if c.fallback == nil {
		return
	}
	c.fallback.Stop()
	c.fallback = nil
}

// refreshDuration records the player's duration. While the loop end is still
// the unedited default it is clamped to a known, shorter duration, unless that
// would put the end at or before the start.
func (c *Controller) refreshDuration() {
	reporter, ok := c.player.(DurationReporter)
	if !ok {
		return
	}

	duration, ok := reporter.Duration()
	if !ok {
		return
	}
	c.session.Duration = duration

	if duration <= 0 || c.endEdited || c.loop.EndSeconds != domain.DefaultLoopEnd {
		return
	}

	end := math.Min(domain.DefaultLoopEnd, duration)
	if end <= c.loop.StartSeconds {
		return
	}
	c.loop.EndSeconds = end
}

func (c *Controller) startPolling() {
	c.stopPolling()

	p := &poller{
		ticker: c.clock.Ticker(c.cfg.PollInterval),
		done:   make(chan struct{}),
	}
	c.poller = p

	go c.poll(p)
}

func (c *Controller) stopPolling() {
	if c.poller == nil {
		return
	}
	c.poller.ticker.Stop()
	close(c.poller.done)
	c.poller = nil
}

func (c *Controller) poll(p *poller) {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			select {
			case <-p.done:
				return
			default:
			}
			c.tick(p)
		}
	}
}

// tick is a no-op for a poller that has been stopped or replaced, even when
// it was already waiting for mu.
func (c *Controller) tick(p *poller) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.poller != p {
		return
	}

	timer, ok := c.player.(CurrentTimer)
	if !ok {
		return
	}

	current, ok := timer.CurrentTime()
	if !ok {
		return
	}
	c.session.CurrentTime = current

	restarted := false
	if c.state.IsLooping && current >= c.loop.EndSeconds {
		restarted = c.restartLoop()
	}

	second := int(math.Floor(current))
	if restarted || second != c.shownSecond {
		c.shownSecond = second
		c.publish()
	}
}
