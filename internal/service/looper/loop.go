package looper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ytlooper/server/internal/domain"
)

func parseSeconds(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	return value, true
}

// SetLoopPoints validates both bounds before committing either of them.
func (c *Controller) SetLoopPoints(startRaw, endRaw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start, startOK := parseSeconds(startRaw)
	end, endOK := parseSeconds(endRaw)
	if !startOK || !endOK {
		return c.fail(ErrInvalidNumbers)
	}

	if start < 0 || end < 0 {
		return c.fail(ErrNegativeTimes)
	}

	if start >= end {
		return c.fail(ErrStartNotBeforeEnd)
	}

	c.loop = domain.LoopConfiguration{
		StartSeconds: start,
		EndSeconds:   end,
	}
	c.endEdited = true

	c.succeed(fmt.Sprintf("Loop points set: %s - %s", FormatTime(start), FormatTime(end)))
	return nil
}

func (c *Controller) StartLooping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.startLooping()
}

func (c *Controller) startLooping() error {
	if !c.loop.IsValid() {
		return c.fail(ErrInvalidLoopPoints)
	}

	c.state.IsLooping = true
	if c.player != nil {
		c.player.SeekTo(c.loop.StartSeconds)
		c.player.PlayVideo()
	}

	c.succeed("Looping started!")
	return nil
}

func (c *Controller) StopLooping() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLooping()
}

func (c *Controller) stopLooping() {
	c.state.IsLooping = false
	if c.player != nil {
		c.player.PauseVideo()
	}

	c.succeed("Looping stopped")
}

// ToggleLooping backs the L shortcut.
func (c *Controller) ToggleLooping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsLooping {
		c.stopLooping()
		return nil
	}

	return c.startLooping()
}

// TogglePlayback backs the Space shortcut. Players that cannot report their
// state are left alone.
func (c *Controller) TogglePlayback() {
	c.mu.Lock()
	defer c.mu.Unlock()

	reporter, ok := c.player.(StateReporter)
	if !ok {
		return
	}

	if state, ok := reporter.PlayerState(); ok && state == domain.PlayerStatePlaying {
		c.player.PauseVideo()
		return
	}
	c.player.PlayVideo()
}

func (c *Controller) RestartLoop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.restartLoop() {
		c.publish()
	}
}

func (c *Controller) restartLoop() bool {
	if !c.state.IsLooping {
		return false
	}

	c.state.RepetitionCount++
	if c.player != nil {
		c.player.SeekTo(c.loop.StartSeconds)
		c.player.PlayVideo()
	}
	c.logger.Debug("loop restarted", "repetition_count", c.state.RepetitionCount)

	return true
}

func (c *Controller) ResetCounter() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.RepetitionCount = 0
	c.succeed("Counter reset")
}
