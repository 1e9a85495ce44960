package looper

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ytlooper/server/internal/domain"
)

const videoID = "dQw4w9WgXcQ"

func newTestController(t *testing.T, constructor PlayerConstructor) (*Controller, *recordingObserver, *clock.Mock) {
	t.Helper()

	mock := clock.NewMock()
	cfg := DefaultConfig()
	cfg.Clock = mock
	observer := &recordingObserver{}

	c := NewController(constructor, observer, cfg, slog.Default())
	t.Cleanup(c.Close)

	return c, observer, mock
}

func newReadyController(t *testing.T) (*Controller, *fakePlayer, *recordingObserver, *clock.Mock) {
	t.Helper()

	player := &fakePlayer{}
	c, observer, mock := newTestController(t, instantConstructor(player))
	require.NoError(t, c.Start(context.Background()))
	c.OnReady(player)
	player.takeCalls()

	return c, player, observer, mock
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url    string
		wantID string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=" + videoID, videoID, true},
		{"https://youtu.be/" + videoID, videoID, true},
		{"https://www.youtube.com/embed/" + videoID, videoID, true},
		{"https://www.youtube.com/watch?v=" + videoID + "&t=42s", videoID, true},
		{"https://youtu.be/" + videoID + "?si=share", videoID, true},
		{"https://www.youtube.com/embed/" + videoID + "#start", videoID, true},
		{"youtube.com/watch?v=" + videoID, videoID, true},
		{"not a url", "", false},
		{"https://vimeo.com/123456", "", false},
		{"https://www.youtube.com/watch?v=", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			id, ok := ExtractVideoID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "0:00", FormatTime(0))
	assert.Equal(t, "1:05", FormatTime(65))
	assert.Equal(t, "1:15", FormatTime(75))
	assert.Equal(t, "0:59", FormatTime(59.99))
	assert.Equal(t, "60:05", FormatTime(3605))
	assert.Equal(t, "62:03", FormatTime(3723))
	assert.Equal(t, "0:00", FormatTime(-3))
}

func TestSetLoopPoints(t *testing.T) {
	c, _, observer, _ := newReadyController(t)

	require.NoError(t, c.SetLoopPoints("5", "10"))
	assert.Equal(t, domain.LoopConfiguration{StartSeconds: 5, EndSeconds: 10}, c.Snapshot().Loop)
	assert.Equal(t, domain.Notification{
		Message: "Loop points set: 0:05 - 0:10",
		Kind:    domain.NotificationSuccess,
		TTL:     domain.DefaultNotificationTTL,
	}, observer.last())

	err := c.SetLoopPoints("10", "5")
	assert.ErrorIs(t, err, ErrStartNotBeforeEnd)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Start time must be less than end time", observer.last().Message)
	assert.Equal(t, domain.NotificationError, observer.last().Kind)
	assert.Equal(t, domain.LoopConfiguration{StartSeconds: 5, EndSeconds: 10}, c.Snapshot().Loop)

	assert.ErrorIs(t, c.SetLoopPoints("abc", "10"), ErrInvalidNumbers)
	assert.ErrorIs(t, c.SetLoopPoints("", "10"), ErrInvalidNumbers)
	assert.ErrorIs(t, c.SetLoopPoints("1", "NaN"), ErrInvalidNumbers)
	assert.ErrorIs(t, c.SetLoopPoints("-1", "10"), ErrNegativeTimes)
	assert.ErrorIs(t, c.SetLoopPoints("7", "7"), ErrStartNotBeforeEnd)
	assert.Equal(t, domain.LoopConfiguration{StartSeconds: 5, EndSeconds: 10}, c.Snapshot().Loop)
}

func TestSetLoopPointsValidationOrder(t *testing.T) {
	c, _, _, _ := newReadyController(t)

	assert.ErrorIs(t, c.SetLoopPoints("abc", "-1"), ErrInvalidNumbers)
	assert.ErrorIs(t, c.SetLoopPoints("-5", "-10"), ErrNegativeTimes)

	require.NoError(t, c.SetLoopPoints(" 1.5 ", "2.25"))
	assert.Equal(t, domain.LoopConfiguration{StartSeconds: 1.5, EndSeconds: 2.25}, c.Snapshot().Loop)
}

func TestLoadVideoRejectsEmptyURL(t *testing.T) {
	c, player, observer, _ := newReadyController(t)

	for _, raw := range []string{"", "   "} {
		err := c.LoadVideo(raw)
		assert.ErrorIs(t, err, ErrEmptyURL)
		assert.Equal(t, "Please enter a YouTube URL", observer.last().Message)
		assert.Nil(t, c.Snapshot().Session.VideoID)
	}
	assert.Empty(t, player.takeCalls())
}

func TestLoadVideoRejectsInvalidURL(t *testing.T) {
	c, player, observer, _ := newReadyController(t)

	err := c.LoadVideo("not a url")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Equal(t, "Invalid YouTube URL. Please enter a valid YouTube video URL.", observer.last().Message)
	assert.Nil(t, c.Snapshot().Session.VideoID)
	assert.Empty(t, player.takeCalls())
}

func TestLoadVideoBeforeReady(t *testing.T) {
	c, observer, _ := newTestController(t, blockingConstructor())
	require.NoError(t, c.Start(context.Background()))

	err := c.LoadVideo("https://youtu.be/" + videoID)
	assert.ErrorIs(t, err, ErrPlayerNotReady)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, "Player not ready yet. Please wait a moment and try again.", observer.last().Message)
	assert.Nil(t, c.Snapshot().Session.VideoID)
}

func TestLoadVideo(t *testing.T) {
	c, player, observer, _ := newReadyController(t)
	require.NoError(t, c.StartLooping())
	player.setTime(10.5)
	tickOnce(c)
	require.Equal(t, 1, c.Snapshot().State.RepetitionCount)
	player.takeCalls()

	require.NoError(t, c.LoadVideo("  https://www.youtube.com/watch?v="+videoID+"&list=abc  "))

	snapshot := c.Snapshot()
	require.NotNil(t, snapshot.Session.VideoID)
	assert.Equal(t, videoID, *snapshot.Session.VideoID)
	assert.Equal(t, 0, snapshot.State.RepetitionCount)
	assert.Equal(t, []string{"load:" + videoID}, player.takeCalls())
	assert.Equal(t, domain.Notification{
		Message: "Video loaded successfully!",
		Kind:    domain.NotificationSuccess,
		TTL:     domain.DefaultNotificationTTL,
	}, observer.last())
}

func TestStartAndStopLooping(t *testing.T) {
	c, player, observer, _ := newReadyController(t)
	require.NoError(t, c.SetLoopPoints("3", "8"))

	require.NoError(t, c.StartLooping())
	assert.Equal(t, []string{"seek:3", "play"}, player.takeCalls())
	assert.Equal(t, "Looping started!", observer.last().Message)

	snapshot := c.Snapshot()
	assert.True(t, snapshot.State.IsLooping)
	assert.Equal(t, Controls{
		CanLoadVideo:     true,
		CanSetLoopPoints: false,
		CanStartLooping:  false,
		CanStopLooping:   true,
	}, snapshot.Controls)

	c.StopLooping()
	assert.Equal(t, []string{"pause"}, player.takeCalls())
	assert.Equal(t, "Looping stopped", observer.last().Message)
	assert.False(t, c.Snapshot().State.IsLooping)
	assert.True(t, c.Snapshot().Controls.CanStartLooping)
}

func TestStopLoopingIsIdempotent(t *testing.T) {
	c, player, _, _ := newReadyController(t)

	c.StopLooping()
	c.StopLooping()

	snapshot := c.Snapshot()
	assert.False(t, snapshot.State.IsLooping)
	assert.Equal(t, 0, snapshot.State.RepetitionCount)

	player.setTime(20)
	tickOnce(c)
	assert.Equal(t, 0, c.Snapshot().State.RepetitionCount)
}

func TestStartLoopingRejectsInvalidConfiguration(t *testing.T) {
	c, player, observer, _ := newReadyController(t)

	c.mu.Lock()
	c.loop = domain.LoopConfiguration{StartSeconds: 5, EndSeconds: 5}
	c.mu.Unlock()

	assert.ErrorIs(t, c.StartLooping(), ErrInvalidLoopPoints)
	assert.Equal(t, "Please set valid loop points first", observer.last().Message)
	assert.False(t, c.Snapshot().State.IsLooping)
	assert.Empty(t, player.takeCalls())
}

func TestPollTickRestartsLoopOnce(t *testing.T) {
	c, player, _, _ := newReadyController(t)
	require.NoError(t, c.StartLooping())
	player.takeCalls()

	player.setTime(10.1)
	tickOnce(c)

	assert.Equal(t, 1, c.Snapshot().State.RepetitionCount)
	assert.Equal(t, []string{"seek:0", "play"}, player.takeCalls())

	// the seek moved the player back to the start
	tickOnce(c)
	assert.Equal(t, 1, c.Snapshot().State.RepetitionCount)
	assert.Empty(t, player.takeCalls())
}

func TestPollTickRecordsCurrentTime(t *testing.T) {
	c, player, _, _ := newReadyController(t)

	player.setTime(4.2)
	tickOnce(c)
	assert.Equal(t, 4.2, c.Snapshot().Session.CurrentTime)
	assert.Equal(t, 0, c.Snapshot().State.RepetitionCount)
}

func TestPollingTickerDrivesRestart(t *testing.T) {
	c, player, _, mock := newReadyController(t)
	require.NoError(t, c.StartLooping())
	player.takeCalls()

	player.setTime(10.1)
	mock.Add(100 * time.Millisecond)

	require.Eventually(t, func() bool {
		return c.Snapshot().State.RepetitionCount == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"seek:0", "play"}, player.takeCalls())
}

func TestEndedNotificationRestartsLoop(t *testing.T) {
	c, player, _, _ := newReadyController(t)

	c.OnStateChange(domain.PlayerStateEnded)
	assert.Equal(t, 0, c.Snapshot().State.RepetitionCount)
	assert.Empty(t, player.takeCalls())

	require.NoError(t, c.StartLooping())
	player.takeCalls()

	c.OnStateChange(domain.PlayerStatePlaying)
	assert.Equal(t, 0, c.Snapshot().State.RepetitionCount)

	c.OnStateChange(domain.PlayerStateEnded)
	assert.Equal(t, 1, c.Snapshot().State.RepetitionCount)
	assert.Equal(t, []string{"seek:0", "play"}, player.takeCalls())
}

func TestRestartLoopRequiresLooping(t *testing.T) {
	c, player, _, _ := newReadyController(t)

	c.RestartLoop()
	assert.Equal(t, 0, c.Snapshot().State.RepetitionCount)
	assert.Empty(t, player.takeCalls())

	require.NoError(t, c.StartLooping())
	player.takeCalls()
	c.RestartLoop()
	c.RestartLoop()
	assert.Equal(t, 2, c.Snapshot().State.RepetitionCount)
}

func TestResetCounter(t *testing.T) {
	c, _, observer, _ := newReadyController(t)
	require.NoError(t, c.StartLooping())
	c.RestartLoop()
	c.RestartLoop()

	c.ResetCounter()
	snapshot := c.Snapshot()
	assert.Equal(t, 0, snapshot.State.RepetitionCount)
	assert.True(t, snapshot.State.IsLooping)
	assert.Equal(t, "Counter reset", observer.last().Message)
}

func TestToggleLooping(t *testing.T) {
	c, player, _, _ := newReadyController(t)

	require.NoError(t, c.ToggleLooping())
	assert.True(t, c.Snapshot().State.IsLooping)
	assert.Equal(t, []string{"seek:0", "play"}, player.takeCalls())

	require.NoError(t, c.ToggleLooping())
	assert.False(t, c.Snapshot().State.IsLooping)
	assert.Equal(t, []string{"pause"}, player.takeCalls())
}

func TestTogglePlayback(t *testing.T) {
	c, player, _, _ := newReadyController(t)

	player.setState(domain.PlayerStatePlaying)
	c.TogglePlayback()
	assert.Equal(t, []string{"pause"}, player.takeCalls())

	player.setState(domain.PlayerStatePaused)
	c.TogglePlayback()
	assert.Equal(t, []string{"play"}, player.takeCalls())
}

func TestTogglePlaybackWithoutStateCapability(t *testing.T) {
	player := &transportOnly{}
	c, _, _ := newTestController(t, instantConstructor(player))
	require.NoError(t, c.Start(context.Background()))
	c.OnReady(player)

	c.TogglePlayback()
	assert.Empty(t, player.calls)

	// polling without a time query is a no-op
	tickOnce(c)
	assert.Equal(t, 0.0, c.Snapshot().Session.CurrentTime)
}

func TestReadyClampsDefaultLoopEnd(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		wantEnd  float64
	}{
		{"short video", 7.5, 7.5},
		{"long video", 212, 10},
		{"unknown duration", 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &fakePlayer{}
			player.setDuration(tt.duration)
			c, _, _ := newTestController(t, instantConstructor(player))
			require.NoError(t, c.Start(context.Background()))

			c.OnReady(player)

			snapshot := c.Snapshot()
			assert.Equal(t, tt.wantEnd, snapshot.Loop.EndSeconds)
			assert.Equal(t, tt.duration, snapshot.Session.Duration)
		})
	}
}

func TestDurationClampLeavesEditedEnd(t *testing.T) {
	c, player, _, _ := newReadyController(t)
	require.NoError(t, c.SetLoopPoints("2", "30"))

	player.setDuration(4)
	c.OnStateChange(domain.PlayerStateCued)

	snapshot := c.Snapshot()
	assert.Equal(t, 30.0, snapshot.Loop.EndSeconds)
	assert.Equal(t, 4.0, snapshot.Session.Duration)
}

func TestDurationClampLeavesExplicitDefaultEndWhileLooping(t *testing.T) {
	c, player, _, _ := newReadyController(t)
	require.NoError(t, c.SetLoopPoints("8", "10"))
	require.NoError(t, c.StartLooping())
	player.takeCalls()

	player.setDuration(5)
	c.OnStateChange(domain.PlayerStatePlaying)

	snapshot := c.Snapshot()
	assert.Equal(t, domain.LoopConfiguration{StartSeconds: 8, EndSeconds: 10}, snapshot.Loop)
	assert.True(t, snapshot.State.IsLooping)

	player.setTime(8)
	for range 5 {
		tickOnce(c)
	}
	assert.Equal(t, 0, c.Snapshot().State.RepetitionCount)
	assert.Empty(t, player.takeCalls())
}

func TestDurationClampNeverCrossesStart(t *testing.T) {
	c, player, _, _ := newReadyController(t)

	c.mu.Lock()
	c.loop.StartSeconds = 6
	c.mu.Unlock()

	player.setDuration(4)
	c.OnStateChange(domain.PlayerStateCued)

	loop := c.Snapshot().Loop
	assert.Equal(t, 10.0, loop.EndSeconds)
	assert.True(t, loop.IsValid())
}

func TestReplacedPollerCannotTick(t *testing.T) {
	c, player, _, _ := newReadyController(t)
	require.NoError(t, c.StartLooping())
	player.takeCalls()

	c.mu.Lock()
	stale := c.poller
	c.mu.Unlock()

	c.OnReady(player)
	player.setTime(10.1)
	c.tick(stale)

	assert.Equal(t, 0, c.Snapshot().State.RepetitionCount)
	assert.Empty(t, player.takeCalls())
	assert.Equal(t, 0.0, c.Snapshot().Session.CurrentTime)

	tickOnce(c)
	assert.Equal(t, 1, c.Snapshot().State.RepetitionCount)
}

func TestDurationKnownAfterLoadClampsDefaultEnd(t *testing.T) {
	c, player, _, _ := newReadyController(t)
	require.Equal(t, 10.0, c.Snapshot().Loop.EndSeconds)

	player.setDuration(6)
	c.OnStateChange(domain.PlayerStatePlaying)
	assert.Equal(t, 6.0, c.Snapshot().Loop.EndSeconds)
}

func TestReadinessFallback(t *testing.T) {
	c, observer, mock := newTestController(t, blockingConstructor())
	require.NoError(t, c.Start(context.Background()))
	assert.False(t, c.Snapshot().Session.IsReady)

	mock.Add(4 * time.Second)
	assert.False(t, c.Snapshot().Session.IsReady)

	mock.Add(time.Second)
	require.Eventually(t, func() bool {
		return c.Snapshot().Session.IsReady
	}, time.Second, 5*time.Millisecond)

	c.mu.Lock()
	assert.Nil(t, c.poller, "fallback must not start polling")
	c.mu.Unlock()

	player := &fakePlayer{}
	c.OnReady(player)
	c.mu.Lock()
	first := c.poller
	c.mu.Unlock()
	require.NotNil(t, first)

	c.OnReady(player)
	c.mu.Lock()
	second := c.poller
	c.mu.Unlock()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)

	select {
	case <-first.done:
	default:
		t.Fatal("previous poller is still running")
	}

	observer.mu.Lock()
	defer observer.mu.Unlock()
	transitions := 0
	wasReady := false
	for _, snapshot := range observer.snapshots {
		if snapshot.Session.IsReady && !wasReady {
			transitions++
		}
		wasReady = snapshot.Session.IsReady
	}
	assert.Equal(t, 1, transitions)
}

func TestReadyCancelsFallback(t *testing.T) {
	player := &fakePlayer{}
	c, _, mock := newTestController(t, instantConstructor(player))
	require.NoError(t, c.Start(context.Background()))

	c.OnReady(player)
	c.mu.Lock()
	assert.Nil(t, c.fallback)
	c.mu.Unlock()

	mock.Add(10 * time.Second)
	assert.True(t, c.Snapshot().Session.IsReady)
}

func TestConstructionFailureUnblocksControls(t *testing.T) {
	constructor := constructorFunc(func(context.Context, *PlayerConfig, PlayerListener) (Player, error) {
		return nil, errors.New("script failed to load")
	})
	c, observer, _ := newTestController(t, constructor)
	require.NoError(t, c.Start(context.Background()))

	require.Eventually(t, func() bool {
		return c.Snapshot().Session.IsReady
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, c.LoadVideo("https://youtu.be/"+videoID), ErrPlayerNotReady)
	assert.Equal(t, domain.NotificationError, observer.last().Kind)

	// commands without a player only flip state
	require.NoError(t, c.StartLooping())
	c.StopLooping()
}

func TestStartTwice(t *testing.T) {
	c, _, _ := newTestController(t, blockingConstructor())

	require.NoError(t, c.Start(context.Background()))
	assert.ErrorIs(t, c.Start(context.Background()), ErrAlreadyStarted)
}

func TestCloseStopsTimers(t *testing.T) {
	c, player, _, mock := newReadyController(t)

	c.Close()
	c.Close()

	c.mu.Lock()
	assert.Nil(t, c.poller)
	assert.Nil(t, c.fallback)
	c.mu.Unlock()

	before := player.queries()
	player.setTime(3)
	mock.Add(time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, player.queries())

	c.OnReady(player)
	c.mu.Lock()
	assert.Nil(t, c.poller)
	c.mu.Unlock()

	assert.ErrorIs(t, c.Start(context.Background()), ErrClosed)
}

func TestSnapshotCopiesVideoID(t *testing.T) {
	c, _, _, _ := newReadyController(t)
	require.NoError(t, c.LoadVideo("https://youtu.be/"+videoID))

	snapshot := c.Snapshot()
	*snapshot.Session.VideoID = "changed"
	assert.Equal(t, videoID, *c.Snapshot().Session.VideoID)
}

func TestErrorNotificationsCarryTTL(t *testing.T) {
	player := &fakePlayer{}
	mock := clock.NewMock()
	cfg := DefaultConfig()
	cfg.Clock = mock
	cfg.NotificationTTL = 1500 * time.Millisecond
	observer := &recordingObserver{}
	c := NewController(instantConstructor(player), observer, cfg, nil)
	defer c.Close()

	_ = c.LoadVideo("")
	require.Equal(t, 1, observer.count())
	assert.Equal(t, 1500*time.Millisecond, observer.last().TTL)
}
