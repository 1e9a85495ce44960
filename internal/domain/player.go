package domain

// PlayerState mirrors the YouTube IFrame player state codes.
type PlayerState int

const (
	PlayerStateUnstarted PlayerState = -1
	PlayerStateEnded     PlayerState = 0
	PlayerStatePlaying   PlayerState = 1
	PlayerStatePaused    PlayerState = 2
	PlayerStateBuffering PlayerState = 3
	PlayerStateCued      PlayerState = 5
)

func (s PlayerState) String() string {
	switch s {
	case PlayerStateUnstarted:
		return "unstarted"
	case PlayerStateEnded:
		return "ended"
	case PlayerStatePlaying:
		return "playing"
	case PlayerStatePaused:
		return "paused"
	case PlayerStateBuffering:
		return "buffering"
	case PlayerStateCued:
		return "cued"
	default:
		return "unknown"
	}
}

// PlayerSession is what the controller knows about the embedded player.
type PlayerSession struct {
	VideoID     *string `json:"video_id"`
	IsReady     bool    `json:"is_ready"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
}
