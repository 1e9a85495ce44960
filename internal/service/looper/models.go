package looper

import "github.com/ytlooper/server/internal/domain"

type Controls struct {
	CanLoadVideo     bool `json:"can_load_video"`
	CanSetLoopPoints bool `json:"can_set_loop_points"`
	CanStartLooping  bool `json:"can_start_looping"`
	CanStopLooping   bool `json:"can_stop_looping"`
}

type Snapshot struct {
	Loop     domain.LoopConfiguration `json:"loop"`
	State    domain.LoopState         `json:"state"`
	Session  domain.PlayerSession     `json:"session"`
	Controls Controls                 `json:"controls"`
}

type PlayerVars struct {
	Autoplay       int `json:"autoplay"`
	PlaysInline    int `json:"playsinline"`
	Controls       int `json:"controls"`
	Rel            int `json:"rel"`
	ModestBranding int `json:"modestbranding"`
}

type PlayerConfig struct {
	ContainerID string     `json:"container_id"`
	Height      string     `json:"height"`
	Width       string     `json:"width"`
	Vars        PlayerVars `json:"player_vars"`
}

// DefaultPlayerConfig never autoplays: the player starts without a video.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		ContainerID: "player",
		Height:      "400",
		Width:       "100%",
		Vars: PlayerVars{
			Autoplay:       0,
			PlaysInline:    1,
			Controls:       1,
			Rel:            0,
			ModestBranding: 1,
		},
	}
}
