package domain

const (
	DefaultLoopStart = 0
	DefaultLoopEnd   = 10
)

type LoopConfiguration struct {
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
}

func NewLoopConfiguration() LoopConfiguration {
	return LoopConfiguration{
		StartSeconds: DefaultLoopStart,
		EndSeconds:   DefaultLoopEnd,
	}
}

// IsValid reports whether the range can be looped.
func (c LoopConfiguration) IsValid() bool {
	return c.StartSeconds < c.EndSeconds
}

type LoopState struct {
	IsLooping       bool `json:"is_looping"`
	RepetitionCount int  `json:"repetition_count"`
}
