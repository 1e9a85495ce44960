package looper

import (
	"fmt"
	"math"
)

// FormatTime renders seconds as M:SS. There is no hours field, an hour and a
// bit is "62:03".
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}

	minutes := int(math.Floor(seconds / 60))
	remaining := int(math.Floor(math.Mod(seconds, 60)))

	return fmt.Sprintf("%d:%02d", minutes, remaining)
}
