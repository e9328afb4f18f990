package align

import "math"

// MillisToSeconds converts a capture timestamp to transcript seconds.
func MillisToSeconds(ms int64) float64 {
	return float64(ms) / 1000
}

// SecondsToMillis converts transcript seconds to milliseconds, rounding
// halves toward positive infinity.
func SecondsToMillis(seconds float64) int64 {
	return int64(math.Floor(seconds*1000 + 0.5))
}

// Sorted reports whether steps are in ascending timestamp order.
func Sorted(steps []Step) bool {
	for i := 1; i < len(steps); i++ {
		if steps[i].TimestampStart < steps[i-1].TimestampStart {
			return false
		}
	}
	return true
}
