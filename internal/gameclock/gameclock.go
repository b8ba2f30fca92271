// Package gameclock parses period-clock strings from the feed.
package gameclock

import (
	"strconv"
	"strings"
)

// UnparseableSentinel is returned for clocks the feed garbled. It is large
// enough that "remaining time" checks treat the moment as not imminent.
const UnparseableSentinel = 999

// ParseClock converts a "MM:SS" or "MM:SS.s" clock string to remaining
// seconds. A bare number parses as seconds. Empty or unparseable input
// returns UnparseableSentinel.
func ParseClock(clock string) float64 {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return UnparseableSentinel
	}

	parts := strings.Split(clock, ":")
	if len(parts) == 2 {
		mins, errM := strconv.Atoi(strings.TrimSpace(parts[0]))
		secs, errS := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errM != nil || errS != nil {
			return UnparseableSentinel
		}
		return float64(mins)*60 + secs
	}

	if secs, err := strconv.ParseFloat(clock, 64); err == nil {
		return secs
	}
	return UnparseableSentinel
}
