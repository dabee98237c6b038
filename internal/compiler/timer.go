package compiler

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxTimerHours keeps the millisecond total inside int64
const maxTimerHours = (math.MaxInt64/1000 - 3599) / 3600

// ParseTimerDefault converts "H:M:S" into milliseconds. Hours are
// unbounded (>= 0); minutes and seconds must be in [0,60).
func ParseTimerDefault(value string) (int64, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("timer default '%s' must be HH:MM:SS", value)
	}

	h, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("timer default '%s' has invalid hours", value)
	}
	m, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("timer default '%s' has invalid minutes", value)
	}
	s, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("timer default '%s' has invalid seconds", value)
	}

	if h < 0 || m < 0 || m >= 60 || s < 0 || s >= 60 {
		return 0, fmt.Errorf("timer default '%s' must be HH:MM:SS", value)
	}
	if h > maxTimerHours {
		return 0, fmt.Errorf("timer default '%s' is too large", value)
	}
	return ((h * 3600) + (m * 60) + s) * 1000, nil
}
