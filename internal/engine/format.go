package engine

import (
	"fmt"

	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

// FormatMs renders a remaining duration for display
func FormatMs(ms int64, rounding schema.Rounding) string {
	if rounding == schema.RoundingBasketball {
		return formatBasketball(ms)
	}
	return formatStandard(ms)
}

// formatStandard truncates to whole seconds: MM:SS, or HH:MM:SS once
// an hour is reached.
func formatStandard(ms int64) string {
	total := max(ms, 0) / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// formatBasketball shows tenths under a minute (rounded half-up at
// 100ms) and M:SS or H:MM:SS rounded to the nearest second above it.
func formatBasketball(ms int64) string {
	ms = max(ms, 0)
	if ms < 60_000 {
		tenths := (ms + 50) / 100
		return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
	}

	total := (ms + 500) / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
