package pipeline

import (
	"fmt"
	"time"
)

// FormatRelativeTime renders a coarse "time ago" label relative to now.
// Buckets truncate toward zero: 59999ms is still "Just now", exactly one
// minute is "1m ago", exactly 24 hours is "1d ago".
func FormatRelativeTime(ts, now time.Time) string {
	elapsed := now.Sub(ts)

	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours())/24)
	}
}
