package scheduler

import (
	"fmt"
	"time"
)

// formatInterval renders a scheduling offset for display: "now", "<minutes>m",
// "<hours>h", "<days>d", or "<months>mo". Rounding is coarse on purpose; the
// exact due timestamp travels alongside.
func formatInterval(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		months := int(d.Hours() / 24 / 30)
		return fmt.Sprintf("%dmo", months)
	}
}
