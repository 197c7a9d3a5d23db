// Package clock owns the countdown used by timed practice: the time budget,
// an epoch-guarded timer, and the schedulers that drive it.
package clock

import "fmt"

// ExtendedMultiplier scales the budget for students with extended-time accommodation.
const ExtendedMultiplier = 1.5

// LowTimeThreshold is the remaining time below which the countdown is shown as a warning.
const LowTimeThreshold = 5 * 60

// BudgetSeconds converts an allotment in minutes into the session budget.
func BudgetSeconds(baseMinutes int, extended bool) int {
	if baseMinutes <= 0 {
		return 0
	}
	secs := baseMinutes * 60
	if extended {
		// Multiply in integer halves so 35 minutes extends to exactly 3150 seconds.
		secs = secs * 3 / 2
	}
	return secs
}

// FormatRemaining renders seconds as M:SS, or H:MM:SS at an hour or more.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
