package progress

import "fmt"

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// RemainingMinutes is the estimate minus the time already spent, never negative.
func RemainingMinutes(estimated, spent int) int {
	if rest := estimated - spent; rest > 0 {
		return rest
	}
	return 0
}

// FormatTimeRemain renders minutes in the single largest whole unit:
// 1500 -> "1 day", 90 -> "1 hour", 45 -> "45 minutes".
func FormatTimeRemain(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	switch {
	case minutes >= minutesPerDay:
		return plural(minutes/minutesPerDay, "day")
	case minutes >= minutesPerHour:
		return plural(minutes/minutesPerHour, "hour")
	default:
		return plural(minutes, "minute")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
