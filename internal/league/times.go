package league

import (
	"fmt"
	"time"
)

// ParseDate validates a YYYY-MM-DD calendar date and returns it as a
// time.Time in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a time.Time as a YYYY-MM-DD calendar date.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// MinutesFromClock converts an HH:MM 24-hour time to minutes since
// midnight.
func MinutesFromClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil || len(s) != 5 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	return h*60 + m, nil
}

// ClockFromMinutes renders minutes since midnight as HH:MM.
func ClockFromMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
