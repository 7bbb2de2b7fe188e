package schedule

import (
	"fmt"
	"time"
)

// weekKey converts a YYYY-MM-DD date into its ISO week identifier, e.g.
// "2024-W10" (ISO 8601 first-four-day week, keyed to Monday). The second
// return value is false when the date does not parse; such slots carry no
// week key and are exempt from weekly caps.
func weekKey(gameDate string) (string, bool) {
	t, err := time.Parse("2006-01-02", gameDate)
	if err != nil {
		return "", false
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week), true
}
