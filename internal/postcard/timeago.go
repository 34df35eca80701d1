package postcard

import (
	"fmt"
	"time"
)

// JustNow is the age label for anything younger than a minute
const JustNow = "Baru saja"

// Month and year are fixed at 30 and 365 days.
var ageBuckets = []struct {
	seconds int64
	unit    string
}{
	{365 * 24 * 60 * 60, "tahun"},
	{30 * 24 * 60 * 60, "bulan"},
	{24 * 60 * 60, "hari"},
	{60 * 60, "jam"},
	{60, "menit"},
}

// TimeAgo formats the age of timestamp relative to now, e.g. "3 jam lalu".
// Unparsable timestamps are reported as JustNow.
func TimeAgo(timestamp string, now time.Time) string {
	t, err := parseTimestamp(timestamp, now.Location())
	if err != nil {
		return JustNow
	}
	return FormatAge(now.Sub(t))
}

// FormatAge picks the largest bucket the elapsed time fills and floors the
// count. Negative durations are JustNow.
func FormatAge(elapsed time.Duration) string {
	seconds := int64(elapsed / time.Second)

	for _, b := range ageBuckets {
		if seconds >= b.seconds {
			return fmt.Sprintf("%d %s lalu", seconds/b.seconds, b.unit)
		}
	}

	return JustNow
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		// Layouts without an offset are read as local time
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	// Date-only values are UTC
	return time.Parse(time.DateOnly, s)
}
