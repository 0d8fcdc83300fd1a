package lifecycle

import (
	"strings"
	"time"
)

// Appointment dates and times were written in more than one textual format
// over the system's history. Layouts are tried in a fixed priority order;
// formats carrying an explicit year outrank those that don't, and the first
// successful parse wins.
var dateTimeLayouts = []string{
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	// Legacy rows without a year resolve against the current year.
	"Jan 2 3:04 PM",
	"Jan 2 15:04",
	"Jan 2",
}

// ParseDateTime combines a stored date and time string into a single local
// instant. It returns false when no known layout matches; callers must then
// leave the record untouched rather than invent a transition.
func ParseDateTime(dateStr, timeStr string, now time.Time) (time.Time, bool) {
	combined := strings.TrimSpace(dateStr)
	if combined == "" {
		return time.Time{}, false
	}
	if t := strings.TrimSpace(timeStr); t != "" {
		combined += " " + t
	}

	for _, layout := range dateTimeLayouts {
		parsed, err := time.ParseInLocation(layout, combined, time.Local)
		if err != nil {
			continue
		}
		if parsed.Year() == 0 {
			parsed = parsed.AddDate(now.Year(), 0, 0)
		}
		return parsed, true
	}
	return time.Time{}, false
}
