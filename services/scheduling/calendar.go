package scheduling

import (
	"fmt"
	"strings"
	"time"

	"medibook/models"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// parseClock converts an "HH:mm" wall-clock string to minutes from midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// weekdayKey resolves an ISO date string to its lowercase weekday name.
func weekdayKey(date string) (string, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return strings.ToLower(d.Weekday().String()), nil
}

// IsBookable reports whether the given date/time falls inside the doctor's
// open window for that weekday: the day must be available, the time must lie
// in [start, end), and must not lie in [breakStart, breakEnd). Malformed
// input always degrades to false rather than an error so a bad record can
// never take down a caller.
func IsBookable(schedule *models.DoctorSchedule, date, timeStr string) bool {
	if schedule == nil {
		return false
	}
	day, err := weekdayKey(date)
	if err != nil {
		return false
	}
	window, ok := schedule.Day(day)
	if !ok || !window.Available {
		return false
	}

	minute, err := parseClock(timeStr)
	if err != nil {
		return false
	}
	start, err := parseClock(window.StartTime)
	if err != nil {
		return false
	}
	end, err := parseClock(window.EndTime)
	if err != nil {
		return false
	}
	if minute < start || minute >= end {
		return false
	}

	if window.HasBreak() {
		breakStart, err1 := parseClock(window.BreakStartTime)
		breakEnd, err2 := parseClock(window.BreakEndTime)
		if err1 == nil && err2 == nil && minute >= breakStart && minute < breakEnd {
			return false
		}
	}
	return true
}

// EnumerateSlots lists the bookable slot-start times for one weekday window,
// stepping the slot duration through [start, end) and skipping any slot that
// starts inside the break. A malformed window yields no slots.
func EnumerateSlots(window models.DaySchedule, slotMinutes int) []string {
	if !window.Available || slotMinutes <= 0 {
		return nil
	}
	start, err := parseClock(window.StartTime)
	if err != nil {
		return nil
	}
	end, err := parseClock(window.EndTime)
	if err != nil {
		return nil
	}

	breakStart, breakEnd := -1, -1
	if window.HasBreak() {
		if bs, err := parseClock(window.BreakStartTime); err == nil {
			if be, err := parseClock(window.BreakEndTime); err == nil {
				breakStart, breakEnd = bs, be
			}
		}
	}

	var slots []string
	for m := start; m+slotMinutes <= end; m += slotMinutes {
		if breakStart >= 0 && m >= breakStart && m < breakEnd {
			continue
		}
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// ValidateDaySchedule checks the structural invariants of one weekday
// window: start before end when available, and any break ordered and fully
// inside the open window.
func ValidateDaySchedule(window models.DaySchedule) error {
	if !window.Available {
		return nil
	}
	start, err := parseClock(window.StartTime)
	if err != nil {
		return err
	}
	end, err := parseClock(window.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("start time %s must be before end time %s", window.StartTime, window.EndTime)
	}
	if !window.HasBreak() {
		return nil
	}
	breakStart, err := parseClock(window.BreakStartTime)
	if err != nil {
		return err
	}
	breakEnd, err := parseClock(window.BreakEndTime)
	if err != nil {
		return err
	}
	if breakStart >= breakEnd {
		return fmt.Errorf("break start %s must be before break end %s", window.BreakStartTime, window.BreakEndTime)
	}
	if breakStart < start || breakEnd > end {
		return fmt.Errorf("break %s-%s must lie within %s-%s", window.BreakStartTime, window.BreakEndTime, window.StartTime, window.EndTime)
	}
	return nil
}
