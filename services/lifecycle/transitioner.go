package lifecycle

import (
	"time"

	"medibook/models"
)

// Decision is the outcome of examining one appointment.
type Decision int

const (
	// DecisionSkip: not approved, or not yet due.
	DecisionSkip Decision = iota
	// DecisionComplete: approved and its scheduled instant has elapsed.
	DecisionComplete
	// DecisionUnparsable: the stored date/time matched no known format;
	// the record must be left untouched and the anomaly surfaced.
	DecisionUnparsable
)

// Examine decides whether an automatic approved-to-completed transition is
// due for the appointment at the given instant. It is pure: all effects
// belong to the sweeper.
func Examine(appt models.Appointment, now time.Time) Decision {
	if appt.Status != models.StatusApproved {
		return DecisionSkip
	}
	scheduled, ok := ParseDateTime(appt.AppointmentDate, appt.AppointmentTime, now)
	if !ok {
		return DecisionUnparsable
	}
	if !scheduled.Before(now) {
		return DecisionSkip
	}
	return DecisionComplete
}
