package appointmentRepo

import (
	"context"

	"medibook/models"
)

// CompleteOutcome reports what a CompleteAndCount call actually did.
type CompleteOutcome int

const (
	// OutcomeNoop means the appointment was not in a completable state.
	OutcomeNoop CompleteOutcome = iota
	// OutcomeCompleted means status was set to completed and the
	// patientCounted guard flipped; the caller must increment the doctor's
	// patient total exactly once.
	OutcomeCompleted
	// OutcomeRepaired means the guard was already set and only a stale
	// status was fixed. No counter increment is owed.
	OutcomeRepaired
)

// Repository is the persistence boundary for appointment records.
// Guarded writes (TransitionStatus, CompleteAndCount, MarkRatingGiven) are
// enforced at the data layer so redundant or concurrent callers cannot
// double-apply a side effect.
type Repository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListAll(ctx context.Context) ([]models.Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)

	// HasActiveAt reports whether the doctor already has a pending or
	// approved appointment at the given date and time.
	HasActiveAt(ctx context.Context, doctorID, date, timeStr string) (bool, error)

	// TransitionStatus applies a manual state-machine transition. It fails
	// with a conflict if the stored status does not permit the move.
	TransitionStatus(ctx context.Context, id string, to models.AppointmentStatus) error

	// CompleteAndCount atomically transitions an approved appointment to
	// completed and flips the patientCounted guard, or repairs a drifted
	// status when the guard is already set.
	CompleteAndCount(ctx context.Context, id string) (CompleteOutcome, error)

	// MarkRatingGiven flips the one-way ratingGiven guard; a second call
	// fails with a conflict.
	MarkRatingGiven(ctx context.Context, id string) error
}
