package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"firebase.google.com/go/v4/db"

	"medibook/apperr"
	"medibook/models"
)

const appointmentsPath = "appointments"

// Sentinel errors used to signal aborts out of RTDB transactions.
var (
	errNotFound          = errors.New("appointment not found")
	errIllegalTransition = errors.New("illegal status transition")
	errAlreadyRated      = errors.New("rating already given")
)

// RTDBAppointmentRepo stores appointments at appointments/{id}.
type RTDBAppointmentRepo struct {
	Client *db.Client
}

func NewRTDBAppointmentRepo(client *db.Client) *RTDBAppointmentRepo {
	return &RTDBAppointmentRepo{Client: client}
}

func (r *RTDBAppointmentRepo) ref() *db.Ref {
	return r.Client.NewRef(appointmentsPath)
}

func (r *RTDBAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.ref().Child(appt.ID).Set(ctx, appt); err != nil {
		return apperr.Transient(err, "failed to save appointment %s", appt.ID)
	}
	return nil
}

func (r *RTDBAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.ref().Child(id).Get(ctx, &appt); err != nil {
		return nil, apperr.Transient(err, "failed to read appointment %s", id)
	}
	if appt.ID == "" {
		return nil, apperr.NotFound("appointment %s not found", id)
	}
	return &appt, nil
}

func (r *RTDBAppointmentRepo) ListAll(ctx context.Context) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var byID map[string]models.Appointment
	if err := r.ref().Get(ctx, &byID); err != nil {
		return nil, apperr.Transient(err, "failed to read appointments")
	}
	appts := make([]models.Appointment, 0, len(byID))
	for id, appt := range byID {
		if appt.ID == "" {
			appt.ID = id
		}
		appts = append(appts, appt)
	}
	return appts, nil
}

func (r *RTDBAppointmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return r.listByChild(ctx, "userId", userID)
}

func (r *RTDBAppointmentRepo) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return r.listByChild(ctx, "doctorId", doctorID)
}

func (r *RTDBAppointmentRepo) listByChild(ctx context.Context, child, value string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	nodes, err := r.ref().OrderByChild(child).EqualTo(value).GetOrdered(ctx)
	if err != nil {
		return nil, apperr.Transient(err, "failed to query appointments by %s", child)
	}
	appts := make([]models.Appointment, 0, len(nodes))
	for _, node := range nodes {
		var appt models.Appointment
		if err := node.Unmarshal(&appt); err != nil {
			continue
		}
		if appt.ID == "" {
			appt.ID = node.Key()
		}
		appts = append(appts, appt)
	}
	return appts, nil
}

func (r *RTDBAppointmentRepo) HasActiveAt(ctx context.Context, doctorID, date, timeStr string) (bool, error) {
	appts, err := r.ListByDoctor(ctx, doctorID)
	if err != nil {
		return false, err
	}
	for _, appt := range appts {
		if appt.AppointmentDate != date || appt.AppointmentTime != timeStr {
			continue
		}
		if appt.Status == models.StatusPending || appt.Status == models.StatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func (r *RTDBAppointmentRepo) TransitionStatus(ctx context.Context, id string, to models.AppointmentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := r.ref().Child(id).Transaction(ctx, func(tn db.TransactionNode) (interface{}, error) {
		var cur models.Appointment
		if err := tn.Unmarshal(&cur); err != nil {
			return nil, err
		}
		if cur.ID == "" {
			return nil, errNotFound
		}
		if !cur.Status.CanTransition(to) {
			return nil, errIllegalTransition
		}
		cur.Status = to
		return &cur, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errNotFound):
		return apperr.NotFound("appointment %s not found", id)
	case errors.Is(err, errIllegalTransition):
		return apperr.Conflict("appointment %s cannot transition to %s", id, to)
	default:
		return apperr.Transient(err, "failed to update appointment %s", id)
	}
}

// CompleteAndCount mirrors the expired-appointment update: an approved
// appointment whose time has passed becomes completed, and the one-way
// patientCounted guard decides whether the caller owes a counter increment.
// The transaction may be retried by the store on contention; the returned
// outcome reflects the final committed state.
func (r *RTDBAppointmentRepo) CompleteAndCount(ctx context.Context, id string) (CompleteOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	outcome := OutcomeNoop
	err := r.ref().Child(id).Transaction(ctx, func(tn db.TransactionNode) (interface{}, error) {
		var cur models.Appointment
		if err := tn.Unmarshal(&cur); err != nil {
			return nil, err
		}
		if cur.ID == "" {
			return nil, errNotFound
		}
		switch {
		case cur.Status == models.StatusApproved && !cur.PatientCounted:
			cur.Status = models.StatusCompleted
			cur.PatientCounted = true
			outcome = OutcomeCompleted
		case cur.Status == models.StatusApproved && cur.PatientCounted:
			// Guard and status drifted apart; fix the status without
			// double-counting.
			cur.Status = models.StatusCompleted
			outcome = OutcomeRepaired
		default:
			outcome = OutcomeNoop
		}
		return &cur, nil
	})
	switch {
	case err == nil:
		return outcome, nil
	case errors.Is(err, errNotFound):
		return OutcomeNoop, apperr.NotFound("appointment %s not found", id)
	default:
		return OutcomeNoop, apperr.Transient(err, "failed to complete appointment %s", id)
	}
}

func (r *RTDBAppointmentRepo) MarkRatingGiven(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := r.ref().Child(id).Transaction(ctx, func(tn db.TransactionNode) (interface{}, error) {
		var cur models.Appointment
		if err := tn.Unmarshal(&cur); err != nil {
			return nil, err
		}
		if cur.ID == "" {
			return nil, errNotFound
		}
		if cur.RatingGiven {
			return nil, errAlreadyRated
		}
		cur.RatingGiven = true
		return &cur, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errNotFound):
		return apperr.NotFound("appointment %s not found", id)
	case errors.Is(err, errAlreadyRated):
		return apperr.Conflict("appointment %s has already been rated", id)
	default:
		return apperr.Transient(err, "failed to mark appointment %s rated", id)
	}
}
