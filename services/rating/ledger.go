package rating

import (
	"context"
	"time"

	"go.uber.org/zap"

	"medibook/apperr"
	appointmentRepo "medibook/database/repository/appointment"
	doctorRepo "medibook/database/repository/doctor"
	ratingRepo "medibook/database/repository/rating"
	"medibook/models"
	"medibook/utils"
)

// SubmitRequest carries a patient's rating for a completed appointment.
type SubmitRequest struct {
	AppointmentID string  `json:"appointmentId" binding:"required"`
	UserID        string  `json:"userId"`
	UserName      string  `json:"userName"`
	Value         float64 `json:"value" binding:"required"`
	Review        string  `json:"review"`
}

// Ledger records at most one rating per completed appointment and folds it
// into the doctor's running mean.
type Ledger interface {
	Submit(ctx context.Context, req SubmitRequest) (*models.DoctorRating, error)
	// Skip flips the ratingGiven guard without recording a rating -- an
	// explicit user decision, distinct from a failed submission.
	Skip(ctx context.Context, appointmentID, userID string) error
}

// DefaultLedger is the production implementation.
type DefaultLedger struct {
	Appointments appointmentRepo.Repository
	Doctors      doctorRepo.Repository
	Ratings      ratingRepo.Repository
	Now          func() time.Time
}

func (l *DefaultLedger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// Submit validates the precondition (appointment completed, not yet rated),
// then applies the three writes in recovery-safe order: rating record,
// profile aggregates, ratingGiven flag. A crash mid-sequence leaves at worst
// an unflagged-but-rated appointment, never a lost rating.
func (l *DefaultLedger) Submit(ctx context.Context, req SubmitRequest) (*models.DoctorRating, error) {
	if req.Value < 1.0 || req.Value > 5.0 {
		return nil, apperr.Validation("rating value %.1f out of range 1.0-5.0", req.Value)
	}

	appt, err := l.Appointments.GetByID(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt.UserID != req.UserID {
		return nil, apperr.Validation("appointment %s does not belong to user %s", req.AppointmentID, req.UserID)
	}
	if appt.Status != models.StatusCompleted {
		return nil, apperr.Conflict("appointment %s is %s, only completed appointments can be rated", req.AppointmentID, appt.Status)
	}
	if appt.RatingGiven {
		return nil, apperr.Conflict("appointment %s has already been rated", req.AppointmentID)
	}

	record := &models.DoctorRating{
		DoctorID:      appt.DoctorID,
		UserID:        req.UserID,
		UserName:      req.UserName,
		AppointmentID: req.AppointmentID,
		Rating:        req.Value,
		Review:        req.Review,
		Timestamp:     l.now().UnixMilli(),
	}
	if err := l.Ratings.Create(ctx, record); err != nil {
		return nil, err
	}

	newMean, newCount, err := l.Doctors.ApplyRating(ctx, appt.DoctorID, req.Value)
	if err != nil {
		return nil, err
	}

	if err := l.Appointments.MarkRatingGiven(ctx, req.AppointmentID); err != nil {
		// A conflict here means a concurrent submission flipped the guard
		// after our precondition read; the rating is already persisted, so
		// surface the race rather than pretend it didn't happen.
		utils.GetLogger().Warn("rating flag conflict after rating write",
			zap.String("appointmentId", req.AppointmentID), zap.Error(err))
		return nil, err
	}

	utils.GetLogger().Info("rating recorded",
		zap.String("appointmentId", req.AppointmentID),
		zap.String("doctorId", appt.DoctorID),
		zap.Float64("value", req.Value),
		zap.Float64("newMean", newMean),
		zap.Int("totalRatings", newCount))
	return record, nil
}

func (l *DefaultLedger) Skip(ctx context.Context, appointmentID, userID string) error {
	appt, err := l.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt.UserID != userID {
		return apperr.Validation("appointment %s does not belong to user %s", appointmentID, userID)
	}
	return l.Appointments.MarkRatingGiven(ctx, appointmentID)
}
