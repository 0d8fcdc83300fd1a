package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medibook/apperr"
	appointmentRepo "medibook/database/repository/appointment"
	doctorRepo "medibook/database/repository/doctor"
	"medibook/models"
	"medibook/services/notification"
	"medibook/services/scheduling"
	"medibook/utils"
)

// BookRequest carries the fields a patient submits to book a slot.
type BookRequest struct {
	UserID   string `json:"userId"`
	DoctorID string `json:"doctorId" binding:"required"`
	Date     string `json:"date" binding:"required"` // "2006-01-02"
	Time     string `json:"time" binding:"required"` // "15:04"
	Notes    string `json:"notes"`
}

// Service owns every appointment state change initiated by a person. The
// automatic approved-to-completed transition belongs to the lifecycle
// sweeper; everything here is request-driven.
type Service interface {
	Book(ctx context.Context, req BookRequest) (*models.Appointment, error)
	Approve(ctx context.Context, appointmentID, doctorID string) (*models.Appointment, error)
	Reject(ctx context.Context, appointmentID, doctorID string) (*models.Appointment, error)
	Cancel(ctx context.Context, appointmentID, actorID string) (*models.Appointment, error)
	GetByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	ListForUser(ctx context.Context, userID string) ([]models.Appointment, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
}

// DefaultAppointmentService is the production implementation.
type DefaultAppointmentService struct {
	Repo       appointmentRepo.Repository
	Doctors    doctorRepo.Repository
	Scheduling scheduling.Service
	Notifier   notification.Service
	Now        func() time.Time
}

func (s *DefaultAppointmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Book validates the requested slot against the doctor's weekly calendar,
// checks for a double booking, snapshots the fee and slot duration, and
// creates the appointment in pending state.
func (s *DefaultAppointmentService) Book(ctx context.Context, req BookRequest) (*models.Appointment, error) {
	if req.UserID == "" || req.DoctorID == "" {
		return nil, apperr.Validation("userId and doctorId are required")
	}

	doctor, err := s.Doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.Scheduling.GetSchedule(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !scheduling.IsBookable(schedule, req.Date, req.Time) {
		return nil, apperr.Conflict("doctor %s is not available on %s at %s", req.DoctorID, req.Date, req.Time)
	}

	taken, err := s.Repo.HasActiveAt(ctx, req.DoctorID, req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("slot %s %s is already booked", req.Date, req.Time)
	}

	appt := &models.Appointment{
		ID:              uuid.New().String(),
		UserID:          req.UserID,
		DoctorID:        req.DoctorID,
		DoctorName:      doctor.Name,
		AppointmentDate: req.Date,
		AppointmentTime: req.Time,
		DurationMinutes: schedule.AppointmentDuration,
		ConsultationFee: doctor.ConsultationFee,
		Status:          models.StatusPending,
		Notes:           req.Notes,
		Timestamp:       s.now().UnixMilli(),
	}
	if err := s.Repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("appointment booked",
		zap.String("appointmentId", appt.ID),
		zap.String("doctorId", appt.DoctorID),
		zap.String("date", appt.AppointmentDate),
		zap.String("time", appt.AppointmentTime))

	s.notifyDoctor(ctx, appt, "New appointment request",
		"A patient has requested an appointment on "+appt.AppointmentDate+" at "+appt.AppointmentTime+".")
	return appt, nil
}

// Approve moves a pending appointment to approved. Only the booked doctor
// may decide.
func (s *DefaultAppointmentService) Approve(ctx context.Context, appointmentID, doctorID string) (*models.Appointment, error) {
	return s.decide(ctx, appointmentID, doctorID, models.StatusApproved,
		"Appointment approved", "Your appointment has been approved.")
}

// Reject moves a pending appointment to rejected.
func (s *DefaultAppointmentService) Reject(ctx context.Context, appointmentID, doctorID string) (*models.Appointment, error) {
	return s.decide(ctx, appointmentID, doctorID, models.StatusRejected,
		"Appointment rejected", "Your appointment request was declined.")
}

func (s *DefaultAppointmentService) decide(ctx context.Context, appointmentID, doctorID string, to models.AppointmentStatus, title, body string) (*models.Appointment, error) {
	appt, err := s.Repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.DoctorID != doctorID {
		return nil, apperr.Validation("appointment %s does not belong to doctor %s", appointmentID, doctorID)
	}
	if appt.Status != models.StatusPending {
		return nil, apperr.Conflict("appointment %s is %s, only pending appointments can be decided", appointmentID, appt.Status)
	}
	// The conditional write re-checks the transition at the data layer in
	// case the state moved between read and write.
	if err := s.Repo.TransitionStatus(ctx, appointmentID, to); err != nil {
		return nil, err
	}
	appt.Status = to
	s.notifyUser(ctx, appt, title, body)
	return appt, nil
}

// Cancel moves a pending or approved appointment to cancelled. Either party
// may cancel; a terminal appointment reports a conflict.
func (s *DefaultAppointmentService) Cancel(ctx context.Context, appointmentID, actorID string) (*models.Appointment, error) {
	appt, err := s.Repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.UserID != actorID && appt.DoctorID != actorID {
		return nil, apperr.Validation("appointment %s does not involve %s", appointmentID, actorID)
	}
	if appt.Status.Terminal() {
		return nil, apperr.Conflict("appointment %s is already %s", appointmentID, appt.Status)
	}
	if err := s.Repo.TransitionStatus(ctx, appointmentID, models.StatusCancelled); err != nil {
		return nil, err
	}
	appt.Status = models.StatusCancelled

	if actorID == appt.UserID {
		s.notifyDoctor(ctx, appt, "Appointment cancelled",
			"The appointment on "+appt.AppointmentDate+" at "+appt.AppointmentTime+" was cancelled by the patient.")
	} else {
		s.notifyUser(ctx, appt, "Appointment cancelled",
			"Your appointment on "+appt.AppointmentDate+" at "+appt.AppointmentTime+" was cancelled by the doctor.")
	}
	return appt, nil
}

func (s *DefaultAppointmentService) GetByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	return s.Repo.GetByID(ctx, appointmentID)
}

func (s *DefaultAppointmentService) ListForUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *DefaultAppointmentService) ListForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return s.Repo.ListByDoctor(ctx, doctorID)
}

func (s *DefaultAppointmentService) notifyUser(ctx context.Context, appt *models.Appointment, title, body string) {
	if s.Notifier == nil {
		return
	}
	data := map[string]string{"appointmentId": appt.ID, "type": "appointment_update"}
	if err := s.Notifier.SendUserPush(ctx, appt.UserID, title, body, data); err != nil {
		utils.GetLogger().Warn("failed to notify patient",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

func (s *DefaultAppointmentService) notifyDoctor(ctx context.Context, appt *models.Appointment, title, body string) {
	if s.Notifier == nil {
		return
	}
	data := map[string]string{"appointmentId": appt.ID, "type": "appointment_update"}
	if err := s.Notifier.SendDoctorPush(ctx, appt.DoctorID, title, body, data); err != nil {
		utils.GetLogger().Warn("failed to notify doctor",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}
