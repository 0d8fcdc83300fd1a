package scheduling

import (
	"context"

	"go.uber.org/zap"

	"medibook/apperr"
	appointmentRepo "medibook/database/repository/appointment"
	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
	"medibook/utils"
)

// Service manages doctor weekly schedules and answers slot availability
// questions for the booking path.
type Service interface {
	GetSchedule(ctx context.Context, doctorID string) (*models.DoctorSchedule, error)
	UpdateSchedule(ctx context.Context, doctorID string, week map[string]models.DaySchedule, slotMinutes int) (*models.DoctorSchedule, error)
	// AvailableSlots enumerates the bookable slot starts for a doctor on a
	// date, excluding slots already taken by pending or approved
	// appointments.
	AvailableSlots(ctx context.Context, doctorID, date string) ([]string, error)
}

// DefaultSchedulingService is the production implementation.
type DefaultSchedulingService struct {
	Repo         scheduleRepo.Repository
	Appointments appointmentRepo.Repository
}

func (s *DefaultSchedulingService) GetSchedule(ctx context.Context, doctorID string) (*models.DoctorSchedule, error) {
	schedule, err := s.Repo.Get(ctx, doctorID)
	if apperr.IsNotFound(err) {
		// A doctor who never configured a schedule reads as fully closed.
		return models.NewDoctorSchedule(doctorID), nil
	}
	return schedule, err
}

func (s *DefaultSchedulingService) UpdateSchedule(ctx context.Context, doctorID string, week map[string]models.DaySchedule, slotMinutes int) (*models.DoctorSchedule, error) {
	if slotMinutes <= 0 {
		return nil, apperr.Validation("slot duration must be positive, got %d", slotMinutes)
	}

	schedule, err := s.GetSchedule(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	for day, window := range week {
		if !validWeekday(day) {
			return nil, apperr.Validation("unknown weekday %q", day)
		}
		if err := ValidateDaySchedule(window); err != nil {
			return nil, apperr.Validation("invalid window for %s: %v", day, err)
		}
		schedule.SetDay(day, window)
	}
	schedule.AppointmentDuration = slotMinutes

	if err := s.Repo.Save(ctx, schedule); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("schedule updated",
		zap.String("doctorId", doctorID),
		zap.Int("slotMinutes", slotMinutes))
	return schedule, nil
}

func (s *DefaultSchedulingService) AvailableSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	day, err := weekdayKey(date)
	if err != nil {
		return nil, apperr.Validation("invalid date %q", date)
	}

	schedule, err := s.GetSchedule(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	window, ok := schedule.Day(day)
	if !ok || !window.Available {
		return nil, nil
	}

	slots := EnumerateSlots(window, schedule.AppointmentDuration)
	if len(slots) == 0 {
		return nil, nil
	}

	// Drop slots already held by an active appointment for that doctor/date.
	booked := make(map[string]bool)
	appts, err := s.Appointments.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	for _, appt := range appts {
		if appt.AppointmentDate != date {
			continue
		}
		if appt.Status == models.StatusPending || appt.Status == models.StatusApproved {
			booked[appt.AppointmentTime] = true
		}
	}

	open := slots[:0]
	for _, slot := range slots {
		if !booked[slot] {
			open = append(open, slot)
		}
	}
	return open, nil
}

func validWeekday(day string) bool {
	for _, d := range models.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
