package lifecycle

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appointmentRepo "medibook/database/repository/appointment"
	doctorRepo "medibook/database/repository/doctor"
	"medibook/models"
	"medibook/services/notification"
	"medibook/utils"
)

const defaultConcurrency = 8

// Sweeper walks every appointment, applies the automatic lifecycle
// transition where due, and performs the guarded patient-count increment.
// Each appointment is independent; a failure on one never aborts the rest,
// and because the guards are enforced at the data layer the sweep is safe to
// run redundantly on any cadence.
type Sweeper struct {
	Appointments appointmentRepo.Repository
	Doctors      doctorRepo.Repository
	Notifier     notification.Service
	Concurrency  int
	Now          func() time.Time
}

func (s *Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Run performs one full sweep pass. A cancelled context stops dispatching
// new appointments; anything unprocessed is picked up by the next run.
func (s *Sweeper) Run(ctx context.Context) (models.SweepResult, error) {
	logger := utils.GetLogger()

	appts, err := s.Appointments.ListAll(ctx)
	if err != nil {
		return models.SweepResult{}, err
	}

	workers := s.Concurrency
	if workers <= 0 {
		workers = defaultConcurrency
	}

	var (
		mu     sync.Mutex
		result models.SweepResult
		wg     sync.WaitGroup
	)
	result.Examined = len(appts)

	jobs := make(chan models.Appointment)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for appt := range jobs {
				outcome := s.process(ctx, appt)
				mu.Lock()
				switch outcome.kind {
				case sweepCompleted:
					result.Completed++
				case sweepRepaired:
					result.Repaired++
				case sweepAnomaly:
					result.Anomalies++
				case sweepFailed:
					result.Failed = append(result.Failed, appt.ID)
				default:
					result.Skipped++
				}
				mu.Unlock()
			}
		}()
	}

dispatch:
	for _, appt := range appts {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- appt:
		}
	}
	close(jobs)
	wg.Wait()

	logger.Info("appointment sweep finished",
		zap.Int("examined", result.Examined),
		zap.Int("completed", result.Completed),
		zap.Int("repaired", result.Repaired),
		zap.Int("skipped", result.Skipped),
		zap.Int("anomalies", result.Anomalies),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

type sweepOutcomeKind int

const (
	sweepSkipped sweepOutcomeKind = iota
	sweepCompleted
	sweepRepaired
	sweepAnomaly
	sweepFailed
)

type sweepOutcome struct {
	kind sweepOutcomeKind
}

func (s *Sweeper) process(ctx context.Context, appt models.Appointment) sweepOutcome {
	logger := utils.GetLogger()

	switch Examine(appt, s.now()) {
	case DecisionSkip:
		return sweepOutcome{kind: sweepSkipped}
	case DecisionUnparsable:
		logger.Warn("unparsable appointment date/time, leaving record unchanged",
			zap.String("appointmentId", appt.ID),
			zap.String("date", appt.AppointmentDate),
			zap.String("time", appt.AppointmentTime))
		return sweepOutcome{kind: sweepAnomaly}
	}

	outcome, err := s.Appointments.CompleteAndCount(ctx, appt.ID)
	if err != nil {
		logger.Warn("failed to complete appointment",
			zap.String("appointmentId", appt.ID), zap.Error(err))
		return sweepOutcome{kind: sweepFailed}
	}

	switch outcome {
	case appointmentRepo.OutcomeCompleted:
		if err := s.Doctors.IncrementTotalPatients(ctx, appt.DoctorID); err != nil {
			// The guard flag is already set, so the increment is lost, not
			// doubled. Surface it for reconciliation.
			logger.Error("patient count increment failed after completion",
				zap.String("appointmentId", appt.ID),
				zap.String("doctorId", appt.DoctorID),
				zap.Error(err))
			return sweepOutcome{kind: sweepFailed}
		}
		notification.NotifyAppointmentCompleted(ctx, s.Notifier, appt)
		notification.NotifyPatientCounted(ctx, s.Notifier, appt)
		return sweepOutcome{kind: sweepCompleted}
	case appointmentRepo.OutcomeRepaired:
		logger.Warn("repaired drifted appointment status",
			zap.String("appointmentId", appt.ID))
		return sweepOutcome{kind: sweepRepaired}
	default:
		// Another sweep instance got there first.
		return sweepOutcome{kind: sweepSkipped}
	}
}
