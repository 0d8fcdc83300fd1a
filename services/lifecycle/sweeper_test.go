package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibook/apperr"
	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"
)

// memAppointmentRepo mimics the tree store's guarded writes in memory.
type memAppointmentRepo struct {
	mu    sync.Mutex
	appts map[string]*models.Appointment
}

func newMemAppointmentRepo(appts ...*models.Appointment) *memAppointmentRepo {
	m := &memAppointmentRepo{appts: make(map[string]*models.Appointment)}
	for _, a := range appts {
		copied := *a
		m.appts[a.ID] = &copied
	}
	return m
}

func (m *memAppointmentRepo) Create(_ context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *a
	m.appts[a.ID] = &copied
	return nil
}

func (m *memAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return nil, apperr.NotFound("appointment %s not found", id)
	}
	copied := *a
	return &copied, nil
}

func (m *memAppointmentRepo) ListAll(context.Context) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Appointment, 0, len(m.appts))
	for _, a := range m.appts {
		out = append(out, *a)
	}
	return out, nil
}

func (m *memAppointmentRepo) ListByUser(context.Context, string) ([]models.Appointment, error) {
	panic("not used")
}

func (m *memAppointmentRepo) ListByDoctor(context.Context, string) ([]models.Appointment, error) {
	panic("not used")
}

func (m *memAppointmentRepo) HasActiveAt(context.Context, string, string, string) (bool, error) {
	panic("not used")
}

func (m *memAppointmentRepo) TransitionStatus(_ context.Context, id string, to models.AppointmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return apperr.NotFound("appointment %s not found", id)
	}
	if !a.Status.CanTransition(to) {
		return apperr.Conflict("appointment %s cannot transition to %s", id, to)
	}
	a.Status = to
	return nil
}

func (m *memAppointmentRepo) CompleteAndCount(_ context.Context, id string) (appointmentRepo.CompleteOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return appointmentRepo.OutcomeNoop, apperr.NotFound("appointment %s not found", id)
	}
	switch {
	case a.Status == models.StatusApproved && !a.PatientCounted:
		a.Status = models.StatusCompleted
		a.PatientCounted = true
		return appointmentRepo.OutcomeCompleted, nil
	case a.Status == models.StatusApproved && a.PatientCounted:
		a.Status = models.StatusCompleted
		return appointmentRepo.OutcomeRepaired, nil
	default:
		return appointmentRepo.OutcomeNoop, nil
	}
}

func (m *memAppointmentRepo) MarkRatingGiven(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return apperr.NotFound("appointment %s not found", id)
	}
	if a.RatingGiven {
		return apperr.Conflict("appointment %s has already been rated", id)
	}
	a.RatingGiven = true
	return nil
}

type memDoctorRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.DoctorProfile
	failIncr map[string]bool
}

func newMemDoctorRepo(profiles ...*models.DoctorProfile) *memDoctorRepo {
	m := &memDoctorRepo{
		profiles: make(map[string]*models.DoctorProfile),
		failIncr: make(map[string]bool),
	}
	for _, p := range profiles {
		copied := *p
		m.profiles[p.ID] = &copied
	}
	return m
}

func (m *memDoctorRepo) GetByID(_ context.Context, id string) (*models.DoctorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, apperr.NotFound("doctor %s not found", id)
	}
	copied := *p
	return &copied, nil
}

func (m *memDoctorRepo) IncrementTotalPatients(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIncr[id] {
		return apperr.Transient(fmt.Errorf("store unavailable"), "failed to increment patient count for doctor %s", id)
	}
	p, ok := m.profiles[id]
	if !ok {
		p = &models.DoctorProfile{ID: id}
		m.profiles[id] = p
	}
	p.TotalPatients++
	return nil
}

func (m *memDoctorRepo) ApplyRating(_ context.Context, id string, value float64) (float64, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		p = &models.DoctorProfile{ID: id}
		m.profiles[id] = p
	}
	total := p.Rating*float64(p.TotalRatings) + value
	p.TotalRatings++
	p.Rating = total / float64(p.TotalRatings)
	return p.Rating, p.TotalRatings, nil
}

func fixedNow() time.Time {
	return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)
}

func yesterdayAt(clock string) (string, string) {
	return fixedNow().AddDate(0, 0, -1).Format("2006-01-02"), clock
}

func TestSweepCompletesDueAppointmentExactlyOnce(t *testing.T) {
	date, clock := yesterdayAt("10:00")
	appts := newMemAppointmentRepo(&models.Appointment{
		ID: "a1", UserID: "u1", DoctorID: "d1",
		AppointmentDate: date, AppointmentTime: clock,
		Status: models.StatusApproved,
	})
	doctors := newMemDoctorRepo(&models.DoctorProfile{ID: "d1"})

	sweeper := &Sweeper{Appointments: appts, Doctors: doctors, Now: fixedNow}

	result, err := sweeper.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Completed)

	got, _ := appts.GetByID(context.Background(), "a1")
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.True(t, got.PatientCounted)

	doc, _ := doctors.GetByID(context.Background(), "d1")
	assert.Equal(t, 1, doc.TotalPatients)

	// A second sweep over the same appointment must change nothing.
	result, err = sweeper.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Completed)
	assert.Equal(t, 1, result.Skipped)

	doc, _ = doctors.GetByID(context.Background(), "d1")
	assert.Equal(t, 1, doc.TotalPatients, "sweep must never double-count")
}

func TestSweepSkipsNotDueAndNonApproved(t *testing.T) {
	tomorrow := fixedNow().AddDate(0, 0, 1).Format("2006-01-02")
	date, clock := yesterdayAt("10:00")
	appts := newMemAppointmentRepo(
		&models.Appointment{ID: "future", DoctorID: "d1", AppointmentDate: tomorrow, AppointmentTime: "10:00", Status: models.StatusApproved},
		&models.Appointment{ID: "pending", DoctorID: "d1", AppointmentDate: date, AppointmentTime: clock, Status: models.StatusPending},
		&models.Appointment{ID: "cancelled", DoctorID: "d1", AppointmentDate: date, AppointmentTime: clock, Status: models.StatusCancelled},
	)
	doctors := newMemDoctorRepo(&models.DoctorProfile{ID: "d1"})

	sweeper := &Sweeper{Appointments: appts, Doctors: doctors, Now: fixedNow}
	result, err := sweeper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Completed)
	assert.Equal(t, 3, result.Skipped)

	pending, _ := appts.GetByID(context.Background(), "pending")
	assert.Equal(t, models.StatusPending, pending.Status, "pending appointments are never auto-completed")

	doc, _ := doctors.GetByID(context.Background(), "d1")
	assert.Equal(t, 0, doc.TotalPatients)
}

func TestSweepLeavesUnparsableUntouched(t *testing.T) {
	appts := newMemAppointmentRepo(&models.Appointment{
		ID: "weird", DoctorID: "d1",
		AppointmentDate: "someday", AppointmentTime: "later",
		Status: models.StatusApproved,
	})
	doctors := newMemDoctorRepo(&models.DoctorProfile{ID: "d1"})

	sweeper := &Sweeper{Appointments: appts, Doctors: doctors, Now: fixedNow}
	result, err := sweeper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Anomalies)
	got, _ := appts.GetByID(context.Background(), "weird")
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.False(t, got.PatientCounted)
}

func TestSweepRepairsDriftedStatusWithoutRecounting(t *testing.T) {
	date, clock := yesterdayAt("10:00")
	appts := newMemAppointmentRepo(&models.Appointment{
		ID: "drifted", DoctorID: "d1",
		AppointmentDate: date, AppointmentTime: clock,
		Status:         models.StatusApproved,
		PatientCounted: true,
	})
	doctors := newMemDoctorRepo(&models.DoctorProfile{ID: "d1", TotalPatients: 5})

	sweeper := &Sweeper{Appointments: appts, Doctors: doctors, Now: fixedNow}
	result, err := sweeper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Repaired)
	got, _ := appts.GetByID(context.Background(), "drifted")
	assert.Equal(t, models.StatusCompleted, got.Status)

	doc, _ := doctors.GetByID(context.Background(), "d1")
	assert.Equal(t, 5, doc.TotalPatients, "repair must not double-count")
}

func TestSweepIsolatesPerAppointmentFailures(t *testing.T) {
	date, clock := yesterdayAt("10:00")
	appts := newMemAppointmentRepo(
		&models.Appointment{ID: "ok", DoctorID: "d-good", AppointmentDate: date, AppointmentTime: clock, Status: models.StatusApproved},
		&models.Appointment{ID: "broken", DoctorID: "d-bad", AppointmentDate: date, AppointmentTime: clock, Status: models.StatusApproved},
	)
	doctors := newMemDoctorRepo(&models.DoctorProfile{ID: "d-good"}, &models.DoctorProfile{ID: "d-bad"})
	doctors.failIncr["d-bad"] = true

	sweeper := &Sweeper{Appointments: appts, Doctors: doctors, Now: fixedNow}
	result, err := sweeper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, []string{"broken"}, result.Failed)

	good, _ := appts.GetByID(context.Background(), "ok")
	assert.Equal(t, models.StatusCompleted, good.Status)

	doc, _ := doctors.GetByID(context.Background(), "d-good")
	assert.Equal(t, 1, doc.TotalPatients, "one failure must not block the batch")
}

func TestSweepHonoursCancellation(t *testing.T) {
	date, clock := yesterdayAt("10:00")
	var stored []*models.Appointment
	for i := 0; i < 50; i++ {
		stored = append(stored, &models.Appointment{
			ID: fmt.Sprintf("a%d", i), DoctorID: "d1",
			AppointmentDate: date, AppointmentTime: clock,
			Status: models.StatusApproved,
		})
	}
	appts := newMemAppointmentRepo(stored...)
	doctors := newMemDoctorRepo(&models.DoctorProfile{ID: "d1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sweeper := &Sweeper{Appointments: appts, Doctors: doctors, Now: fixedNow, Concurrency: 1}
	result, err := sweeper.Run(ctx)
	require.NoError(t, err)

	// A cancelled sweep stops dispatching; whatever it skipped stays
	// approved and is safe for the next run.
	remaining, _ := appts.ListAll(context.Background())
	approved := 0
	for _, a := range remaining {
		if a.Status == models.StatusApproved {
			approved++
		}
	}
	assert.Equal(t, 50-result.Completed, approved)
}
