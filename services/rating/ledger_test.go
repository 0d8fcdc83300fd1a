package rating

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibook/apperr"
	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"
)

type memAppointments struct {
	mu    sync.Mutex
	appts map[string]*models.Appointment
}

func newMemAppointments(appts ...*models.Appointment) *memAppointments {
	m := &memAppointments{appts: make(map[string]*models.Appointment)}
	for _, a := range appts {
		copied := *a
		m.appts[a.ID] = &copied
	}
	return m
}

func (m *memAppointments) Create(context.Context, *models.Appointment) error { panic("not used") }

func (m *memAppointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return nil, apperr.NotFound("appointment %s not found", id)
	}
	copied := *a
	return &copied, nil
}

func (m *memAppointments) ListAll(context.Context) ([]models.Appointment, error) { panic("not used") }
func (m *memAppointments) ListByUser(context.Context, string) ([]models.Appointment, error) {
	panic("not used")
}
func (m *memAppointments) ListByDoctor(context.Context, string) ([]models.Appointment, error) {
	panic("not used")
}
func (m *memAppointments) HasActiveAt(context.Context, string, string, string) (bool, error) {
	panic("not used")
}
func (m *memAppointments) TransitionStatus(context.Context, string, models.AppointmentStatus) error {
	panic("not used")
}
func (m *memAppointments) CompleteAndCount(context.Context, string) (appointmentRepo.CompleteOutcome, error) {
	panic("not used")
}

func (m *memAppointments) MarkRatingGiven(_ context.Context, id string) error {
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

type memDoctors struct {
	mu       sync.Mutex
	profiles map[string]*models.DoctorProfile
}

func newMemDoctors(profiles ...*models.DoctorProfile) *memDoctors {
	m := &memDoctors{profiles: make(map[string]*models.DoctorProfile)}
	for _, p := range profiles {
		copied := *p
		m.profiles[p.ID] = &copied
	}
	return m
}

func (m *memDoctors) GetByID(_ context.Context, id string) (*models.DoctorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, apperr.NotFound("doctor %s not found", id)
	}
	copied := *p
	return &copied, nil
}

func (m *memDoctors) IncrementTotalPatients(context.Context, string) error { panic("not used") }

func (m *memDoctors) ApplyRating(_ context.Context, id string, value float64) (float64, int, error) {
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

type memRatings struct {
	mu      sync.Mutex
	records []models.DoctorRating
}

func (m *memRatings) Create(_ context.Context, r *models.DoctorRating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.RatingID = "r-generated"
	m.records = append(m.records, *r)
	return nil
}

func (m *memRatings) ListByDoctor(_ context.Context, doctorID string) ([]models.DoctorRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DoctorRating
	for _, r := range m.records {
		if r.DoctorID == doctorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func completedAppt() *models.Appointment {
	return &models.Appointment{
		ID: "a1", UserID: "u1", DoctorID: "d1",
		Status: models.StatusCompleted, PatientCounted: true,
	}
}

func fixedNow() time.Time {
	return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)
}

func TestSubmitFoldsRunningMean(t *testing.T) {
	appts := newMemAppointments(completedAppt())
	doctors := newMemDoctors(&models.DoctorProfile{ID: "d1", Rating: 4.0, TotalRatings: 1})
	ratings := &memRatings{}

	ledger := &DefaultLedger{Appointments: appts, Doctors: doctors, Ratings: ratings, Now: fixedNow}

	record, err := ledger.Submit(context.Background(), SubmitRequest{
		AppointmentID: "a1", UserID: "u1", UserName: "Pat", Value: 4, Review: "solid",
	})
	require.NoError(t, err)
	assert.Equal(t, "d1", record.DoctorID)
	assert.Equal(t, "r-generated", record.RatingID)

	doc, _ := doctors.GetByID(context.Background(), "d1")
	assert.InDelta(t, 4.0, doc.Rating, 1e-9)
	assert.Equal(t, 2, doc.TotalRatings)

	appt, _ := appts.GetByID(context.Background(), "a1")
	assert.True(t, appt.RatingGiven)
}

func TestSubmitMeanMovesWithNewValue(t *testing.T) {
	appts := newMemAppointments(completedAppt())
	doctors := newMemDoctors(&models.DoctorProfile{ID: "d1", Rating: 4.0, TotalRatings: 1})
	ledger := &DefaultLedger{Appointments: appts, Doctors: doctors, Ratings: &memRatings{}, Now: fixedNow}

	_, err := ledger.Submit(context.Background(), SubmitRequest{AppointmentID: "a1", UserID: "u1", Value: 5})
	require.NoError(t, err)

	doc, _ := doctors.GetByID(context.Background(), "d1")
	assert.InDelta(t, 4.5, doc.Rating, 1e-9)
	assert.Equal(t, 2, doc.TotalRatings)
}

func TestSubmitSecondRatingConflicts(t *testing.T) {
	appts := newMemAppointments(completedAppt())
	doctors := newMemDoctors(&models.DoctorProfile{ID: "d1", Rating: 4.0, TotalRatings: 1})
	ratings := &memRatings{}
	ledger := &DefaultLedger{Appointments: appts, Doctors: doctors, Ratings: ratings, Now: fixedNow}

	_, err := ledger.Submit(context.Background(), SubmitRequest{AppointmentID: "a1", UserID: "u1", Value: 4})
	require.NoError(t, err)

	_, err = ledger.Submit(context.Background(), SubmitRequest{AppointmentID: "a1", UserID: "u1", Value: 1})
	assert.True(t, apperr.IsConflict(err))

	doc, _ := doctors.GetByID(context.Background(), "d1")
	assert.InDelta(t, 4.0, doc.Rating, 1e-9, "a rejected second rating must not move the mean")
	assert.Equal(t, 2, doc.TotalRatings)
	assert.Len(t, ratings.records, 1)
}

func TestSubmitRequiresCompletedAppointment(t *testing.T) {
	appts := newMemAppointments(&models.Appointment{
		ID: "a1", UserID: "u1", DoctorID: "d1", Status: models.StatusApproved,
	})
	doctors := newMemDoctors(&models.DoctorProfile{ID: "d1"})
	ledger := &DefaultLedger{Appointments: appts, Doctors: doctors, Ratings: &memRatings{}, Now: fixedNow}

	_, err := ledger.Submit(context.Background(), SubmitRequest{AppointmentID: "a1", UserID: "u1", Value: 4})
	assert.True(t, apperr.IsConflict(err))
}

func TestSubmitValidatesValueRange(t *testing.T) {
	ledger := &DefaultLedger{Appointments: newMemAppointments(completedAppt()), Doctors: newMemDoctors(), Ratings: &memRatings{}, Now: fixedNow}

	for _, v := range []float64{0, 0.9, 5.1, -1} {
		_, err := ledger.Submit(context.Background(), SubmitRequest{AppointmentID: "a1", UserID: "u1", Value: v})
		assert.True(t, apperr.IsValidation(err), "value %v must be rejected", v)
	}
}

func TestSubmitRejectsForeignAppointment(t *testing.T) {
	ledger := &DefaultLedger{Appointments: newMemAppointments(completedAppt()), Doctors: newMemDoctors(), Ratings: &memRatings{}, Now: fixedNow}

	_, err := ledger.Submit(context.Background(), SubmitRequest{AppointmentID: "a1", UserID: "someone-else", Value: 4})
	assert.True(t, apperr.IsValidation(err))
}

func TestSkipFlagsWithoutRecording(t *testing.T) {
	appts := newMemAppointments(completedAppt())
	doctors := newMemDoctors(&models.DoctorProfile{ID: "d1", Rating: 4.0, TotalRatings: 1})
	ratings := &memRatings{}
	ledger := &DefaultLedger{Appointments: appts, Doctors: doctors, Ratings: ratings, Now: fixedNow}

	require.NoError(t, ledger.Skip(context.Background(), "a1", "u1"))

	appt, _ := appts.GetByID(context.Background(), "a1")
	assert.True(t, appt.RatingGiven)
	assert.Empty(t, ratings.records)

	doc, _ := doctors.GetByID(context.Background(), "d1")
	assert.InDelta(t, 4.0, doc.Rating, 1e-9)
	assert.Equal(t, 1, doc.TotalRatings, "skip must not touch aggregates")

	// Skipping twice, or rating after skipping, conflicts.
	assert.True(t, apperr.IsConflict(ledger.Skip(context.Background(), "a1", "u1")))
	_, err := ledger.Submit(context.Background(), SubmitRequest{AppointmentID: "a1", UserID: "u1", Value: 4})
	assert.True(t, apperr.IsConflict(err))
}
