package doctorRepo

import (
	"context"
	"encoding/json"
	"time"

	"firebase.google.com/go/v4/db"

	"medibook/apperr"
	"medibook/models"
)

const profilesPath = "doctorProfiles"

// RTDBDoctorRepo stores profiles at doctorProfiles/{doctorId}.
type RTDBDoctorRepo struct {
	Client *db.Client
}

func NewRTDBDoctorRepo(client *db.Client) *RTDBDoctorRepo {
	return &RTDBDoctorRepo{Client: client}
}

func (r *RTDBDoctorRepo) ref(doctorID string) *db.Ref {
	return r.Client.NewRef(profilesPath).Child(doctorID)
}

func (r *RTDBDoctorRepo) GetByID(ctx context.Context, doctorID string) (*models.DoctorProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var raw map[string]interface{}
	if err := r.ref(doctorID).Get(ctx, &raw); err != nil {
		return nil, apperr.Transient(err, "failed to read doctor profile %s", doctorID)
	}
	if len(raw) == 0 {
		return nil, apperr.NotFound("doctor %s not found", doctorID)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, apperr.Transient(err, "malformed doctor profile %s", doctorID)
	}
	var profile models.DoctorProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, apperr.Transient(err, "malformed doctor profile %s", doctorID)
	}
	profile.ID = doctorID
	return &profile, nil
}

// IncrementTotalPatients re-reads the counter inside the transaction so two
// overlapping sweeps cannot lose an update; the caller's patientCounted
// guard ensures this fires at most once per appointment.
func (r *RTDBDoctorRepo) IncrementTotalPatients(ctx context.Context, doctorID string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	counterRef := r.ref(doctorID).Child("totalPatients")
	err := counterRef.Transaction(ctx, func(tn db.TransactionNode) (interface{}, error) {
		var current int
		if err := tn.Unmarshal(&current); err != nil {
			current = 0
		}
		return current + 1, nil
	})
	if err != nil {
		return apperr.Transient(err, "failed to increment patient count for doctor %s", doctorID)
	}
	return nil
}

func (r *RTDBDoctorRepo) ApplyRating(ctx context.Context, doctorID string, value float64) (float64, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	type aggregates struct {
		Rating       float64 `json:"rating"`
		TotalRatings int     `json:"totalRatings"`
	}

	var newMean float64
	var newCount int
	// Transact on the two aggregate children together so the mean and the
	// count always move in step.
	aggRef := r.ref(doctorID)
	err := aggRef.Transaction(ctx, func(tn db.TransactionNode) (interface{}, error) {
		var raw map[string]interface{}
		if err := tn.Unmarshal(&raw); err != nil {
			return nil, err
		}
		var agg aggregates
		if data, err := json.Marshal(raw); err == nil {
			_ = json.Unmarshal(data, &agg)
		}

		total := agg.Rating*float64(agg.TotalRatings) + value
		newCount = agg.TotalRatings + 1
		newMean = total / float64(newCount)

		if raw == nil {
			raw = make(map[string]interface{})
		}
		raw["rating"] = newMean
		raw["totalRatings"] = newCount
		return raw, nil
	})
	if err != nil {
		return 0, 0, apperr.Transient(err, "failed to apply rating for doctor %s", doctorID)
	}
	return newMean, newCount, nil
}
