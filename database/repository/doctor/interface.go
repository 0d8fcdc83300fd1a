package doctorRepo

import (
	"context"

	"medibook/models"
)

// Repository is the persistence boundary for doctor profiles. The aggregate
// fields (totalPatients, rating, totalRatings) are only ever mutated through
// the transactional operations below, never set directly.
type Repository interface {
	GetByID(ctx context.Context, doctorID string) (*models.DoctorProfile, error)

	// IncrementTotalPatients bumps the patient counter by one using an
	// optimistic read-modify-write on the counter node.
	IncrementTotalPatients(ctx context.Context, doctorID string) error

	// ApplyRating folds a new rating value into the running mean and bumps
	// totalRatings, returning the committed aggregates.
	ApplyRating(ctx context.Context, doctorID string, value float64) (newMean float64, newCount int, err error)
}
