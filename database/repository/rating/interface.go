package ratingRepo

import (
	"context"

	"medibook/models"
)

// Repository is the persistence boundary for rating records.
type Repository interface {
	// Create persists the rating under doctorRatings/{doctorId}, assigning
	// a fresh push key as the rating id.
	Create(ctx context.Context, rating *models.DoctorRating) error

	ListByDoctor(ctx context.Context, doctorID string) ([]models.DoctorRating, error)
}
