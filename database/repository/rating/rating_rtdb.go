package ratingRepo

import (
	"context"
	"time"

	"firebase.google.com/go/v4/db"

	"medibook/apperr"
	"medibook/models"
)

const ratingsPath = "doctorRatings"

// RTDBRatingRepo stores reviews at doctorRatings/{doctorId}/{ratingId}.
type RTDBRatingRepo struct {
	Client *db.Client
}

func NewRTDBRatingRepo(client *db.Client) *RTDBRatingRepo {
	return &RTDBRatingRepo{Client: client}
}

func (r *RTDBRatingRepo) Create(ctx context.Context, rating *models.DoctorRating) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doctorRef := r.Client.NewRef(ratingsPath).Child(rating.DoctorID)
	pushed, err := doctorRef.Push(ctx, nil)
	if err != nil {
		return apperr.Transient(err, "failed to allocate rating id for doctor %s", rating.DoctorID)
	}
	rating.RatingID = pushed.Key
	if err := pushed.Set(ctx, rating); err != nil {
		return apperr.Transient(err, "failed to save rating %s", rating.RatingID)
	}
	return nil
}

func (r *RTDBRatingRepo) ListByDoctor(ctx context.Context, doctorID string) ([]models.DoctorRating, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var byID map[string]models.DoctorRating
	if err := r.Client.NewRef(ratingsPath).Child(doctorID).Get(ctx, &byID); err != nil {
		return nil, apperr.Transient(err, "failed to read ratings for doctor %s", doctorID)
	}
	ratings := make([]models.DoctorRating, 0, len(byID))
	for id, rating := range byID {
		if rating.RatingID == "" {
			rating.RatingID = id
		}
		ratings = append(ratings, rating)
	}
	return ratings, nil
}
