package userRepo

import (
	"context"

	"medibook/models"
)

// Repository reads patient records; this core only needs display names and
// push tokens.
type Repository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
}
