package userRepo

import (
	"context"
	"encoding/json"
	"time"

	"firebase.google.com/go/v4/db"

	"medibook/apperr"
	"medibook/models"
)

const usersPath = "users"

// RTDBUserRepo reads user records at users/{id}.
type RTDBUserRepo struct {
	Client *db.Client
}

func NewRTDBUserRepo(client *db.Client) *RTDBUserRepo {
	return &RTDBUserRepo{Client: client}
}

func (r *RTDBUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var raw map[string]interface{}
	if err := r.Client.NewRef(usersPath).Child(userID).Get(ctx, &raw); err != nil {
		return nil, apperr.Transient(err, "failed to read user %s", userID)
	}
	if len(raw) == 0 {
		return nil, apperr.NotFound("user %s not found", userID)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, apperr.Transient(err, "malformed user record %s", userID)
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, apperr.Transient(err, "malformed user record %s", userID)
	}
	user.ID = userID
	return &user, nil
}
