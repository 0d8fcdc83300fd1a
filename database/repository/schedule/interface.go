package scheduleRepo

import (
	"context"

	"medibook/models"
)

// Repository is the persistence boundary for doctor weekly schedules.
type Repository interface {
	// Get returns the stored schedule, normalized so every weekday key is
	// present. A doctor with no stored schedule yields NotFound.
	Get(ctx context.Context, doctorID string) (*models.DoctorSchedule, error)

	// Save persists the full schedule, stamping lastUpdated.
	Save(ctx context.Context, schedule *models.DoctorSchedule) error
}
