package scheduleRepo

import (
	"context"
	"encoding/json"
	"time"

	"firebase.google.com/go/v4/db"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"medibook/apperr"
	"medibook/models"
	"medibook/utils"
)

const (
	schedulesPath    = "doctorSchedules"
	scheduleCacheTTL = 5 * time.Minute
)

// RTDBScheduleRepo stores weekly templates at doctorSchedules/{doctorId},
// with a redis read-through cache in front of the tree store.
type RTDBScheduleRepo struct {
	Client *db.Client
	Cache  *redis.Client
}

func NewRTDBScheduleRepo(client *db.Client, cache *redis.Client) *RTDBScheduleRepo {
	return &RTDBScheduleRepo{Client: client, Cache: cache}
}

func cacheKey(doctorID string) string {
	return "schedule:" + doctorID
}

func (r *RTDBScheduleRepo) Get(ctx context.Context, doctorID string) (*models.DoctorSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if r.Cache != nil {
		if cached, err := r.Cache.Get(ctx, cacheKey(doctorID)).Result(); err == nil {
			var schedule models.DoctorSchedule
			if err := json.Unmarshal([]byte(cached), &schedule); err == nil {
				schedule.Normalize()
				return &schedule, nil
			}
		}
	}

	var schedule models.DoctorSchedule
	if err := r.Client.NewRef(schedulesPath).Child(doctorID).Get(ctx, &schedule); err != nil {
		return nil, apperr.Transient(err, "failed to read schedule for doctor %s", doctorID)
	}
	if schedule.LastUpdated == 0 && len(schedule.WeekSchedule) == 0 {
		return nil, apperr.NotFound("no schedule for doctor %s", doctorID)
	}
	schedule.DoctorID = doctorID
	schedule.Normalize()

	if r.Cache != nil {
		if data, err := json.Marshal(&schedule); err == nil {
			if err := r.Cache.Set(ctx, cacheKey(doctorID), data, scheduleCacheTTL).Err(); err != nil {
				utils.GetLogger().Warn("failed to cache schedule", zap.String("doctorId", doctorID), zap.Error(err))
			}
		}
	}
	return &schedule, nil
}

func (r *RTDBScheduleRepo) Save(ctx context.Context, schedule *models.DoctorSchedule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	schedule.Normalize()
	schedule.LastUpdated = time.Now().UnixMilli()
	if err := r.Client.NewRef(schedulesPath).Child(schedule.DoctorID).Set(ctx, schedule); err != nil {
		return apperr.Transient(err, "failed to save schedule for doctor %s", schedule.DoctorID)
	}
	if r.Cache != nil {
		if err := r.Cache.Del(ctx, cacheKey(schedule.DoctorID)).Err(); err != nil {
			utils.GetLogger().Warn("failed to invalidate schedule cache", zap.String("doctorId", schedule.DoctorID), zap.Error(err))
		}
	}
	return nil
}
