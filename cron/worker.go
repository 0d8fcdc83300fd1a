package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"medibook/config"
	"medibook/models"
	"medibook/services/lifecycle"
)

const TypeAppointmentSweep = "appointments:sweep"

// InitSweepWorker runs the recurring appointment sweep in the background:
// an asynq scheduler enqueues a sweep task on a fixed interval and an asynq
// server consumes it. The sweep's guard flags make redundant runs harmless,
// so overlapping schedules or manual triggers are safe.
func InitSweepWorker(sweeper *lifecycle.Sweeper) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAppointmentSweep, handleSweepTask(sweeper))

	interval := config.AppConfig.SweepIntervalMinutes
	if interval <= 0 {
		interval = 15
	}
	scheduler := asynq.NewScheduler(redisOpts, nil)
	payload, _ := json.Marshal(models.SweepTaskPayload{Trigger: "cron"})
	if _, err := scheduler.Register(
		fmt.Sprintf("@every %dm", interval),
		asynq.NewTask(TypeAppointmentSweep, payload),
	); err != nil {
		log.Fatalf("[SweepWorker] failed to register sweep schedule: %v", err)
	}

	// Start Redis health monitor
	go monitorRedisConnection()

	go func() {
		log.Printf("[SweepWorker] starting sweep scheduler (every %dm)...", interval)
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[SweepWorker] scheduler failed: %v", err)
		}
	}()

	// Start async worker with retry logic
	go func() {
		log.Println("[SweepWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SweepWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleSweepTask(sweeper *lifecycle.Sweeper) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.SweepTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[SweepHandler] invalid payload: %v", err)
			return err
		}

		result, err := sweeper.Run(ctx)
		if err != nil {
			log.Printf("[SweepHandler] sweep failed (%s trigger): %v", p.Trigger, err)
			return err
		}
		log.Printf("[SweepHandler] sweep done (%s trigger): examined=%d completed=%d repaired=%d anomalies=%d failed=%d",
			p.Trigger, result.Examined, result.Completed, result.Repaired, result.Anomalies, len(result.Failed))
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[SweepWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
