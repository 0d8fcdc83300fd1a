// File: medibook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"medibook/config"
	"medibook/cron"
	"medibook/database"
	appointmentRepoPkg "medibook/database/repository/appointment"
	doctorRepoPkg "medibook/database/repository/doctor"
	ratingRepoPkg "medibook/database/repository/rating"
	scheduleRepoPkg "medibook/database/repository/schedule"
	userRepoPkg "medibook/database/repository/user"
	"medibook/handlers"
	"medibook/middleware"
	"medibook/routes"
	"medibook/services/appointment"
	"medibook/services/lifecycle"
	"medibook/services/notification"
	"medibook/services/rating"
	"medibook/services/scheduling"
	"medibook/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	apptRepo := appointmentRepoPkg.NewRTDBAppointmentRepo(database.Client)
	schedRepo := scheduleRepoPkg.NewRTDBScheduleRepo(database.Client, utils.GetCacheClient())
	docRepo := doctorRepoPkg.NewRTDBDoctorRepo(database.Client)
	rateRepo := ratingRepoPkg.NewRTDBRatingRepo(database.Client)
	usrRepo := userRepoPkg.NewRTDBUserRepo(database.Client)

	// services.
	notifier, err := notification.NewFCMService(usrRepo, docRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	schedulingService := &scheduling.DefaultSchedulingService{
		Repo:         schedRepo,
		Appointments: apptRepo,
	}

	appointmentService := &appointment.DefaultAppointmentService{
		Repo:       apptRepo,
		Doctors:    docRepo,
		Scheduling: schedulingService,
		Notifier:   notifier,
	}

	sweeper := &lifecycle.Sweeper{
		Appointments: apptRepo,
		Doctors:      docRepo,
		Notifier:     notifier,
		Concurrency:  config.AppConfig.SweepConcurrency,
	}

	ratingLedger := &rating.DefaultLedger{
		Appointments: apptRepo,
		Doctors:      docRepo,
		Ratings:      rateRepo,
	}

	// Start the recurring lifecycle sweep.
	cron.InitSweepWorker(sweeper)

	// Assemble the handler bundle and register routes.
	handlerBundle := &routes.HandlerBundle{
		Appointments: handlers.NewAppointmentHandler(appointmentService, sweeper, logger),
		Schedules:    handlers.NewScheduleHandler(schedulingService),
		Ratings:      handlers.NewRatingHandler(ratingLedger, rateRepo),
		Doctors:      handlers.NewDoctorHandler(docRepo),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
