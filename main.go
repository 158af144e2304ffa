package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"

	"github.com/Skarath13/bloom-sub003/config"
	"github.com/Skarath13/bloom-sub003/cron"
	"github.com/Skarath13/bloom-sub003/database"
	appointmentRepo "github.com/Skarath13/bloom-sub003/database/repository/appointment"
	catalogRepo "github.com/Skarath13/bloom-sub003/database/repository/catalog"
	clientRepo "github.com/Skarath13/bloom-sub003/database/repository/client"
	scheduleRepo "github.com/Skarath13/bloom-sub003/database/repository/schedule"
	technicianRepo "github.com/Skarath13/bloom-sub003/database/repository/technician"
	"github.com/Skarath13/bloom-sub003/handlers"
	"github.com/Skarath13/bloom-sub003/middleware"
	"github.com/Skarath13/bloom-sub003/routes"
	"github.com/Skarath13/bloom-sub003/services/booking"
	"github.com/Skarath13/bloom-sub003/services/notification"
	"github.com/Skarath13/bloom-sub003/services/payments"
	"github.com/Skarath13/bloom-sub003/services/reminders"
	"github.com/Skarath13/bloom-sub003/services/scheduling"
	"github.com/Skarath13/bloom-sub003/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitRateLimitCache()

	businessLoc := config.BusinessLocation()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	techRepo := technicianRepo.NewMongoTechnicianRepo()
	svcRepo := catalogRepo.NewMongoServiceRepo()
	schedRepo := scheduleRepo.NewMongoScheduleRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	cliRepo := clientRepo.NewMongoClientRepo()

	// services.
	availabilityEngine := &scheduling.DefaultAvailabilityEngine{
		Technicians:  techRepo,
		Services:     svcRepo,
		Schedules:    schedRepo,
		Appointments: apptRepo,
		Location:     businessLoc,
	}
	bookingService := &booking.DefaultBookingService{
		Appointments: apptRepo,
		Technicians:  techRepo,
		Services:     svcRepo,
		Schedules:    schedRepo,
		Location:     businessLoc,
	}
	feeService := &payments.DefaultNoShowFeeService{
		Appointments: apptRepo,
		Clients:      cliRepo,
		Processor:    payments.NewStripeProcessor(),
	}
	sweeper := &reminders.DefaultReminderSweeper{
		Appointments:   apptRepo,
		Clients:        cliRepo,
		SMS:            notification.NewRestSMSSender(),
		ReconcileAfter: time.Duration(config.AppConfig.ReconcileAfterMin) * time.Minute,
	}

	// Background sweeps.
	cron.InitSweepWorker(sweeper)

	// Assemble the handler bundle and register routes.
	handlerBundle := &routes.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(availabilityEngine, utils.GetCacheClient()),
		Appointments: handlers.NewAppointmentHandler(bookingService),
		NoShowFees:   handlers.NewNoShowFeeHandler(feeService),
		Cron:         handlers.NewCronHandler(sweeper),
		Admin:        handlers.NewAdminHandler(schedRepo),
	}
	routes.SetupRoutes(router, handlerBundle)

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
