package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carematch/config"
	"carematch/cron"
	"carematch/database"
	clientRepoPkg "carematch/database/repository/client"
	syncRepoPkg "carematch/database/repository/synclog"
	therapistRepoPkg "carematch/database/repository/therapist"
	"carematch/handlers"
	"carematch/middleware"
	"carematch/routes"
	"carematch/services/calendar"
	"carematch/services/directory"
	"carematch/services/matching"
	"carematch/services/media"
	"carematch/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// repositories.
	therapistRepo := therapistRepoPkg.NewMongoTherapistRepo()
	clientRepo := clientRepoPkg.NewMongoClientRepo()
	syncLogRepo := syncRepoPkg.NewMongoSyncLogRepo()

	// Google Calendar availability. Without credentials the matcher runs
	// without the availability filter.
	var checker calendar.AvailabilityChecker
	if credFile := config.AppConfig.GoogleCredentialsFile; credFile != "" {
		gc, err := calendar.NewGoogleChecker(context.Background(), credFile)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize calendar checker: %v", err)
		}
		checker = gc
	} else {
		logger.Sugar().Warn("main: no Google credentials configured, availability filtering is off")
	}

	var enricher media.Enricher
	if config.AppConfig.CloudinaryURL != "" {
		ce, err := media.NewCloudinaryEnricher()
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize cloudinary enricher: %v", err)
		}
		enricher = ce
	} else {
		enricher = &media.NoopEnricher{DefaultVideo: config.AppConfig.DefaultWelcomeVideo}
	}

	// Background journal worker persists match outcomes off the request path.
	journal := cron.NewJournalClient()
	cron.InitMatchJournalWorker(clientRepo)

	// services.
	matchingService := matching.NewDefaultMatchingService(
		therapistRepo, clientRepo, checker, enricher, journal)
	if checker == nil {
		matchingService.DisableAvailability = true
	}

	syncService := &directory.DefaultSyncService{
		Roster: directory.NewHTTPRosterClient(
			config.AppConfig.RosterBaseURL,
			config.AppConfig.RosterAPIKey,
			config.AppConfig.RosterTable,
		),
		Therapists: therapistRepo,
		SyncLogs:   syncLogRepo,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Assemble the handler bundle and register routes.
	handlerBundle := handlers.NewHandlerBundle(
		matchingService, syncService, checker, therapistRepo, clientRepo)
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

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
