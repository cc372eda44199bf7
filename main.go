package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/internal/analysis"
	"github.com/sahaty/medtrack/internal/azure"
	"github.com/sahaty/medtrack/internal/config"
	"github.com/sahaty/medtrack/internal/handler"
	"github.com/sahaty/medtrack/internal/middleware"
	"github.com/sahaty/medtrack/internal/notify"
	"github.com/sahaty/medtrack/internal/profile"
	"github.com/sahaty/medtrack/internal/store"
	"github.com/sahaty/medtrack/internal/syncbridge"
	"github.com/sahaty/medtrack/pkg/model"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	// Open the local profile store
	local, err := store.NewBadgerStore(cfg.Store.Path, logger)
	if err != nil {
		logger.Fatal("Failed to open local store", zap.Error(err))
	}
	defer local.Close()

	// Connect the sync bridge when configured; the app degrades to
	// local-only operation without it
	var bridge *syncbridge.Bridge
	if cfg.SyncEnabled() {
		bridge, err = syncbridge.New(ctx, cfg.Sync.MongoURI, cfg.Sync.Database, cfg.Sync.PollInterval, logger)
		if err != nil {
			logger.Warn("Sync bridge unavailable, running local-only", zap.Error(err))
			bridge = nil
		} else {
			defer bridge.Close(context.Background())
			logger.Info("Sync bridge connected", zap.String("database", cfg.Sync.Database))
		}
	} else {
		logger.Info("Sync bridge not configured, running local-only")
	}

	var pusher profile.Pusher
	if bridge != nil {
		pusher = bridge
	}

	// Load the profile and run the day rollover
	profileService, err := profile.NewService(ctx, local, pusher, logger)
	if err != nil {
		logger.Fatal("Failed to initialize patient profile", zap.Error(err))
	}

	// Caregiver-mode mirror over the sync bridge
	var mirror *profile.Mirror
	if bridge != nil {
		mirror = profile.NewMirror(profileService, &bridgeWatcher{bridge: bridge}, nil, logger)
		mirror.Refresh()
		defer mirror.Close()
	}

	// Azure OpenAI analysis, disabled without credentials
	var completer analysis.Completer
	if cfg.AnalysisEnabled() {
		openAIClient, err := azure.NewOpenAIClient(
			cfg.Azure.OpenAI.Endpoint,
			cfg.Azure.OpenAI.APIKey,
			cfg.Azure.OpenAI.Deployment,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize Azure OpenAI client", zap.Error(err))
		}
		completer = openAIClient
	} else {
		logger.Info("Azure OpenAI not configured, analysis disabled")
	}
	analyzer := analysis.NewAnalyzer(completer, logger)

	// Azure Speech, disabled without credentials
	var speaker handler.Speaker
	if cfg.SpeechEnabled() {
		speechClient, err := azure.NewSpeechClient(
			cfg.Azure.Speech.SubscriptionKey,
			cfg.Azure.Speech.Region,
			cfg.Azure.Speech.Voice,
			nil,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize Azure Speech client", zap.Error(err))
		}
		speaker = speechClient
	} else {
		logger.Info("Azure Speech not configured, speech disabled")
	}

	// Reminder scheduler
	var sender notify.Sender
	if bridge != nil {
		sender = bridge
	}
	scheduler := notify.NewScheduler(profileService, sender, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start reminder scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	var registrar handler.TokenRegistrar
	if bridge != nil {
		registrar = notify.NewRegistrar(bridge, logger)
	}

	// Initialize handlers
	var refresher handler.Refresher
	if mirror != nil {
		refresher = mirror
	}
	handlers := &handler.Handlers{
		Schedule:  handler.NewScheduleHandler(profileService, logger),
		Report:    handler.NewReportHandler(profileService, logger),
		Caregiver: handler.NewCaregiverHandler(profileService, refresher, registrar, logger),
		Analysis:  handler.NewAnalysisHandler(profileService, analyzer, speaker, logger),
		State:     handler.NewStateHandler(profileService, logger),
	}

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Add error logging middleware
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Register routes
	handler.RegisterRoutes(r, handlers)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// bridgeWatcher adapts syncbridge.Bridge to the profile.Watcher interface,
// converting the concrete subscription type to the interface.
type bridgeWatcher struct {
	bridge *syncbridge.Bridge
}

func (w *bridgeWatcher) WatchPatient(patientID string, fn func(model.PatientState)) (profile.Subscription, error) {
	sub, err := w.bridge.WatchPatient(patientID, fn)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (w *bridgeWatcher) WatchNotifications(patientID string, fn func(model.Notification)) (profile.Subscription, error) {
	sub, err := w.bridge.WatchNotifications(patientID, fn)
	if err != nil {
		return nil, err
	}
	return sub, nil
}
