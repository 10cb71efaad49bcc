package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opsboard-hq/opsboard-api/internal/config"
	"github.com/opsboard-hq/opsboard-api/internal/database"
	"github.com/opsboard-hq/opsboard-api/internal/http/handler"
	"github.com/opsboard-hq/opsboard-api/internal/http/middleware"
	"github.com/opsboard-hq/opsboard-api/internal/http/router"
	"github.com/opsboard-hq/opsboard-api/internal/jobs"
	"github.com/opsboard-hq/opsboard-api/internal/logger"
	"github.com/opsboard-hq/opsboard-api/internal/repository"
	"github.com/opsboard-hq/opsboard-api/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	costRepo := repository.NewProjectCostRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	ruleRepo := repository.NewNotificationRuleRepository(db)

	// Initialize services
	clientService := service.NewClientService(clientRepo, log)
	projectService := service.NewProjectService(projectRepo, costRepo, clientRepo, log)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, paymentRepo, clientRepo, log)
	paymentService := service.NewPaymentService(paymentRepo, subscriptionRepo, log)
	proposalService := service.NewProposalService(proposalRepo, clientRepo, log)
	alertService := service.NewAlertService(alertRepo, log)
	ruleService := service.NewNotificationRuleService(ruleRepo, log)
	ruleEngine := service.NewRuleEngineService(ruleRepo, projectRepo, alertService, log)
	dashboardService := service.NewDashboardService(clientRepo, projectRepo, subscriptionRepo, alertRepo, proposalRepo, log)

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	clientHandler := handler.NewClientHandler(clientService, log)
	projectHandler := handler.NewProjectHandler(projectService, log)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, paymentService, log)
	alertHandler := handler.NewAlertHandler(alertService, log)
	ruleHandler := handler.NewNotificationRuleHandler(ruleService, log)
	proposalHandler := handler.NewProposalHandler(proposalService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		rateLimiter,
		clientHandler,
		projectHandler,
		subscriptionHandler,
		alertHandler,
		ruleHandler,
		proposalHandler,
		dashboardHandler,
	)

	// Start the background rule scanner
	var scheduler *jobs.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterRuleScanJob(
			scheduler,
			ruleEngine,
			log,
			cfg.Scheduler.Interval(),
			cfg.Scheduler.Timeout(),
			cfg.Scheduler.RunOnStart,
		); err != nil {
			log.Error("Failed to register rule scan job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with rule scan job",
				zap.Duration("interval", cfg.Scheduler.Interval()),
				zap.Duration("timeout", cfg.Scheduler.Timeout()),
				zap.Bool("run_on_start", cfg.Scheduler.RunOnStart),
			)
		}
	} else {
		log.Info("Scheduler disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
