package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/opsboard-hq/opsboard-api/internal/config"
	"github.com/opsboard-hq/opsboard-api/internal/database"
	"github.com/opsboard-hq/opsboard-api/internal/http/handler"
	"github.com/opsboard-hq/opsboard-api/internal/http/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg                     *config.Config
	logger                  *zap.Logger
	db                      *gorm.DB
	rateLimiter             *middleware.RateLimiter
	clientHandler           *handler.ClientHandler
	projectHandler          *handler.ProjectHandler
	subscriptionHandler     *handler.SubscriptionHandler
	alertHandler            *handler.AlertHandler
	notificationRuleHandler *handler.NotificationRuleHandler
	proposalHandler         *handler.ProposalHandler
	dashboardHandler        *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	rateLimiter *middleware.RateLimiter,
	clientHandler *handler.ClientHandler,
	projectHandler *handler.ProjectHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	alertHandler *handler.AlertHandler,
	notificationRuleHandler *handler.NotificationRuleHandler,
	proposalHandler *handler.ProposalHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:                     cfg,
		logger:                  logger,
		db:                      db,
		rateLimiter:             rateLimiter,
		clientHandler:           clientHandler,
		projectHandler:          projectHandler,
		subscriptionHandler:     subscriptionHandler,
		alertHandler:            alertHandler,
		notificationRuleHandler: notificationRuleHandler,
		proposalHandler:         proposalHandler,
		dashboardHandler:        dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check with connection pool stats
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		stats, err := database.Stats(rt.db)
		if err != nil {
			stats = map[string]interface{}{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats":   stats,
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		status := http.StatusOK
		overall := "healthy"
		if !allHealthy {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": overall,
			"checks": checks,
		})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Clients
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", rt.clientHandler.List)
			r.Post("/", rt.clientHandler.Create)
			r.Get("/{id}", rt.clientHandler.Get)
			r.Put("/{id}", rt.clientHandler.Update)
			r.Delete("/{id}", rt.clientHandler.Delete)
		})

		// Projects
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", rt.projectHandler.List)
			r.Post("/", rt.projectHandler.Create)
			r.Get("/{id}", rt.projectHandler.Get)
			r.Patch("/{id}", rt.projectHandler.Update)
			r.Delete("/{id}", rt.projectHandler.Delete)
			r.Get("/{id}/costs", rt.projectHandler.ListCosts)
			r.Post("/{id}/costs", rt.projectHandler.AddCost)
			r.Delete("/{id}/costs/{costId}", rt.projectHandler.DeleteCost)
		})

		// Subscriptions (aggregated with client + billing fields)
		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", rt.subscriptionHandler.List)
			r.Post("/", rt.subscriptionHandler.Create)
			r.Get("/{id}", rt.subscriptionHandler.Get)
			r.Patch("/{id}", rt.subscriptionHandler.Update)
			r.Delete("/{id}", rt.subscriptionHandler.Delete)

			r.Post("/{id}/services", rt.subscriptionHandler.AddService)
			r.Patch("/{id}/services/{serviceId}", rt.subscriptionHandler.UpdateService)
			r.Delete("/{id}/services/{serviceId}", rt.subscriptionHandler.DeleteService)

			r.Get("/{id}/payments", rt.subscriptionHandler.ListPayments)
			r.Post("/{id}/payments", rt.subscriptionHandler.AddPayment)
		})

		// Alerts
		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", rt.alertHandler.List)
			r.Get("/unread", rt.alertHandler.ListUnread)
			r.Post("/read-all", rt.alertHandler.MarkAllAsRead)
			// POST and PATCH both mark read; clients differ on verb choice
			r.Post("/{id}/read", rt.alertHandler.MarkAsRead)
			r.Patch("/{id}/read", rt.alertHandler.MarkAsRead)
		})

		// Notification rules
		r.Route("/notification-rules", func(r chi.Router) {
			r.Get("/", rt.notificationRuleHandler.List)
			r.Post("/", rt.notificationRuleHandler.Create)
			r.Get("/{id}", rt.notificationRuleHandler.Get)
			r.Put("/{id}", rt.notificationRuleHandler.Update)
			r.Delete("/{id}", rt.notificationRuleHandler.Delete)
		})

		// Proposals
		r.Route("/proposals", func(r chi.Router) {
			r.Get("/", rt.proposalHandler.List)
			r.Post("/", rt.proposalHandler.Create)
			r.Get("/{id}", rt.proposalHandler.Get)
			r.Put("/{id}", rt.proposalHandler.Update)
			r.Delete("/{id}", rt.proposalHandler.Delete)
		})

		// Dashboard
		r.Get("/dashboard/metrics", rt.dashboardHandler.GetMetrics)
	})

	return r
}
