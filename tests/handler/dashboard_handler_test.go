package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"github.com/opsboard-hq/opsboard-api/internal/http/handler"
	"github.com/opsboard-hq/opsboard-api/internal/repository"
	"github.com/opsboard-hq/opsboard-api/internal/service"
	"github.com/opsboard-hq/opsboard-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDashboardRouter(db *gorm.DB) chi.Router {
	logger := zap.NewNop()
	svc := service.NewDashboardService(
		repository.NewClientRepository(db),
		repository.NewProjectRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewAlertRepository(db),
		repository.NewProposalRepository(db),
		logger,
	)
	h := handler.NewDashboardHandler(svc, logger)

	r := chi.NewRouter()
	r.Get("/api/dashboard/metrics", h.GetMetrics)
	return r
}

func TestDashboardHandler_GetMetrics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupDashboardRouter(db)

	client := testutil.CreateTestClient(t, db, "Acme")
	testutil.CreateTestSubscription(t, db, client.ID, 10, 1200)
	testutil.CreateTestProject(t, db, client.ID, "Late", domain.ProjectStatusDevelopment, testutil.DaysAgo(2))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var metrics domain.DashboardMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &metrics))
	assert.Equal(t, 1200.0, metrics.MRR)
	assert.Equal(t, 1, metrics.ActiveClients)
	assert.Equal(t, 1, metrics.ActiveProjects)
	assert.Equal(t, 1, metrics.OverdueProjects)
	assert.Equal(t, 1, metrics.ActiveSubscriptions)
}
