package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
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

func setupRuleRouter(db *gorm.DB) chi.Router {
	logger := zap.NewNop()
	svc := service.NewNotificationRuleService(repository.NewNotificationRuleRepository(db), logger)
	h := handler.NewNotificationRuleHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/api/notification-rules", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func TestNotificationRuleHandler_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupRuleRouter(db)

	body := `{
		"name": "Late projects",
		"description": "Flag projects past their due date",
		"condition": {"type": "project_delayed", "field": "due_date", "operator": "lt", "value": "now", "entityType": "project"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/notification-rules/", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var dto domain.NotificationRuleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.True(t, dto.IsActive, "rules default to active")
	assert.Equal(t, domain.RuleTypeProjectDelayed, dto.Condition.Type)
	assert.Equal(t, "due_date", dto.Condition.Field)
	assert.Equal(t, "now", dto.Condition.RawValue, `the "value" wire key maps to RawValue`)
}

func TestNotificationRuleHandler_Create_UnknownType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupRuleRouter(db)

	body := `{"name":"Bad","condition":{"type":"bogus_rule"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/notification-rules/", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationRuleHandler_Get_RoundTripsCondition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupRuleRouter(db)
	rule := testutil.CreateTestRule(t, db, "Late projects", domain.RuleTypeProjectDelayed)

	req := httptest.NewRequest(http.MethodGet, "/api/notification-rules/"+rule.ID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var dto domain.NotificationRuleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, rule.Condition.Type, dto.Condition.Type)
}

func TestNotificationRuleHandler_Update_TogglesActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupRuleRouter(db)
	rule := testutil.CreateTestRule(t, db, "Late projects", domain.RuleTypeProjectDelayed)

	body := `{
		"name": "Late projects (paused)",
		"condition": {"type": "project_delayed"},
		"isActive": false
	}`
	req := httptest.NewRequest(http.MethodPut, "/api/notification-rules/"+rule.ID.String(), bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var dto domain.NotificationRuleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.False(t, dto.IsActive)
	assert.Equal(t, "Late projects (paused)", dto.Name)
}

func TestNotificationRuleHandler_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupRuleRouter(db)

	testutil.CreateTestRule(t, db, "Rule A", domain.RuleTypeProjectDelayed)
	testutil.CreateTestRule(t, db, "Rule B", domain.RuleTypePaymentPending)

	req := httptest.NewRequest(http.MethodGet, "/api/notification-rules/", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp domain.PaginatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 2, resp.Total)
}

func TestNotificationRuleHandler_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupRuleRouter(db)
	rule := testutil.CreateTestRule(t, db, "Late projects", domain.RuleTypeProjectDelayed)

	req := httptest.NewRequest(http.MethodDelete, "/api/notification-rules/"+rule.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/notification-rules/"+rule.ID.String(), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationRuleHandler_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := setupRuleRouter(db)

	req := httptest.NewRequest(http.MethodDelete, "/api/notification-rules/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
