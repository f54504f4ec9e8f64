package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin/internal/middleware"
	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/internal/service"
	"github.com/noah-isme/academy-admin/internal/session"
)

func TestRouterRedirectsAnonymousVisitorToLogin(t *testing.T) {
	c := newClient(t, newPlatform(t), harnessOptions{})

	rec := c.do(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	require.NotNil(t, c.cookie, "visitor cookie issued on first request")

	rec = c.do(http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap models.SessionSnapshot
	decodeData(t, rec, &snap)
	assert.Equal(t, models.SessionUnauthenticated, snap.State)
	assert.False(t, snap.IsLoading)

	rec = c.do(http.MethodPost, "/dashboard/leads", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "/login", env.Meta["redirect"])
}

func TestRouterLoginFailureUsesLocalizedMessage(t *testing.T) {
	c := newClient(t, newPlatform(t), harnessOptions{})

	rec := c.do(http.MethodPost, "/auth/login", map[string]string{"phone": "01012345678", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "LOGIN_FAILED", env.Error.Code)
	assert.Equal(t, "البريد الإلكتروني أو كلمة المرور غير صحيحة", env.Message)

	rec = c.do(http.MethodPost, "/auth/login", map[string]string{"phone": "12345", "password": "secret"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env = decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.NotEmpty(t, env.Meta["errors"])
}

func TestRouterSessionLifecycle(t *testing.T) {
	p := newPlatform(t)
	c := newClient(t, p, harnessOptions{})

	rec := c.do(http.MethodPost, "/auth/login", map[string]string{"phone": "01012345678", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	var snap models.SessionSnapshot
	env := decodeData(t, rec, &snap)
	assert.Equal(t, "/dashboard", env.Meta["redirect"])
	assert.True(t, snap.IsAuthenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Admin", snap.User.Name)

	rec = c.do(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = c.do(http.MethodPost, "/auth/profile/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec).Meta)

	rec = c.do(http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]string
	decodeData(t, rec, &out)
	assert.Equal(t, "/login", out["redirect"])

	rec = c.do(http.MethodGet, "/dashboard/leads", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, p.called("POST /api/v1/admin/logout"))
}

func TestRouterRefreshFailureLogsOut(t *testing.T) {
	p := newPlatform(t)
	c := newClient(t, p, harnessOptions{})
	c.login()

	p.fail("POST /api/v1/admin/refresh", http.StatusUnauthorized)
	rec := c.do(http.MethodPost, "/auth/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "auth", env.Error.Code)
	assert.Equal(t, false, env.Meta["canRetry"])

	rec = c.do(http.MethodGet, "/auth/session", nil)
	var snap models.SessionSnapshot
	decodeData(t, rec, &snap)
	assert.False(t, snap.IsAuthenticated)
}

func TestRouterProfileRefreshFailureLogsOut(t *testing.T) {
	p := newPlatform(t)
	c := newClient(t, p, harnessOptions{})
	c.login()

	p.fail("GET /api/v1/admin/profile", http.StatusUnauthorized)
	rec := c.do(http.MethodPost, "/auth/profile/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "auth", env.Error.Code)
	assert.Equal(t, false, env.Meta["canRetry"])
	assert.Equal(t, "/login", env.Meta["redirect"])

	rec = c.do(http.MethodGet, "/auth/session", nil)
	var snap models.SessionSnapshot
	decodeData(t, rec, &snap)
	assert.False(t, snap.IsAuthenticated)
}

func TestRouterLeadsScreen(t *testing.T) {
	p := newPlatform(t)
	c := newClient(t, p, harnessOptions{})
	c.login()

	rec := c.do(http.MethodGet, "/dashboard/leads?status=converted", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing leadListing
	env := decodeData(t, rec, &listing)
	assert.Equal(t, 3, listing.Total)
	require.Len(t, listing.Leads, 1)
	assert.Equal(t, "Omar", listing.Leads[0].Name)
	assert.Equal(t, float64(1), env.Meta["filtered"])
	assert.Equal(t, 1, listing.Counts[models.LeadStatusPending])
	assert.Equal(t, 0, listing.Counts[models.LeadStatusRejected])

	rec = c.do(http.MethodGet, "/dashboard/leads?search=web", nil)
	decodeData(t, rec, &listing)
	assert.Len(t, listing.Leads, 2)

	rec = c.do(http.MethodPost, "/dashboard/leads", models.CreateLeadRequest{Name: "A"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var fields struct {
		Meta struct {
			Errors []struct {
				Field string `json:"field"`
			} `json:"errors"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	assert.NotEmpty(t, fields.Meta.Errors)

	rec = c.do(http.MethodPost, "/dashboard/leads", models.CreateLeadRequest{
		Name:               "Hana",
		Phone:              "01099998888",
		SelectedProgram:    "Web",
		LearningPreference: "online",
		Message:            "I would like to join the evening group",
		VoiceMessage:       "https://cdn.example.com/voice.webm",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Lead
	decodeData(t, rec, &created)
	assert.Equal(t, "l9", created.ID)

	rec = c.do(http.MethodPatch, "/dashboard/leads/l1/status", map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPatch, "/dashboard/leads/l1/status", map[string]string{"status": "contacted"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"status": "contacted"}, p.lastBody("PUT /api/v1/leads/l1"))

	rec = c.do(http.MethodPut, "/dashboard/leads/l2", models.UpdateLeadRequest{
		Name:               "Omar",
		SelectedProgram:    "Data",
		LearningPreference: "offline",
		Message:            "Prefers weekend sessions please",
		Status:             "bogus",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodDelete, "/dashboard/leads/l3", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouterNormalizesPlatformFailures(t *testing.T) {
	p := newPlatform(t)
	c := newClient(t, p, harnessOptions{})
	c.login()

	p.fail("GET /api/v1/leads", http.StatusInternalServerError)
	rec := c.do(http.MethodGet, "/dashboard/leads", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "server", env.Error.Code)
	assert.Equal(t, true, env.Meta["canRetry"])

	p.fail("GET /api/v1/leads", http.StatusNotFound)
	rec = c.do(http.MethodGet, "/dashboard/leads", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec).Meta["canRetry"])
}

func TestRouterCoursesAndAnalytics(t *testing.T) {
	c := newClient(t, newPlatform(t), harnessOptions{})
	c.login()

	rec := c.do(http.MethodGet, "/dashboard/courses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var courses courseListing
	decodeData(t, rec, &courses)
	require.Len(t, courses.Courses, 3)
	assert.Equal(t, models.AvailabilityAvailable, courses.Courses[0].Availability)
	assert.Equal(t, models.AvailabilityFull, courses.Courses[1].Availability)
	assert.Equal(t, models.AvailabilityUnavailable, courses.Courses[2].Availability)

	rec = c.do(http.MethodGet, "/dashboard/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []models.CategoryView
	decodeData(t, rec, &categories)
	require.Len(t, categories, 2)
	assert.Equal(t, 2, categories[0].CourseCount)

	rec = c.do(http.MethodGet, "/dashboard/analytics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var overview models.AnalyticsOverview
	decodeData(t, rec, &overview)
	assert.Equal(t, 3, overview.TotalLeads)
	assert.Equal(t, 3, overview.TotalCourses)
	assert.Equal(t, 2, overview.TotalCategories)
	assert.Equal(t, 33.3, overview.ConversionRate)
	assert.Equal(t, models.SeatAvailability{Available: 1, Full: 1, Unavailable: 1, TotalSeatsOpen: 5}, overview.Seats)

	rec = c.do(http.MethodGet, "/dashboard/analytics/system", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var system models.SystemMetrics
	decodeData(t, rec, &system)
	assert.NotZero(t, system.RequestsTotal)
}

func TestRouterVisitorsAreIsolated(t *testing.T) {
	p := newPlatform(t)
	metrics := service.NewMetricsService()
	registry := session.NewRegistry(session.RegistryConfig{BaseURL: p.server.URL, Timeout: 2 * time.Second, Metrics: metrics})
	router := NewRouter(RouterConfig{
		Visitor:  middleware.VisitorConfig{CookieName: "vid", Secret: "test-secret", TTL: time.Hour},
		Registry: registry,
		Metrics:  metrics,
	})
	first := &client{t: t, router: router}
	second := &client{t: t, router: router}

	first.login()
	assert.Equal(t, http.StatusOK, first.do(http.MethodGet, "/dashboard/leads", nil).Code)
	assert.Equal(t, http.StatusFound, second.do(http.MethodGet, "/dashboard/leads", nil).Code)
	assert.Equal(t, 1, registry.Len(), "a visitor without a cookie is not retained")
	assert.Equal(t, http.StatusFound, second.do(http.MethodGet, "/dashboard/leads", nil).Code)
	assert.Equal(t, 2, registry.Len())
}

func TestRouterHealthAndReadiness(t *testing.T) {
	router := NewRouter(RouterConfig{
		Registry: session.NewRegistry(session.RegistryConfig{BaseURL: "http://127.0.0.1:1"}),
		Metrics:  service.NewMetricsService(),
		Visitor:  middleware.VisitorConfig{Secret: "s"},
		Probes: map[string]Probe{
			"redis":    func(context.Context) error { return nil },
			"database": func(context.Context) error { return errors.New("connection refused") },
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Checks["redis"])
	assert.Equal(t, "connection refused", body.Checks["database"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
