package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin/pkg/response"
)

func newGuardedRouter(t *testing.T, valid bool) *gin.Engine {
	t.Helper()
	router, _ := newVisitorRouter(t, valid)
	guarded := router.Group("", Guard())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	guarded.GET("/login", ok)
	guarded.GET("/dashboard", ok)
	guarded.GET("/dashboard/leads", ok)
	guarded.POST("/dashboard/leads", ok)
	return router
}

func TestGuardRedirectsUnauthenticatedPageLoads(t *testing.T) {
	router := newGuardedRouter(t, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/leads", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardRejectsUnauthenticatedMutations(t *testing.T) {
	router := newGuardedRouter(t, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboard/leads", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "/login", env.Meta["redirect"])
}

func TestGuardSendsAuthenticatedVisitorsToDashboard(t *testing.T) {
	router := newGuardedRouter(t, true)
	cookie := visitorCookie(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardWithoutWorkspace(t *testing.T) {
	router := gin.New()
	router.GET("/dashboard", Guard(), func(c *gin.Context) { c.Status(http.StatusOK) })
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
