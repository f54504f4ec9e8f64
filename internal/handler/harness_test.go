package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin/internal/middleware"
	"github.com/noah-isme/academy-admin/internal/service"
	"github.com/noah-isme/academy-admin/internal/session"
	"github.com/noah-isme/academy-admin/pkg/response"
)

const platformCookie = "platform_session"

func init() {
	gin.SetMode(gin.TestMode)
}

// platform is a fake upstream API holding a tiny in-memory dataset.
type platform struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []string
	bodies   map[string]map[string]interface{}
	failWith map[string]int
}

func newPlatform(t *testing.T) *platform {
	t.Helper()
	p := &platform{bodies: map[string]map[string]interface{}{}, failWith: map[string]int{}}
	p.server = httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.server.Close)
	return p
}

func (p *platform) fail(route string, status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failWith[route] = status
}

func (p *platform) lastBody(route string) map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bodies[route]
}

func (p *platform) called(route string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.requests {
		if r == route {
			return true
		}
	}
	return false
}

func (p *platform) serve(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	var body map[string]interface{}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	if body == nil {
		body = map[string]interface{}{}
	}
	p.mu.Lock()
	p.requests = append(p.requests, route)
	recorded := make(map[string]interface{}, len(body))
	for k, v := range body {
		recorded[k] = v
	}
	p.bodies[route] = recorded
	failStatus := p.failWith[route]
	p.mu.Unlock()

	write := func(status int, payload map[string]interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}
	if failStatus != 0 {
		write(failStatus, map[string]interface{}{"success": false, "message": "upstream failure"})
		return
	}
	ok := func(data interface{}) { write(http.StatusOK, map[string]interface{}{"success": true, "data": data}) }
	admin := map[string]interface{}{"id": "a1", "name": "Admin", "phone": "01012345678"}

	if route == "POST /api/v1/admin/login" {
		if body["password"] != "secret" {
			write(http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: platformCookie, Value: "valid", Path: "/"})
		ok(admin)
		return
	}
	if c, err := r.Cookie(platformCookie); err != nil || c.Value != "valid" {
		write(http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Unauthorized"})
		return
	}

	switch {
	case route == "POST /api/v1/admin/logout":
		http.SetCookie(w, &http.Cookie{Name: platformCookie, Value: "", Path: "/", MaxAge: -1})
		ok(nil)
	case route == "GET /api/v1/admin/profile", route == "POST /api/v1/admin/refresh":
		ok(admin)
	case route == "GET /api/v1/leads":
		ok(map[string]interface{}{"total": 3, "leads": []map[string]interface{}{
			{"id": "l1", "name": "Sara", "phone": "01011112222", "selectedProgram": "Web", "status": "pending", "createdAt": time.Now().UTC()},
			{"id": "l2", "name": "Omar", "phone": "01233334444", "selectedProgram": "Data", "status": "converted", "createdAt": time.Now().UTC()},
			{"id": "l3", "name": "Mona", "phone": "01555556666", "selectedProgram": "Web", "status": "contacted", "createdAt": time.Now().UTC()},
		}})
	case route == "POST /api/v1/leads":
		body["id"] = "l9"
		body["status"] = "pending"
		ok(body)
	case strings.HasPrefix(route, "PUT /api/v1/leads/"):
		body["id"] = strings.TrimPrefix(r.URL.Path, "/api/v1/leads/")
		ok(body)
	case strings.HasPrefix(route, "DELETE /api/v1/"):
		ok(nil)
	case route == "GET /api/v1/courses":
		ok(map[string]interface{}{"total": 3, "courses": []map[string]interface{}{
			{"id": "c1", "title": "Go Basics", "availableSeats": 5, "category": map[string]interface{}{"id": "p", "name": "Programming"}},
			{"id": "c2", "title": "Go Advanced", "availableSeats": 0, "category": map[string]interface{}{"id": "p", "name": "Programming"}},
			{"id": "c3", "title": "Sketching", "availableSeats": -1, "category": map[string]interface{}{"id": "a", "name": "Art"}},
		}})
	case route == "POST /api/v1/courses":
		body["id"] = "c9"
		ok(body)
	case strings.HasPrefix(route, "PUT /api/v1/courses/"):
		ok(body)
	case route == "GET /api/v1/courses/categories":
		ok([]map[string]interface{}{
			{"id": "p", "name": "Programming", "courses": []map[string]interface{}{{"id": "c1"}, {"id": "c2"}}},
			{"id": "a", "name": "Art", "courses": []map[string]interface{}{{"id": "c3"}}},
		})
	case route == "POST /api/v1/courses/categories":
		body["id"] = "k9"
		ok(body)
	default:
		write(http.StatusNotFound, map[string]interface{}{"success": false, "message": "Not found"})
	}
}

// client drives the router like a browser, keeping the visitor cookie between calls.
type client struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

type harnessOptions struct {
	exports      exportJobs
	testimonials testimonialService
}

func newClient(t *testing.T, p *platform, opts harnessOptions) *client {
	t.Helper()
	metrics := service.NewMetricsService()
	registry := session.NewRegistry(session.RegistryConfig{BaseURL: p.server.URL, Timeout: 2 * time.Second, Metrics: metrics})
	router := NewRouter(RouterConfig{
		Visitor:      middleware.VisitorConfig{CookieName: "vid", Secret: "test-secret", TTL: time.Hour},
		Registry:     registry,
		Metrics:      metrics,
		Exports:      opts.exports,
		Testimonials: opts.testimonials,
	})
	return &client{t: t, router: router}
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "vid" {
			c.cookie = cookie
		}
	}
	return rec
}

func (c *client) login() {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/auth/login", map[string]string{"phone": "01012345678", "password": "secret"})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
}

type envelope struct {
	response.Envelope
	Data json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) envelope {
	t.Helper()
	env := decode(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, dst))
	return env
}
