package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin/pkg/apiclient"
)

// upstream is a fake platform API that records the last request it saw.
type upstream struct {
	server   *httptest.Server
	client   *apiclient.Client
	method   string
	path     string
	body     map[string]interface{}
	requests int
}

func newUpstream(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) *upstream {
	t.Helper()
	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.requests++
		u.method = r.Method
		u.path = r.URL.EscapedPath()
		u.body = nil
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &u.body)
		}
		respond(w, r)
	}))
	t.Cleanup(u.server.Close)

	client, err := apiclient.New(apiclient.Config{BaseURL: u.server.URL})
	require.NoError(t, err)
	u.client = client
	return u
}

func writeEnvelope(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func ok(data interface{}) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"success": true, "data": data})
	}
}
