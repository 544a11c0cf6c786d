package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sysdash/internal/middleware"
)

func buildAPIRouter(t *testing.T, auth *middleware.AuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	stats := &fakeStats{}
	h := NewAPIHandlers(NewDispatcher(stats), stats, auth)

	r := gin.New()
	r.GET("/api/system-stats", h.APISystemStats)
	r.GET("/api/greet", h.APIGreet)
	r.POST("/api/invoke", h.APIInvoke)
	r.POST("/api/login", h.APILogin)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAPISystemStats(t *testing.T) {
	r := buildAPIRouter(t, nil)
	w := doJSON(r, http.MethodGet, "/api/system-stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Intel Corporation HD Graphics 620", body["gpu_name"])
	assert.Equal(t, []any{}, body["disks"])
	assert.Equal(t, []any{}, body["networks"])
}

func TestAPIGreet(t *testing.T) {
	r := buildAPIRouter(t, nil)
	w := doJSON(r, http.MethodGet, "/api/greet?name=Linus", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Hello, Linus! You've been greeted from Go!"}`, w.Body.String())
}

func TestAPIInvoke(t *testing.T) {
	r := buildAPIRouter(t, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "greet", body: `{"cmd":"greet","args":{"name":"Ada"}}`, want: http.StatusOK},
		{name: "stats", body: `{"cmd":"get_system_stats"}`, want: http.StatusOK},
		{name: "unknown command", body: `{"cmd":"shutdown"}`, want: http.StatusNotFound},
		{name: "missing cmd", body: `{"args":{}}`, want: http.StatusBadRequest},
		{name: "bad args", body: `{"cmd":"greet","args":{"name":1}}`, want: http.StatusBadRequest},
		{name: "not json", body: `cmd=greet`, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/invoke", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := doJSON(r, http.MethodPost, "/api/invoke", `{"cmd":"greet","args":{"name":"Ada"}}`)
	assert.JSONEq(t, `{"result":"Hello, Ada! You've been greeted from Go!"}`, w.Body.String())
}

func TestAPILogin(t *testing.T) {
	r := buildAPIRouter(t, nil)
	w := doJSON(r, http.MethodPost, "/api/login", `{"password":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code, "login is unavailable without auth")

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	r = buildAPIRouter(t, middleware.NewAuthService("0123456789abcdef0123456789abcdef", string(hash)))

	w = doJSON(r, http.MethodPost, "/api/login", `{"password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/login", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/login", `{"password":"hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.CookieName+"=")
}
