package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"CookingSecret/internal/model"
	"CookingSecret/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubAuth struct {
	actors map[string]*service.Actor
}

func (s *stubAuth) Authenticate(ctx context.Context, token string) (*service.Actor, error) {
	if a, ok := s.actors[token]; ok {
		return a, nil
	}
	return nil, service.ErrUnauthorized
}

func newAuth() *stubAuth {
	return &stubAuth{actors: map[string]*service.Actor{
		"user-token":  {ID: 7, Role: model.RoleUser},
		"admin-token": {ID: 1, Role: model.RoleAdmin},
	}}
}

func init() {
	gin.SetMode(gin.TestMode)
}

func identity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint64("user_id"), "role": c.GetString("role")})
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(newAuth()), identity)

	w := do(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":401`)

	w = do(r, http.MethodGet, "/me", "user-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"role":"user"}`, w.Body.String())
}

func TestAuthOptionalMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/feed", AuthOptionalMiddleware(newAuth()), identity)

	w := do(r, http.MethodGet, "/feed", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"role":""}`, w.Body.String())

	w = do(r, http.MethodGet, "/feed", "forged")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"role":""}`, w.Body.String())

	w = do(r, http.MethodGet, "/feed", "user-token")
	assert.JSONEq(t, `{"user_id":7,"role":"user"}`, w.Body.String())
}

func TestCheckRoles(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AuthMiddleware(newAuth()), CheckRoles(model.RoleAdmin, model.RoleModerator), identity)

	w := do(r, http.MethodGet, "/admin", "user-token")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/admin", "admin-token")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("trace_id")) })

	w := do(r, http.MethodGet, "/ping", "")
	generated := w.Header().Get(TraceHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(TraceHeader))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRedactedPaths(t *testing.T) {
	assert.True(t, redacted("/api/auth/login"))
	assert.False(t, redacted("/api/recipes"))
}
