package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"CookingSecret/internal/api/handler"
	"CookingSecret/internal/model"
	"CookingSecret/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type tokenAuth map[string]*service.Actor

func (a tokenAuth) Authenticate(ctx context.Context, token string) (*service.Actor, error) {
	if actor, ok := a[token]; ok {
		return actor, nil
	}
	return nil, service.ErrUnauthorized
}

// 仅验证路由与鉴权链路，被拦截的请求不会触达 service
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := tokenAuth{
		"user":  {ID: 2, Role: model.RoleUser},
		"admin": {ID: 1, Role: model.RoleAdmin},
	}
	return SetupRouter(&HandlersGroup{
		Auth:                auth,
		AuthHandler:         handler.NewAuthHandler(nil),
		UserHandler:         handler.NewUserHandler(nil),
		UserFollowHandler:   handler.NewUserFollowHandler(nil),
		RecipeHandler:       handler.NewRecipeHandler(nil),
		RecipeActionHandler: handler.NewRecipeActionHandler(nil),
		FeedHandler:         handler.NewFeedHandler(nil),
		NotificationHandler: handler.NewNotificationHandler(nil),
		WsHandler:           handler.NewWsHandler(auth, nil, nil),
		PurchaseHandler:     handler.NewPurchaseHandler(nil),
		ChatHandler:         handler.NewChatHandler(nil),
		AdminHandler:        handler.NewAdminHandler(nil),
	})
}

func TestRouterGates(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		method string
		path   string
		token  string
		want   int
	}{
		{http.MethodGet, "/api/ping", "", http.StatusOK},
		{http.MethodGet, "/api/categories", "", http.StatusOK},
		{http.MethodGet, "/api/feed", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/auth/me", "expired", http.StatusUnauthorized},
		{http.MethodPost, "/api/recipes", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/recipes/1/like", "", http.StatusUnauthorized},
		{http.MethodDelete, "/api/comments/1", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/notifications", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/notifications/ws", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/chat", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/users", "user", http.StatusForbidden},
		{http.MethodPut, "/api/users/3/role", "user", http.StatusForbidden},
		{http.MethodPut, "/api/users/3/toggle-active", "user", http.StatusForbidden},
		{http.MethodGet, "/api/admin/stats", "user", http.StatusForbidden},
		{http.MethodPost, "/api/admin/counters/recount", "user", http.StatusForbidden},
		{http.MethodPost, "/api/notifications", "user", http.StatusForbidden},
		{http.MethodGet, "/api/users/abc", "", http.StatusBadRequest},
		{http.MethodGet, "/api/nope", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
