package middleware

import (
	"CookingSecret/internal/pkg/response"
	"CookingSecret/internal/service"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// Authenticator 校验 token 并返回当前身份 (角色以数据库为准)
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Actor, error)
}

// BearerToken 从 Authorization 头中取出 token
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			return
		}

		actor, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}

		setActor(c, actor)
		c.Set("token", token)
		c.Next()
	}
}

func setActor(c *gin.Context, actor *service.Actor) {
	c.Set("user_id", actor.ID)
	c.Set("role", actor.Role)

	newCtx := context.WithValue(c.Request.Context(), "user_id", actor.ID)
	c.Request = c.Request.WithContext(newCtx)
}
