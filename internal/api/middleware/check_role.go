package middleware

import (
	"CookingSecret/internal/pkg/response"
	"slices"

	"github.com/gin-gonic/gin"
)

// CheckRoles 检查当前用户是否拥有指定角色之一
func CheckRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(requiredRoles, c.GetString("role")) {
			response.Fail(c, response.Forbidden, "权限不足：无权访问该资源")
			return
		}
		c.Next()
	}
}
