package middleware

import (
	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败或缺失则 UID 为 0
func AuthOptionalMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.Set("user_id", uint64(0))
			c.Next()
			return
		}

		actor, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Set("user_id", uint64(0))
		} else {
			setActor(c, actor)
		}

		c.Next()
	}
}
