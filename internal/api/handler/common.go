package handler

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/pkg/response"
	"CookingSecret/internal/service"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// actorOf 由鉴权中间件注入的当前用户
func actorOf(c *gin.Context) service.Actor {
	return service.Actor{ID: c.GetUint64("user_id"), Role: c.GetString("role")}
}

// pathID 解析路径中的数字 id
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return 0, false
	}
	return id, true
}

// pageQuery skip/limit 的裁剪在 service 层完成
func pageQuery(c *gin.Context) (dto.PageQuery, bool) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return q, false
	}
	return q, true
}

// bindJSON 校验失败保留字段信息，其余解析错误统一为参数错误
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			response.Error(c, err)
		} else {
			response.Error(c, service.ErrParamInvalid)
		}
		return false
	}
	return true
}
