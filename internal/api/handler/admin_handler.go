package handler

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/pkg/response"
	"CookingSecret/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminSvc service.AdminService
}

func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

func (s *AdminHandler) Stats(c *gin.Context) {
	stats, err := s.adminSvc.Stats(c.Request.Context(), actorOf(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// Recount 手动修复计数
func (s *AdminHandler) Recount(c *gin.Context) {
	var req dto.RecountDTO
	if !bindJSON(c, &req) {
		return
	}
	result, err := s.adminSvc.Recount(c.Request.Context(), actorOf(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
