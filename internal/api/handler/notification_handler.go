package handler

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/pkg/response"
	"CookingSecret/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

func (s *NotificationHandler) List(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	list, err := s.notificationSvc.List(c.Request.Context(), c.GetUint64("user_id"), page.Skip, page.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// SendSystem 管理端下发系统通知
func (s *NotificationHandler) SendSystem(c *gin.Context) {
	var req dto.SystemNotificationDTO
	if !bindJSON(c, &req) {
		return
	}
	sent, err := s.notificationSvc.SendSystem(c.Request.Context(), actorOf(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int{"sent": sent})
}

func (s *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := s.notificationSvc.UnreadCount(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.UnreadCountDTO{UnreadCount: count})
}

func (s *NotificationHandler) MarkRead(c *gin.Context) {
	var req dto.MarkReadDTO
	if !bindJSON(c, &req) {
		return
	}
	updated, err := s.notificationSvc.MarkRead(c.Request.Context(), c.GetUint64("user_id"), req.NotificationIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"updated": updated})
}

func (s *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := s.notificationSvc.MarkAllRead(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"updated": updated})
}
