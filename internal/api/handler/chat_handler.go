package handler

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/pkg/response"
	"CookingSecret/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatSvc service.ChatService
}

func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

func (s *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequestDTO
	if !bindJSON(c, &req) {
		return
	}
	resp, err := s.chatSvc.Chat(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

func (s *ChatHandler) GetHistory(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Query("session_id"))
	if sessionID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	history, err := s.chatSvc.GetHistory(c.Request.Context(), c.GetUint64("user_id"), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, history)
}

func (s *ChatHandler) ListSessions(c *gin.Context) {
	sessions, err := s.chatSvc.ListSessions(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, sessions)
}

func (s *ChatHandler) DeleteSession(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("session_id"))
	if sessionID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.chatSvc.DeleteSession(c.Request.Context(), c.GetUint64("user_id"), sessionID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
