package handler

import (
	"CookingSecret/internal/api/middleware"
	"CookingSecret/internal/pkg/response"
	"CookingSecret/internal/service"
	"context"
	"fmt"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// UnreadSubscriber 未读数推送源
type UnreadSubscriber interface {
	SubscribeUnread(ctx context.Context, userID uint64) (<-chan string, func())
}

type WsHandler struct {
	auth            middleware.Authenticator
	notificationSvc service.NotificationService
	subscriber      UnreadSubscriber
}

func NewWsHandler(auth middleware.Authenticator, notificationSvc service.NotificationService, subscriber UnreadSubscriber) *WsHandler {
	return &WsHandler{auth: auth, notificationSvc: notificationSvc, subscriber: subscriber}
}

// Connect 建立通知推送连接，token 通过 query 传递
func (s *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = middleware.BearerToken(c)
	}
	if token == "" {
		response.Error(c, service.ErrUnauthorized)
		return
	}
	actor, err := s.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		log.WarnContext(c.Request.Context(), "WS 鉴权失败", "err", err)
		response.Error(c, err)
		return
	}
	userID := actor.ID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, unsubscribe := s.subscriber.SubscribeUnread(ctx, userID)
	defer unsubscribe()

	log.Info("用户 WS 连接已建立", "userID", userID)

	// 建连后先推送一次当前未读数
	if count, err := s.notificationSvc.UnreadCount(ctx, userID); err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		payload := fmt.Sprintf(`{"type":"unread_count","unread_count":%d}`, count)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
			return
		}
	}

	stopChan := make(chan struct{})

	// 读循环：监听客户端主动断开
	go func() {
		defer close(stopChan)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				log.Error("WS 推送失败", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			log.Info("用户 WS 连接已断开", "userID", userID)
			return
		}
	}
}
