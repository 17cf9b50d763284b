package api

import (
	"CookingSecret/internal/api/handler"
	"CookingSecret/internal/api/middleware"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	Auth                middleware.Authenticator
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	UserFollowHandler   *handler.UserFollowHandler
	RecipeHandler       *handler.RecipeHandler
	RecipeActionHandler *handler.RecipeActionHandler
	FeedHandler         *handler.FeedHandler
	NotificationHandler *handler.NotificationHandler
	WsHandler           *handler.WsHandler
	PurchaseHandler     *handler.PurchaseHandler
	ChatHandler         *handler.ChatHandler
	AdminHandler        *handler.AdminHandler
}
