package api

import (
	"CookingSecret/internal/api/middleware"
	"CookingSecret/internal/model"
	"CookingSecret/internal/pkg/logger"
	"CookingSecret/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	authRequired := middleware.AuthMiddleware(group.Auth)
	authOptional := middleware.AuthOptionalMiddleware(group.Auth)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			response.Success(c, "pong")
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", group.AuthHandler.Register)
			authGroup.POST("/login", group.AuthHandler.Login)
			authGroup.GET("/me", authRequired, group.AuthHandler.Me)
			authGroup.POST("/logout", authRequired, group.AuthHandler.Logout)
		}

		userGroup := apiGroup.Group("/users")
		{
			// 无需登录即可访问的接口
			userGroup.GET("/:id", group.UserHandler.GetUser)
			userGroup.GET("/username/:username", group.UserHandler.GetUserByUsername)
			userGroup.GET("/:id/followers", group.UserFollowHandler.GetFollowers)
			userGroup.GET("/:id/following", group.UserFollowHandler.GetFollowing)

			authUserGroup := userGroup.Group("")
			authUserGroup.Use(authRequired)
			{
				authUserGroup.PUT("/:id", group.UserHandler.UpdateUser)
				authUserGroup.POST("/:id/follow", group.UserFollowHandler.ToggleFollow)
				authUserGroup.GET("/:id/is-following", group.UserFollowHandler.IsFollowing)
				authUserGroup.GET("/:id/saved-recipes", group.RecipeHandler.ListSavedRecipes)
				authUserGroup.GET("/:id/purchases", group.PurchaseHandler.ListPurchases)
			}

			// 需要登录 & 管理员或审核员
			staffGroup := authUserGroup.Group("")
			staffGroup.Use(middleware.CheckRoles(model.RoleAdmin, model.RoleModerator))
			{
				staffGroup.GET("", group.UserHandler.ListUsers)
				staffGroup.PUT("/:id/toggle-active", group.UserHandler.ToggleActive)
			}

			adminGroup := authUserGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(model.RoleAdmin))
			{
				adminGroup.PUT("/:id/role", group.UserHandler.UpdateRole)
			}
		}

		recipeGroup := apiGroup.Group("/recipes")
		{
			authOptGroup := recipeGroup.Group("")
			authOptGroup.Use(authOptional)
			{
				authOptGroup.GET("", group.RecipeHandler.ListRecipes)
				authOptGroup.GET("/:id", group.RecipeHandler.GetRecipe)
				authOptGroup.GET("/search/:query", group.RecipeHandler.SearchRecipes)
				authOptGroup.GET("/:id/comments", group.RecipeActionHandler.ListComments)
			}

			authRecipeGroup := recipeGroup.Group("")
			authRecipeGroup.Use(authRequired)
			{
				authRecipeGroup.POST("", group.RecipeHandler.CreateRecipe)
				authRecipeGroup.PUT("/:id", group.RecipeHandler.UpdateRecipe)
				authRecipeGroup.DELETE("/:id", group.RecipeHandler.DeleteRecipe)

				authRecipeGroup.POST("/:id/like", group.RecipeActionHandler.ToggleLike)
				authRecipeGroup.GET("/:id/liked", group.RecipeActionHandler.IsLiked)
				authRecipeGroup.POST("/:id/save", group.RecipeActionHandler.ToggleSave)
				authRecipeGroup.GET("/:id/saved", group.RecipeActionHandler.IsSaved)
				authRecipeGroup.POST("/:id/comments", group.RecipeActionHandler.AddComment)

				authRecipeGroup.POST("/:id/purchase", group.PurchaseHandler.Purchase)
				authRecipeGroup.GET("/:id/purchased", group.PurchaseHandler.CheckPurchased)
			}
		}

		apiGroup.DELETE("/comments/:id", authRequired, group.RecipeActionHandler.DeleteComment)

		apiGroup.GET("/feed", authRequired, group.FeedHandler.GetFeed)
		apiGroup.GET("/explore", authOptional, group.FeedHandler.GetExplore)
		apiGroup.GET("/categories", group.FeedHandler.GetCategories)

		notificationGroup := apiGroup.Group("/notifications")
		{
			// 鉴权在握手时通过 query token 完成
			notificationGroup.GET("/ws", group.WsHandler.Connect)

			authNotifyGroup := notificationGroup.Group("")
			authNotifyGroup.Use(authRequired)
			{
				authNotifyGroup.GET("", group.NotificationHandler.List)
				authNotifyGroup.GET("/unread-count", group.NotificationHandler.UnreadCount)
				authNotifyGroup.PUT("/mark-read", group.NotificationHandler.MarkRead)
				authNotifyGroup.PUT("/mark-all-read", group.NotificationHandler.MarkAllRead)
				authNotifyGroup.POST("", middleware.CheckRoles(model.RoleAdmin, model.RoleModerator), group.NotificationHandler.SendSystem)
			}
		}

		chatGroup := apiGroup.Group("/chat")
		chatGroup.Use(authRequired)
		{
			chatGroup.POST("", group.ChatHandler.Chat)
			chatGroup.GET("/history", group.ChatHandler.GetHistory)
			chatGroup.GET("/sessions", group.ChatHandler.ListSessions)
			chatGroup.DELETE("/session/:session_id", group.ChatHandler.DeleteSession)
		}

		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(authRequired, middleware.CheckRoles(model.RoleAdmin, model.RoleModerator))
		{
			adminGroup.GET("/stats", group.AdminHandler.Stats)
			adminGroup.POST("/counters/recount", group.AdminHandler.Recount)
		}
	}

	return r
}
