package handler

import (
	"CookingSecret/internal/pkg/consts"
	"CookingSecret/internal/pkg/response"
	"CookingSecret/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedSvc service.FeedService
}

func NewFeedHandler(feedSvc service.FeedService) *FeedHandler {
	return &FeedHandler{feedSvc: feedSvc}
}

// GetFeed 关注作者的菜谱，按发布时间倒序
func (s *FeedHandler) GetFeed(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	entries, err := s.feedSvc.GetFeed(c.Request.Context(), c.GetUint64("user_id"), page.Skip, page.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

func (s *FeedHandler) GetExplore(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	entries, err := s.feedSvc.GetExplore(c.Request.Context(), c.GetUint64("user_id"), page.Skip, page.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

func (s *FeedHandler) GetCategories(c *gin.Context) {
	response.Success(c, consts.Categories)
}
