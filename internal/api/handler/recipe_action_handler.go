package handler

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/pkg/response"
	"CookingSecret/internal/service"

	"github.com/gin-gonic/gin"
)

type RecipeActionHandler struct {
	actionSvc service.RecipeActionService
}

func NewRecipeActionHandler(actionSvc service.RecipeActionService) *RecipeActionHandler {
	return &RecipeActionHandler{actionSvc: actionSvc}
}

func (s *RecipeActionHandler) ToggleLike(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	liked, err := s.actionSvc.ToggleLike(c.Request.Context(), c.GetUint64("user_id"), recipeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.LikeStateDTO{Liked: liked})
}

func (s *RecipeActionHandler) IsLiked(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	liked, err := s.actionSvc.IsLiked(c.Request.Context(), c.GetUint64("user_id"), recipeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.LikeStateDTO{Liked: liked})
}

func (s *RecipeActionHandler) ToggleSave(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	saved, err := s.actionSvc.ToggleSave(c.Request.Context(), c.GetUint64("user_id"), recipeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.SaveStateDTO{Saved: saved})
}

func (s *RecipeActionHandler) IsSaved(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	saved, err := s.actionSvc.IsSaved(c.Request.Context(), c.GetUint64("user_id"), recipeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.SaveStateDTO{Saved: saved})
}

func (s *RecipeActionHandler) AddComment(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CommentCreateDTO
	if !bindJSON(c, &req) {
		return
	}
	comment, err := s.actionSvc.AddComment(c.Request.Context(), c.GetUint64("user_id"), recipeID, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *RecipeActionHandler) ListComments(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	comments, err := s.actionSvc.ListComments(c.Request.Context(), recipeID, page.Skip, page.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

func (s *RecipeActionHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.actionSvc.DeleteComment(c.Request.Context(), actorOf(c), commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
