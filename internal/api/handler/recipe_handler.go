package handler

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/pkg/response"
	"CookingSecret/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	recipeSvc service.RecipeService
}

func NewRecipeHandler(recipeSvc service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeSvc: recipeSvc}
}

func (s *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req dto.RecipeCreateDTO
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := s.recipeSvc.CreateRecipe(c.Request.Context(), actorOf(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipe)
}

func (s *RecipeHandler) ListRecipes(c *gin.Context) {
	var query dto.RecipeQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	recipes, err := s.recipeSvc.ListRecipes(c.Request.Context(), c.GetUint64("user_id"), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipes)
}

func (s *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := s.recipeSvc.GetRecipe(c.Request.Context(), c.GetUint64("user_id"), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipe)
}

func (s *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RecipeUpdateDTO
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := s.recipeSvc.UpdateRecipe(c.Request.Context(), actorOf(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipe)
}

func (s *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.recipeSvc.DeleteRecipe(c.Request.Context(), actorOf(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *RecipeHandler) SearchRecipes(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	keyword := strings.TrimSpace(c.Param("query"))
	recipes, err := s.recipeSvc.SearchRecipes(c.Request.Context(), c.GetUint64("user_id"), keyword, page.Skip, page.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipes)
}

func (s *RecipeHandler) ListSavedRecipes(c *gin.Context) {
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	recipes, err := s.recipeSvc.ListSavedRecipes(c.Request.Context(), actorOf(c), ownerID, page.Skip, page.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipes)
}
