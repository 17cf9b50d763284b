package handler

import (
	"CookingSecret/internal/pkg/response"
	"CookingSecret/internal/service"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchaseSvc service.PurchaseService
}

func NewPurchaseHandler(purchaseSvc service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseSvc: purchaseSvc}
}

func (s *PurchaseHandler) Purchase(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	state, err := s.purchaseSvc.Purchase(c.Request.Context(), actorOf(c), recipeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}

func (s *PurchaseHandler) CheckPurchased(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	state, err := s.purchaseSvc.CheckPurchased(c.Request.Context(), actorOf(c), recipeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}

func (s *PurchaseHandler) ListPurchases(c *gin.Context) {
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	recipes, err := s.purchaseSvc.ListPurchases(c.Request.Context(), actorOf(c), ownerID, page.Skip, page.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipes)
}
