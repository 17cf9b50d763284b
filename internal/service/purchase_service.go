package service

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/model"
	"CookingSecret/internal/repository"
	"context"
)

type PurchaseService interface {
	Purchase(ctx context.Context, actor Actor, recipeID uint64) (*dto.PurchaseStateDTO, error)
	CheckPurchased(ctx context.Context, actor Actor, recipeID uint64) (*dto.PurchaseStateDTO, error)
	ListPurchases(ctx context.Context, actor Actor, ownerID uint64, skip, limit int) ([]*dto.FeedEntryDTO, error)
}

type PurchaseServiceImpl struct {
	purchaseRepo repository.PurchaseRepo
	recipeRepo   repository.RecipeRepo
	policy       AccessPolicy
	assembler    *RecipeAssembler
}

func NewPurchaseService(purchaseRepo repository.PurchaseRepo, recipeRepo repository.RecipeRepo, policy AccessPolicy, assembler *RecipeAssembler) PurchaseService {
	return &PurchaseServiceImpl{
		purchaseRepo: purchaseRepo,
		recipeRepo:   recipeRepo,
		policy:       policy,
		assembler:    assembler,
	}
}

// Purchase 只记录购买，重复购买视为成功
func (s *PurchaseServiceImpl) Purchase(ctx context.Context, actor Actor, recipeID uint64) (*dto.PurchaseStateDTO, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !recipe.IsPaid {
		return nil, ErrRecipeNotPaid
	}
	if _, err = s.purchaseRepo.CreatePurchase(ctx, &model.Purchase{
		UserID:   actor.ID,
		RecipeID: recipeID,
		Amount:   recipe.Price,
	}); err != nil {
		return nil, err
	}
	return &dto.PurchaseStateDTO{Purchased: true}, nil
}

// CheckPurchased 免费菜谱、作者与管理人员视为已拥有
func (s *PurchaseServiceImpl) CheckPurchased(ctx context.Context, actor Actor, recipeID uint64) (*dto.PurchaseStateDTO, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !recipe.IsPaid {
		return &dto.PurchaseStateDTO{Purchased: true, IsFree: true}, nil
	}
	if s.policy.CanAccessPaidRecipe(actor, recipe) {
		return &dto.PurchaseStateDTO{Purchased: true}, nil
	}
	exist, err := s.purchaseRepo.CheckPurchaseExists(ctx, actor.ID, recipeID)
	if err != nil {
		return nil, err
	}
	return &dto.PurchaseStateDTO{Purchased: exist}, nil
}

func (s *PurchaseServiceImpl) ListPurchases(ctx context.Context, actor Actor, ownerID uint64, skip, limit int) ([]*dto.FeedEntryDTO, error) {
	if !s.policy.CanViewPurchases(actor, ownerID) {
		return nil, ErrForbidden
	}
	skip, limit = clampPage(skip, limit)
	ids, err := s.purchaseRepo.ListPurchasedRecipeIDs(ctx, ownerID, limit, skip)
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipeRepo.GetRecipesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, actor.ID, recipes)
}

func (s *PurchaseServiceImpl) getRecipe(ctx context.Context, recipeID uint64) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, ErrRecipeNotFound
	}
	return recipe, nil
}
