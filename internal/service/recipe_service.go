package service

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/model"
	"CookingSecret/internal/pkg/util"
	"CookingSecret/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
)

const recipeImagePrefix = "recipes"

type RecipeService interface {
	CreateRecipe(ctx context.Context, actor Actor, req *dto.RecipeCreateDTO) (*dto.FeedEntryDTO, error)
	GetRecipe(ctx context.Context, viewerID, recipeID uint64) (*dto.FeedEntryDTO, error)
	ListRecipes(ctx context.Context, viewerID uint64, query *dto.RecipeQueryDTO) ([]*dto.FeedEntryDTO, error)
	UpdateRecipe(ctx context.Context, actor Actor, recipeID uint64, req *dto.RecipeUpdateDTO) (*dto.FeedEntryDTO, error)
	DeleteRecipe(ctx context.Context, actor Actor, recipeID uint64) error
	SearchRecipes(ctx context.Context, viewerID uint64, keyword string, skip, limit int) ([]*dto.FeedEntryDTO, error)
	ListSavedRecipes(ctx context.Context, actor Actor, ownerID uint64, skip, limit int) ([]*dto.FeedEntryDTO, error)
}

type RecipeServiceImpl struct {
	recipeRepo repository.RecipeRepo
	actionRepo repository.RecipeActionRepo
	counters   CounterService
	policy     AccessPolicy
	assembler  *RecipeAssembler
	images     ImageStore
	index      RecipeIndex
}

// NewRecipeService index 为 nil 时搜索走 MySQL
func NewRecipeService(
	recipeRepo repository.RecipeRepo,
	actionRepo repository.RecipeActionRepo,
	counters CounterService,
	policy AccessPolicy,
	assembler *RecipeAssembler,
	images ImageStore,
	index RecipeIndex,
) RecipeService {
	return &RecipeServiceImpl{
		recipeRepo: recipeRepo,
		actionRepo: actionRepo,
		counters:   counters,
		policy:     policy,
		assembler:  assembler,
		images:     images,
		index:      index,
	}
}

func (s *RecipeServiceImpl) CreateRecipe(ctx context.Context, actor Actor, req *dto.RecipeCreateDTO) (*dto.FeedEntryDTO, error) {
	if err := util.ValidateDTO(req); err != nil {
		return nil, err
	}
	if !util.ValidateSteps(req.Steps) {
		return nil, ErrRecipeStepsInvalid
	}
	if req.IsPaid && req.Price <= 0 {
		return nil, ErrParamInvalid
	}

	image, err := s.saveImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:           actor.ID,
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		Image:              image,
		Ingredients:        toIngredients(req.Ingredients),
		Steps:              toSteps(req.Steps),
		CookingTimeMinutes: req.CookingTimeMinutes,
		Servings:           req.Servings,
		Difficulty:         req.Difficulty,
		Category:           req.Category,
		Tags:               util.NormalizeTags(req.Tags),
		IsFeatured:         actor.Role == model.RoleChef,
		IsApproved:         true,
		IsPaid:             req.IsPaid,
	}
	if recipe.IsPaid {
		recipe.Price = req.Price
	}

	if err = s.recipeRepo.CreateRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	s.counters.Apply(ctx, CounterEvent{Kind: EventRecipeCreate, ActorID: actor.ID, SubjectID: actor.ID})
	s.syncIndex(ctx, recipe)

	return s.assembler.AssembleOne(ctx, actor.ID, recipe)
}

func (s *RecipeServiceImpl) GetRecipe(ctx context.Context, viewerID, recipeID uint64) (*dto.FeedEntryDTO, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return s.assembler.AssembleOne(ctx, viewerID, recipe)
}

func (s *RecipeServiceImpl) ListRecipes(ctx context.Context, viewerID uint64, query *dto.RecipeQueryDTO) ([]*dto.FeedEntryDTO, error) {
	skip, limit := clampPage(query.Skip, query.Limit)
	recipes, err := s.recipeRepo.ListRecipes(ctx, repository.RecipeFilter{
		Category:     query.Category,
		AuthorID:     query.AuthorID,
		FeaturedOnly: query.FeaturedOnly,
	}, limit, skip)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, viewerID, recipes)
}

// UpdateRecipe 作者或管理人员可修改，只更新请求中出现的字段
func (s *RecipeServiceImpl) UpdateRecipe(ctx context.Context, actor Actor, recipeID uint64, req *dto.RecipeUpdateDTO) (*dto.FeedEntryDTO, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanModifyRecipe(actor, recipe) {
		return nil, ErrForbidden
	}
	if err = util.ValidateDTO(req); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Ingredients != nil {
		fields["ingredients"] = toIngredients(req.Ingredients)
	}
	if req.Steps != nil {
		if !util.ValidateSteps(req.Steps) {
			return nil, ErrRecipeStepsInvalid
		}
		fields["steps"] = toSteps(req.Steps)
	}
	if req.CookingTimeMinutes != nil {
		fields["cooking_time_minutes"] = *req.CookingTimeMinutes
	}
	if req.Servings != nil {
		fields["servings"] = *req.Servings
	}
	if req.Difficulty != nil {
		fields["difficulty"] = *req.Difficulty
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Tags != nil {
		fields["tags"] = util.NormalizeTags(req.Tags)
	}

	isPaid, price := recipe.IsPaid, recipe.Price
	if req.IsPaid != nil {
		isPaid = *req.IsPaid
	}
	if req.Price != nil {
		price = *req.Price
	}
	if !isPaid {
		price = 0
	} else if price <= 0 {
		return nil, ErrParamInvalid
	}
	fields["is_paid"] = isPaid
	fields["price"] = price

	oldImage := recipe.Image
	if req.Image != nil && *req.Image != imageURL(s.images, oldImage) {
		image, err := s.saveImage(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		fields["image"] = image
	}

	if err = s.recipeRepo.UpdateRecipe(ctx, recipeID, fields); err != nil {
		return nil, err
	}
	if newImage, ok := fields["image"].(string); ok && newImage != oldImage {
		s.deleteImage(ctx, oldImage)
	}

	updated, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	s.syncIndex(ctx, updated)
	return s.assembler.AssembleOne(ctx, actor.ID, updated)
}

// DeleteRecipe 软删除并清理关联的点赞、收藏、评论
func (s *RecipeServiceImpl) DeleteRecipe(ctx context.Context, actor Actor, recipeID uint64) error {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if !s.policy.CanModifyRecipe(actor, recipe) {
		return ErrForbidden
	}

	deleted, err := s.recipeRepo.DeleteRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRecipeNotFound
	}

	s.counters.Apply(ctx, CounterEvent{Kind: EventRecipeDelete, ActorID: actor.ID, SubjectID: recipe.AuthorID})
	if s.index != nil {
		if err = s.index.DeleteRecipe(ctx, recipeID); err != nil {
			log.WarnContext(ctx, "delete recipe from index failed", "recipe_id", recipeID, "err", err)
		}
	}
	s.deleteImage(ctx, recipe.Image)
	return nil
}

// SearchRecipes 检索服务异常时降级为 MySQL 模糊查询
func (s *RecipeServiceImpl) SearchRecipes(ctx context.Context, viewerID uint64, keyword string, skip, limit int) ([]*dto.FeedEntryDTO, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrParamInvalid
	}
	skip, limit = clampPage(skip, limit)

	if s.index != nil {
		ids, err := s.index.SearchRecipes(ctx, keyword, skip, limit)
		if err == nil {
			recipes, err := s.recipeRepo.GetRecipesByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return s.assembler.Assemble(ctx, viewerID, recipes)
		}
		log.WarnContext(ctx, "search index unavailable, falling back to database", "err", err)
	}

	recipes, err := s.recipeRepo.SearchRecipes(ctx, keyword, limit, skip)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, viewerID, recipes)
}

// ListSavedRecipes 只能查看自己的收藏
func (s *RecipeServiceImpl) ListSavedRecipes(ctx context.Context, actor Actor, ownerID uint64, skip, limit int) ([]*dto.FeedEntryDTO, error) {
	if !s.policy.CanViewSaved(actor, ownerID) {
		return nil, ErrForbidden
	}
	skip, limit = clampPage(skip, limit)
	ids, err := s.actionRepo.ListSavedRecipeIDs(ctx, ownerID, limit, skip)
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipeRepo.GetRecipesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, actor.ID, recipes)
}

func (s *RecipeServiceImpl) getRecipe(ctx context.Context, recipeID uint64) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, ErrRecipeNotFound
	}
	return recipe, nil
}

func (s *RecipeServiceImpl) saveImage(ctx context.Context, src string) (string, error) {
	if src == "" || s.images == nil {
		return src, nil
	}
	key, err := s.images.Save(ctx, recipeImagePrefix, src)
	if err != nil {
		if errors.Is(err, util.ErrInvalidImage) {
			return "", ErrImageInvalid
		}
		return "", err
	}
	return key, nil
}

func (s *RecipeServiceImpl) deleteImage(ctx context.Context, key string) {
	if key == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		log.WarnContext(ctx, "delete recipe image failed", "key", key, "err", err)
	}
}

func (s *RecipeServiceImpl) syncIndex(ctx context.Context, recipe *model.Recipe) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexRecipe(ctx, recipe); err != nil {
		log.WarnContext(ctx, "index recipe failed", "recipe_id", recipe.ID, "err", err)
	}
}
