package service

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/model"
	"CookingSecret/internal/pkg/consts"
	"CookingSecret/internal/repository"
	"context"
)

type FeedService interface {
	GetFeed(ctx context.Context, viewerID uint64, skip, limit int) ([]*dto.FeedEntryDTO, error)
	GetExplore(ctx context.Context, viewerID uint64, skip, limit int) ([]*dto.FeedEntryDTO, error)
}

type FeedServiceImpl struct {
	recipeRepo    repository.RecipeRepo
	followService UserFollowService
	assembler     *RecipeAssembler
	exploreOrder  string
}

func NewFeedService(recipeRepo repository.RecipeRepo, followService UserFollowService, assembler *RecipeAssembler, exploreOrder string) FeedService {
	return &FeedServiceImpl{
		recipeRepo:    recipeRepo,
		followService: followService,
		assembler:     assembler,
		exploreOrder:  exploreOrder,
	}
}

// GetFeed 关注作者的菜谱，不含自己的菜谱；没有关注任何人时返回空列表
func (s *FeedServiceImpl) GetFeed(ctx context.Context, viewerID uint64, skip, limit int) ([]*dto.FeedEntryDTO, error) {
	skip, limit = clampPage(skip, limit)
	followingIDs, err := s.followService.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(followingIDs) == 0 {
		return []*dto.FeedEntryDTO{}, nil
	}

	recipes, err := s.recipeRepo.ListByAuthors(ctx, followingIDs, viewerID, limit, skip)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, viewerID, recipes)
}

// GetExplore 与关注关系无关的全站列表
func (s *FeedServiceImpl) GetExplore(ctx context.Context, viewerID uint64, skip, limit int) ([]*dto.FeedEntryDTO, error) {
	skip, limit = clampPage(skip, limit)
	var recipes []*model.Recipe
	var err error
	if s.exploreOrder == consts.ExploreOrderRecent {
		recipes, err = s.recipeRepo.ListRecent(ctx, limit, skip)
	} else {
		recipes, err = s.recipeRepo.ListPopular(ctx, limit, skip)
	}
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, viewerID, recipes)
}
