package service

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/model"
	"CookingSecret/internal/pkg/util"
	"CookingSecret/internal/repository"
	"context"

	"golang.org/x/sync/errgroup"
)

// RecipeAssembler 批量补全作者信息与浏览者的点赞/收藏状态，每页固定三次查询
type RecipeAssembler struct {
	userRepo   repository.UserRepo
	actionRepo repository.RecipeActionRepo
	images     ImageStore
}

func NewRecipeAssembler(userRepo repository.UserRepo, actionRepo repository.RecipeActionRepo, images ImageStore) *RecipeAssembler {
	return &RecipeAssembler{userRepo: userRepo, actionRepo: actionRepo, images: images}
}

// Assemble viewerID 为 0 表示匿名访问，状态位均为 false
func (a *RecipeAssembler) Assemble(ctx context.Context, viewerID uint64, recipes []*model.Recipe) ([]*dto.FeedEntryDTO, error) {
	entries := make([]*dto.FeedEntryDTO, 0, len(recipes))
	if len(recipes) == 0 {
		return entries, nil
	}

	recipeIDs := make([]uint64, 0, len(recipes))
	authorIDs := make([]uint64, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	var authors []*model.User
	var liked, saved []uint64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		authors, err = a.userRepo.GetUserByIds(egCtx, util.UniqueUint64(authorIDs))
		return err
	})
	if viewerID != 0 {
		eg.Go(func() error {
			var err error
			liked, err = a.actionRepo.GetLikedRecipeIDs(egCtx, viewerID, recipeIDs)
			return err
		})
		eg.Go(func() error {
			var err error
			saved, err = a.actionRepo.GetSavedRecipeIDs(egCtx, viewerID, recipeIDs)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	authorMap := usersByID(authors)
	likedSet := idSet(liked)
	savedSet := idSet(saved)
	for _, r := range recipes {
		_, isLiked := likedSet[r.ID]
		_, isSaved := savedSet[r.ID]
		entries = append(entries, &dto.FeedEntryDTO{
			RecipeDTO: *toRecipeDTO(r, authorMap[r.AuthorID], a.images),
			IsLiked:   isLiked,
			IsSaved:   isSaved,
		})
	}
	return entries, nil
}

// AssembleOne 单个菜谱
func (a *RecipeAssembler) AssembleOne(ctx context.Context, viewerID uint64, recipe *model.Recipe) (*dto.FeedEntryDTO, error) {
	entries, err := a.Assemble(ctx, viewerID, []*model.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return entries[0], nil
}

func idSet(ids []uint64) map[uint64]struct{} {
	m := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
