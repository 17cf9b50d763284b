package service

import (
	"CookingSecret/internal/api/dto"
	"CookingSecret/internal/model"
	"CookingSecret/internal/repository"
	"context"

	"golang.org/x/sync/errgroup"
)

type AdminService interface {
	Stats(ctx context.Context, actor Actor) (*dto.StatsDTO, error)
	Recount(ctx context.Context, actor Actor, req *dto.RecountDTO) (*dto.RecountResultDTO, error)
}

type AdminServiceImpl struct {
	userRepo   repository.UserRepo
	recipeRepo repository.RecipeRepo
	actionRepo repository.RecipeActionRepo
	counters   CounterService
	policy     AccessPolicy
}

func NewAdminService(
	userRepo repository.UserRepo,
	recipeRepo repository.RecipeRepo,
	actionRepo repository.RecipeActionRepo,
	counters CounterService,
	policy AccessPolicy,
) AdminService {
	return &AdminServiceImpl{
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
		actionRepo: actionRepo,
		counters:   counters,
		policy:     policy,
	}
}

func (s *AdminServiceImpl) Stats(ctx context.Context, actor Actor) (*dto.StatsDTO, error) {
	if !s.policy.CanViewStats(actor) {
		return nil, ErrForbidden
	}

	res := &dto.StatsDTO{}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		res.UsersCount, err = s.userRepo.CountUsers(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		res.RecipesCount, err = s.recipeRepo.CountRecipes(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		res.CommentsCount, err = s.actionRepo.CountComments(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		res.RoleCounts, err = s.userRepo.CountByRole(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// Recount 指定字段与 ID 时重算单个计数，All 为 true 时全量重算
func (s *AdminServiceImpl) Recount(ctx context.Context, actor Actor, req *dto.RecountDTO) (*dto.RecountResultDTO, error) {
	if !s.policy.CanRecount(actor) {
		return nil, ErrForbidden
	}
	if req.All {
		n, err := s.counters.RecountAll(ctx)
		if err != nil {
			return nil, err
		}
		return &dto.RecountResultDTO{Recounted: n}, nil
	}

	field, ok := model.CounterFieldByName(req.Field)
	if !ok || req.ID == 0 {
		return nil, ErrParamInvalid
	}
	if err := s.counters.Recount(ctx, model.CounterRef{Field: field, ID: req.ID}); err != nil {
		return nil, err
	}
	return &dto.RecountResultDTO{Recounted: 1}, nil
}
