package repository

import (
	"CookingSecret/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// RecipeFilter 菜谱列表过滤条件，零值表示不过滤
type RecipeFilter struct {
	Category     string
	AuthorID     uint64
	FeaturedOnly bool
}

type RecipeRepo interface {
	CreateRecipe(ctx context.Context, recipe *model.Recipe) error
	GetRecipeByID(ctx context.Context, id uint64) (*model.Recipe, error)
	GetRecipesByIDs(ctx context.Context, ids []uint64) ([]*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id uint64, fields map[string]interface{}) error
	DeleteRecipe(ctx context.Context, id uint64) (bool, error)
	ListRecipes(ctx context.Context, filter RecipeFilter, limit, offset int) ([]*model.Recipe, error)
	ListByAuthors(ctx context.Context, authorIDs []uint64, excludeAuthorID uint64, limit, offset int) ([]*model.Recipe, error)
	ListPopular(ctx context.Context, limit, offset int) ([]*model.Recipe, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*model.Recipe, error)
	SearchRecipes(ctx context.Context, keyword string, limit, offset int) ([]*model.Recipe, error)
	CountRecipes(ctx context.Context) (int64, error)
}

type RecipeRepoImpl struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) RecipeRepo {
	return &RecipeRepoImpl{db: db}
}

func (s *RecipeRepoImpl) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	return s.db.WithContext(ctx).Create(recipe).Error
}

func (s *RecipeRepoImpl) GetRecipeByID(ctx context.Context, id uint64) (*model.Recipe, error) {
	recipe := &model.Recipe{}
	result := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(recipe)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return recipe, nil
}

// GetRecipesByIDs 结果顺序与 ids 一致，已删除的菜谱被跳过
func (s *RecipeRepoImpl) GetRecipesByIDs(ctx context.Context, ids []uint64) ([]*model.Recipe, error) {
	if len(ids) == 0 {
		return []*model.Recipe{}, nil
	}
	var recipes []*model.Recipe
	result := s.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&recipes)
	if result.Error != nil {
		return nil, result.Error
	}

	byID := make(map[uint64]*model.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	ordered := make([]*model.Recipe, 0, len(recipes))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered, nil
}

func (s *RecipeRepoImpl) UpdateRecipe(ctx context.Context, id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(fields).Error
}

// DeleteRecipe 软删除菜谱并清理点赞、收藏、评论，返回是否由本次调用删除
func (s *RecipeRepoImpl) DeleteRecipe(ctx context.Context, id uint64) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Recipe{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Update("is_deleted", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true

		if err := tx.Where("recipe_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&model.Save{}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Comment{}).
			Where("recipe_id = ? AND is_deleted = ?", id, false).
			Update("is_deleted", true).Error
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *RecipeRepoImpl) ListRecipes(ctx context.Context, filter RecipeFilter, limit, offset int) ([]*model.Recipe, error) {
	query := s.visible(ctx)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	return s.find(query.Order("created_at desc").Order("id desc"), limit, offset)
}

// ListByAuthors 关注流：作者集合内、排除 excludeAuthorID，按时间倒序、ID 倒序
func (s *RecipeRepoImpl) ListByAuthors(ctx context.Context, authorIDs []uint64, excludeAuthorID uint64, limit, offset int) ([]*model.Recipe, error) {
	if len(authorIDs) == 0 {
		return []*model.Recipe{}, nil
	}
	query := s.visible(ctx).
		Where("author_id IN ?", authorIDs).
		Where("author_id <> ?", excludeAuthorID).
		Order("created_at desc").
		Order("id desc")
	return s.find(query, limit, offset)
}

func (s *RecipeRepoImpl) ListPopular(ctx context.Context, limit, offset int) ([]*model.Recipe, error) {
	query := s.visible(ctx).
		Order("likes_count desc").
		Order("created_at desc").
		Order("id desc")
	return s.find(query, limit, offset)
}

func (s *RecipeRepoImpl) ListRecent(ctx context.Context, limit, offset int) ([]*model.Recipe, error) {
	query := s.visible(ctx).
		Order("created_at desc").
		Order("id desc")
	return s.find(query, limit, offset)
}

// SearchRecipes 检索服务不可用时的兜底，LIKE 匹配标题、描述、分类、标签
func (s *RecipeRepoImpl) SearchRecipes(ctx context.Context, keyword string, limit, offset int) ([]*model.Recipe, error) {
	like := "%" + escapeLike(keyword) + "%"
	query := s.visible(ctx).
		Where("title LIKE ? ESCAPE '!' OR description LIKE ? ESCAPE '!' OR category LIKE ? ESCAPE '!' OR tags LIKE ? ESCAPE '!'",
			like, like, like, like).
		Order("likes_count desc").
		Order("id desc")
	return s.find(query, limit, offset)
}

func (s *RecipeRepoImpl) CountRecipes(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Where("is_deleted = ?", false).
		Count(&count).Error
	return count, err
}

func (s *RecipeRepoImpl) visible(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Where("is_deleted = ? AND is_approved = ?", false, true)
}

func (s *RecipeRepoImpl) find(query *gorm.DB, limit, offset int) ([]*model.Recipe, error) {
	recipes := make([]*model.Recipe, 0, limit)
	if err := query.Limit(limit).Offset(offset).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}
