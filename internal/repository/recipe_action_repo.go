package repository

import (
	"CookingSecret/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeActionRepo interface {
	CreateLike(ctx context.Context, userID, recipeID uint64) (bool, error)
	DeleteLike(ctx context.Context, userID, recipeID uint64) (bool, error)
	CheckLikeExists(ctx context.Context, userID, recipeID uint64) (bool, error)
	GetLikedRecipeIDs(ctx context.Context, userID uint64, recipeIDs []uint64) ([]uint64, error)

	CreateSave(ctx context.Context, userID, recipeID uint64) (bool, error)
	DeleteSave(ctx context.Context, userID, recipeID uint64) (bool, error)
	CheckSaveExists(ctx context.Context, userID, recipeID uint64) (bool, error)
	GetSavedRecipeIDs(ctx context.Context, userID uint64, recipeIDs []uint64) ([]uint64, error)
	ListSavedRecipeIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error)

	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, commentID uint64) (*model.Comment, error)
	ListComments(ctx context.Context, recipeID uint64, limit, offset int) ([]*model.Comment, error)
	DeleteComment(ctx context.Context, commentID uint64) (bool, error)
	CountComments(ctx context.Context) (int64, error)
}

type RecipeActionRepoImpl struct {
	db *gorm.DB
}

func NewRecipeActionRepo(db *gorm.DB) RecipeActionRepo {
	return &RecipeActionRepoImpl{db}
}

func (s *RecipeActionRepoImpl) CreateLike(ctx context.Context, userID, recipeID uint64) (bool, error) {
	return s.insertIgnore(ctx, &model.Like{UserID: userID, RecipeID: recipeID})
}

func (s *RecipeActionRepoImpl) DeleteLike(ctx context.Context, userID, recipeID uint64) (bool, error) {
	return s.deletePair(ctx, &model.Like{}, userID, recipeID)
}

func (s *RecipeActionRepoImpl) CheckLikeExists(ctx context.Context, userID, recipeID uint64) (bool, error) {
	return s.pairExists(ctx, &model.Like{}, userID, recipeID)
}

// GetLikedRecipeIDs 一次查询得到 recipeIDs 中被点赞的部分
func (s *RecipeActionRepoImpl) GetLikedRecipeIDs(ctx context.Context, userID uint64, recipeIDs []uint64) ([]uint64, error) {
	return s.pluckRecipeIDs(ctx, &model.Like{}, userID, recipeIDs)
}

func (s *RecipeActionRepoImpl) CreateSave(ctx context.Context, userID, recipeID uint64) (bool, error) {
	return s.insertIgnore(ctx, &model.Save{UserID: userID, RecipeID: recipeID})
}

func (s *RecipeActionRepoImpl) DeleteSave(ctx context.Context, userID, recipeID uint64) (bool, error) {
	return s.deletePair(ctx, &model.Save{}, userID, recipeID)
}

func (s *RecipeActionRepoImpl) CheckSaveExists(ctx context.Context, userID, recipeID uint64) (bool, error) {
	return s.pairExists(ctx, &model.Save{}, userID, recipeID)
}

func (s *RecipeActionRepoImpl) GetSavedRecipeIDs(ctx context.Context, userID uint64, recipeIDs []uint64) ([]uint64, error) {
	return s.pluckRecipeIDs(ctx, &model.Save{}, userID, recipeIDs)
}

// ListSavedRecipeIDs 收藏列表，最近收藏在前
func (s *RecipeActionRepoImpl) ListSavedRecipeIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&model.Save{}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Pluck("recipe_id", &ids).Error
	return ids, err
}

func (s *RecipeActionRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *RecipeActionRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.Comment, error) {
	var comment model.Comment
	result := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", commentID, false).
		First(&comment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &comment, nil
}

// ListComments 最新的评论在前
func (s *RecipeActionRepoImpl) ListComments(ctx context.Context, recipeID uint64, limit, offset int) ([]*model.Comment, error) {
	comments := make([]*model.Comment, 0)
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND is_deleted = ?", recipeID, false).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment 软删除，返回是否由本次调用删除
func (s *RecipeActionRepoImpl) DeleteComment(ctx context.Context, commentID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ? AND is_deleted = ?", commentID, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *RecipeActionRepoImpl) CountComments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("is_deleted = ?", false).
		Count(&count).Error
	return count, err
}

func (s *RecipeActionRepoImpl) insertIgnore(ctx context.Context, value interface{}) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.Insert{Modifier: "IGNORE"}).
		Create(value)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *RecipeActionRepoImpl) deletePair(ctx context.Context, value interface{}, userID, recipeID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(value)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *RecipeActionRepoImpl) pairExists(ctx context.Context, value interface{}, userID, recipeID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(value).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (s *RecipeActionRepoImpl) pluckRecipeIDs(ctx context.Context, value interface{}, userID uint64, recipeIDs []uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	if len(recipeIDs) == 0 {
		return ids, nil
	}
	err := s.db.WithContext(ctx).
		Model(value).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	return ids, err
}
