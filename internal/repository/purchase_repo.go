package repository

import (
	"CookingSecret/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepo interface {
	CreatePurchase(ctx context.Context, purchase *model.Purchase) (bool, error)
	CheckPurchaseExists(ctx context.Context, userID, recipeID uint64) (bool, error)
	ListPurchasedRecipeIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error)
}

type PurchaseRepoImpl struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepo {
	return &PurchaseRepoImpl{db: db}
}

// CreatePurchase 已购买时不重复记录，返回是否新增
func (s *PurchaseRepoImpl) CreatePurchase(ctx context.Context, purchase *model.Purchase) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.Insert{Modifier: "IGNORE"}).
		Create(purchase)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *PurchaseRepoImpl) CheckPurchaseExists(ctx context.Context, userID, recipeID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

func (s *PurchaseRepoImpl) ListPurchasedRecipeIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Pluck("recipe_id", &ids).Error
	return ids, err
}
