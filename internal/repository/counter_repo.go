package repository

import (
	"CookingSecret/internal/model"
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CounterRepo 反规范化计数的读写，字段名均来自 model.CounterFields
type CounterRepo interface {
	Recount(ctx context.Context, field model.CounterField, id uint64) error
	ListIDs(ctx context.Context, table string, afterID uint64, limit int) ([]uint64, error)
}

type CounterRepoImpl struct {
	db *gorm.DB
}

func NewCounterRepo(db *gorm.DB) CounterRepo {
	return &CounterRepoImpl{db: db}
}

// Recount 用关系表的实际行数覆盖计数，可与在线流量并发执行
func (s *CounterRepoImpl) Recount(ctx context.Context, field model.CounterField, id uint64) error {
	sub := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", field.SourceTable, field.SourceKey)
	if field.SourceCond != "" {
		sub += " AND " + field.SourceCond
	}
	sql := fmt.Sprintf("UPDATE %s SET %s = (%s) WHERE id = ?", field.Table, field.Column, sub)
	err := s.db.WithContext(ctx).Exec(sql, id, id).Error
	return errors.Wrapf(err, "recount %s", field.Name)
}

// ListIDs 按主键游标分批遍历
func (s *CounterRepoImpl) ListIDs(ctx context.Context, table string, afterID uint64, limit int) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).
		Table(table).
		Where("id > ?", afterID).
		Order("id asc").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}
