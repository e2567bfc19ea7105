package repository

import (
	"context"

	"barpos/internal/model"

	"gorm.io/gorm"
)

type DrawerLogRepository interface {
	Create(ctx context.Context, l *model.DrawerLog) error
	List(ctx context.Context, limit int) ([]model.DrawerLog, error)
}

type drawerLogRepo struct{ db *gorm.DB }

func NewDrawerLogRepository(db *gorm.DB) DrawerLogRepository { return &drawerLogRepo{db: db} }

func (r *drawerLogRepo) Create(ctx context.Context, l *model.DrawerLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *drawerLogRepo) List(ctx context.Context, limit int) ([]model.DrawerLog, error) {
	var logs []model.DrawerLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
