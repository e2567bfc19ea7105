package repository

import (
	"context"
	"time"

	"barpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertRepository interface {
	Create(ctx context.Context, a *model.Alert) error
	ListPending(ctx context.Context) ([]model.Alert, error)
	Acknowledge(ctx context.Context, id, userID uuid.UUID) error
}

type alertRepo struct{ db *gorm.DB }

func NewAlertRepository(db *gorm.DB) AlertRepository { return &alertRepo{db: db} }

func (r *alertRepo) Create(ctx context.Context, a *model.Alert) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *alertRepo) ListPending(ctx context.Context) ([]model.Alert, error) {
	var alerts []model.Alert
	err := r.db.WithContext(ctx).
		Where("acknowledged = false").
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *alertRepo) Acknowledge(ctx context.Context, id, userID uuid.UUID) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.Alert{}).
		Where("id = ? AND acknowledged = false", id).
		Updates(map[string]interface{}{
			"acknowledged": true,
			"acked_by_id":  userID,
			"acked_at":     now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
