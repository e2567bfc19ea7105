package repository

import (
	"context"

	"barpos/internal/model"

	"gorm.io/gorm"
)

type AppConfigRepository interface {
	// Get returns the single config row, creating it with defaults when absent.
	Get(ctx context.Context) (*model.AppConfig, error)
	Update(ctx context.Context, c *model.AppConfig) error
}

type appConfigRepo struct{ db *gorm.DB }

func NewAppConfigRepository(db *gorm.DB) AppConfigRepository { return &appConfigRepo{db: db} }

func (r *appConfigRepo) Get(ctx context.Context) (*model.AppConfig, error) {
	var c model.AppConfig
	err := r.db.WithContext(ctx).FirstOrCreate(&c, model.AppConfig{ID: 1}).Error
	return &c, err
}

func (r *appConfigRepo) Update(ctx context.Context, c *model.AppConfig) error {
	c.ID = 1
	return r.db.WithContext(ctx).Save(c).Error
}
