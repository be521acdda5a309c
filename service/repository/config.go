package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gnuboard/goboard/models"
)

type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository creates a new instance of ConfigRepository.
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) Get(ctx context.Context) (*models.Config, error) {
	var cfg models.Config
	err := r.db.WithContext(ctx).First(&cfg, "id = ?", 1).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *configRepository) Save(ctx context.Context, cfg *models.Config) error {
	cfg.ID = 1
	return r.db.WithContext(ctx).Save(cfg).Error
}
