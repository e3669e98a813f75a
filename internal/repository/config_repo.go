package repository

import (
	"context"

	"banca/internal/models"

	"gorm.io/gorm"
)

type ConfigRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Get returns a snapshot of the singleton config row. Callers read every
// field from the same snapshot so a concurrent admin update can never be
// observed half-applied within one financial decision.
func (r *ConfigRepository) Get(ctx context.Context) (models.WalletConfig, error) {
	var c models.WalletConfig
	if err := r.db.WithContext(ctx).First(&c, 1).Error; err != nil {
		return models.WalletConfig{}, storeErr(err)
	}
	return c, nil
}

// Update is the single writer path for the config row.
func (r *ConfigRepository) Update(ctx context.Context, c *models.WalletConfig) error {
	c.ID = 1
	return storeErr(r.db.WithContext(ctx).Save(c).Error)
}
