package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/lightwaveos/lightwave-go/internal/database/models"
)

// SettingRepository handles setting data access.
type SettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new SettingRepository.
func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// FindByKey returns a setting by key, or nil if it does not exist.
func (r *SettingRepository) FindByKey(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	result := r.db.WithContext(ctx).First(&setting, "key = ?", key)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &setting, nil
}

// Upsert creates or updates a setting by key.
func (r *SettingRepository) Upsert(ctx context.Context, key, value string) (*models.Setting, error) {
	var setting models.Setting

	result := r.db.WithContext(ctx).First(&setting, "key = ?", key)
	if result.Error == gorm.ErrRecordNotFound {
		setting = models.Setting{
			ID:    cuid.New(),
			Key:   key,
			Value: value,
		}
		if err := r.db.WithContext(ctx).Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	} else if result.Error != nil {
		return nil, result.Error
	}

	setting.Value = value
	if err := r.db.WithContext(ctx).Save(&setting).Error; err != nil {
		return nil, err
	}

	return &setting, nil
}

// Delete deletes a setting by key.
func (r *SettingRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&models.Setting{}, "key = ?", key).Error
}
