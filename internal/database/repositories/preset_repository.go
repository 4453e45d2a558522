// Package repositories provides data access layers for database models.
package repositories

import (
	"context"
	"fmt"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/lightwaveos/lightwave-go/internal/database/models"
)

// PresetRepository handles preset data access.
type PresetRepository struct {
	db *gorm.DB
}

// NewPresetRepository creates a new PresetRepository.
func NewPresetRepository(db *gorm.DB) *PresetRepository {
	return &PresetRepository{db: db}
}

// Create persists a new preset, assigning an id if none is set.
func (r *PresetRepository) Create(ctx context.Context, preset *models.Preset) error {
	if preset.ID == "" {
		preset.ID = cuid.New()
	}
	if err := r.db.WithContext(ctx).Create(preset).Error; err != nil {
		return fmt.Errorf("failed to create preset: %w", err)
	}
	return nil
}

// FindAll returns all presets ordered by slot position.
func (r *PresetRepository) FindAll(ctx context.Context) ([]models.Preset, error) {
	var presets []models.Preset
	result := r.db.WithContext(ctx).
		Order("position ASC, created_at ASC").
		Find(&presets)
	return presets, result.Error
}

// FindByID returns a preset by id, or nil if it does not exist.
func (r *PresetRepository) FindByID(ctx context.Context, id string) (*models.Preset, error) {
	var preset models.Preset
	result := r.db.WithContext(ctx).First(&preset, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &preset, nil
}

// Update saves changes to an existing preset.
func (r *PresetRepository) Update(ctx context.Context, preset *models.Preset) error {
	if err := r.db.WithContext(ctx).Save(preset).Error; err != nil {
		return fmt.Errorf("failed to update preset: %w", err)
	}
	return nil
}

// Delete removes a preset by id.
func (r *PresetRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Preset{}, "id = ?", id).Error
}

// Count returns the number of stored presets.
func (r *PresetRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	result := r.db.WithContext(ctx).Model(&models.Preset{}).Count(&n)
	return n, result.Error
}
