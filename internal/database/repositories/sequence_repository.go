package repositories

import (
	"context"
	"fmt"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/lightwaveos/lightwave-go/internal/database/models"
)

// SequenceRepository handles sequence data access.
type SequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Create persists a sequence with its steps.
func (r *SequenceRepository) Create(ctx context.Context, seq *models.Sequence) error {
	if seq.ID == "" {
		seq.ID = cuid.New()
	}
	for i := range seq.Steps {
		if seq.Steps[i].ID == "" {
			seq.Steps[i].ID = cuid.New()
		}
		seq.Steps[i].SequenceID = seq.ID
		seq.Steps[i].Position = i
	}
	if err := r.db.WithContext(ctx).Create(seq).Error; err != nil {
		return fmt.Errorf("failed to create sequence: %w", err)
	}
	return nil
}

// FindAll returns all sequences with their steps.
func (r *SequenceRepository) FindAll(ctx context.Context) ([]models.Sequence, error) {
	var sequences []models.Sequence
	result := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_steps.position ASC")
		}).
		Order("created_at ASC").
		Find(&sequences)
	return sequences, result.Error
}

// FindByID returns a sequence with steps, or nil if it does not exist.
func (r *SequenceRepository) FindByID(ctx context.Context, id string) (*models.Sequence, error) {
	var seq models.Sequence
	result := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_steps.position ASC")
		}).
		First(&seq, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &seq, nil
}

// Delete removes a sequence and its steps.
func (r *SequenceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.SequenceStep{}, "sequence_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Sequence{}, "id = ?", id).Error
	})
}
