package repository

import (
	"context"
	"mindwell-api/internal/models"
	"mindwell-api/internal/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MeditationRepository interface {
	Create(ctx context.Context, meditation *models.Meditation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Meditation, error)
	ListLibrary(ctx context.Context, limit, offset int) ([]models.Meditation, error)
	ListCustomByUser(ctx context.Context, userID uuid.UUID) ([]models.Meditation, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type meditationRepository struct {
	db *gorm.DB
}

func NewMeditationRepository(db *gorm.DB) MeditationRepository {
	return &meditationRepository{db: db}
}

func (r *meditationRepository) Create(ctx context.Context, meditation *models.Meditation) error {
	if err := r.db.WithContext(ctx).Create(meditation).Error; err != nil {
		return errors.Wrap(err, "failed to create meditation")
	}
	return nil
}

func (r *meditationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Meditation, error) {
	var meditation models.Meditation
	err := r.db.WithContext(ctx).First(&meditation, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get meditation")
	}
	return &meditation, nil
}

// ListLibrary returns the curated, non-custom meditations everyone can
// play.
func (r *meditationRepository) ListLibrary(ctx context.Context, limit, offset int) ([]models.Meditation, error) {
	var meditations []models.Meditation
	err := r.db.WithContext(ctx).
		Where("custom = ?", false).
		Order("title ASC").
		Limit(limit).
		Offset(offset).
		Find(&meditations).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list meditations")
	}
	return meditations, nil
}

func (r *meditationRepository) ListCustomByUser(ctx context.Context, userID uuid.UUID) ([]models.Meditation, error) {
	var meditations []models.Meditation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND custom = ?", userID, true).
		Order("created_at DESC").
		Find(&meditations).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list custom meditations")
	}
	return meditations, nil
}

func (r *meditationRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.Meditation{}, "id = ? AND user_id = ? AND custom = ?", id, userID, true)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete meditation")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
