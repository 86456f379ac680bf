package repository

import (
	"context"
	"mindwell-api/internal/models"
	"mindwell-api/internal/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DailyListRepository interface {
	Create(ctx context.Context, item *models.DailyListItem) error
	ListByDay(ctx context.Context, userID uuid.UUID, kind models.ListKind, day string) ([]models.DailyListItem, error)
	SetResolved(ctx context.Context, id uuid.UUID, userID uuid.UUID, resolved bool) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type dailyListRepository struct {
	db *gorm.DB
}

func NewDailyListRepository(db *gorm.DB) DailyListRepository {
	return &dailyListRepository{db: db}
}

func (r *dailyListRepository) Create(ctx context.Context, item *models.DailyListItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return errors.Wrap(err, "failed to create list item")
	}
	return nil
}

func (r *dailyListRepository) ListByDay(ctx context.Context, userID uuid.UUID, kind models.ListKind, day string) ([]models.DailyListItem, error) {
	var items []models.DailyListItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND day = ?", userID, kind, day).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list items")
	}
	return items, nil
}

func (r *dailyListRepository) SetResolved(ctx context.Context, id uuid.UUID, userID uuid.UUID, resolved bool) error {
	result := r.db.WithContext(ctx).Model(&models.DailyListItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("resolved", resolved)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update list item")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *dailyListRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.DailyListItem{}, "id = ? AND user_id = ?", id, userID)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete list item")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
