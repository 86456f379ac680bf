package repository

import (
	"context"
	"mindwell-api/internal/models"
	"mindwell-api/internal/pkg/errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoalRepository interface {
	Create(ctx context.Context, goal *models.Goal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Goal, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status models.GoalStatus) ([]models.Goal, error)
	Update(ctx context.Context, goal *models.Goal) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type goalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *models.Goal) error {
	if err := r.db.WithContext(ctx).Create(goal).Error; err != nil {
		return errors.Wrap(err, "failed to create goal")
	}
	return nil
}

func (r *goalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.WithContext(ctx).First(&goal, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get goal")
	}
	return &goal, nil
}

// ListByUser returns a user's goals, optionally filtered by status.
// An empty status lists everything.
func (r *goalRepository) ListByUser(ctx context.Context, userID uuid.UUID, status models.GoalStatus) ([]models.Goal, error) {
	var goals []models.Goal
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&goals).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list goals")
	}
	return goals, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *models.Goal) error {
	result := r.db.WithContext(ctx).Model(&models.Goal{}).
		Where("id = ? AND user_id = ?", goal.ID, goal.UserID).
		Updates(map[string]interface{}{
			"title":       goal.Title,
			"description": goal.Description,
			"status":      goal.Status,
			"target_date": goal.TargetDate,
			"achieved_at": goal.AchievedAt,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update goal")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *goalRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.Goal{}, "id = ? AND user_id = ?", id, userID)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete goal")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
