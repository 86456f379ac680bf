package repository

import (
	"context"
	"mindwell-api/internal/models"
	"mindwell-api/internal/pkg/errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DecisionMatrixRepository interface {
	Create(ctx context.Context, matrix *models.DecisionMatrix) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.DecisionMatrix, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.DecisionMatrix, error)
	Update(ctx context.Context, matrix *models.DecisionMatrix) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type decisionMatrixRepository struct {
	db *gorm.DB
}

func NewDecisionMatrixRepository(db *gorm.DB) DecisionMatrixRepository {
	return &decisionMatrixRepository{db: db}
}

func (r *decisionMatrixRepository) Create(ctx context.Context, matrix *models.DecisionMatrix) error {
	if err := r.db.WithContext(ctx).Create(matrix).Error; err != nil {
		return errors.Wrap(err, "failed to create decision matrix")
	}
	return nil
}

func (r *decisionMatrixRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DecisionMatrix, error) {
	var matrix models.DecisionMatrix
	err := r.db.WithContext(ctx).First(&matrix, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get decision matrix")
	}
	return &matrix, nil
}

func (r *decisionMatrixRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.DecisionMatrix, error) {
	var matrices []models.DecisionMatrix
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&matrices).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list decision matrices")
	}
	return matrices, nil
}

func (r *decisionMatrixRepository) Update(ctx context.Context, matrix *models.DecisionMatrix) error {
	result := r.db.WithContext(ctx).Model(&models.DecisionMatrix{}).
		Where("id = ? AND user_id = ?", matrix.ID, matrix.UserID).
		Updates(map[string]interface{}{
			"concern":        matrix.Concern,
			"in_my_control":  matrix.InMyControl,
			"out_of_control": matrix.OutOfControl,
			"act_now":        matrix.ActNow,
			"let_go":         matrix.LetGo,
			"reframe":        matrix.Reframe,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update decision matrix")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *decisionMatrixRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.DecisionMatrix{}, "id = ? AND user_id = ?", id, userID)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete decision matrix")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
