package services

import (
	"context"
	"mindwell-api/internal/models"
	"mindwell-api/internal/pkg/errors"
	"mindwell-api/internal/repository"

	"github.com/google/uuid"
)

type DecisionMatrixService interface {
	CreateMatrix(ctx context.Context, matrix *models.DecisionMatrix) error
	GetMatrix(ctx context.Context, id, userID uuid.UUID) (*models.DecisionMatrix, error)
	ListMatrices(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]models.DecisionMatrix, error)
	UpdateMatrix(ctx context.Context, matrix *models.DecisionMatrix) error
	DeleteMatrix(ctx context.Context, id, userID uuid.UUID) error
}

type decisionMatrixService struct {
	repo repository.DecisionMatrixRepository
}

func NewDecisionMatrixService(repo repository.DecisionMatrixRepository) DecisionMatrixService {
	return &decisionMatrixService{repo: repo}
}

func (s *decisionMatrixService) CreateMatrix(ctx context.Context, matrix *models.DecisionMatrix) error {
	if matrix.Concern == "" {
		return errors.ErrInvalidInput
	}
	return s.repo.Create(ctx, matrix)
}

func (s *decisionMatrixService) GetMatrix(ctx context.Context, id, userID uuid.UUID) (*models.DecisionMatrix, error) {
	matrix, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if matrix.UserID != userID {
		return nil, errors.ErrInsufficientPermission
	}
	return matrix, nil
}

func (s *decisionMatrixService) ListMatrices(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]models.DecisionMatrix, error) {
	offset := (page - 1) * pageSize
	return s.repo.ListByUser(ctx, userID, pageSize, offset)
}

func (s *decisionMatrixService) UpdateMatrix(ctx context.Context, matrix *models.DecisionMatrix) error {
	return s.repo.Update(ctx, matrix)
}

func (s *decisionMatrixService) DeleteMatrix(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}
