package services

import (
	"context"
	"mindwell-api/internal/models"
	"mindwell-api/internal/pkg/errors"
	"mindwell-api/internal/repository"
	"time"

	"github.com/google/uuid"
)

type GoalService interface {
	CreateGoal(ctx context.Context, goal *models.Goal) error
	GetGoal(ctx context.Context, id, userID uuid.UUID) (*models.Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID, status models.GoalStatus) ([]models.Goal, error)
	UpdateGoal(ctx context.Context, goal *models.Goal) error
	MarkAchieved(ctx context.Context, id, userID uuid.UUID) error
	DeleteGoal(ctx context.Context, id, userID uuid.UUID) error
}

type goalService struct {
	repo repository.GoalRepository
}

func NewGoalService(repo repository.GoalRepository) GoalService {
	return &goalService{repo: repo}
}

func (s *goalService) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if goal.Title == "" {
		return errors.ErrInvalidInput
	}
	return s.repo.Create(ctx, goal)
}

func (s *goalService) GetGoal(ctx context.Context, id, userID uuid.UUID) (*models.Goal, error) {
	goal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, errors.ErrInsufficientPermission
	}
	return goal, nil
}

func (s *goalService) ListGoals(ctx context.Context, userID uuid.UUID, status models.GoalStatus) ([]models.Goal, error) {
	return s.repo.ListByUser(ctx, userID, status)
}

func (s *goalService) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	return s.repo.Update(ctx, goal)
}

func (s *goalService) MarkAchieved(ctx context.Context, id, userID uuid.UUID) error {
	goal, err := s.GetGoal(ctx, id, userID)
	if err != nil {
		return err
	}

	now := time.Now()
	goal.Status = models.GoalAchieved
	goal.AchievedAt = &now
	return s.repo.Update(ctx, goal)
}

func (s *goalService) DeleteGoal(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}
