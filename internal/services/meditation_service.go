package services

import (
	"context"
	"mindwell-api/internal/models"
	"mindwell-api/internal/repository"

	"github.com/google/uuid"
)

type MeditationService interface {
	ListLibrary(ctx context.Context, page, pageSize int) ([]models.Meditation, error)
	ListCustom(ctx context.Context, userID uuid.UUID) ([]models.Meditation, error)
	GetMeditation(ctx context.Context, id uuid.UUID) (*models.Meditation, error)
	SaveCustom(ctx context.Context, userID uuid.UUID, title, topic, script string, durationMinutes int) (*models.Meditation, error)
	DeleteCustom(ctx context.Context, id, userID uuid.UUID) error
}

type meditationService struct {
	repo repository.MeditationRepository
}

func NewMeditationService(repo repository.MeditationRepository) MeditationService {
	return &meditationService{repo: repo}
}

func (s *meditationService) ListLibrary(ctx context.Context, page, pageSize int) ([]models.Meditation, error) {
	offset := (page - 1) * pageSize
	return s.repo.ListLibrary(ctx, pageSize, offset)
}

func (s *meditationService) ListCustom(ctx context.Context, userID uuid.UUID) ([]models.Meditation, error) {
	return s.repo.ListCustomByUser(ctx, userID)
}

func (s *meditationService) GetMeditation(ctx context.Context, id uuid.UUID) (*models.Meditation, error) {
	return s.repo.GetByID(ctx, id)
}

// SaveCustom stores the script the custom-meditation flow produced so
// the user can replay it without another generation.
func (s *meditationService) SaveCustom(ctx context.Context, userID uuid.UUID, title, topic, script string, durationMinutes int) (*models.Meditation, error) {
	meditation := &models.Meditation{
		ID:              uuid.New(),
		UserID:          &userID,
		Title:           title,
		Topic:           topic,
		Script:          script,
		DurationMinutes: durationMinutes,
		Custom:          true,
	}

	if err := s.repo.Create(ctx, meditation); err != nil {
		return nil, err
	}
	return meditation, nil
}

func (s *meditationService) DeleteCustom(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}
