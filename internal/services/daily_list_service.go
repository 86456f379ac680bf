package services

import (
	"context"
	"mindwell-api/internal/models"
	"mindwell-api/internal/pkg/errors"
	"mindwell-api/internal/repository"
	"time"

	"github.com/google/uuid"
)

type DailyListService interface {
	AddItem(ctx context.Context, userID uuid.UUID, kind models.ListKind, text string, now time.Time) (*models.DailyListItem, error)
	ListForDay(ctx context.Context, userID uuid.UUID, kind models.ListKind, day string) ([]models.DailyListItem, error)
	SetResolved(ctx context.Context, id, userID uuid.UUID, resolved bool) error
	DeleteItem(ctx context.Context, id, userID uuid.UUID) error
}

type dailyListService struct {
	repo repository.DailyListRepository
}

func NewDailyListService(repo repository.DailyListRepository) DailyListService {
	return &dailyListService{repo: repo}
}

// AddItem puts a line on today's list. The day key is the same UTC
// calendar date the usage ledger uses, so a list "day" and a daily
// feature window always agree.
func (s *dailyListService) AddItem(ctx context.Context, userID uuid.UUID, kind models.ListKind, text string, now time.Time) (*models.DailyListItem, error) {
	if text == "" {
		return nil, errors.ErrInvalidInput
	}
	if kind != models.WorryList && kind != models.GratitudeList {
		return nil, errors.ErrInvalidInput
	}

	item := &models.DailyListItem{
		ID:     uuid.New(),
		UserID: userID,
		Kind:   kind,
		Day:    DailyWindowKey(now),
		Text:   text,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *dailyListService) ListForDay(ctx context.Context, userID uuid.UUID, kind models.ListKind, day string) ([]models.DailyListItem, error) {
	return s.repo.ListByDay(ctx, userID, kind, day)
}

func (s *dailyListService) SetResolved(ctx context.Context, id, userID uuid.UUID, resolved bool) error {
	return s.repo.SetResolved(ctx, id, userID, resolved)
}

func (s *dailyListService) DeleteItem(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}
