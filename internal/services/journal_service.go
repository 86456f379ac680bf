package services

import (
	"context"
	"mindwell-api/internal/models"
	"mindwell-api/internal/pkg/errors"
	"mindwell-api/internal/repository"
	"time"

	"github.com/google/uuid"
)

type JournalService interface {
	CreateEntry(ctx context.Context, entry *models.JournalEntry) error
	GetEntry(ctx context.Context, id, userID uuid.UUID) (*models.JournalEntry, error)
	ListEntries(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]models.JournalEntry, error)
	EntriesForAnalysis(ctx context.Context, userID uuid.UUID, days int) ([]models.JournalEntry, error)
	UpdateEntry(ctx context.Context, entry *models.JournalEntry) error
	DeleteEntry(ctx context.Context, id, userID uuid.UUID) error
}

type journalService struct {
	repo repository.JournalRepository
}

func NewJournalService(repo repository.JournalRepository) JournalService {
	return &journalService{repo: repo}
}

func (s *journalService) CreateEntry(ctx context.Context, entry *models.JournalEntry) error {
	return s.repo.Create(ctx, entry)
}

func (s *journalService) GetEntry(ctx context.Context, id, userID uuid.UUID) (*models.JournalEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, errors.ErrInsufficientPermission
	}
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]models.JournalEntry, error) {
	offset := (page - 1) * pageSize
	return s.repo.ListByUser(ctx, userID, pageSize, offset)
}

// EntriesForAnalysis returns the entries the journal-analysis flow
// summarizes: everything written in the trailing N days.
func (s *journalService) EntriesForAnalysis(ctx context.Context, userID uuid.UUID, days int) ([]models.JournalEntry, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -days)
	return s.repo.ListByDateRange(ctx, userID, from, to)
}

func (s *journalService) UpdateEntry(ctx context.Context, entry *models.JournalEntry) error {
	return s.repo.Update(ctx, entry)
}

func (s *journalService) DeleteEntry(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}
