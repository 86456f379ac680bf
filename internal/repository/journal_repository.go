package repository

import (
	"context"
	"mindwell-api/internal/models"
	"mindwell-api/internal/pkg/errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JournalRepository interface {
	Create(ctx context.Context, entry *models.JournalEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.JournalEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.JournalEntry, error)
	ListByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.JournalEntry, error)
	Update(ctx context.Context, entry *models.JournalEntry) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type journalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) Create(ctx context.Context, entry *models.JournalEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return errors.Wrap(err, "failed to create journal entry")
	}
	return nil
}

func (r *journalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get journal entry")
	}
	return &entry, nil
}

func (r *journalRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("entry_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list journal entries")
	}
	return entries, nil
}

func (r *journalRepository) ListByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND entry_date >= ? AND entry_date <= ?", userID, from, to).
		Order("entry_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list journal entries by date")
	}
	return entries, nil
}

func (r *journalRepository) Update(ctx context.Context, entry *models.JournalEntry) error {
	result := r.db.WithContext(ctx).Model(&models.JournalEntry{}).
		Where("id = ? AND user_id = ?", entry.ID, entry.UserID).
		Updates(map[string]interface{}{
			"title":      entry.Title,
			"body":       entry.Body,
			"mood":       entry.Mood,
			"tags":       entry.Tags,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update journal entry")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *journalRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.JournalEntry{}, "id = ? AND user_id = ?", id, userID)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete journal entry")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
