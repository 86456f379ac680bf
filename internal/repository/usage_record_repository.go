package repository

import (
	"context"
	"mindwell-api/internal/models"
	"mindwell-api/internal/pkg/errors"

	"gorm.io/gorm"
)

type UsageRecordRepository interface {
	GetForFeature(ctx context.Context, userID string, kind models.FeatureKind) (*models.UsageRecord, error)
	GetAllForUser(ctx context.Context, userID string) ([]models.UsageRecord, error)
	RecordUsage(ctx context.Context, userID string, kind models.FeatureKind, windowKey string) (*models.UsageRecord, error)
}

type usageRecordRepository struct {
	db *gorm.DB
}

func NewUsageRecordRepository(db *gorm.DB) UsageRecordRepository {
	return &usageRecordRepository{db: db}
}

// GetForFeature returns the counter row for one (user, feature) pair,
// or nil when the user has never used the feature. Absence is not an
// error: it means an implicit zero count.
func (r *usageRecordRepository) GetForFeature(ctx context.Context, userID string, kind models.FeatureKind) (*models.UsageRecord, error) {
	var record models.UsageRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND feature_kind = ?", userID, kind).
		First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapAs(errors.ErrPersistence, err, "failed to read usage record")
	}
	return &record, nil
}

func (r *usageRecordRepository) GetAllForUser(ctx context.Context, userID string) ([]models.UsageRecord, error) {
	var records []models.UsageRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&records).Error
	if err != nil {
		return nil, errors.WrapAs(errors.ErrPersistence, err, "failed to read usage records")
	}
	return records, nil
}

// RecordUsage applies one use to the (user, feature) counter inside a
// transaction. A stored window key that differs from windowKey means
// the window rolled over, so the counter restarts at 1; otherwise it
// increments. Only the one feature's row is touched.
func (r *usageRecordRepository) RecordUsage(ctx context.Context, userID string, kind models.FeatureKind, windowKey string) (*models.UsageRecord, error) {
	var record models.UsageRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND feature_kind = ?", userID, kind).
			First(&record).Error

		if err == gorm.ErrRecordNotFound {
			record = models.UsageRecord{
				UserID:      userID,
				FeatureKind: kind,
				UseCount:    1,
				WindowKey:   windowKey,
			}
			return tx.Create(&record).Error
		}

		if err != nil {
			return err
		}

		if record.WindowKey != windowKey {
			record.UseCount = 1
			record.WindowKey = windowKey
		} else {
			record.UseCount++
		}

		return tx.Save(&record).Error
	})

	if err != nil {
		return nil, errors.WrapAs(errors.ErrPersistence, err, "failed to record feature usage")
	}

	return &record, nil
}
