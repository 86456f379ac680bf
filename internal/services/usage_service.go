package services

import (
	"context"
	"fmt"
	"mindwell-api/internal/config"
	"mindwell-api/internal/logger"
	"mindwell-api/internal/models"
	"mindwell-api/internal/repository"
	"time"

	"github.com/sirupsen/logrus"
)

// UsageService is the ledger behind the free-tier AI feature limits.
// Each feature resets over a daily or weekly window; window rollover is
// lazy, detected by comparing window keys, never by a background job.
//
// Entitled (active or trialing) users are not metered at all -- callers
// must consult SubscriptionService before touching this ledger.
type UsageService interface {
	// CanUse is a pure decision over an already-fetched record. A nil
	// record means the feature was never used and is always allowed.
	CanUse(record *models.UsageRecord, kind models.FeatureKind, now time.Time) bool

	// CheckFeature reads the store and decides whether a new use of the
	// feature is permitted right now.
	CheckFeature(ctx context.Context, userID string, kind models.FeatureKind, now time.Time) (bool, error)

	// RecordUsage applies one use to the counter, resetting it first if
	// the window rolled over, and returns the persisted record.
	RecordUsage(ctx context.Context, userID string, kind models.FeatureKind, now time.Time) (*models.UsageRecord, error)

	// CurrentUsage summarizes every feature counter for a user.
	CurrentUsage(ctx context.Context, userID string, now time.Time) ([]FeatureUsage, error)
}

type FeatureUsage struct {
	Feature   models.FeatureKind `json:"feature"`
	Used      int                `json:"used"`
	Limit     int                `json:"limit"`
	WindowKey string             `json:"window_key"`
	Allowed   bool               `json:"allowed"`
}

type usageService struct {
	repo   repository.UsageRecordRepository
	limits *config.FeatureLimitConfig
}

func NewUsageService(repo repository.UsageRecordRepository, limits *config.FeatureLimitConfig) UsageService {
	return &usageService{
		repo:   repo,
		limits: limits,
	}
}

// DailyWindowKey formats an instant as its UTC calendar date. Window
// keys are derived in UTC so two requests moments apart can never
// disagree about which day they fall in because of server locale.
func DailyWindowKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WeeklyWindowKey formats an instant as its ISO-8601 week, e.g.
// "2024-W09". Weeks run Monday through Sunday and week 1 is the week
// containing the year's first Thursday; the year component is the ISO
// week-year, which can differ from the calendar year around January 1.
func WeeklyWindowKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// WindowKeyFor derives the window key a feature's counter is scoped to
// at the given instant.
func (s *usageService) WindowKeyFor(kind models.FeatureKind, now time.Time) string {
	if s.limits.WindowFor(kind) == models.WindowDaily {
		return DailyWindowKey(now)
	}
	return WeeklyWindowKey(now)
}

func (s *usageService) CanUse(record *models.UsageRecord, kind models.FeatureKind, now time.Time) bool {
	if record == nil {
		return true
	}

	expected := s.WindowKeyFor(kind, now)
	if record.WindowKey != expected {
		// Stored count belongs to a window that already ended.
		return true
	}

	return record.UseCount < s.limits.QuotaFor(kind)
}

func (s *usageService) CheckFeature(ctx context.Context, userID string, kind models.FeatureKind, now time.Time) (bool, error) {
	record, err := s.repo.GetForFeature(ctx, userID, kind)
	if err != nil {
		// Fail closed: an unreadable ledger must not turn into free
		// unmetered AI usage.
		logger.Logger.WithFields(logrus.Fields{
			"user":    userID,
			"feature": kind,
			"error":   err,
		}).Error("usage check failed, denying")
		return false, err
	}

	return s.CanUse(record, kind, now), nil
}

func (s *usageService) RecordUsage(ctx context.Context, userID string, kind models.FeatureKind, now time.Time) (*models.UsageRecord, error) {
	windowKey := s.WindowKeyFor(kind, now)

	record, err := s.repo.RecordUsage(ctx, userID, kind, windowKey)
	if err != nil {
		return nil, err
	}

	logger.Logger.WithFields(logrus.Fields{
		"user":    userID,
		"feature": kind,
		"window":  windowKey,
		"count":   record.UseCount,
	}).Info("feature usage recorded")

	return record, nil
}

func (s *usageService) CurrentUsage(ctx context.Context, userID string, now time.Time) ([]FeatureUsage, error) {
	records, err := s.repo.GetAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byKind := make(map[models.FeatureKind]*models.UsageRecord, len(records))
	for i := range records {
		byKind[records[i].FeatureKind] = &records[i]
	}

	stats := make([]FeatureUsage, 0, len(models.AllFeatureKinds))
	for _, kind := range models.AllFeatureKinds {
		expected := s.WindowKeyFor(kind, now)

		used := 0
		if record, ok := byKind[kind]; ok && record.WindowKey == expected {
			used = record.UseCount
		}

		stats = append(stats, FeatureUsage{
			Feature:   kind,
			Used:      used,
			Limit:     s.limits.QuotaFor(kind),
			WindowKey: expected,
			Allowed:   used < s.limits.QuotaFor(kind),
		})
	}

	return stats, nil
}
