package services

import (
	"context"
	"errors"
	"mindwell-api/internal/config"
	"mindwell-api/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsageRepo struct {
	records map[string]*models.UsageRecord
	getErr  error
	saveErr error
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{records: make(map[string]*models.UsageRecord)}
}

func usageKey(userID string, kind models.FeatureKind) string {
	return userID + "|" + string(kind)
}

func (f *fakeUsageRepo) GetForFeature(ctx context.Context, userID string, kind models.FeatureKind) (*models.UsageRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	record, ok := f.records[usageKey(userID, kind)]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (f *fakeUsageRepo) GetAllForUser(ctx context.Context, userID string) ([]models.UsageRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var records []models.UsageRecord
	for _, record := range f.records {
		if record.UserID == userID {
			records = append(records, *record)
		}
	}
	return records, nil
}

func (f *fakeUsageRepo) RecordUsage(ctx context.Context, userID string, kind models.FeatureKind, windowKey string) (*models.UsageRecord, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	key := usageKey(userID, kind)
	record, ok := f.records[key]
	if !ok {
		record = &models.UsageRecord{UserID: userID, FeatureKind: kind, UseCount: 1, WindowKey: windowKey}
		f.records[key] = record
	} else if record.WindowKey != windowKey {
		record.UseCount = 1
		record.WindowKey = windowKey
	} else {
		record.UseCount++
	}
	copied := *record
	return &copied, nil
}

func newTestUsageService(repo *fakeUsageRepo) UsageService {
	return NewUsageService(repo, config.NewFeatureLimitConfig())
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestDailyWindowKey(t *testing.T) {
	assert.Equal(t, "2024-03-01", DailyWindowKey(date(2024, time.March, 1)))
	assert.Equal(t, "2024-03-02", DailyWindowKey(date(2024, time.March, 2)))

	// 23:30 in UTC+2 is already the next day locally; the key must not care.
	local := time.Date(2024, time.March, 1, 23, 30, 0, 0, time.FixedZone("EET", 2*3600))
	assert.Equal(t, "2024-03-01", DailyWindowKey(local))
}

func TestWeeklyWindowKey(t *testing.T) {
	// Monday and Sunday of the same ISO week share a key.
	monday := date(2024, time.February, 26)
	sunday := date(2024, time.March, 3)
	assert.Equal(t, "2024-W09", WeeklyWindowKey(monday))
	assert.Equal(t, "2024-W09", WeeklyWindowKey(sunday))

	// Adjacent weeks differ.
	assert.Equal(t, "2024-W10", WeeklyWindowKey(date(2024, time.March, 4)))

	// The ISO week-year can differ from the calendar year.
	assert.Equal(t, "2020-W53", WeeklyWindowKey(date(2021, time.January, 1)))
}

func TestCanUseWithNoRecord(t *testing.T) {
	service := newTestUsageService(newFakeUsageRepo())
	now := date(2024, time.March, 1)

	for _, kind := range models.AllFeatureKinds {
		assert.True(t, service.CanUse(nil, kind, now), "feature %s should be allowed with no record", kind)
	}
}

func TestCanUseExhaustionAndRollover(t *testing.T) {
	repo := newFakeUsageRepo()
	service := newTestUsageService(repo)
	ctx := context.Background()

	now := date(2024, time.March, 1)

	allowed, err := service.CheckFeature(ctx, "user-1", models.FeatureConcernChat, now)
	require.NoError(t, err)
	assert.True(t, allowed)

	_, err = service.RecordUsage(ctx, "user-1", models.FeatureConcernChat, now)
	require.NoError(t, err)

	// Same window, quota of one consumed.
	allowed, err = service.CheckFeature(ctx, "user-1", models.FeatureConcernChat, now)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Next day the daily window rolls over without any explicit reset.
	allowed, err = service.CheckFeature(ctx, "user-1", models.FeatureConcernChat, date(2024, time.March, 2))
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCanUseWeeklyScenario(t *testing.T) {
	service := newTestUsageService(newFakeUsageRepo())

	record := &models.UsageRecord{
		UserID:      "user-1",
		FeatureKind: models.FeatureJournalAnalysis,
		UseCount:    1,
		WindowKey:   "2024-W09",
	}

	// Scenario A: still inside ISO week 9 of 2024.
	assert.False(t, service.CanUse(record, models.FeatureJournalAnalysis, date(2024, time.February, 28)))

	// Scenario B: week 10 makes the stored count stale.
	assert.True(t, service.CanUse(record, models.FeatureJournalAnalysis, date(2024, time.March, 5)))
}

func TestRecordUsageResetsOnNewWindow(t *testing.T) {
	repo := newFakeUsageRepo()
	service := newTestUsageService(repo)
	ctx := context.Background()

	repo.records[usageKey("user-1", models.FeatureJournalAnalysis)] = &models.UsageRecord{
		UserID:      "user-1",
		FeatureKind: models.FeatureJournalAnalysis,
		UseCount:    1,
		WindowKey:   "2024-W09",
	}

	record, err := service.RecordUsage(ctx, "user-1", models.FeatureJournalAnalysis, date(2024, time.March, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, record.UseCount)
	assert.Equal(t, "2024-W10", record.WindowKey)
}

func TestRecordUsageIncrementsWithinWindow(t *testing.T) {
	repo := newFakeUsageRepo()
	service := newTestUsageService(repo)
	ctx := context.Background()

	now := date(2024, time.March, 1)

	first, err := service.RecordUsage(ctx, "user-1", models.FeatureConcernChat, now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.UseCount)
	assert.Equal(t, "2024-03-01", first.WindowKey)

	second, err := service.RecordUsage(ctx, "user-1", models.FeatureConcernChat, now)
	require.NoError(t, err)
	assert.Equal(t, 2, second.UseCount)
	assert.Equal(t, "2024-03-01", second.WindowKey)
}

func TestRecordUsageScopedToOneFeature(t *testing.T) {
	repo := newFakeUsageRepo()
	service := newTestUsageService(repo)
	ctx := context.Background()

	now := date(2024, time.March, 1)

	_, err := service.RecordUsage(ctx, "user-1", models.FeatureConcernChat, now)
	require.NoError(t, err)

	allowed, err := service.CheckFeature(ctx, "user-1", models.FeatureCustomQuote, now)
	require.NoError(t, err)
	assert.True(t, allowed, "recording one feature must not consume another's quota")
}

func TestCheckFeatureIsReadOnly(t *testing.T) {
	repo := newFakeUsageRepo()
	service := newTestUsageService(repo)
	ctx := context.Background()

	now := date(2024, time.March, 1)

	for i := 0; i < 5; i++ {
		_, err := service.CheckFeature(ctx, "user-1", models.FeatureConcernChat, now)
		require.NoError(t, err)
	}

	assert.Empty(t, repo.records, "checks alone must never write to the store")
}

func TestCheckFeatureFailsClosedOnStoreError(t *testing.T) {
	repo := newFakeUsageRepo()
	repo.getErr = errors.New("connection refused")
	service := newTestUsageService(repo)

	allowed, err := service.CheckFeature(context.Background(), "user-1", models.FeatureConcernChat, date(2024, time.March, 1))
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestRecordUsagePropagatesStoreError(t *testing.T) {
	repo := newFakeUsageRepo()
	repo.saveErr = errors.New("connection refused")
	service := newTestUsageService(repo)

	record, err := service.RecordUsage(context.Background(), "user-1", models.FeatureConcernChat, date(2024, time.March, 1))
	assert.Error(t, err)
	assert.Nil(t, record)
}

func TestConcernChatDailyScenario(t *testing.T) {
	repo := newFakeUsageRepo()
	service := newTestUsageService(repo)
	ctx := context.Background()

	now := date(2024, time.March, 1)

	allowed, err := service.CheckFeature(ctx, "user-1", models.FeatureConcernChat, now)
	require.NoError(t, err)
	assert.True(t, allowed)

	record, err := service.RecordUsage(ctx, "user-1", models.FeatureConcernChat, now)
	require.NoError(t, err)
	assert.Equal(t, 1, record.UseCount)
	assert.Equal(t, "2024-03-01", record.WindowKey)

	allowed, err = service.CheckFeature(ctx, "user-1", models.FeatureConcernChat, now.Add(3*time.Hour))
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestCurrentUsageSummary(t *testing.T) {
	repo := newFakeUsageRepo()
	service := newTestUsageService(repo)
	ctx := context.Background()

	now := date(2024, time.March, 1)

	_, err := service.RecordUsage(ctx, "user-1", models.FeatureConcernChat, now)
	require.NoError(t, err)

	// A counter from a previous week must read as zero.
	repo.records[usageKey("user-1", models.FeatureCustomQuote)] = &models.UsageRecord{
		UserID:      "user-1",
		FeatureKind: models.FeatureCustomQuote,
		UseCount:    1,
		WindowKey:   "2024-W01",
	}

	stats, err := service.CurrentUsage(ctx, "user-1", now)
	require.NoError(t, err)
	require.Len(t, stats, len(models.AllFeatureKinds))

	byKind := make(map[models.FeatureKind]FeatureUsage)
	for _, s := range stats {
		byKind[s.Feature] = s
	}

	assert.Equal(t, 1, byKind[models.FeatureConcernChat].Used)
	assert.False(t, byKind[models.FeatureConcernChat].Allowed)

	assert.Equal(t, 0, byKind[models.FeatureCustomQuote].Used)
	assert.True(t, byKind[models.FeatureCustomQuote].Allowed)

	assert.Equal(t, 0, byKind[models.FeatureJournalAnalysis].Used)
	assert.True(t, byKind[models.FeatureJournalAnalysis].Allowed)
	assert.Equal(t, "2024-W09", byKind[models.FeatureJournalAnalysis].WindowKey)
}
