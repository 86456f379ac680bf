package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mindwell-api/internal/models"
	"mindwell-api/internal/services"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAIService struct {
	quote      string
	quoteErr   error
	quoteCalls int
}

func (s *stubAIService) ConcernChat(ctx context.Context, concern string, history []services.ChatMessage) (string, error) {
	return "", nil
}

func (s *stubAIService) AnalyzeJournal(ctx context.Context, entries []models.JournalEntry) (string, error) {
	return "", nil
}

func (s *stubAIService) GenerateMeditation(ctx context.Context, topic string, durationMinutes int) (string, error) {
	return "", nil
}

func (s *stubAIService) GenerateQuote(ctx context.Context, theme string) (string, error) {
	s.quoteCalls++
	return s.quote, s.quoteErr
}

type recordingUsageService struct {
	recordedKind models.FeatureKind
	recordedAt   time.Time
	recordCalls  int
}

func (s *recordingUsageService) CanUse(record *models.UsageRecord, kind models.FeatureKind, now time.Time) bool {
	return true
}

func (s *recordingUsageService) CheckFeature(ctx context.Context, userID string, kind models.FeatureKind, now time.Time) (bool, error) {
	return true, nil
}

func (s *recordingUsageService) RecordUsage(ctx context.Context, userID string, kind models.FeatureKind, now time.Time) (*models.UsageRecord, error) {
	s.recordCalls++
	s.recordedKind = kind
	s.recordedAt = now
	return &models.UsageRecord{UserID: userID, FeatureKind: kind, UseCount: 1}, nil
}

func (s *recordingUsageService) CurrentUsage(ctx context.Context, userID string, now time.Time) ([]services.FeatureUsage, error) {
	return nil, nil
}

type stubSubscriptions struct {
	entitled bool
}

func (s *stubSubscriptions) CurrentSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	return nil, nil
}

func (s *stubSubscriptions) CurrentStatus(ctx context.Context, userID uuid.UUID) models.SubscriptionStatus {
	if s.entitled {
		return models.StatusActive
	}
	return models.StatusNone
}

func (s *stubSubscriptions) IsEntitled(ctx context.Context, userID uuid.UUID) bool {
	return s.entitled
}

func (s *stubSubscriptions) GateActive(ctx context.Context, userID uuid.UUID) bool {
	return !s.entitled
}

type memCache struct {
	data map[string]string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	return c.data[key], nil
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = string(encoded)
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memCache) DeleteByPattern(ctx context.Context, pattern string) error { return nil }

func quoteRequest(t *testing.T, handler *AIHandler, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"theme": "resilience"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/ai/quote", bytes.NewReader(body))
	user := &models.User{ID: userID}
	req = req.WithContext(services.WithUserAndSubscriptionContext(req.Context(), user, nil))

	rec := httptest.NewRecorder()
	handler.CustomQuote(rec, req)
	return rec
}

func TestCustomQuoteGeneratesRecordsAndCaches(t *testing.T) {
	ai := &stubAIService{quote: "Begin again."}
	usage := &recordingUsageService{}
	cache := newMemCache()
	at := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	handler := NewAIHandler(ai, usage, &stubSubscriptions{}, nil, nil, cache)
	handler.now = func() time.Time { return at }

	userID := uuid.New()
	rec := quoteRequest(t, handler, userID)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Begin again.")
	assert.Equal(t, 1, ai.quoteCalls)

	assert.Equal(t, 1, usage.recordCalls)
	assert.Equal(t, models.FeatureCustomQuote, usage.recordedKind)
	assert.Equal(t, at, usage.recordedAt, "recording must use the handler clock")

	assert.Contains(t, cache.data, "quote:"+userID.String()+":2024-03-01")
}

func TestCustomQuoteServesCachedQuote(t *testing.T) {
	ai := &stubAIService{quote: "Fresh quote."}
	usage := &recordingUsageService{}
	cache := newMemCache()
	at := time.Date(2024, time.March, 1, 18, 0, 0, 0, time.UTC)

	handler := NewAIHandler(ai, usage, &stubSubscriptions{}, nil, nil, cache)
	handler.now = func() time.Time { return at }

	userID := uuid.New()
	require.NoError(t, cache.Set(context.Background(), "quote:"+userID.String()+":2024-03-01", "Cached quote.", 24*time.Hour))

	rec := quoteRequest(t, handler, userID)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cached quote.")

	// A replay never reaches the flow and never burns quota.
	assert.Zero(t, ai.quoteCalls)
	assert.Zero(t, usage.recordCalls)
}

func TestCustomQuoteCacheExpiresWithTheDay(t *testing.T) {
	ai := &stubAIService{quote: "New day, new quote."}
	usage := &recordingUsageService{}
	cache := newMemCache()

	handler := NewAIHandler(ai, usage, &stubSubscriptions{}, nil, nil, cache)
	handler.now = func() time.Time {
		return time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)
	}

	userID := uuid.New()
	require.NoError(t, cache.Set(context.Background(), "quote:"+userID.String()+":2024-03-01", "Yesterday's quote.", 24*time.Hour))

	rec := quoteRequest(t, handler, userID)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New day, new quote.")
	assert.Equal(t, 1, ai.quoteCalls)
	assert.Equal(t, 1, usage.recordCalls)
}

func TestCustomQuoteEntitledUserNotRecorded(t *testing.T) {
	ai := &stubAIService{quote: "Unmetered quote."}
	usage := &recordingUsageService{}

	handler := NewAIHandler(ai, usage, &stubSubscriptions{entitled: true}, nil, nil, newMemCache())

	rec := quoteRequest(t, handler, uuid.New())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ai.quoteCalls)
	assert.Zero(t, usage.recordCalls)
}
