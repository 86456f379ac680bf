package services

import (
	"context"
	"encoding/json"
	"errors"
	"mindwell-api/internal/config"
	"mindwell-api/internal/models"
	"mindwell-api/internal/repository"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionRepo struct {
	sub      *models.Subscription
	err      error
	getCalls int
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, s *models.Subscription) error { return nil }
func (f *fakeSubscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	return f.sub, f.err
}
func (f *fakeSubscriptionRepo) GetLatestByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.sub, nil
}
func (f *fakeSubscriptionRepo) Update(ctx context.Context, s *models.Subscription) error { return nil }
func (f *fakeSubscriptionRepo) UpsertFromBilling(ctx context.Context, s *models.Subscription) error {
	return nil
}
func (f *fakeSubscriptionRepo) CancelSubscription(ctx context.Context, id uuid.UUID) error {
	return nil
}
func (f *fakeSubscriptionRepo) GetSubscriptionHistory(ctx context.Context, userID uuid.UUID) ([]*models.Subscription, error) {
	return nil, nil
}

type fakeCache struct {
	data   map[string]string
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.data[key], nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = string(encoded)
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error { return nil }

func subscriptionWithStatus(userID uuid.UUID, status models.SubscriptionStatus) *models.Subscription {
	return &models.Subscription{
		UserID:    userID,
		Status:    status,
		PlanType:  models.PremiumPlan,
		StartDate: time.Now(),
	}
}

func TestIsEntitledByStatus(t *testing.T) {
	userID := uuid.New()

	cases := []struct {
		status   models.SubscriptionStatus
		entitled bool
	}{
		{models.StatusActive, true},
		{models.StatusTrialing, true},
		{models.StatusCanceled, false},
		{models.StatusNone, false},
	}

	for _, tc := range cases {
		repo := &fakeSubscriptionRepo{sub: subscriptionWithStatus(userID, tc.status)}
		service := NewSubscriptionService(repo, nil, config.NewCacheConfig())

		assert.Equal(t, tc.entitled, service.IsEntitled(context.Background(), userID), "status %s", tc.status)
		assert.Equal(t, !tc.entitled, service.GateActive(context.Background(), userID), "status %s", tc.status)
	}
}

func TestCurrentStatusWithNoSubscription(t *testing.T) {
	userID := uuid.New()
	repo := &fakeSubscriptionRepo{err: repository.ErrSubscriptionNotFound}
	service := NewSubscriptionService(repo, nil, config.NewCacheConfig())

	assert.Equal(t, models.StatusNone, service.CurrentStatus(context.Background(), userID))
	assert.True(t, service.GateActive(context.Background(), userID))
}

func TestCurrentStatusFailsClosedOnLookupError(t *testing.T) {
	userID := uuid.New()
	repo := &fakeSubscriptionRepo{err: errors.New("connection refused")}
	service := NewSubscriptionService(repo, nil, config.NewCacheConfig())

	// An unreadable store must read as unsubscribed, never as entitled.
	assert.Equal(t, models.StatusNone, service.CurrentStatus(context.Background(), userID))
	assert.False(t, service.IsEntitled(context.Background(), userID))
	assert.True(t, service.GateActive(context.Background(), userID))
}

func TestCurrentStatusPopulatesCache(t *testing.T) {
	userID := uuid.New()
	repo := &fakeSubscriptionRepo{sub: subscriptionWithStatus(userID, models.StatusActive)}
	cache := newFakeCache()
	service := NewSubscriptionService(repo, cache, config.NewCacheConfig())

	require.Equal(t, models.StatusActive, service.CurrentStatus(context.Background(), userID))
	assert.Equal(t, 1, repo.getCalls)
	assert.Contains(t, cache.data, "sub-status:"+userID.String())

	// Second read is served from cache.
	require.Equal(t, models.StatusActive, service.CurrentStatus(context.Background(), userID))
	assert.Equal(t, 1, repo.getCalls)
}

func TestCurrentStatusSurvivesCacheFailure(t *testing.T) {
	userID := uuid.New()
	repo := &fakeSubscriptionRepo{sub: subscriptionWithStatus(userID, models.StatusTrialing)}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	service := NewSubscriptionService(repo, cache, config.NewCacheConfig())

	assert.Equal(t, models.StatusTrialing, service.CurrentStatus(context.Background(), userID))
	assert.True(t, service.IsEntitled(context.Background(), userID))
}
