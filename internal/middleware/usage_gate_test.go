package middleware

import (
	"context"
	"errors"
	"mindwell-api/internal/models"
	"mindwell-api/internal/services"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubUsageService struct {
	allowed    bool
	checkErr   error
	checkCalls int
}

func (s *stubUsageService) CanUse(record *models.UsageRecord, kind models.FeatureKind, now time.Time) bool {
	return s.allowed
}

func (s *stubUsageService) CheckFeature(ctx context.Context, userID string, kind models.FeatureKind, now time.Time) (bool, error) {
	s.checkCalls++
	if s.checkErr != nil {
		return false, s.checkErr
	}
	return s.allowed, nil
}

func (s *stubUsageService) RecordUsage(ctx context.Context, userID string, kind models.FeatureKind, now time.Time) (*models.UsageRecord, error) {
	return nil, nil
}

func (s *stubUsageService) CurrentUsage(ctx context.Context, userID string, now time.Time) ([]services.FeatureUsage, error) {
	return nil, nil
}

type stubSubscriptionService struct {
	entitled bool
}

func (s *stubSubscriptionService) CurrentSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	return nil, nil
}

func (s *stubSubscriptionService) CurrentStatus(ctx context.Context, userID uuid.UUID) models.SubscriptionStatus {
	if s.entitled {
		return models.StatusActive
	}
	return models.StatusNone
}

func (s *stubSubscriptionService) IsEntitled(ctx context.Context, userID uuid.UUID) bool {
	return s.entitled
}

func (s *stubSubscriptionService) GateActive(ctx context.Context, userID uuid.UUID) bool {
	return !s.entitled
}

func gatedRequest(t *testing.T, usage *stubUsageService, subs *stubSubscriptionService, withUser bool) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	gate := NewUsageGate(usage, subs)

	reached := false
	handler := gate.Gate(models.FeatureConcernChat)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/ai/concern-chat", nil)
	if withUser {
		user := &models.User{ID: uuid.New()}
		req = req.WithContext(services.WithUserAndSubscriptionContext(req.Context(), user, nil))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, reached
}

func TestGateRejectsAnonymousRequest(t *testing.T) {
	rec, reached := gatedRequest(t, &stubUsageService{}, &stubSubscriptionService{}, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestGateBypassesEntitledUser(t *testing.T) {
	usage := &stubUsageService{allowed: false}
	rec, reached := gatedRequest(t, usage, &stubSubscriptionService{entitled: true}, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Zero(t, usage.checkCalls, "entitled users must never touch the ledger")
}

func TestGateAllowsWithinQuota(t *testing.T) {
	usage := &stubUsageService{allowed: true}
	rec, reached := gatedRequest(t, usage, &stubSubscriptionService{}, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, 1, usage.checkCalls)
}

func TestGateRejectsExhaustedQuota(t *testing.T) {
	usage := &stubUsageService{allowed: false}
	rec, reached := gatedRequest(t, usage, &stubSubscriptionService{}, true)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, reached)
	assert.Equal(t, "0", rec.Header().Get("X-Usage-Limit-Remaining"))
	assert.Contains(t, rec.Body.String(), "Upgrade to Premium")
}

func TestGateFailsClosedOnStoreError(t *testing.T) {
	usage := &stubUsageService{checkErr: errors.New("connection refused")}
	rec, reached := gatedRequest(t, usage, &stubSubscriptionService{}, true)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, reached)
}
