package services

import (
	"context"
	"encoding/json"
	"errors"
	"mindwell-api/internal/config"
	"mindwell-api/internal/logger"
	"mindwell-api/internal/models"
	"mindwell-api/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SubscriptionService answers the one question the usage ledger cares
// about: is this user currently entitled (active or trialing), making
// the metering gate inactive for them.
//
// A lookup that fails is treated as "not subscribed". Failing open
// would hand out unmetered AI usage whenever the store hiccups.
type SubscriptionService interface {
	CurrentSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	CurrentStatus(ctx context.Context, userID uuid.UUID) models.SubscriptionStatus
	IsEntitled(ctx context.Context, userID uuid.UUID) bool
	// GateActive reports whether ledger rules apply to the user.
	GateActive(ctx context.Context, userID uuid.UUID) bool
}

type subscriptionService struct {
	repo  repository.SubscriptionRepository
	cache CacheService
	cfg   *config.CacheConfig
}

func NewSubscriptionService(repo repository.SubscriptionRepository, cache CacheService, cfg *config.CacheConfig) SubscriptionService {
	return &subscriptionService{
		repo:  repo,
		cache: cache,
		cfg:   cfg,
	}
}

func (s *subscriptionService) CurrentSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	return s.repo.GetLatestByUserID(ctx, userID)
}

func (s *subscriptionService) CurrentStatus(ctx context.Context, userID uuid.UUID) models.SubscriptionStatus {
	cacheKey := "sub-status:" + userID.String()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var status models.SubscriptionStatus
			if err := json.Unmarshal([]byte(cached), &status); err == nil {
				return status
			}
		}
	}

	subscription, err := s.repo.GetLatestByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrSubscriptionNotFound) {
			logger.Logger.WithFields(logrus.Fields{
				"user":  userID,
				"error": err,
			}).Warn("subscription lookup failed, treating as unsubscribed")
		}
		return models.StatusNone
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, subscription.Status, s.cfg.SubscriptionTTL); err != nil {
			logger.Logger.WithFields(logrus.Fields{
				"user":  userID,
				"error": err,
			}).Warn("failed to cache subscription status")
		}
	}

	return subscription.Status
}

func (s *subscriptionService) IsEntitled(ctx context.Context, userID uuid.UUID) bool {
	status := s.CurrentStatus(ctx, userID)
	return status == models.StatusActive || status == models.StatusTrialing
}

func (s *subscriptionService) GateActive(ctx context.Context, userID uuid.UUID) bool {
	return !s.IsEntitled(ctx, userID)
}
