package handlers

import (
	"context"
	"encoding/json"
	"io"
	"mindwell-api/internal/logger"
	"mindwell-api/internal/models"
	"mindwell-api/internal/repository"
	"mindwell-api/internal/services"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v72"
	portalsession "github.com/stripe/stripe-go/v72/billingportal/session"
	"github.com/stripe/stripe-go/v72/checkout/session"
	"github.com/stripe/stripe-go/v72/webhook"
)

type StripeHandler struct {
	authService services.AuthService
	subRepo     repository.SubscriptionRepository
	userRepo    repository.UserRepository
	cache       services.CacheService
}

func NewStripeHandler(auth services.AuthService, subRepo repository.SubscriptionRepository, userRepo repository.UserRepository, cache services.CacheService) *StripeHandler {
	return &StripeHandler{
		authService: auth,
		subRepo:     subRepo,
		userRepo:    userRepo,
		cache:       cache,
	}
}

const (
	PlanTypeMonthly = "monthly"
	PlanTypeAnnual  = "annual"
)

func (h *StripeHandler) HandleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		PlanType string `json:"planType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if user.StripeID == "" {
		http.Error(w, "user doesn't have a billing account", http.StatusBadRequest)
		return
	}

	var priceID string
	switch req.PlanType {
	case PlanTypeMonthly:
		priceID = os.Getenv("STRIPE_MONTHLY_PRICE_ID")
	case PlanTypeAnnual:
		priceID = os.Getenv("STRIPE_ANNUAL_PRICE_ID")
	default:
		http.Error(w, "invalid plan type", http.StatusBadRequest)
		return
	}
	if priceID == "" {
		http.Error(w, "no price configured for the selected plan", http.StatusBadRequest)
		return
	}

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(user.StripeID),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(os.Getenv("APP_URL") + "/billing/success"),
		CancelURL:  stripe.String(os.Getenv("APP_URL") + "/billing/cancel"),
	}

	s, err := session.New(params)
	if err != nil {
		http.Error(w, "error creating checkout session", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"sessionId": s.ID})
}

func (h *StripeHandler) HandleBillingPortal(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if user.StripeID == "" {
		http.Error(w, "user doesn't have a billing account", http.StatusBadRequest)
		return
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(user.StripeID),
		ReturnURL: stripe.String(os.Getenv("APP_URL") + "/settings"),
	}

	s, err := portalsession.New(params)
	if err != nil {
		http.Error(w, "error creating portal session", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": s.URL})
}

func (h *StripeHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	const MaxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Logger.WithField("error", err).Error("error reading webhook body")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), os.Getenv("STRIPE_WEBHOOK_SECRET"))
	if err != nil {
		logger.Logger.WithField("error", err).Error("error verifying webhook signature")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var checkoutSession stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &checkoutSession); err != nil {
			logger.Logger.WithField("error", err).Error("error parsing webhook JSON")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h.handleCheckoutSessionCompleted(r.Context(), checkoutSession)
	case "customer.subscription.updated", "customer.subscription.deleted":
		var subscription stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
			logger.Logger.WithField("error", err).Error("error parsing webhook JSON")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h.handleSubscriptionUpdated(r.Context(), subscription)
	default:
		logger.Logger.WithField("type", event.Type).Debug("unhandled webhook event type")
	}

	w.WriteHeader(http.StatusOK)
}

func (h *StripeHandler) handleCheckoutSessionCompleted(ctx context.Context, checkoutSession stripe.CheckoutSession) {
	user, err := h.authService.GetUserByStripeCustomerID(ctx, checkoutSession.Customer.ID)
	if err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"customer": checkoutSession.Customer.ID,
			"error":    err,
		}).Error("error retrieving user for checkout session")
		return
	}

	endDate := time.Now().Add(30 * 24 * time.Hour)
	subscription := &models.Subscription{
		UserID:               user.ID,
		StripeCustomerID:     checkoutSession.Customer.ID,
		StripeSubscriptionID: checkoutSession.Subscription.ID,
		Status:               models.StatusActive,
		PlanType:             models.PremiumPlan,
		StartDate:            time.Now(),
		EndDate:              &endDate,
	}
	if err := h.subRepo.UpsertFromBilling(ctx, subscription); err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"user":  user.ID,
			"error": err,
		}).Error("error upserting subscription")
		return
	}

	if err := h.userRepo.GrantAccess(ctx, user.ID); err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"user":  user.ID,
			"error": err,
		}).Error("error granting access")
		return
	}

	h.invalidateStatusCache(ctx, user.ID.String())
}

func (h *StripeHandler) handleSubscriptionUpdated(ctx context.Context, subscription stripe.Subscription) {
	user, err := h.authService.GetUserByStripeCustomerID(ctx, subscription.Customer.ID)
	if err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"customer": subscription.Customer.ID,
			"error":    err,
		}).Error("error retrieving user for subscription update")
		return
	}

	endDate := time.Unix(subscription.CurrentPeriodEnd, 0)
	updated := &models.Subscription{
		UserID:               user.ID,
		StripeCustomerID:     subscription.Customer.ID,
		StripeSubscriptionID: subscription.ID,
		Status:               statusFromStripe(subscription.Status),
		PlanType:             models.PremiumPlan,
		StartDate:            time.Unix(subscription.CurrentPeriodStart, 0),
		EndDate:              &endDate,
	}

	if err := h.subRepo.UpsertFromBilling(ctx, updated); err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"user":  user.ID,
			"error": err,
		}).Error("error updating subscription")
		return
	}

	switch subscription.Status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		if err := h.userRepo.GrantAccess(ctx, user.ID); err != nil {
			logger.Logger.WithFields(logrus.Fields{
				"user":  user.ID,
				"error": err,
			}).Error("error granting access")
			return
		}
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusUnpaid:
		if err := h.userRepo.RevokeAccess(ctx, user.ID); err != nil {
			logger.Logger.WithFields(logrus.Fields{
				"user":  user.ID,
				"error": err,
			}).Error("error revoking access")
			return
		}
	}

	h.invalidateStatusCache(ctx, user.ID.String())
}

// statusFromStripe collapses the processor's status vocabulary into the
// four states the gate understands.
func statusFromStripe(status stripe.SubscriptionStatus) models.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive:
		return models.StatusActive
	case stripe.SubscriptionStatusTrialing:
		return models.StatusTrialing
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusUnpaid, stripe.SubscriptionStatusIncompleteExpired:
		return models.StatusCanceled
	default:
		return models.StatusNone
	}
}

// invalidateStatusCache drops the cached entitlement so the next gate
// check sees the webhook's result immediately.
func (h *StripeHandler) invalidateStatusCache(ctx context.Context, userID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(ctx, "sub-status:"+userID); err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"user":  userID,
			"error": err,
		}).Warn("failed to invalidate subscription cache")
	}
}
