package middleware

import (
	"mindwell-api/internal/models"
	"mindwell-api/internal/services"
	"net/http"
	"time"
)

// UsageGate guards the metered AI endpoints. Subscribed users pass
// straight through; everyone else is checked against the per-feature
// window counter and turned away with 429 once the window's quota is
// gone. Recording happens in the handler after the flow succeeds, so a
// failed generation never burns the user's quota.
type UsageGate struct {
	usage services.UsageService
	subs  services.SubscriptionService
	now   func() time.Time
}

func NewUsageGate(usage services.UsageService, subs services.SubscriptionService) *UsageGate {
	return &UsageGate{
		usage: usage,
		subs:  subs,
		now:   time.Now,
	}
}

func (g *UsageGate) Gate(kind models.FeatureKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := services.UserFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Entitlement is re-read on every check rather than taken
			// from the token, so a subscription canceled mid-session
			// starts metering immediately.
			if !g.subs.GateActive(r.Context(), user.ID) {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := g.usage.CheckFeature(r.Context(), user.ID.String(), kind, g.now())
			if err != nil {
				http.Error(w, "Usage check unavailable, please try again", http.StatusServiceUnavailable)
				return
			}

			if !allowed {
				w.Header().Set("X-Usage-Limit-Remaining", "0")
				http.Error(w, "Free limit reached for this feature. Upgrade to Premium for unlimited access.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
