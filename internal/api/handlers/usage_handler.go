package handlers

import (
	"mindwell-api/internal/services"
	"net/http"
	"time"
)

type UsageHandler struct {
	usageService  services.UsageService
	subscriptions services.SubscriptionService
}

func NewUsageHandler(usageService services.UsageService, subscriptions services.SubscriptionService) *UsageHandler {
	return &UsageHandler{
		usageService:  usageService,
		subscriptions: subscriptions,
	}
}

// GetUsage reports the caller's per-feature counters so the client can
// disable buttons before a request is even attempted. Entitled users
// get unmetered=true and no counters.
func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if !h.subscriptions.GateActive(r.Context(), user.ID) {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"unmetered": true,
		})
		return
	}

	stats, err := h.usageService.CurrentUsage(r.Context(), user.ID.String(), time.Now())
	if err != nil {
		http.Error(w, "Error loading usage", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"unmetered": false,
		"features":  stats,
	})
}
