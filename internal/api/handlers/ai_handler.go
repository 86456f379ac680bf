package handlers

import (
	"context"
	"encoding/json"
	"mindwell-api/internal/logger"
	"mindwell-api/internal/models"
	"mindwell-api/internal/services"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// AIHandler fronts the four metered generation flows. The usage gate
// middleware has already decided the request may proceed; this handler
// runs the flow and, for metered users only, records the use afterward.
// Recording failure is deliberately non-fatal: the user already got
// their result, the ledger just misses one tick until the next window.
type AIHandler struct {
	aiService         services.AIService
	usageService      services.UsageService
	subscriptions     services.SubscriptionService
	journalService    services.JournalService
	meditationService services.MeditationService
	cache             services.CacheService
	now               func() time.Time
}

func NewAIHandler(
	aiService services.AIService,
	usageService services.UsageService,
	subscriptions services.SubscriptionService,
	journalService services.JournalService,
	meditationService services.MeditationService,
	cache services.CacheService,
) *AIHandler {
	return &AIHandler{
		aiService:         aiService,
		usageService:      usageService,
		subscriptions:     subscriptions,
		journalService:    journalService,
		meditationService: meditationService,
		cache:             cache,
		now:               time.Now,
	}
}

const analysisWindowDays = 7

func (h *AIHandler) ConcernChat(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Concern string                 `json:"concern"`
		History []services.ChatMessage `json:"history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Concern == "" {
		http.Error(w, "concern is required", http.StatusBadRequest)
		return
	}

	reply, err := h.aiService.ConcernChat(r.Context(), req.Concern, req.History)
	if err != nil {
		http.Error(w, "Chat is unavailable right now", http.StatusBadGateway)
		return
	}

	h.recordIfMetered(r.Context(), user, models.FeatureConcernChat)

	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *AIHandler) JournalAnalysis(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := h.journalService.EntriesForAnalysis(r.Context(), user.ID, analysisWindowDays)
	if err != nil {
		http.Error(w, "Error loading journal entries", http.StatusInternalServerError)
		return
	}

	if len(entries) == 0 {
		http.Error(w, "No journal entries to analyze", http.StatusUnprocessableEntity)
		return
	}

	analysis, err := h.aiService.AnalyzeJournal(r.Context(), entries)
	if err != nil {
		http.Error(w, "Analysis is unavailable right now", http.StatusBadGateway)
		return
	}

	h.recordIfMetered(r.Context(), user, models.FeatureJournalAnalysis)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"analysis":      analysis,
		"entries_count": len(entries),
	})
}

func (h *AIHandler) CustomMeditation(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Topic           string `json:"topic"`
		Title           string `json:"title"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Topic == "" {
		http.Error(w, "topic is required", http.StatusBadRequest)
		return
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 10
	}
	if req.Title == "" {
		req.Title = req.Topic
	}

	script, err := h.aiService.GenerateMeditation(r.Context(), req.Topic, req.DurationMinutes)
	if err != nil {
		http.Error(w, "Meditation generation is unavailable right now", http.StatusBadGateway)
		return
	}

	meditation, err := h.meditationService.SaveCustom(r.Context(), user.ID, req.Title, req.Topic, script, req.DurationMinutes)
	if err != nil {
		http.Error(w, "Error saving meditation", http.StatusInternalServerError)
		return
	}

	h.recordIfMetered(r.Context(), user, models.FeatureCustomMeditation)

	respondJSON(w, http.StatusCreated, meditation)
}

func (h *AIHandler) CustomQuote(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// One quote per user per day: replaying today's quote hits the
	// cache, skips the generation flow, and burns no quota.
	cacheKey := "quote:" + user.ID.String() + ":" + services.DailyWindowKey(h.now())
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), cacheKey); err == nil && cached != "" {
			var quote string
			if err := json.Unmarshal([]byte(cached), &quote); err == nil {
				respondJSON(w, http.StatusOK, map[string]string{"quote": quote})
				return
			}
		}
	}

	quote, err := h.aiService.GenerateQuote(r.Context(), req.Theme)
	if err != nil {
		http.Error(w, "Quote generation is unavailable right now", http.StatusBadGateway)
		return
	}

	h.recordIfMetered(r.Context(), user, models.FeatureCustomQuote)

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), cacheKey, quote, 24*time.Hour); err != nil {
			logger.Logger.WithFields(logrus.Fields{
				"user":  user.ID,
				"error": err,
			}).Warn("failed to cache quote")
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"quote": quote})
}

// recordIfMetered writes one use to the ledger, but only for users the
// gate actually applies to. Paid usage is unmetered and unrecorded.
func (h *AIHandler) recordIfMetered(ctx context.Context, user *models.User, kind models.FeatureKind) {
	if !h.subscriptions.GateActive(ctx, user.ID) {
		return
	}

	if _, err := h.usageService.RecordUsage(ctx, user.ID.String(), kind, h.now()); err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"user":    user.ID,
			"feature": kind,
			"error":   err,
		}).Error("failed to record feature usage")
	}
}
