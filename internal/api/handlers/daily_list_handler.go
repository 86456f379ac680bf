package handlers

import (
	"encoding/json"
	"mindwell-api/internal/models"
	"mindwell-api/internal/services"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DailyListHandler struct {
	listService services.DailyListService
}

func NewDailyListHandler(listService services.DailyListService) *DailyListHandler {
	return &DailyListHandler{listService: listService}
}

func (h *DailyListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	kind := models.ListKind(mux.Vars(r)["kind"])

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.listService.AddItem(r.Context(), userID, kind, req.Text, time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// ListItems returns one day's list; ?day=YYYY-MM-DD, defaulting to
// today in UTC.
func (h *DailyListHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	kind := models.ListKind(mux.Vars(r)["kind"])

	day := r.URL.Query().Get("day")
	if day == "" {
		day = services.DailyWindowKey(time.Now())
	} else if _, err := time.Parse("2006-01-02", day); err != nil {
		http.Error(w, "Invalid day, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	items, err := h.listService.ListForDay(r.Context(), userID, kind, day)
	if err != nil {
		http.Error(w, "Error listing items", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

func (h *DailyListHandler) ResolveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Resolved bool `json:"resolved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.listService.SetResolved(r.Context(), id, userID, req.Resolved); err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"resolved": req.Resolved})
}

func (h *DailyListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	if err := h.listService.DeleteItem(r.Context(), id, userID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
