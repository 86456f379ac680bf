package handlers

import (
	"encoding/json"
	"mindwell-api/internal/models"
	"mindwell-api/internal/pkg/errors"
	"mindwell-api/internal/services"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type JournalHandler struct {
	journalService services.JournalService
}

func NewJournalHandler(journalService services.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Title string   `json:"title"`
		Body  string   `json:"body"`
		Mood  string   `json:"mood"`
		Tags  []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Body == "" {
		http.Error(w, "entry body is required", http.StatusBadRequest)
		return
	}

	entry := &models.JournalEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     req.Title,
		Body:      req.Body,
		Mood:      req.Mood,
		Tags:      req.Tags,
		EntryDate: time.Now(),
	}

	if err := h.journalService.CreateEntry(r.Context(), entry); err != nil {
		http.Error(w, "Error creating entry", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

func (h *JournalHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}

	entry, err := h.journalService.GetEntry(r.Context(), id, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, pageSize := ParsePaginationParams(r)

	entries, err := h.journalService.ListEntries(r.Context(), userID, page, pageSize)
	if err != nil {
		http.Error(w, "Error listing entries", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func (h *JournalHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Title string   `json:"title"`
		Body  string   `json:"body"`
		Mood  string   `json:"mood"`
		Tags  []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry := &models.JournalEntry{
		ID:     id,
		UserID: userID,
		Title:  req.Title,
		Body:   req.Body,
		Mood:   req.Mood,
		Tags:   req.Tags,
	}

	if err := h.journalService.UpdateEntry(r.Context(), entry); err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}

	if err := h.journalService.DeleteEntry(r.Context(), id, userID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case err == errors.ErrNotFound:
		http.Error(w, "Not found", http.StatusNotFound)
	case err == errors.ErrInsufficientPermission:
		http.Error(w, "Forbidden", http.StatusForbidden)
	case err == errors.ErrInvalidInput:
		http.Error(w, "Invalid input", http.StatusBadRequest)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
