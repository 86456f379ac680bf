package handlers

import (
	"mindwell-api/internal/services"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type MeditationHandler struct {
	meditationService services.MeditationService
}

func NewMeditationHandler(meditationService services.MeditationService) *MeditationHandler {
	return &MeditationHandler{meditationService: meditationService}
}

func (h *MeditationHandler) ListLibrary(w http.ResponseWriter, r *http.Request) {
	page, pageSize := ParsePaginationParams(r)

	meditations, err := h.meditationService.ListLibrary(r.Context(), page, pageSize)
	if err != nil {
		http.Error(w, "Error listing meditations", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, meditations)
}

func (h *MeditationHandler) ListCustom(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	meditations, err := h.meditationService.ListCustom(r.Context(), userID)
	if err != nil {
		http.Error(w, "Error listing custom meditations", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, meditations)
}

func (h *MeditationHandler) GetMeditation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid meditation ID", http.StatusBadRequest)
		return
	}

	meditation, err := h.meditationService.GetMeditation(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, meditation)
}

func (h *MeditationHandler) DeleteCustom(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid meditation ID", http.StatusBadRequest)
		return
	}

	if err := h.meditationService.DeleteCustom(r.Context(), id, userID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
