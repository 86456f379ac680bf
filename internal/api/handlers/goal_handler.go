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

type GoalHandler struct {
	goalService services.GoalService
}

func NewGoalHandler(goalService services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		TargetDate  *time.Time `json:"target_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	goal := &models.Goal{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.GoalActive,
		TargetDate:  req.TargetDate,
	}

	if err := h.goalService.CreateGoal(r.Context(), goal); err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	status := models.GoalStatus(r.URL.Query().Get("status"))

	goals, err := h.goalService.ListGoals(r.Context(), userID, status)
	if err != nil {
		http.Error(w, "Error listing goals", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid goal ID", http.StatusBadRequest)
		return
	}

	goal, err := h.goalService.GetGoal(r.Context(), id, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid goal ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Status      models.GoalStatus `json:"status"`
		TargetDate  *time.Time        `json:"target_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	goal := &models.Goal{
		ID:          id,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		TargetDate:  req.TargetDate,
	}

	if err := h.goalService.UpdateGoal(r.Context(), goal); err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) MarkAchieved(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid goal ID", http.StatusBadRequest)
		return
	}

	if err := h.goalService.MarkAchieved(r.Context(), id, userID); err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "achieved"})
}

func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid goal ID", http.StatusBadRequest)
		return
	}

	if err := h.goalService.DeleteGoal(r.Context(), id, userID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
