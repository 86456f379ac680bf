package handlers

import (
	"encoding/json"
	"mindwell-api/internal/models"
	"mindwell-api/internal/services"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DecisionMatrixHandler struct {
	matrixService services.DecisionMatrixService
}

func NewDecisionMatrixHandler(matrixService services.DecisionMatrixService) *DecisionMatrixHandler {
	return &DecisionMatrixHandler{matrixService: matrixService}
}

type matrixRequest struct {
	Concern      string   `json:"concern"`
	InMyControl  []string `json:"in_my_control"`
	OutOfControl []string `json:"out_of_control"`
	ActNow       []string `json:"act_now"`
	LetGo        []string `json:"let_go"`
	Reframe      string   `json:"reframe"`
}

func (h *DecisionMatrixHandler) CreateMatrix(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req matrixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	matrix := &models.DecisionMatrix{
		ID:           uuid.New(),
		UserID:       userID,
		Concern:      req.Concern,
		InMyControl:  req.InMyControl,
		OutOfControl: req.OutOfControl,
		ActNow:       req.ActNow,
		LetGo:        req.LetGo,
		Reframe:      req.Reframe,
	}

	if err := h.matrixService.CreateMatrix(r.Context(), matrix); err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, matrix)
}

func (h *DecisionMatrixHandler) ListMatrices(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, pageSize := ParsePaginationParams(r)

	matrices, err := h.matrixService.ListMatrices(r.Context(), userID, page, pageSize)
	if err != nil {
		http.Error(w, "Error listing matrices", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, matrices)
}

func (h *DecisionMatrixHandler) GetMatrix(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid matrix ID", http.StatusBadRequest)
		return
	}

	matrix, err := h.matrixService.GetMatrix(r.Context(), id, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, matrix)
}

func (h *DecisionMatrixHandler) UpdateMatrix(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid matrix ID", http.StatusBadRequest)
		return
	}

	var req matrixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	matrix := &models.DecisionMatrix{
		ID:           id,
		UserID:       userID,
		Concern:      req.Concern,
		InMyControl:  req.InMyControl,
		OutOfControl: req.OutOfControl,
		ActNow:       req.ActNow,
		LetGo:        req.LetGo,
		Reframe:      req.Reframe,
	}

	if err := h.matrixService.UpdateMatrix(r.Context(), matrix); err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, matrix)
}

func (h *DecisionMatrixHandler) DeleteMatrix(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid matrix ID", http.StatusBadRequest)
		return
	}

	if err := h.matrixService.DeleteMatrix(r.Context(), id, userID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
