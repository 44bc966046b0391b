package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Mazart23/pet-book/backend/controller-service/middleware"
	"github.com/Mazart23/pet-book/backend/controller-service/services"
)

type ReactionHandler struct {
	ReactionService *services.ReactionService
}

func NewReactionHandler(reactionService *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{ReactionService: reactionService}
}

type setReactionRequest struct {
	PostID       string `json:"post_id"`
	ReactionType string `json:"reaction_type"`
}

func (h *ReactionHandler) SetReaction(w http.ResponseWriter, r *http.Request) {
	var req setReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request data", http.StatusBadRequest)
		return
	}
	if req.PostID == "" || req.ReactionType == "" {
		http.Error(w, "post_id and reaction_type are required", http.StatusBadRequest)
		return
	}

	if err := h.ReactionService.SetReaction(req.PostID, middleware.GetUserID(r), middleware.GetUsername(r), req.ReactionType); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type removeReactionRequest struct {
	PostID string `json:"post_id"`
}

func (h *ReactionHandler) RemoveReaction(w http.ResponseWriter, r *http.Request) {
	var req removeReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request data", http.StatusBadRequest)
		return
	}
	if req.PostID == "" {
		http.Error(w, "post_id is required", http.StatusBadRequest)
		return
	}

	if err := h.ReactionService.RemoveReaction(req.PostID, middleware.GetUserID(r)); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}
