package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Mazart23/pet-book/backend/controller-service/middleware"
	"github.com/Mazart23/pet-book/backend/controller-service/services"
)

type CommentHandler struct {
	CommentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{CommentService: commentService}
}

type createCommentRequest struct {
	PostID  string `json:"post_id"`
	Content string `json:"content"`
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request data", http.StatusBadRequest)
		return
	}
	if req.PostID == "" || req.Content == "" {
		http.Error(w, "post_id and content are required", http.StatusBadRequest)
		return
	}

	comment, err := h.CommentService.AddComment(req.PostID, middleware.GetUserID(r), middleware.GetUsername(r), req.Content)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

func (h *CommentHandler) FetchComments(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("post_id")
	if postID == "" {
		http.Error(w, "post_id is required", http.StatusBadRequest)
		return
	}

	comments, err := h.CommentService.FetchComments(postID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comments)
}

type deleteCommentRequest struct {
	PostID    string `json:"post_id"`
	CommentID string `json:"comment_id"`
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	var req deleteCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request data", http.StatusBadRequest)
		return
	}
	if req.PostID == "" || req.CommentID == "" {
		http.Error(w, "post_id and comment_id are required", http.StatusBadRequest)
		return
	}

	if err := h.CommentService.DeleteComment(req.PostID, req.CommentID, middleware.GetUserID(r)); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}
