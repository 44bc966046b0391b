package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Mazart23/pet-book/backend/controller-service/middleware"
	"github.com/Mazart23/pet-book/backend/controller-service/services"
)

type PostHandler struct {
	PostService *services.PostService
}

func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{PostService: postService}
}

type createPostRequest struct {
	Description string   `json:"description"`
	ImagesURLs  []string `json:"images_urls"`
	Location    string   `json:"location"`
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request data", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.CreatePost(middleware.GetUserID(r), req.Description, req.ImagesURLs, req.Location)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

// FetchPosts returns a page of posts, newest first. user_id narrows the feed to
// one author; id returns that single post instead of a page.
func (h *PostHandler) FetchPosts(w http.ResponseWriter, r *http.Request) {
	if postID := r.URL.Query().Get("id"); postID != "" {
		post, err := h.PostService.GetPost(postID)
		if err != nil {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(post)
		return
	}

	userID := r.URL.Query().Get("user_id")

	skip, _ := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64)
	limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 10
	}

	posts, err := h.PostService.FetchPosts(userID, skip, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(posts)
}

type modifyPostRequest struct {
	PostID      string   `json:"post_id"`
	Description *string  `json:"description"`
	ImagesURLs  []string `json:"images_urls"`
}

func (h *PostHandler) ModifyPost(w http.ResponseWriter, r *http.Request) {
	var req modifyPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request data", http.StatusBadRequest)
		return
	}
	if req.PostID == "" {
		http.Error(w, "post_id is required", http.StatusBadRequest)
		return
	}

	if err := h.PostService.ModifyPost(req.PostID, middleware.GetUserID(r), req.Description, req.ImagesURLs); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type deletePostRequest struct {
	PostID string `json:"post_id"`
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	var req deletePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request data", http.StatusBadRequest)
		return
	}
	if req.PostID == "" {
		http.Error(w, "post_id is required", http.StatusBadRequest)
		return
	}

	if err := h.PostService.DeletePost(req.PostID, middleware.GetUserID(r)); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}
