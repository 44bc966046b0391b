package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Mazart23/pet-book/backend/controller-service/middleware"
	"github.com/Mazart23/pet-book/backend/controller-service/services"
)

type NotificationHandler struct {
	NotificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{NotificationService: notificationService}
}

// FetchNotifications returns the caller's newest non-dismissed notifications.
// quantity is required and must be a positive integer.
func (h *NotificationHandler) FetchNotifications(w http.ResponseWriter, r *http.Request) {
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil || quantity <= 0 {
		http.Error(w, "Quantity is required and must be a positive integer", http.StatusBadRequest)
		return
	}

	notifications, err := h.NotificationService.Fetch(middleware.GetUserID(r), quantity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

type dismissNotificationRequest struct {
	NotificationID string `json:"notification_id"`
}

// DismissNotification soft-deletes one of the caller's notifications.
func (h *NotificationHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	var req dismissNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request data", http.StatusBadRequest)
		return
	}
	if req.NotificationID == "" {
		http.Error(w, "notification_id is required", http.StatusBadRequest)
		return
	}

	if err := h.NotificationService.Dismiss(middleware.GetUserID(r), req.NotificationID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}
