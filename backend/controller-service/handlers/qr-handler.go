package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Mazart23/pet-book/backend/controller-service/clients"
	"github.com/Mazart23/pet-book/backend/controller-service/services"
)

// QRHandler records QR-code scans reported by the redirecter. The scan is
// durably stored first; the real-time emit afterwards is best effort and never
// fails the request.
type QRHandler struct {
	NotificationService *services.NotificationService
	Notifier            *clients.NotifierClient
	Logger              *logrus.Logger
}

func NewQRHandler(notificationService *services.NotificationService, notifier *clients.NotifierClient, logger *logrus.Logger) *QRHandler {
	return &QRHandler{
		NotificationService: notificationService,
		Notifier:            notifier,
		Logger:              logger,
	}
}

type guestData struct {
	IP        string `json:"ip"`
	City      string `json:"city"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type scanRequest struct {
	UserID string    `json:"user_id"`
	Guest  guestData `json:"guest"`
}

func (h *QRHandler) RecordScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request data", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)

	notificationID, err := h.NotificationService.InsertScan(
		req.UserID, req.Guest.IP, req.Guest.City, req.Guest.Latitude, req.Guest.Longitude, timestamp,
	)
	if err != nil {
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}

	payload := clients.EmitPayload{
		UserOwnerID:    req.UserID,
		NotificationID: notificationID.Hex(),
		Data: map[string]interface{}{
			"ip":        req.Guest.IP,
			"city":      req.Guest.City,
			"latitude":  req.Guest.Latitude,
			"longitude": req.Guest.Longitude,
		},
		Timestamp: timestamp,
	}
	if err := h.Notifier.EmitScan(payload); err != nil {
		h.Logger.Warnf("Best-effort emit failed for scan of user %s: %v", req.UserID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("{}"))
}
