package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Mazart23/pet-book/backend/notifier-service/models"
	"github.com/Mazart23/pet-book/backend/notifier-service/services"
)

type EmitHandler struct {
	Hub *services.Hub
}

func NewEmitHandler(hub *services.Hub) *EmitHandler {
	return &EmitHandler{Hub: hub}
}

func (h *EmitHandler) EmitComment(w http.ResponseWriter, r *http.Request) {
	h.emit(w, r, "comment")
}

func (h *EmitHandler) EmitReaction(w http.ResponseWriter, r *http.Request) {
	h.emit(w, r, "reaction")
}

func (h *EmitHandler) EmitScan(w http.ResponseWriter, r *http.Request) {
	h.emit(w, r, "scan")
}

// emit pushes the event to the recipient if connected. An offline recipient is
// not an error: the response is 200 either way, the controller's durable
// notification record is what offline clients catch up from.
func (h *EmitHandler) emit(w http.ResponseWriter, r *http.Request, eventType string) {
	var req models.EmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request data", http.StatusBadRequest)
		return
	}
	if req.UserOwnerID == "" {
		http.Error(w, "user_owner_id is required", http.StatusBadRequest)
		return
	}

	data := make(map[string]interface{}, len(req.Data)+2)
	for k, v := range req.Data {
		data[k] = v
	}
	data["notification_id"] = req.NotificationID
	data["timestamp"] = req.Timestamp

	h.Hub.Emit(eventType, req.UserOwnerID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("{}"))
}
