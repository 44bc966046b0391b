package handlers

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Mazart23/pet-book/backend/redirecter-service/clients"
	"github.com/Mazart23/pet-book/backend/redirecter-service/services"
)

//go:embed templates
var templatesFS embed.FS

var locationAskTemplate = template.Must(template.ParseFS(templatesFS, "templates/location_ask.html"))

// PetBookHandler serves the QR landing flow: the landing page asks the guest's
// browser for geolocation, the browser posts the outcome back to /pet-book/notify
// and is then redirected to the scanned user's profile.
type PetBookHandler struct {
	UserService      *services.UserService
	GeoService       *services.GeoService
	ControllerClient *clients.ControllerClient
	NotifyURL        string
	ClientURL        string
	Logger           *logrus.Logger
}

func NewPetBookHandler(userService *services.UserService, geoService *services.GeoService, controllerClient *clients.ControllerClient, notifyURL, clientURL string, logger *logrus.Logger) *PetBookHandler {
	return &PetBookHandler{
		UserService:      userService,
		GeoService:       geoService,
		ControllerClient: controllerClient,
		NotifyURL:        notifyURL,
		ClientURL:        clientURL,
		Logger:           logger,
	}
}

type landingPageData struct {
	UserID      string
	Username    string
	RemoteAddr  string
	NotifyURL   string
	RedirectURL string
}

// AccessPoint renders the landing page for a scanned QR code.
func (h *PetBookHandler) AccessPoint(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("id")
	if userID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	username, err := h.UserService.GetUsername(userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	data := landingPageData{
		UserID:      userID,
		Username:    username,
		RemoteAddr:  remoteAddr(r),
		NotifyURL:   h.NotifyURL,
		RedirectURL: fmt.Sprintf("%s/profile/%s", h.ClientURL, username),
	}

	w.Header().Set("Content-Type", "text/html")
	if err := locationAskTemplate.Execute(w, data); err != nil {
		h.Logger.Errorf("Error rendering landing page: %v", err)
	}
}

type notifyRequest struct {
	UserID           string  `json:"user_id"`
	RemoteAddr       string  `json:"remote_addr"`
	IsLocationPassed bool    `json:"is_location_passed"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

// Notify resolves the guest's location and reports the scan to the controller.
// Geolocation failures degrade to empty fields; a controller failure is a real
// error because the durable scan record would be lost.
func (h *PetBookHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request data", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	var latitude, longitude, city string
	if req.IsLocationPassed {
		latitude = fmt.Sprintf("%g", req.Latitude)
		longitude = fmt.Sprintf("%g", req.Longitude)
		city = h.GeoService.ReverseGeocode(latitude, longitude)
	} else {
		latitude, longitude, city = h.GeoService.LocateIP(req.RemoteAddr)
	}

	payload := clients.ScanPayload{
		UserID: req.UserID,
		Guest: clients.GuestData{
			IP:        req.RemoteAddr,
			City:      city,
			Latitude:  latitude,
			Longitude: longitude,
		},
	}
	if err := h.ControllerClient.ReportScan(payload); err != nil {
		h.Logger.Errorf("Error sending qr scan info: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("{}"))
}

func remoteAddr(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
