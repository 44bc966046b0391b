package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mazart23/pet-book/backend/redirecter-service/clients"
	"github.com/Mazart23/pet-book/backend/redirecter-service/services"
)

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newNotifyHandler(t *testing.T, nominatimURL, ipAPIURL, controllerURL string) *PetBookHandler {
	t.Helper()

	httpClient := &http.Client{Timeout: time.Second}
	geo := services.NewGeoService(httpClient, nominatimURL, ipAPIURL, discardLogger())

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test-controller-cb"})
	controller := clients.NewControllerClient(controllerURL, httpClient, breaker, discardLogger())

	return NewPetBookHandler(nil, geo, controller, "http://localhost:5002/pet-book/notify", "http://localhost:3000", discardLogger())
}

func TestNotifyWithBrowserCoordinatesReportsReverseGeocodedScan(t *testing.T) {
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{"city":"Warszawa"}}`))
	}))
	defer nominatim.Close()

	var gotScan clients.ScanPayload
	controller := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/qr/scan", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotScan))
		w.WriteHeader(http.StatusOK)
	}))
	defer controller.Close()

	h := newNotifyHandler(t, nominatim.URL, "", controller.URL)

	body := `{"user_id":"671f880f5bf26ed4c9f540fd","remote_addr":"1.2.3.4","is_location_passed":true,"latitude":52.23,"longitude":21.01}`
	req := httptest.NewRequest(http.MethodPost, "/pet-book/notify", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Notify(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "671f880f5bf26ed4c9f540fd", gotScan.UserID)
	assert.Equal(t, "1.2.3.4", gotScan.Guest.IP)
	assert.Equal(t, "Warszawa", gotScan.Guest.City)
	assert.Equal(t, "52.23", gotScan.Guest.Latitude)
	assert.Equal(t, "21.01", gotScan.Guest.Longitude)
}

func TestNotifyWithoutCoordinatesFallsBackToIPLookup(t *testing.T) {
	ipAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","city":"Krakow","lat":50.06,"lon":19.94}`))
	}))
	defer ipAPI.Close()

	var gotScan clients.ScanPayload
	controller := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotScan))
		w.WriteHeader(http.StatusOK)
	}))
	defer controller.Close()

	h := newNotifyHandler(t, "", ipAPI.URL, controller.URL)

	body := `{"user_id":"671f880f5bf26ed4c9f540fd","remote_addr":"1.2.3.4","is_location_passed":false}`
	req := httptest.NewRequest(http.MethodPost, "/pet-book/notify", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Notify(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Krakow", gotScan.Guest.City)
	assert.Equal(t, "50.06", gotScan.Guest.Latitude)
	assert.Equal(t, "19.94", gotScan.Guest.Longitude)
}

// A failed geocode lookup must not fail the scan, only a controller failure does.
func TestNotifyStillReportsScanWhenGeocodeFails(t *testing.T) {
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer nominatim.Close()

	var gotScan clients.ScanPayload
	controller := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotScan))
		w.WriteHeader(http.StatusOK)
	}))
	defer controller.Close()

	h := newNotifyHandler(t, nominatim.URL, "", controller.URL)

	body := `{"user_id":"671f880f5bf26ed4c9f540fd","remote_addr":"1.2.3.4","is_location_passed":true,"latitude":52.23,"longitude":21.01}`
	req := httptest.NewRequest(http.MethodPost, "/pet-book/notify", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Notify(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "", gotScan.Guest.City)
	assert.Equal(t, "52.23", gotScan.Guest.Latitude)
}

func TestNotifyReturns500WhenControllerFails(t *testing.T) {
	ipAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail"}`))
	}))
	defer ipAPI.Close()

	controller := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer controller.Close()

	h := newNotifyHandler(t, "", ipAPI.URL, controller.URL)

	body := `{"user_id":"671f880f5bf26ed4c9f540fd","remote_addr":"1.2.3.4","is_location_passed":false}`
	req := httptest.NewRequest(http.MethodPost, "/pet-book/notify", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Notify(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestNotifyRejectsMissingUserID(t *testing.T) {
	h := newNotifyHandler(t, "", "", "")

	req := httptest.NewRequest(http.MethodPost, "/pet-book/notify", strings.NewReader(`{"remote_addr":"1.2.3.4"}`))
	rr := httptest.NewRecorder()
	h.Notify(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
