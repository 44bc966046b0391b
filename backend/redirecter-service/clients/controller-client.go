package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ScanPayload is the body posted to the controller's /qr/scan endpoint.
type ScanPayload struct {
	UserID string    `json:"user_id"`
	Guest  GuestData `json:"guest"`
}

type GuestData struct {
	IP        string `json:"ip"`
	City      string `json:"city"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// ControllerClient reports QR scans to the controller service. Unlike the emit
// path, this call is load-bearing: the controller owns the durable scan record,
// so errors propagate to the caller.
type ControllerClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Breaker    *gobreaker.CircuitBreaker
	Logger     *logrus.Logger
}

func NewControllerClient(baseURL string, httpClient *http.Client, breaker *gobreaker.CircuitBreaker, logger *logrus.Logger) *ControllerClient {
	return &ControllerClient{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Breaker:    breaker,
		Logger:     logger,
	}
}

func (c *ControllerClient) ReportScan(payload ScanPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal scan payload: %v", err)
	}

	_, err = c.Breaker.Execute(func() (interface{}, error) {
		resp, err := c.HTTPClient.Post(c.BaseURL+"/qr/scan", "application/json", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("controller returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to report scan to controller: %v", err)
	}
	return nil
}
