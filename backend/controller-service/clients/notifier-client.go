package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// EmitPayload mirrors the notifier's emit contract. UserOwnerID is the
// recipient; the notifier strips it before pushing to the client.
type EmitPayload struct {
	UserOwnerID    string                 `json:"user_owner_id"`
	NotificationID string                 `json:"notification_id"`
	Data           map[string]interface{} `json:"data"`
	Timestamp      string                 `json:"timestamp"`
}

// NotifierClient posts real-time events to the notifier service. Every call is
// best effort: the durable write has already committed when an emit happens, so
// callers log returned errors and move on, they never roll back or retry.
type NotifierClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Breaker    *gobreaker.CircuitBreaker
	Logger     *logrus.Logger
}

func NewNotifierClient(baseURL string, httpClient *http.Client, breaker *gobreaker.CircuitBreaker, logger *logrus.Logger) *NotifierClient {
	return &NotifierClient{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Breaker:    breaker,
		Logger:     logger,
	}
}

func (c *NotifierClient) EmitComment(payload EmitPayload) error {
	return c.emit("/emit/comment", payload)
}

func (c *NotifierClient) EmitReaction(payload EmitPayload) error {
	return c.emit("/emit/reaction", payload)
}

func (c *NotifierClient) EmitScan(payload EmitPayload) error {
	return c.emit("/emit/scan", payload)
}

func (c *NotifierClient) emit(endpoint string, payload EmitPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal emit payload: %v", err)
	}

	_, err = c.Breaker.Execute(func() (interface{}, error) {
		resp, err := c.HTTPClient.Post(c.BaseURL+endpoint, "application/json", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("notifier returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to emit to notifier %s: %v", endpoint, err)
	}
	return nil
}
