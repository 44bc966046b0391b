package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/Mazart23/pet-book/backend/notifier-service/services"
)

func newTestHandler() *EmitHandler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	registry := services.NewConnectionRegistry()
	return NewEmitHandler(services.NewHub(registry, "", logger))
}

func postEmit(handler func(http.ResponseWriter, *http.Request), body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/emit/comment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestEmitRejectsMalformedJSON(t *testing.T) {
	h := newTestHandler()

	rr := postEmit(h.EmitComment, "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEmitRejectsMissingRecipient(t *testing.T) {
	h := newTestHandler()

	rr := postEmit(h.EmitComment, `{"notification_id":"n1","data":{"content":"hi"},"timestamp":"2024-01-01T00:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// Offline recipients are a defined no-op, not an error.
func TestEmitOfflineRecipientReturnsOK(t *testing.T) {
	h := newTestHandler()

	body := `{"user_owner_id":"u1","notification_id":"n1","data":{"content":"hi"},"timestamp":"2024-01-01T00:00:00Z"}`
	for _, handler := range []func(http.ResponseWriter, *http.Request){h.EmitComment, h.EmitReaction, h.EmitScan} {
		rr := postEmit(handler, body)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "{}", rr.Body.String())
	}
}
