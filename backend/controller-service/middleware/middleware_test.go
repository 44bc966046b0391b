package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mazart23/pet-book/backend/utils"
)

func protectedEcho(t *testing.T) (http.Handler, *string, *string) {
	var gotUserID, gotUsername string
	handler := JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r)
		gotUsername = GetUsername(r)
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &gotUserID, &gotUsername
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	handler, _, _ := protectedEcho(t)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	handler, _, _ := protectedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMiddlewarePassesSubjectToHandler(t *testing.T) {
	handler, gotUserID, gotUsername := protectedEcho(t)

	token, err := utils.GenerateToken("671f880f5bf26ed4c9f540fd", "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "671f880f5bf26ed4c9f540fd", *gotUserID)
	assert.Equal(t, "alice", *gotUsername)
}
