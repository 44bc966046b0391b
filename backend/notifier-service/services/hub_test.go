package services

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mazart23/pet-book/backend/notifier-service/models"
	"github.com/Mazart23/pet-book/backend/utils"
)

func newTestHub(t *testing.T) (*Hub, *ConnectionRegistry, *httptest.Server) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	registry := NewConnectionRegistry()
	hub := NewHub(registry, "", logger)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleConnect))
	t.Cleanup(srv.Close)

	return hub, registry, srv
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func validToken(t *testing.T, userID string) string {
	t.Helper()

	token, err := utils.GenerateToken(userID, "user-"+userID)
	require.NoError(t, err)
	return token
}

func expiredToken(t *testing.T, userID string) string {
	t.Helper()

	claims := &utils.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("JWT_SECRET")))
	require.NoError(t, err)
	return signed
}

func readMessage(t *testing.T, conn *websocket.Conn) models.Message {
	t.Helper()

	var msg models.Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHubConnectMarksUserConnected(t *testing.T) {
	_, registry, srv := newTestHub(t)

	dial(t, srv, validToken(t, "u1"))

	require.Eventually(t, func() bool {
		return registry.IsConnected("u1")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHubDisconnectMarksUserDisconnected(t *testing.T) {
	_, registry, srv := newTestHub(t)

	conn := dial(t, srv, validToken(t, "u1"))
	require.Eventually(t, func() bool {
		return registry.IsConnected("u1")
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool {
		return !registry.IsConnected("u1")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHubRejectsMissingToken(t *testing.T) {
	_, registry, srv := newTestHub(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, registry.IsConnected(""))
}

func TestHubRejectsMalformedToken(t *testing.T) {
	_, registry, srv := newTestHub(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=not-a-token"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, registry.IsConnected("u1"))
}

func TestHubRejectsExpiredToken(t *testing.T) {
	_, registry, srv := newTestHub(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + expiredToken(t, "u1")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, registry.IsConnected("u1"))
}

func TestEmitOfflineUserIsNoOp(t *testing.T) {
	hub, _, _ := newTestHub(t)

	delivered := hub.Emit("comment", "offline-user", map[string]interface{}{"content": "hi"})
	assert.Equal(t, 0, delivered)
}

func TestEmitOnlineUserDeliversOnEventChannel(t *testing.T) {
	hub, registry, srv := newTestHub(t)

	conn := dial(t, srv, validToken(t, "u1"))
	require.Eventually(t, func() bool {
		return registry.IsConnected("u1")
	}, 2*time.Second, 10*time.Millisecond)

	delivered := hub.Emit("comment", "u1", map[string]interface{}{
		"content":         "nice dog",
		"notification_id": "n1",
	})
	assert.Equal(t, 1, delivered)

	msg := readMessage(t, conn)
	assert.Equal(t, "notification_comment", msg.Event)
	assert.Equal(t, "nice dog", msg.Data["content"])
	assert.Equal(t, "n1", msg.Data["notification_id"])
}

func TestEmitFansOutToAllConnectionsOfUser(t *testing.T) {
	hub, registry, srv := newTestHub(t)

	first := dial(t, srv, validToken(t, "u1"))
	second := dial(t, srv, validToken(t, "u1"))
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.rooms["u1"]) == 2
	}, 2*time.Second, 10*time.Millisecond)
	require.True(t, registry.IsConnected("u1"))

	delivered := hub.Emit("reaction", "u1", map[string]interface{}{"reaction_type": "likes"})
	assert.Equal(t, 2, delivered)

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readMessage(t, conn)
		assert.Equal(t, "notification_reaction", msg.Event)
		assert.Equal(t, "likes", msg.Data["reaction_type"])
	}
}

func TestEmitDoesNotCrossUsers(t *testing.T) {
	hub, registry, srv := newTestHub(t)

	conn := dial(t, srv, validToken(t, "u1"))
	require.Eventually(t, func() bool {
		return registry.IsConnected("u1")
	}, 2*time.Second, 10*time.Millisecond)

	delivered := hub.Emit("comment", "u2", map[string]interface{}{"content": "for u2"})
	assert.Equal(t, 0, delivered)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var msg models.Message
	assert.Error(t, conn.ReadJSON(&msg), "u1 must not receive u2's event")
}

// Full lifecycle from the emit side: connect, drop, silent no-op while offline,
// reconnect, exactly one push on the comment channel.
func TestConnectDropReconnectScenario(t *testing.T) {
	hub, registry, srv := newTestHub(t)

	conn := dial(t, srv, validToken(t, "u1"))
	require.Eventually(t, func() bool {
		return registry.IsConnected("u1")
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool {
		return !registry.IsConnected("u1")
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 0, hub.Emit("comment", "u1", map[string]interface{}{"content": "missed"}))

	reconn := dial(t, srv, validToken(t, "u1"))
	require.Eventually(t, func() bool {
		return registry.IsConnected("u1")
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, hub.Emit("comment", "u1", map[string]interface{}{"content": "delivered"}))

	msg := readMessage(t, reconn)
	assert.Equal(t, "notification_comment", msg.Event)
	assert.Equal(t, "delivered", msg.Data["content"])
}
