package services

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Mazart23/pet-book/backend/notifier-service/models"
	"github.com/Mazart23/pet-book/backend/utils"
)

// client wraps one websocket connection. Writes are serialized because emits
// for the same user can arrive concurrently from the controller.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub terminates websocket connections, authenticates each handshake and
// delivers targeted events. Fan-out to a user goes through a per-user room so
// that one user can hold several simultaneous connections while the registry
// keeps a single boolean. The rooms map has its own lock, independent of the
// registry's; neither lock is ever held across a transport write.
type Hub struct {
	registry      *ConnectionRegistry
	upgrader      websocket.Upgrader
	mu            sync.Mutex
	rooms         map[string]map[*client]bool
	logger        *logrus.Logger
	allowedOrigin string
}

func NewHub(registry *ConnectionRegistry, allowedOrigin string, logger *logrus.Logger) *Hub {
	h := &Hub{
		registry:      registry,
		rooms:         make(map[string]map[*client]bool),
		logger:        logger,
		allowedOrigin: allowedOrigin,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if h.allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == h.allowedOrigin
		},
	}
	return h
}

// HandleConnect upgrades an HTTP request to a websocket and manages its
// lifecycle. The bearer credential travels in the `token` query parameter
// because browsers cannot set custom headers on a websocket handshake. An
// invalid, missing or expired token rejects the handshake before the upgrade
// and before any registry mutation.
func (h *Hub) HandleConnect(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.ValidateToken(r.URL.Query().Get("token"))
	if err != nil {
		h.logger.Warnf("Rejected websocket handshake: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID := claims.Subject

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorf("Failed to upgrade connection for user %s: %v", userID, err)
		return
	}

	c := &client{conn: conn}
	h.add(userID, c)
	h.logger.Infof("User %s connected", userID)

	// Read loop only detects the client going away, inbound frames are ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(userID, c)
	conn.Close()
	h.logger.Infof("User %s disconnected", userID)
}

// Emit pushes the payload to every live connection of the recipient, tagged
// with the notification_<eventType> channel. An offline recipient is a silent
// no-op: durable storage in the controller is the catch-up mechanism, the hub
// is only a best-effort, at-most-once push for online users. Returns the
// number of connections written to.
func (h *Hub) Emit(eventType, userID string, data map[string]interface{}) int {
	if !h.registry.IsConnected(userID) {
		return 0
	}

	h.mu.Lock()
	conns := make([]*client, 0, len(h.rooms[userID]))
	for c := range h.rooms[userID] {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	msg := models.Message{
		Event: "notification_" + eventType,
		Data:  data,
	}

	delivered := 0
	for _, c := range conns {
		if err := c.writeJSON(msg); err != nil {
			// A failed write means the peer is gone, correct the registry now
			// instead of waiting for the read loop to notice.
			h.logger.Warnf("Failed to push to user %s, dropping connection: %v", userID, err)
			c.conn.Close()
			h.remove(userID, c)
			continue
		}
		delivered++
	}
	return delivered
}

func (h *Hub) add(userID string, c *client) {
	h.mu.Lock()
	room := h.rooms[userID]
	if room == nil {
		room = make(map[*client]bool)
		h.rooms[userID] = room
	}
	room[c] = true
	h.mu.Unlock()

	h.registry.SetConnected(userID)
}

// remove drops one connection from the user's room. The registry flips to
// disconnected on every close; a surviving connection of the same user flips it
// back only at its next handshake.
func (h *Hub) remove(userID string, c *client) {
	h.mu.Lock()
	if room, ok := h.rooms[userID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, userID)
		}
	}
	h.mu.Unlock()

	h.registry.SetDisconnected(userID)
}
