package services

import "sync"

// ConnectionRegistry is the single source of truth for whether a user currently
// holds a live websocket connection. It keeps one boolean per user id: multiple
// simultaneous connections from the same user collapse to a single entry.
// Entries are flipped to false on disconnect but never removed, so the map grows
// with the number of distinct users ever connected.
type ConnectionRegistry struct {
	mu        sync.Mutex
	connected map[string]bool
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		connected: make(map[string]bool),
	}
}

// SetConnected marks the user as reachable. Idempotent.
func (r *ConnectionRegistry) SetConnected(userID string) {
	r.mu.Lock()
	r.connected[userID] = true
	r.mu.Unlock()
}

// SetDisconnected marks the user as unreachable. Safe to call for users that
// were never registered.
func (r *ConnectionRegistry) SetDisconnected(userID string) {
	r.mu.Lock()
	r.connected[userID] = false
	r.mu.Unlock()
}

// IsConnected reports current liveness. Unknown users are not connected.
func (r *ConnectionRegistry) IsConnected(userID string) bool {
	r.mu.Lock()
	result := r.connected[userID]
	r.mu.Unlock()
	return result
}
