package chat

import "github.com/pulsechat/pulse/internal/models"

// ConnectionRegistry owns presence data and per-room unread counters for
// live connections. It is not safe for concurrent use; the Coordinator
// guards all access with its own lock.
type ConnectionRegistry struct {
	conns map[string]*connection
	order []string // registration order, drives presence snapshots
}

type connection struct {
	id     string
	name   string
	joined bool
	unread map[string]int
}

// NewConnectionRegistry creates an empty registry.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{conns: make(map[string]*connection)}
}

// Register creates state for a new connection with zeroed unread counters
// for every known room. Returns false if the ID is already registered.
func (r *ConnectionRegistry) Register(id string, rooms []string) bool {
	if _, ok := r.conns[id]; ok {
		return false
	}
	unread := make(map[string]int, len(rooms))
	for _, room := range rooms {
		unread[room] = 0
	}
	r.conns[id] = &connection{id: id, unread: unread}
	r.order = append(r.order, id)
	return true
}

// SetName sets the display name. No-op if the connection is already gone.
func (r *ConnectionRegistry) SetName(id, name string) {
	if c, ok := r.conns[id]; ok {
		c.name = name
		c.joined = true
	}
}

// Name returns the display name, or "" for unknown or unnamed connections.
func (r *ConnectionRegistry) Name(id string) string {
	if c, ok := r.conns[id]; ok {
		return c.name
	}
	return ""
}

// Joined reports whether the connection has announced itself via join.
func (r *ConnectionRegistry) Joined(id string) bool {
	c, ok := r.conns[id]
	return ok && c.joined
}

// Has reports whether the connection is registered.
func (r *ConnectionRegistry) Has(id string) bool {
	_, ok := r.conns[id]
	return ok
}

// IncrementUnread bumps the counter for room by one. Unknown connections
// are a no-op: the target may have disconnected mid-broadcast, which is
// expected, not an error.
func (r *ConnectionRegistry) IncrementUnread(id, room string) {
	if c, ok := r.conns[id]; ok {
		c.unread[room]++
	}
}

// ResetUnread zeroes the counter for room, used on room join.
func (r *ConnectionRegistry) ResetUnread(id, room string) {
	if c, ok := r.conns[id]; ok {
		c.unread[room] = 0
	}
}

// Unread returns a copy of the connection's unread counter map.
func (r *ConnectionRegistry) Unread(id string) map[string]int {
	c, ok := r.conns[id]
	if !ok {
		return nil
	}
	counts := make(map[string]int, len(c.unread))
	for room, n := range c.unread {
		counts[room] = n
	}
	return counts
}

// Remove deletes all state for the connection. Idempotent.
func (r *ConnectionRegistry) Remove(id string) {
	if _, ok := r.conns[id]; !ok {
		return
	}
	delete(r.conns, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// IDs returns all registered connection IDs in registration order.
func (r *ConnectionRegistry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// SnapshotPresence returns every registered connection's identity in
// registration order, for the user_list broadcast.
func (r *ConnectionRegistry) SnapshotPresence() []models.Presence {
	list := make([]models.Presence, 0, len(r.order))
	for _, id := range r.order {
		c := r.conns[id]
		list = append(list, models.Presence{ID: c.id, Username: c.name})
	}
	return list
}
