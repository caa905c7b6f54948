package chat

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/pulsechat/pulse/internal/metrics"
	"github.com/pulsechat/pulse/internal/models"
)

// UnreadScope selects which connections get their unread counter bumped
// on a room send.
type UnreadScope string

const (
	// UnreadScopeAll counts every other registered connection regardless
	// of its current room. This is the default.
	UnreadScopeAll UnreadScope = "all"

	// UnreadScopeOutOfRoom counts only connections not currently in the
	// target room.
	UnreadScopeOutOfRoom UnreadScope = "out_of_room"
)

// Emitter delivers outbound events to a single connection. Implementations
// must not block: a slow client is the transport's problem, never the
// coordinator's.
type Emitter interface {
	Emit(ev models.Event)
}

// HistoryMirror receives a copy of each stored room message for
// out-of-process retention. Calls happen outside the coordinator lock.
type HistoryMirror interface {
	Mirror(ctx context.Context, msg models.Message) error
}

// Options configures a Coordinator.
type Options struct {
	Rooms       []string
	DefaultRoom string
	UnreadScope UnreadScope
	Logger      zerolog.Logger
	Mirror      HistoryMirror
}

// Coordinator owns all session state: connection presence, room
// membership, message history and typing indicators. Every mutation runs
// under a single mutex; outbound events are dispatched after the lock is
// released, against a target snapshot taken under it.
type Coordinator struct {
	mu       sync.Mutex
	registry *ConnectionRegistry
	rooms    *RoomIndex
	history  *MessageStore
	typing   *TypingTracker
	emitters map[string]Emitter

	roomList    []string
	defaultRoom string
	scope       UnreadScope
	mirror      HistoryMirror
	log         zerolog.Logger
}

// New creates a Coordinator for the given room set.
func New(opts Options) *Coordinator {
	scope := opts.UnreadScope
	if scope == "" {
		scope = UnreadScopeAll
	}
	return &Coordinator{
		registry:    NewConnectionRegistry(),
		rooms:       NewRoomIndex(opts.Rooms),
		history:     NewMessageStore(),
		typing:      NewTypingTracker(),
		emitters:    make(map[string]Emitter),
		roomList:    opts.Rooms,
		defaultRoom: opts.DefaultRoom,
		scope:       scope,
		mirror:      opts.Mirror,
		log:         opts.Logger,
	}
}

// emission pairs an outbound event with its target, collected under the
// lock and dispatched after it is released.
type emission struct {
	to Emitter
	ev models.Event
}

func dispatch(queue []emission) {
	for _, e := range queue {
		e.to.Emit(e.ev)
	}
}

// Connect registers a new transport connection with zeroed unread
// counters. A duplicate ID is ignored.
func (c *Coordinator) Connect(id string, em Emitter) {
	c.mu.Lock()
	ok := c.registry.Register(id, c.roomList)
	if ok {
		c.emitters[id] = em
	}
	c.mu.Unlock()

	if !ok {
		c.log.Warn().Str("conn", id).Msg("duplicate connection id ignored")
		return
	}
	metrics.ConnectionsActive.Inc()
	c.log.Info().Str("conn", id).Msg("connection established")
}

// Join sets the connection's display name and broadcasts the full presence
// list plus a user_joined notice to everyone. The connection has no room
// yet; sends fall back to the configured default room until it picks one.
func (c *Coordinator) Join(id, username string) {
	c.mu.Lock()
	if !c.registry.Has(id) {
		c.mu.Unlock()
		return
	}
	c.registry.SetName(id, username)
	presence := c.registry.SnapshotPresence()
	joined := models.Presence{ID: id, Username: username}

	var queue []emission
	for _, em := range c.snapshotEmitters() {
		queue = append(queue, emission{em, models.NewEvent(models.EventUserList, presence)})
		queue = append(queue, emission{em, models.NewEvent(models.EventUserJoined, joined)})
	}
	c.mu.Unlock()

	dispatch(queue)
	c.log.Info().Str("conn", id).Str("username", username).Msg("user joined")
}

// JoinRoom moves the connection into room, resets its unread counter for
// that room and pushes the updated counter map to it alone. History is not
// replayed; clients fetch pages over HTTP.
func (c *Coordinator) JoinRoom(id, room string) {
	if room == "" {
		return
	}
	c.mu.Lock()
	if !c.registry.Has(id) {
		c.mu.Unlock()
		return
	}
	prev, changed := c.rooms.Join(id, room)
	c.registry.ResetUnread(id, room)
	counts := c.registry.Unread(id)
	em := c.emitters[id]
	c.mu.Unlock()

	if em != nil {
		em.Emit(models.NewEvent(models.EventUnreadCounts, counts))
	}
	if changed {
		c.log.Info().Str("conn", id).Str("room", room).Str("prev", prev).Msg("room joined")
	}
}

// Send posts a message to a room (the default room when unspecified),
// broadcasts it to the room's members, bumps unread counters per the
// configured scope and finally acks the sender. Empty bodies are rejected
// before any state changes.
func (c *Coordinator) Send(id string, p models.SendMessagePayload) {
	if strings.TrimSpace(p.Message) == "" {
		c.reject(id, p.Ref, "empty message")
		return
	}

	room := p.Room
	if room == "" {
		room = c.defaultRoom
	}

	c.mu.Lock()
	if !c.registry.Has(id) {
		c.mu.Unlock()
		return
	}
	msg := models.Message{
		ID:        ulid.Make().String(),
		SenderID:  id,
		Sender:    c.senderName(id),
		Body:      p.Message,
		Timestamp: time.Now().UnixMilli(),
		Room:      room,
	}
	c.history.Append(room, msg)

	var queue []emission
	broadcast := models.NewEvent(models.EventReceiveMessage, msg)
	for _, member := range c.rooms.MembersOf(room) {
		if em := c.emitters[member]; em != nil {
			queue = append(queue, emission{em, broadcast})
		}
	}
	for _, other := range c.registry.IDs() {
		if other == id {
			continue
		}
		if c.scope == UnreadScopeOutOfRoom && c.rooms.RoomOf(other) == room {
			continue
		}
		c.registry.IncrementUnread(other, room)
		if em := c.emitters[other]; em != nil {
			queue = append(queue, emission{em, models.NewEvent(models.EventUnreadCounts, c.registry.Unread(other))})
		}
	}
	senderEm := c.emitters[id]
	c.mu.Unlock()

	c.mirrorMessage(msg)
	dispatch(queue)
	if senderEm != nil {
		senderEm.Emit(models.NewEvent(models.EventAck, models.Ack{
			Ref:       p.Ref,
			Status:    models.StatusDelivered,
			ID:        msg.ID,
			Timestamp: msg.Timestamp,
		}))
	}
	metrics.MessagesTotal.WithLabelValues("room").Inc()
}

// SendPrivate delivers a message directly to one connection and echoes it
// back to the sender. Private messages are never stored; delivery to a
// departed recipient silently drops, and the sender is still acked.
func (c *Coordinator) SendPrivate(id string, p models.PrivateMessagePayload) {
	if strings.TrimSpace(p.Message) == "" {
		c.reject(id, p.Ref, "empty message")
		return
	}
	if p.To == "" {
		c.reject(id, p.Ref, "missing recipient")
		return
	}

	c.mu.Lock()
	if !c.registry.Has(id) {
		c.mu.Unlock()
		return
	}
	msg := models.Message{
		ID:        ulid.Make().String(),
		SenderID:  id,
		Sender:    c.senderName(id),
		Body:      p.Message,
		Timestamp: time.Now().UnixMilli(),
		IsPrivate: true,
		To:        p.To,
	}
	target := c.emitters[p.To]
	senderEm := c.emitters[id]
	c.mu.Unlock()

	ev := models.NewEvent(models.EventPrivateMessage, msg)
	if target != nil {
		target.Emit(ev)
	} else {
		c.log.Debug().Str("conn", id).Str("to", p.To).Msg("private message dropped, recipient gone")
	}
	if senderEm != nil {
		senderEm.Emit(ev)
		senderEm.Emit(models.NewEvent(models.EventAck, models.Ack{
			Ref:       p.Ref,
			Status:    models.StatusDelivered,
			ID:        msg.ID,
			Timestamp: msg.Timestamp,
		}))
	}
	metrics.MessagesTotal.WithLabelValues("private").Inc()
}

// Typing toggles the connection's typing state and broadcasts the
// recomputed name list to every connection. Only named users count.
func (c *Coordinator) Typing(id string, isTyping bool) {
	c.mu.Lock()
	if !c.registry.Joined(id) {
		c.mu.Unlock()
		return
	}
	names := c.typing.SetTyping(id, isTyping, c.registry.Name(id))
	targets := c.snapshotEmitters()
	c.mu.Unlock()

	ev := models.NewEvent(models.EventTypingUsers, names)
	for _, em := range targets {
		em.Emit(ev)
	}
}

// Disconnect purges all state for the connection and broadcasts the
// updated presence and typing lists, plus a user_left notice when the
// connection had announced itself. Idempotent.
func (c *Coordinator) Disconnect(id string) {
	c.mu.Lock()
	if !c.registry.Has(id) {
		c.mu.Unlock()
		return
	}
	name := c.registry.Name(id)
	joined := c.registry.Joined(id)
	c.rooms.LeaveAll(id)
	typingNames := c.typing.Clear(id)
	c.registry.Remove(id)
	delete(c.emitters, id)
	presence := c.registry.SnapshotPresence()
	targets := c.snapshotEmitters()
	c.mu.Unlock()

	metrics.ConnectionsActive.Dec()

	var queue []emission
	for _, em := range targets {
		if joined {
			queue = append(queue, emission{em, models.NewEvent(models.EventUserLeft, models.Presence{ID: id, Username: name})})
		}
		queue = append(queue, emission{em, models.NewEvent(models.EventUserList, presence)})
		queue = append(queue, emission{em, models.NewEvent(models.EventTypingUsers, typingNames)})
	}
	dispatch(queue)
	c.log.Info().Str("conn", id).Str("username", name).Msg("connection closed")
}

// History returns one page of a room's history, paged per MessageStore.
func (c *Coordinator) History(room string, page, size int) []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Page(room, page, size)
}

// Presence returns the current presence snapshot.
func (c *Coordinator) Presence() []models.Presence {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.SnapshotPresence()
}

// DefaultRoom returns the room used when a send names none.
func (c *Coordinator) DefaultRoom() string {
	return c.defaultRoom
}

// RoomStats describes one room for the stats endpoint.
type RoomStats struct {
	Name     string `json:"name"`
	Members  int    `json:"members"`
	Messages int    `json:"messages"`
}

// Stats summarizes coordinator state.
type Stats struct {
	Connections int         `json:"connections"`
	Typing      int         `json:"typing"`
	Rooms       []RoomStats `json:"rooms"`
}

// Snapshot returns current stats, rooms sorted by name.
func (c *Coordinator) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := c.rooms.Rooms()
	sort.Strings(names)
	rooms := make([]RoomStats, 0, len(names))
	for _, name := range names {
		rooms = append(rooms, RoomStats{
			Name:     name,
			Members:  len(c.rooms.MembersOf(name)),
			Messages: c.history.Len(name),
		})
	}
	return Stats{
		Connections: len(c.registry.IDs()),
		Typing:      len(c.typing.Names()),
		Rooms:       rooms,
	}
}

// reject sends a failure ack to the actor without touching any state.
func (c *Coordinator) reject(id, ref, reason string) {
	c.mu.Lock()
	em := c.emitters[id]
	c.mu.Unlock()
	if em != nil {
		em.Emit(models.NewEvent(models.EventAck, models.Ack{
			Ref:    ref,
			Status: models.StatusRejected,
			Reason: reason,
		}))
	}
}

// senderName resolves the display name, falling back to Anonymous for
// connections that have not joined. Caller holds the lock.
func (c *Coordinator) senderName(id string) string {
	if name := c.registry.Name(id); name != "" {
		return name
	}
	return "Anonymous"
}

// snapshotEmitters copies the live emitter set. Caller holds the lock.
func (c *Coordinator) snapshotEmitters() []Emitter {
	all := make([]Emitter, 0, len(c.emitters))
	for _, id := range c.registry.IDs() {
		if em := c.emitters[id]; em != nil {
			all = append(all, em)
		}
	}
	return all
}

// mirrorMessage hands the message to the configured mirror, best effort.
func (c *Coordinator) mirrorMessage(msg models.Message) {
	if c.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.mirror.Mirror(ctx, msg); err != nil {
		c.log.Debug().Err(err).Str("room", msg.Room).Msg("history mirror write failed")
	}
}
