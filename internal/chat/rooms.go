package chat

// RoomIndex tracks which connections belong to which room. A connection
// occupies at most one room at a time; joining a new room implicitly
// leaves the previous one. Not safe for concurrent use on its own.
type RoomIndex struct {
	members map[string]map[string]struct{}
	current map[string]string
}

// NewRoomIndex creates an index seeded with the given rooms. Further rooms
// are created lazily on first join.
func NewRoomIndex(rooms []string) *RoomIndex {
	idx := &RoomIndex{
		members: make(map[string]map[string]struct{}, len(rooms)),
		current: make(map[string]string),
	}
	for _, room := range rooms {
		idx.members[room] = make(map[string]struct{})
	}
	return idx
}

// Join moves the connection into room, leaving its previous room if any.
// Returns the previous room ("" if none) and whether membership changed;
// joining the room it is already in is a no-op.
func (idx *RoomIndex) Join(id, room string) (prev string, changed bool) {
	prev = idx.current[id]
	if prev == room {
		return prev, false
	}
	if prev != "" {
		delete(idx.members[prev], id)
	}
	if idx.members[room] == nil {
		idx.members[room] = make(map[string]struct{})
	}
	idx.members[room][id] = struct{}{}
	idx.current[id] = room
	return prev, true
}

// LeaveAll removes the connection from whichever room it occupies and
// returns that room ("" if none). Used on disconnect.
func (idx *RoomIndex) LeaveAll(id string) string {
	room := idx.current[id]
	if room != "" {
		delete(idx.members[room], id)
		delete(idx.current, id)
	}
	return room
}

// RoomOf returns the connection's current room, or "".
func (idx *RoomIndex) RoomOf(id string) string {
	return idx.current[id]
}

// MembersOf returns the current member IDs of room.
func (idx *RoomIndex) MembersOf(room string) []string {
	set := idx.members[room]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// Rooms returns the names of all rooms seen so far.
func (idx *RoomIndex) Rooms() []string {
	names := make([]string, 0, len(idx.members))
	for name := range idx.members {
		names = append(names, name)
	}
	return names
}
