package chat

// TypingTracker holds the ephemeral set of currently-typing connections.
// The name list keeps insertion order, stable within a process run. Not
// safe for concurrent use on its own.
type TypingTracker struct {
	order []string
	names map[string]string
}

// NewTypingTracker creates an empty tracker.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{names: make(map[string]string)}
}

// SetTyping adds or removes the connection from the typing set and returns
// the current list of typing display names for broadcast.
func (t *TypingTracker) SetTyping(id string, isTyping bool, name string) []string {
	if isTyping {
		if _, ok := t.names[id]; !ok {
			t.order = append(t.order, id)
		}
		t.names[id] = name
	} else {
		t.remove(id)
	}
	return t.Names()
}

// Clear removes the connection on disconnect and returns the updated list.
func (t *TypingTracker) Clear(id string) []string {
	t.remove(id)
	return t.Names()
}

// Names returns the display names of currently-typing users in insertion
// order.
func (t *TypingTracker) Names() []string {
	names := make([]string, 0, len(t.order))
	for _, id := range t.order {
		names = append(names, t.names[id])
	}
	return names
}

func (t *TypingTracker) remove(id string) {
	if _, ok := t.names[id]; !ok {
		return
	}
	delete(t.names, id)
	for i, other := range t.order {
		if other == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}
