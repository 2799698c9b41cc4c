package chat

import (
	"iter"
	"sync"
)

// RoomRegistry maps RoomIDs to Rooms for the lifetime of a session.
// Rooms are inserted by initialization events and never deleted;
// enumeration follows insertion order, which is also the partner-list
// display order.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[RoomID]*Room
	order []RoomID
}

// NewRoomRegistry returns an empty registry.
func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[RoomID]*Room)}
}

// UpsertFromInitialization inserts a room announced by an
// initialization event. Deliveries are idempotent per RoomID: a repeat
// returns the existing room untouched rather than duplicating it.
func (r *RoomRegistry) UpsertFromInitialization(id RoomID, displayName string, msgs []Message) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[id]; ok {
		return room
	}
	room := &Room{
		ID:          id,
		DisplayName: displayName,
		Title:       "Conversation with " + displayName,
		Store:       NewMessageStore(),
	}
	room.Store.ReplaceAll(msgs)
	r.rooms[id] = room
	r.order = append(r.order, id)
	return room
}

// ReplaceMessages swaps the full message history of a known room.
// Unknown rooms are a no-op; the false return is informational only.
func (r *RoomRegistry) ReplaceMessages(id RoomID, msgs []Message) bool {
	r.mu.RLock()
	room, ok := r.rooms[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	room.Store.ReplaceAll(msgs)
	return true
}

// AppendMessage appends one message to a known room. Unknown rooms are
// a no-op.
func (r *RoomRegistry) AppendMessage(id RoomID, m Message) bool {
	r.mu.RLock()
	room, ok := r.rooms[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	room.Store.Append(m)
	return true
}

// Get looks up a room by id.
func (r *RoomRegistry) Get(id RoomID) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	return room, ok
}

// Len reports how many rooms are known.
func (r *RoomRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Rooms returns a snapshot of all rooms in insertion order.
func (r *RoomRegistry) Rooms() []*Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Room, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rooms[id])
	}
	return out
}

// All yields rooms in insertion order. The sequence is restartable:
// each range starts again from the first room.
func (r *RoomRegistry) All() iter.Seq[*Room] {
	return func(yield func(*Room) bool) {
		for _, room := range r.Rooms() {
			if !yield(room) {
				return
			}
		}
	}
}
