package chat

import "sync"

// SubscribeEmitter is the slice of the session the controller needs:
// sending one combined subscribe handshake. NoRoom on either side maps
// to the wire's null sentinel.
type SubscribeEmitter interface {
	EmitSubscribe(to, from RoomID)
}

// ActiveRoomController enforces the "at most one active room"
// invariant. It is a two-state machine, Idle or Active(room), living
// for the session's duration; every transition emits exactly one
// subscribe handshake so the server can move its push target
// atomically.
type ActiveRoomController struct {
	mu       sync.Mutex
	registry *RoomRegistry
	emitter  SubscribeEmitter
	active   RoomID // NoRoom when idle
}

// NewActiveRoomController returns the controller in the Idle state.
func NewActiveRoomController(registry *RoomRegistry, emitter SubscribeEmitter) *ActiveRoomController {
	return &ActiveRoomController{registry: registry, emitter: emitter}
}

// Select handles the user picking room id in the partner list.
//
//	Idle        -> Active(id)  emits subscribe(id, null)
//	Active(a)   -> Active(id)  emits subscribe(id, a)      when id != a
//	Active(id)  -> Idle        emits subscribe(null, id)   toggle-close
//
// Selecting the already-active room always means close, never a
// redundant re-subscribe. Selecting a room the registry does not know
// is ignored.
func (c *ActiveRoomController) Select(id RoomID) {
	if _, ok := c.registry.Get(id); !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == c.active {
		c.active = NoRoom
		c.emitter.EmitSubscribe(NoRoom, id)
		return
	}
	from := c.active
	c.active = id
	c.emitter.EmitSubscribe(id, from)
}

// Active returns the active room id, ok false when idle.
func (c *ActiveRoomController) Active() (RoomID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.active != NoRoom
}

// ActiveRoom resolves the active room in the registry, ok false when
// idle.
func (c *ActiveRoomController) ActiveRoom() (*Room, bool) {
	id, ok := c.Active()
	if !ok {
		return nil, false
	}
	return c.registry.Get(id)
}

// Reset drops back to Idle without emitting; used on session teardown,
// when there is no connection left to handshake over.
func (c *ActiveRoomController) Reset() {
	c.mu.Lock()
	c.active = NoRoom
	c.mu.Unlock()
}
