package chat

import (
	"strings"
	"sync"
	"time"
)

// MessageEmitter is the slice of the session the composer needs:
// sending one locally authored message to the server.
type MessageEmitter interface {
	EmitMessage(room RoomID, m Message)
}

// Composer holds the in-progress draft for whichever room is active
// and turns a send intent into an optimistic local append plus one
// outbound emit. Sends are fire-and-forget: there is no rollback if
// the server rejects the message.
type Composer struct {
	mu         sync.Mutex
	draft      string
	controller *ActiveRoomController
	emitter    MessageEmitter
	now        func() time.Time
}

// NewComposer wires a composer to the active-room controller and the
// session's message emitter.
func NewComposer(controller *ActiveRoomController, emitter MessageEmitter) *Composer {
	return &Composer{controller: controller, emitter: emitter, now: time.Now}
}

// SetDraft replaces the draft text as the user types.
func (c *Composer) SetDraft(text string) {
	c.mu.Lock()
	c.draft = text
	c.mu.Unlock()
}

// Draft returns the current draft text.
func (c *Composer) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Submit sends the draft to the active room. Empty or all-whitespace
// drafts are rejected silently with no network call. Otherwise the
// message is appended to the active room's store immediately, one
// outbound emit is made, and the draft is cleared. With no active room
// Submit is a no-op and the draft is kept.
func (c *Composer) Submit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.TrimSpace(c.draft) == "" {
		return
	}
	room, ok := c.controller.ActiveRoom()
	if !ok {
		return
	}
	m := Message{
		Author:    LocalAuthor(),
		Timestamp: c.now(),
		Text:      c.draft,
	}
	room.Store.Append(m)
	c.emitter.EmitMessage(room.ID, m)
	c.draft = ""
}
