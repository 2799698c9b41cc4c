// Package hub is the server-side counterpart of the chat protocol: it
// keeps every conversation's history, pushes initialization events to
// connecting clients, and routes live messages to whichever client is
// subscribed to the room they belong to. All state is in memory;
// persistence lives elsewhere in the platform.
package hub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/unitandem/tandem-chat/internal/wire"
)

type inboundFrame struct {
	client *Client
	data   []byte
}

// Room is one conversation held server-side: two members and the
// authoritative message history.
type Room struct {
	ID       string
	Members  map[int64]bool
	Messages []wire.Message
}

// Hub owns all rooms, users and live connections. Connection lifecycle
// and inbound frames are serialized through Run's select loop; the
// mutex covers the REST-facing entry points (user registration, room
// provisioning, statistics) that run on other goroutines.
type Hub struct {
	log zerolog.Logger

	RegisterChan   chan *Client
	UnregisterChan chan *Client
	inbound        chan inboundFrame

	mu      sync.RWMutex
	clients map[string]*Client // client id -> client
	byUser  map[int64]*Client  // user id -> live client, latest conn wins
	users   map[int64]string   // user id -> display name
	rooms   map[string]*Room
	subs    map[string]string // client id -> subscribed room id
}

// New returns an empty hub. Call Run on its own goroutine.
func New(log zerolog.Logger) *Hub {
	return &Hub{
		log:            log.With().Str("component", "hub").Logger(),
		RegisterChan:   make(chan *Client),
		UnregisterChan: make(chan *Client),
		inbound:        make(chan inboundFrame, 16),
		clients:        map[string]*Client{},
		byUser:         map[int64]*Client{},
		users:          map[int64]string{},
		rooms:          map[string]*Room{},
		subs:           map[string]string{},
	}
}

// RegisterUser records a platform user so rooms can name them.
func (h *Hub) RegisterUser(id int64, name string) {
	h.mu.Lock()
	h.users[id] = name
	h.mu.Unlock()
}

// CreateRoom provisions a conversation between two registered users
// and pushes an initialization to whichever of them is connected, so
// the new room appears without a reconnect.
func (h *Hub) CreateRoom(a, b int64) (string, error) {
	h.mu.Lock()
	if _, ok := h.users[a]; !ok {
		h.mu.Unlock()
		return "", fmt.Errorf("create room: unknown user %d", a)
	}
	if _, ok := h.users[b]; !ok {
		h.mu.Unlock()
		return "", fmt.Errorf("create room: unknown user %d", b)
	}
	room := &Room{
		ID:      uuid.NewString(),
		Members: map[int64]bool{a: true, b: true},
	}
	h.rooms[room.ID] = room
	live := []*Client{}
	for member := range room.Members {
		if c, ok := h.byUser[member]; ok {
			live = append(live, c)
		}
	}
	h.mu.Unlock()

	for _, c := range live {
		h.pushInitialization(c, room)
	}
	h.log.Info().Str("room", room.ID).Int64("a", a).Int64("b", b).Msg("room created")
	return room.ID, nil
}

// RoomStat is one opaque row for the admin statistics endpoint.
type RoomStat struct {
	Room     string `json:"room"`
	Members  int    `json:"members"`
	Messages int    `json:"messages"`
}

// Stats snapshots per-room counters.
func (h *Hub) Stats() []RoomStat {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]RoomStat, 0, len(h.rooms))
	for _, room := range h.rooms {
		out = append(out, RoomStat{Room: room.ID, Members: len(room.Members), Messages: len(room.Messages)})
	}
	return out
}

// Run is the hub's event loop; registration, disconnects and inbound
// frames are applied one at a time.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.RegisterChan:
			h.register(client)
		case client := <-h.UnregisterChan:
			h.unregister(client)
		case frame := <-h.inbound:
			h.handleFrame(frame.client, frame.data)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.byUser[client.User] = client
	rooms := []*Room{}
	for _, room := range h.rooms {
		if room.Members[client.User] {
			rooms = append(rooms, room)
		}
	}
	h.mu.Unlock()

	// One initialization per conversation the user participates in.
	for _, room := range rooms {
		h.pushInitialization(client, room)
	}
	h.log.Info().Int64("user", client.User).Int("rooms", len(rooms)).Msg("client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	delete(h.subs, client.ID)
	if h.byUser[client.User] == client {
		delete(h.byUser, client.User)
	}
	close(client.Send)
	h.mu.Unlock()
	h.log.Info().Int64("user", client.User).Msg("client disconnected")
}

func (h *Hub) handleFrame(client *Client, data []byte) {
	env, err := wire.Decode(data)
	if err != nil {
		h.log.Debug().Err(err).Msg("dropping malformed frame")
		return
	}
	switch env.Event {
	case wire.EventSubscribe:
		var p wire.Subscribe
		if err := json.Unmarshal(env.Data, &p); err != nil {
			h.log.Debug().Err(err).Msg("dropping malformed subscribe")
			return
		}
		h.subscribe(client, p)
	case wire.EventMessage:
		var p wire.Outbound
		if err := json.Unmarshal(env.Data, &p); err != nil {
			h.log.Debug().Err(err).Msg("dropping malformed message")
			return
		}
		h.message(client, p)
	default:
		h.log.Debug().Str("event", env.Event).Msg("dropping unknown event")
	}
}

// subscribe atomically moves the client's push target. The from side
// needs no separate unsubscribe: overwriting (or deleting) the single
// subscription entry is the whole operation.
func (h *Hub) subscribe(client *Client, p wire.Subscribe) {
	if p.To == wire.NullRoom {
		h.mu.Lock()
		delete(h.subs, client.ID)
		h.mu.Unlock()
		return
	}
	h.mu.Lock()
	room, ok := h.rooms[p.To]
	if !ok || !room.Members[client.User] {
		h.mu.Unlock()
		h.log.Debug().Str("room", p.To).Int64("user", client.User).Msg("subscribe to unknown room")
		return
	}
	h.subs[client.ID] = room.ID
	update := wire.RoomUpdate{RoomID: room.ID, Room: wire.RoomState{Messages: append([]wire.Message{}, room.Messages...)}}
	h.mu.Unlock()

	// The subscriber gets the authoritative history straight away.
	h.push(client, wire.EventRoomUpdate, update)
}

// message appends to the room's history and fans the event out to
// every client subscribed to that room except the sender, who already
// holds the message optimistically.
func (h *Hub) message(client *Client, p wire.Outbound) {
	h.mu.Lock()
	room, ok := h.rooms[p.RoomID]
	if !ok || !room.Members[client.User] {
		h.mu.Unlock()
		h.log.Debug().Str("room", p.RoomID).Int64("user", client.User).Msg("message for unknown room")
		return
	}
	msg := wire.Message{ID: client.User, Timestamp: p.Message.Timestamp, Text: p.Message.Text}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	room.Messages = append(room.Messages, msg)
	targets := []*Client{}
	for clientID, roomID := range h.subs {
		if roomID == room.ID && clientID != client.ID {
			if c, ok := h.clients[clientID]; ok {
				targets = append(targets, c)
			}
		}
	}
	h.mu.Unlock()

	for _, c := range targets {
		h.push(c, wire.EventMessage, msg)
	}
}

func (h *Hub) pushInitialization(client *Client, room *Room) {
	h.mu.RLock()
	name := ""
	for member := range room.Members {
		if member != client.User {
			name = h.users[member]
		}
	}
	payload := wire.Initialization{
		User: client.User,
		Name: name,
		RoomInformation: wire.RoomInformation{
			RoomID:   room.ID,
			Messages: append([]wire.Message{}, room.Messages...),
		},
	}
	h.mu.RUnlock()
	h.push(client, wire.EventInitialization, payload)
}

// push queues a frame on the client's send channel, dropping on a full
// queue rather than blocking the hub. The membership re-check under
// the lock keeps push from racing unregister's close of Send.
func (h *Hub) push(client *Client, event string, payload any) {
	frame, err := wire.Encode(event, payload)
	if err != nil {
		h.log.Debug().Err(err).Str("event", event).Msg("encode failed")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, alive := h.clients[client.ID]; !alive {
		return
	}
	select {
	case client.Send <- frame:
	default:
		h.log.Debug().Int64("user", client.User).Str("event", event).Msg("send queue full, frame dropped")
	}
}
