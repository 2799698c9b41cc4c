// Package wire defines the event vocabulary spoken between the chat
// client and the conversation server. Every websocket text frame is one
// Envelope; the Data field decodes into the payload type matching Event.
package wire

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event names, identical on both ends of the connection.
const (
	EventInitialization = "initialization"
	EventRoomUpdate     = "roomUpdate"
	EventMessage        = "message"
	EventSubscribe      = "subscribe"
)

// NullRoom is the on-the-wire sentinel for "no room" in subscribe
// handshakes.
const NullRoom = "null"

// Envelope frames every event. Data stays raw until the event kind is
// known.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Message is one chat message as it travels on the wire. The id field
// is the author's user identifier; the server-assigned local-user id
// (or the 0 sentinel) marks messages authored by the receiving session.
type Message struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// RoomInformation carries one room's identity and full history.
type RoomInformation struct {
	RoomID   string    `json:"roomId"`
	Messages []Message `json:"messages"`
}

// Initialization announces one room to a freshly connected client. The
// server sends one per conversation the user participates in; Name is
// the counterpart's display name.
type Initialization struct {
	User            int64           `json:"user"`
	Name            string          `json:"name"`
	RoomInformation RoomInformation `json:"roomInformation"`
}

// RoomState is the authoritative message list inside a RoomUpdate.
type RoomState struct {
	Messages []Message `json:"messages"`
}

// RoomUpdate replaces a room's entire message history.
type RoomUpdate struct {
	RoomID string    `json:"roomId"`
	Room   RoomState `json:"room"`
}

// Subscribe moves a client's live push target from one room to another
// in a single handshake. Either side may be NullRoom.
type Subscribe struct {
	To   string `json:"to"`
	From string `json:"from"`
}

// Outbound is a client-authored message on its way to the server.
type Outbound struct {
	User    int64   `json:"user"`
	RoomID  string  `json:"roomId"`
	Message Message `json:"message"`
}

// Encode wraps a payload in an Envelope and marshals the frame.
func Encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event, err)
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// Decode parses a frame into an Envelope. The payload is decoded
// separately once the event kind has been dispatched.
func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode frame: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("decode frame: missing event name")
	}
	return env, nil
}
