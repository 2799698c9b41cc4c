package chat

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/unitandem/tandem-chat/internal/wire"
)

// Conn is the duplex connection seam the session runs over. A gorilla
// *websocket.Conn satisfies it in production; tests use an in-memory
// fake.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(int, []byte) error
	Close() error
}

// Session owns one persistent connection and translates server pushes
// into registry mutations. It is a pure transport adapter: the only
// business rule it carries is routing message events by the
// explicitly subscribed room.
//
// The handler table is built once in NewSession and never mutated, so
// double registration (and the cross-room delivery leaks it causes) is
// impossible by construction.
type Session struct {
	conn     Conn
	log      zerolog.Logger
	registry *RoomRegistry
	handlers map[string]func(json.RawMessage)

	// OnChange, when set before Open, is called after every registry
	// mutation with the room that changed.
	OnChange func(RoomID)

	mu           sync.Mutex
	localUser    UserID
	localUserSet bool
	subscribed   RoomID

	writeMu sync.Mutex

	group     errgroup.Group
	closeOnce sync.Once
	closed    chan struct{}
}

// NewSession wires a session over conn. Open starts event delivery.
func NewSession(conn Conn, registry *RoomRegistry, log zerolog.Logger) *Session {
	s := &Session{
		conn:     conn,
		log:      log.With().Str("component", "session").Logger(),
		registry: registry,
		closed:   make(chan struct{}),
	}
	s.handlers = map[string]func(json.RawMessage){
		wire.EventInitialization: s.onInitialization,
		wire.EventRoomUpdate:     s.onRoomUpdate,
		wire.EventMessage:        s.onMessage,
	}
	return s
}

// Open starts the read loop. Call once.
func (s *Session) Open() {
	s.group.Go(s.readLoop)
}

// Wait blocks until the read loop ends, returning its error if the
// connection failed rather than being closed.
func (s *Session) Wait() error {
	return s.group.Wait()
}

// Close tears the session down: the connection is closed, the read
// loop drained. Safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		err = s.conn.Close()
		_ = s.group.Wait()
	})
	return err
}

// LocalUser returns the session user's id once the first
// initialization event has delivered it.
func (s *Session) LocalUser() (UserID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localUser, s.localUserSet
}

// Subscribed returns the room the server is currently pushing message
// events for, NoRoom when none.
func (s *Session) Subscribed() RoomID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribed
}

func (s *Session) readLoop() error {
	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.closed:
				return nil
			default:
			}
			s.log.Warn().Err(err).Msg("connection lost")
			return err
		}
		env, err := wire.Decode(frame)
		if err != nil {
			s.log.Debug().Err(err).Msg("dropping malformed frame")
			continue
		}
		handler, ok := s.handlers[env.Event]
		if !ok {
			s.log.Debug().Str("event", env.Event).Msg("dropping unknown event")
			continue
		}
		handler(env.Data)
	}
}

func (s *Session) onInitialization(data json.RawMessage) {
	var p wire.Initialization
	if err := json.Unmarshal(data, &p); err != nil {
		s.log.Debug().Err(err).Msg("dropping malformed initialization")
		return
	}
	s.mu.Lock()
	if !s.localUserSet {
		s.localUser = UserID(p.User)
		s.localUserSet = true
	}
	s.mu.Unlock()

	id := RoomID(p.RoomInformation.RoomID)
	s.registry.UpsertFromInitialization(id, p.Name, s.ingest(p.RoomInformation.Messages))
	s.notify(id)
}

func (s *Session) onRoomUpdate(data json.RawMessage) {
	var p wire.RoomUpdate
	if err := json.Unmarshal(data, &p); err != nil {
		s.log.Debug().Err(err).Msg("dropping malformed roomUpdate")
		return
	}
	id := RoomID(p.RoomID)
	if !s.registry.ReplaceMessages(id, s.ingest(p.Room.Messages)) {
		s.log.Debug().Str("room", p.RoomID).Msg("roomUpdate for unknown room")
		return
	}
	s.notify(id)
}

// onMessage routes by the explicitly subscribed room, never by
// whatever room the UI happens to be rendering; a stale subscription
// therefore cannot cross-talk into another room's store.
func (s *Session) onMessage(data json.RawMessage) {
	var p wire.Message
	if err := json.Unmarshal(data, &p); err != nil {
		s.log.Debug().Err(err).Msg("dropping malformed message")
		return
	}
	s.mu.Lock()
	target := s.subscribed
	s.mu.Unlock()
	if target == NoRoom {
		s.log.Debug().Msg("message push with no subscribed room")
		return
	}
	m := Message{Author: s.author(p.ID), Timestamp: p.Timestamp, Text: p.Text}
	if !s.registry.AppendMessage(target, m) {
		s.log.Debug().Str("room", string(target)).Msg("message for unknown room")
		return
	}
	s.notify(target)
}

// EmitSubscribe sends the combined unsubscribe/subscribe handshake and
// records the new push target for message routing.
func (s *Session) EmitSubscribe(to, from RoomID) {
	s.mu.Lock()
	s.subscribed = to
	s.mu.Unlock()
	s.send(wire.EventSubscribe, wire.Subscribe{To: nullable(to), From: nullable(from)})
}

// EmitMessage sends one locally authored message to the server.
func (s *Session) EmitMessage(room RoomID, m Message) {
	user, _ := s.LocalUser()
	s.send(wire.EventMessage, wire.Outbound{
		User:   int64(user),
		RoomID: string(room),
		Message: wire.Message{
			ID:        int64(user),
			Timestamp: m.Timestamp,
			Text:      m.Text,
		},
	})
}

// send is fire-and-forget: on a down connection the frame is dropped
// and the session carries on with its local state intact.
func (s *Session) send(event string, payload any) {
	frame, err := wire.Encode(event, payload)
	if err != nil {
		s.log.Debug().Err(err).Str("event", event).Msg("encode failed")
		return
	}
	s.writeMu.Lock()
	err = s.conn.WriteMessage(websocket.TextMessage, frame)
	s.writeMu.Unlock()
	if err != nil {
		s.log.Debug().Err(err).Str("event", event).Msg("emit dropped")
	}
}

// author translates the wire id into the tagged Author form. The 0
// sentinel and the session user's own id both mean local.
func (s *Session) author(id int64) Author {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == 0 || (s.localUserSet && UserID(id) == s.localUser) {
		return LocalAuthor()
	}
	return RemoteAuthor(UserID(id))
}

func (s *Session) ingest(msgs []wire.Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Message{Author: s.author(m.ID), Timestamp: m.Timestamp, Text: m.Text})
	}
	return out
}

func (s *Session) notify(id RoomID) {
	if s.OnChange != nil {
		s.OnChange(id)
	}
}

func nullable(id RoomID) string {
	if id == NoRoom {
		return wire.NullRoom
	}
	return string(id)
}
