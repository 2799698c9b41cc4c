// Package chat implements the client-side conversation synchronization
// core: a registry of known rooms, an append-only message store per
// room, an at-most-one-active-room subscription state machine, and a
// composer for optimistic sends. All server traffic flows through a
// single Session owning one persistent connection.
package chat

import "time"

// UserID identifies a platform user on the wire.
type UserID int64

// RoomID identifies one conversation. The zero value means "no room".
type RoomID string

// NoRoom is the empty RoomID, used where a subscribe handshake has no
// old or new target.
const NoRoom RoomID = ""

// Author says where a message came from. The wire carries a bare user
// id with a sentinel for "the session user"; ingest translates that
// into this tagged form so nothing downstream compares raw ids.
type Author struct {
	user  UserID
	local bool
}

// LocalAuthor tags a message as authored by the session user.
func LocalAuthor() Author { return Author{local: true} }

// RemoteAuthor tags a message as authored by the given counterpart.
func RemoteAuthor(id UserID) Author { return Author{user: id} }

// IsLocal reports whether the session user wrote the message.
func (a Author) IsLocal() bool { return a.local }

// User returns the remote author's id; ok is false for local messages.
func (a Author) User() (id UserID, ok bool) { return a.user, !a.local }

// Message is one chat message as the client holds it.
type Message struct {
	Author    Author
	Timestamp time.Time
	Text      string
}

// Room is one conversation between the session user and a counterpart.
// Rooms are created on server-pushed initialization and live until the
// session ends.
type Room struct {
	ID          RoomID
	DisplayName string // counterpart's name
	Title       string // conversation heading shown above the thread
	Store       *MessageStore
}
