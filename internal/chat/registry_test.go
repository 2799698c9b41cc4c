package chat

import (
	"testing"
	"time"
)

func TestRoomRegistry_DuplicateInitializationsAreIdempotent(t *testing.T) {
	r := NewRoomRegistry()

	first := r.UpsertFromInitialization("room-1", "Ali", []Message{msg("hi", time.Now())})
	again := r.UpsertFromInitialization("room-1", "Somebody Else", nil)

	if first != again {
		t.Error("repeat initialization produced a second room")
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
	if again.DisplayName != "Ali" {
		t.Errorf("repeat initialization overwrote DisplayName: %q", again.DisplayName)
	}
	if again.Store.Len() != 1 {
		t.Errorf("repeat initialization touched messages: Len = %d, want 1", again.Store.Len())
	}
}

func TestRoomRegistry_ConversationTitle(t *testing.T) {
	r := NewRoomRegistry()
	room := r.UpsertFromInitialization("room-1", "Ali Connors", nil)
	if room.Title != "Conversation with Ali Connors" {
		t.Errorf("Title = %q", room.Title)
	}
}

func TestRoomRegistry_InsertionOrder(t *testing.T) {
	r := NewRoomRegistry()
	r.UpsertFromInitialization("c", "C", nil)
	r.UpsertFromInitialization("a", "A", nil)
	r.UpsertFromInitialization("b", "B", nil)
	r.UpsertFromInitialization("a", "A again", nil) // repeat must not reorder

	want := []RoomID{"c", "a", "b"}
	rooms := r.Rooms()
	if len(rooms) != len(want) {
		t.Fatalf("len(Rooms()) = %d, want %d", len(rooms), len(want))
	}
	for i, room := range rooms {
		if room.ID != want[i] {
			t.Errorf("Rooms()[%d] = %s, want %s", i, room.ID, want[i])
		}
	}
}

func TestRoomRegistry_AllIsRestartable(t *testing.T) {
	r := NewRoomRegistry()
	r.UpsertFromInitialization("a", "A", nil)
	r.UpsertFromInitialization("b", "B", nil)

	for pass := 0; pass < 2; pass++ {
		var seen []RoomID
		for room := range r.All() {
			seen = append(seen, room.ID)
		}
		if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
			t.Fatalf("pass %d: enumerated %v", pass, seen)
		}
	}

	// Early break must not poison a later range.
	for range r.All() {
		break
	}
	count := 0
	for range r.All() {
		count++
	}
	if count != 2 {
		t.Errorf("after break, enumerated %d rooms, want 2", count)
	}
}

func TestRoomRegistry_UnknownRoomMutationsAreNoOps(t *testing.T) {
	r := NewRoomRegistry()
	r.UpsertFromInitialization("known", "K", nil)

	if r.ReplaceMessages("ghost", []Message{msg("x", time.Now())}) {
		t.Error("ReplaceMessages on unknown room reported success")
	}
	if r.AppendMessage("ghost", msg("x", time.Now())) {
		t.Error("AppendMessage on unknown room reported success")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRoomRegistry_AppendThenReplace(t *testing.T) {
	r := NewRoomRegistry()
	r.UpsertFromInitialization("room-1", "Ali", nil)

	r.AppendMessage("room-1", msg("optimistic", time.Now()))
	r.ReplaceMessages("room-1", []Message{msg("authoritative", time.Now())})

	room, _ := r.Get("room-1")
	got := room.Store.Snapshot()
	if len(got) != 1 || got[0].Text != "authoritative" {
		t.Errorf("store after replace = %+v, want only the authoritative message", got)
	}
}
