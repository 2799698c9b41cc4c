package wire

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDecode_InitializationFrame(t *testing.T) {
	frame := `{
		"event": "initialization",
		"data": {
			"user": 42,
			"name": "Ali Connors",
			"roomInformation": {
				"roomId": "room-1",
				"messages": [
					{"id": 7, "timestamp": "2020-03-14T15:09:26Z", "text": "hei"}
				]
			}
		}
	}`

	env, err := Decode([]byte(frame))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if env.Event != EventInitialization {
		t.Fatalf("Event = %q, want %q", env.Event, EventInitialization)
	}

	var p Initialization
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatalf("payload decode error: %v", err)
	}
	if p.User != 42 || p.Name != "Ali Connors" {
		t.Errorf("payload = %+v", p)
	}
	if p.RoomInformation.RoomID != "room-1" || len(p.RoomInformation.Messages) != 1 {
		t.Errorf("roomInformation = %+v", p.RoomInformation)
	}
	if p.RoomInformation.Messages[0].ID != 7 || p.RoomInformation.Messages[0].Text != "hei" {
		t.Errorf("message = %+v", p.RoomInformation.Messages[0])
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode([]byte("{oops")); err == nil {
		t.Error("Decode accepted malformed JSON")
	}
	if _, err := Decode([]byte(`{"data":{}}`)); err == nil {
		t.Error("Decode accepted a frame with no event name")
	}
}

func TestEncode_SubscribeKeepsNullSentinel(t *testing.T) {
	frame, err := Encode(EventSubscribe, Subscribe{To: "room-1", From: NullRoom})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got := string(frame)
	if !strings.Contains(got, `"from":"null"`) {
		t.Errorf("frame lost the null sentinel: %s", got)
	}
	if !strings.Contains(got, `"to":"room-1"`) {
		t.Errorf("frame lost the target room: %s", got)
	}
}

func TestEncode_OutboundShape(t *testing.T) {
	ts := time.Date(2020, 3, 14, 15, 9, 26, 0, time.UTC)
	frame, err := Encode(EventMessage, Outbound{
		User:    42,
		RoomID:  "room-1",
		Message: Message{ID: 42, Timestamp: ts, Text: "moi"},
	})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	env, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	var out Outbound
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("payload decode error: %v", err)
	}
	if out.User != 42 || out.RoomID != "room-1" || out.Message.Text != "moi" {
		t.Errorf("roundtrip payload = %+v", out)
	}
	if !out.Message.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", out.Message.Timestamp, ts)
	}
}
