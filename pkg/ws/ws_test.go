package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func TestJoinAndLeaveRoom(t *testing.T) {
	h := NewHub()
	c := &Client{hub: h, send: make(chan []byte, 1)}

	h.joinRoom(c, "user-1")
	if c.UserID() != "user-1" {
		t.Errorf("unexpected user id: %q", c.UserID())
	}
	if len(h.rooms["user-1"]) != 1 {
		t.Fatalf("expected client in room, got %v", h.rooms)
	}

	// Re-joining as another user moves the client between rooms.
	h.joinRoom(c, "user-2")
	if _, ok := h.rooms["user-1"]; ok {
		t.Error("old room should be removed when empty")
	}
	if len(h.rooms["user-2"]) != 1 {
		t.Error("expected client in new room")
	}

	h.leaveRoom(c)
	if c.UserID() != "" {
		t.Errorf("expected cleared user id, got %q", c.UserID())
	}
	if len(h.rooms) != 0 {
		t.Errorf("expected no rooms, got %v", h.rooms)
	}

	// Joining with an empty id is a no-op.
	h.joinRoom(c, "")
	if len(h.rooms) != 0 {
		t.Error("empty user id must not create a room")
	}
}

func TestEmitToUserEnvelope(t *testing.T) {
	h := NewHub()
	h.EmitToUser("user-1", "newMessage", map[string]string{"message": "xin chào"})

	select {
	case e := <-h.emits:
		if e.userID != "user-1" {
			t.Errorf("unexpected target: %s", e.userID)
		}
		var env Envelope
		if err := json.Unmarshal(e.data, &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if env.Event != "newMessage" {
			t.Errorf("unexpected event: %s", env.Event)
		}
	default:
		t.Fatal("expected an enqueued emit")
	}
}

func TestRunDeliversToJoinedRoom(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := &Client{hub: h, send: make(chan []byte, 8)}
	h.register <- c
	h.inbound <- inboundEvent{client: c, env: Envelope{Event: "join", UserID: "user-1"}}

	// The join is processed asynchronously; emits to a room that does not
	// exist yet are dropped, so retry until one lands.
	var got []byte
	deadline := time.After(2 * time.Second)
	for got == nil {
		h.EmitToUser("user-1", "newMessage", map[string]string{"message": "đơn hàng đã gửi"})
		select {
		case got = <-c.send:
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatal("timed out waiting for delivery")
		}
	}

	var env Envelope
	if err := json.Unmarshal(got, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Event != "newMessage" {
		t.Errorf("unexpected event: %s", env.Event)
	}
}

func TestInboundDispatchesToOnEvent(t *testing.T) {
	h := NewHub()
	done := make(chan Envelope, 1)
	h.OnEvent = func(_ *Hub, _ *Client, env Envelope) { done <- env }
	go h.Run()

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.register <- c
	h.inbound <- inboundEvent{client: c, env: Envelope{Event: "typing", Data: json.RawMessage(`{"receiverId":"u2"}`)}}

	select {
	case env := <-done:
		if env.Event != "typing" {
			t.Errorf("unexpected event: %s", env.Event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnEvent was not called")
	}
}
