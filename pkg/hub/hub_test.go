package hub

import (
	"context"
	"testing"
	"time"
)

// testClient registers a bare client (no websocket) with the hub.
func testClient(h *Hub, buffer int) *Client {
	c := &Client{id: "test", hub: h, send: make(chan Message, buffer)}
	h.register <- c
	return c
}

func TestBroadcastReachesAllClients(t *testing.T) {
	h := New("test")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c1 := testClient(h, 4)
	c2 := testClient(h, 4)

	waitForCount(t, h, 2)
	h.BroadcastJSON(map[string]string{"state": "slouching"})

	for _, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.send:
			if msg.Type != JSONMessage {
				t.Errorf("message type = %v, want JSON", msg.Type)
			}
		case <-time.After(time.Second):
			t.Fatal("client never received broadcast")
		}
	}
}

func TestSlowClientDropped(t *testing.T) {
	h := New("test")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	testClient(h, 1) // can hold one message only
	waitForCount(t, h, 1)

	// Second broadcast overflows the buffer and drops the client.
	h.BroadcastBinary([]byte("frame1"))
	h.BroadcastBinary([]byte("frame2"))

	waitForCount(t, h, 0)
}

func TestUnregisterClosesSend(t *testing.T) {
	h := New("test")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := testClient(h, 1)
	waitForCount(t, h, 1)

	h.unregister <- c
	waitForCount(t, h, 0)

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", h.ClientCount(), want)
}
