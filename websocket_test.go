package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	return string(msg)
}

func TestWebSocketReceivesReadings(t *testing.T) {
	s := newTestServer(t)
	go s.hub.run()

	srv := httptest.NewServer(newRouter(s, promhttp.Handler()))
	defer srv.Close()

	if err := s.slot.Write([]byte(`{"reading":"A"}`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	conn := dialHub(t, srv)
	if got := readFrame(t, conn); got != `{"reading":"A"}` {
		t.Fatalf("first frame = %q, want current reading", got)
	}

	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(`{"reading":"B"}`))
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	resp.Body.Close()

	if got := readFrame(t, conn); got != `{"reading":"B"}` {
		t.Errorf("frame = %q, want B", got)
	}
}

func TestStalledClientDoesNotBlockOthers(t *testing.T) {
	s := newTestServer(t)
	go s.hub.run()

	srv := httptest.NewServer(newRouter(s, promhttp.Handler()))
	defer srv.Close()

	// Never read from this one.
	dialHub(t, srv)

	big := `{"pad":"` + strings.Repeat("x", 1<<20) + `"}`
	for i := 0; i < 20; i++ {
		resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(big))
		if err != nil {
			t.Fatalf("Post() error = %v", err)
		}
		resp.Body.Close()
	}

	conn := dialHub(t, srv)
	if got := readFrame(t, conn); got != big {
		t.Fatalf("first frame has %d bytes, want current reading", len(got))
	}

	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(`{"reading":"done"}`))
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	resp.Body.Close()

	// Frames queued before the second client joined may still arrive first.
	for i := 0; i < 25; i++ {
		if readFrame(t, conn) == `{"reading":"done"}` {
			return
		}
	}
	t.Error("second client never received the latest reading")
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	h := newHub()
	for i := 0; i < cap(h.broadcast); i++ {
		h.enqueue([]byte("x"))
	}

	done := make(chan struct{})
	go func() {
		h.enqueue([]byte("overflow"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}
	if len(h.broadcast) != cap(h.broadcast) {
		t.Errorf("queue length = %d, want %d", len(h.broadcast), cap(h.broadcast))
	}
}
