package hub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesRegisteredClient(t *testing.T) {
	h := New()
	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Register(conn, "admin")
		close(registered)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.Unregister(conn)
				return
			}
		}
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("client never registered")
	}
	assert.Equal(t, 1, h.Clients())

	sent := h.Broadcast(EventOrderStatus, map[string]interface{}{"order_id": 7, "status": "delivered"})
	assert.Equal(t, 1, sent)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := client.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, EventOrderStatus, msg.Event)
	assert.Equal(t, "delivered", msg.Data.(map[string]interface{})["status"])
}

func TestBroadcastWithoutClients(t *testing.T) {
	assert.Equal(t, 0, New().Broadcast(EventCatalogChanged, nil))
}

func TestBroadcastDropsStalledClient(t *testing.T) {
	h := New()
	upgrader := websocket.Upgrader{}
	conns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	defer srv.Close()

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer peer.Close()

	var conn *websocket.Conn
	select {
	case conn = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("no server connection")
	}

	// No writer drains this queue, so the first broadcast finds it full.
	h.mutex.Lock()
	h.clients[conn] = &client{admin: "stalled", send: make(chan []byte)}
	h.mutex.Unlock()

	started := time.Now()
	assert.Equal(t, 0, h.Broadcast(EventOrderStatus, map[string]int{"order_id": 1}))
	assert.Less(t, time.Since(started), time.Second)
	assert.Equal(t, 0, h.Clients())
}
