package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"jokes-api/internal/event"
)

func dialHub(t *testing.T) (*event.InMemoryBus, *Hub, *websocket.Conn) {
	t.Helper()

	bus := event.NewBus()
	hub := NewHub(bus)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Connected() == 1 }, 2*time.Second, 10*time.Millisecond)
	return bus, hub, conn
}

func TestHubBroadcastsJokeEvents(t *testing.T) {
	bus, _, conn := dialHub(t)

	bus.Publish(event.New(event.TypeUserRegistered, "alice@x.com", "u1"))
	bus.Publish(event.New(event.TypeJokeCreated, "R7xQ2mZ9kLp", "u1"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var got event.Event
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, event.TypeJokeCreated, got.Type)
	require.Equal(t, "R7xQ2mZ9kLp", got.Subject)
	require.NotContains(t, string(raw), "alice@x.com")
}

func TestHubForgetsClosedClients(t *testing.T) {
	_, hub, conn := dialHub(t)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Connected() == 0 }, 2*time.Second, 10*time.Millisecond)
}
