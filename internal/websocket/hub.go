// Package websocket pushes joke activity to connected clients.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"jokes-api/internal/event"
)

// Hub fans bus events out to every connected client. Only joke events are
// broadcast; user events carry emails and stay server-side.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client

	bus       event.Bus
	done      chan struct{}
	connected atomic.Int64
}

func NewHub(bus event.Bus) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		bus:        bus,
		done:       make(chan struct{}),
	}
}

// Connected returns the number of registered clients.
func (h *Hub) Connected() int {
	return int(h.connected.Load())
}

func (h *Hub) Run(ctx context.Context) {
	events, unsubscribe := h.bus.Subscribe(event.TopicJoke)
	defer unsubscribe()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.connected.Add(1)
		case client := <-h.unregister:
			h.drop(client)
		case e, ok := <-events:
			if !ok {
				return
			}
			message, err := json.Marshal(e)
			if err != nil {
				slog.Error("failed to marshal event", "error", err)
				continue
			}

			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					slog.Warn("dropping slow websocket client", "user_id", client.userID)
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.connected.Add(-1)
	}
}
