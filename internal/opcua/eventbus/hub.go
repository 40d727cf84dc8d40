// Package eventbus fans log entries and dispatcher events out to
// connected websocket observers, adapted from the teacher's
// internal/websocket hub (register/unregister/broadcast channel loop)
// repurposed to carry OPC UA session/channel/timer events instead of flow
// debug output.
package eventbus

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/edge-opcua/opcuacore/internal/logger"
)

// Message is one event mirrored to observers: a log entry or a named
// dispatcher event, carrying whatever structured fields its source
// attached.
type Message struct {
	Level   string                 `json:"level"`
	Source  string                 `json:"source"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// Hub tracks connected websocket observers and serializes broadcasts to
// them. The zero value is not usable; construct with New.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan Message
	done       chan struct{}
}

// New creates a Hub and starts its dispatch goroutine.
func New() *Hub {
	h := &Hub{
		clients:    make(map[*websocket.Conn]struct{}),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan Message, 64),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = struct{}{}
			h.mu.Unlock()
		case conn := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		case msg := <-h.broadcast:
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mu.Unlock()
		case <-h.done:
			return
		}
	}
}

// Broadcast enqueues msg for every connected observer. Never blocks the
// caller beyond the channel buffer: a full buffer drops the message
// rather than stall whatever produced it (a log line must never stall the
// dispatcher that emitted it).
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
	}
}

// AsLogBroadcaster adapts Broadcast to logger.BroadcastFunc, for wiring
// into logger.SetBroadcaster.
func (h *Hub) AsLogBroadcaster() logger.BroadcastFunc {
	return func(level, message, source string, fields map[string]interface{}) {
		h.Broadcast(Message{Level: level, Source: source, Message: message, Fields: fields})
	}
}

// FiberHandler returns the connection handler to mount behind
// websocket.New for a fiber route, e.g.
// app.Get("/events", websocket.New(hub.FiberHandler())).
func (h *Hub) FiberHandler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		h.register <- conn
		defer func() { h.unregister <- conn }()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

// Close stops the dispatch goroutine and disconnects every observer.
func (h *Hub) Close() {
	h.mu.Lock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()
	close(h.done)
}
