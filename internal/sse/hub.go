// Package sse pushes triage events to connected dashboard clients over
// Server-Sent Events. The dashboard is single-operator, so events are
// broadcast to every connection.
package sse

import (
	"encoding/json"
	"sync"
	"time"

	"mail-triage/internal/logger"
)

type Hub struct {
	clients    map[chan []byte]bool
	clientsMux sync.RWMutex
	closed     bool
	logger     *logger.Logger
}

func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[chan []byte]bool),
		logger:  logger,
	}
}

// AddClient registers a new dashboard connection and returns its channel.
func (h *Hub) AddClient() chan []byte {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	channel := make(chan []byte, 10)
	if h.closed {
		close(channel)
		return channel
	}
	h.clients[channel] = true

	h.logger.Info("Added SSE client, total clients:", len(h.clients))
	return channel
}

// RemoveClient drops a connection and closes its channel.
func (h *Hub) RemoveClient(channel chan []byte) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if _, exists := h.clients[channel]; !exists {
		return
	}
	delete(h.clients, channel)
	close(channel)

	h.logger.Info("Removed SSE client, remaining clients:", len(h.clients))
}

// Notify broadcasts one event to every connected client. Slow clients are
// skipped rather than blocking the triage flows.
func (h *Hub) Notify(event string, data interface{}) {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	if h.closed || len(h.clients) == 0 {
		return
	}

	payload := map[string]interface{}{
		"type": event,
		"data": data,
		"time": time.Now().Unix(),
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal SSE event:", err)
		return
	}

	for channel := range h.clients {
		select {
		case channel <- jsonData:
		default:
			h.logger.Warn("Dropping SSE event for slow client")
		}
	}
}

// Close shuts down the hub and every client channel.
func (h *Hub) Close() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for channel := range h.clients {
		close(channel)
		delete(h.clients, channel)
	}
}

// ClientCount returns the number of active connections.
func (h *Hub) ClientCount() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}
