package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AlibekovAA/tasktrack/internal/common/logger"
	"github.com/AlibekovAA/tasktrack/internal/observability/metrics"
)

type HubConfig struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
	SendBufferSize int
}

// Hub fans task events out to every connection of the task's owner. Delivery is
// best effort: a client whose send buffer is full is disconnected and the
// event is dropped for it.
type Hub struct {
	cfg        HubConfig
	log        *logger.Logger
	mu         sync.RWMutex
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub(cfg HubConfig, log *logger.Logger) *Hub {
	return &Hub{
		cfg:        cfg,
		log:        log,
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Run owns client registration until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[c.owner]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[c.owner] = set
			}
			set[c] = struct{}{}
			connections := len(set)
			h.mu.Unlock()

			metrics.WebSocketConnectionsActive.Inc()
			h.log.WithFields(c.ctx, logger.Fields{
				"owner":       c.owner,
				"connections": connections,
				"action":      "ws_register",
			}).Info("websocket client registered")

		case c := <-h.unregister:
			h.remove(c)
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.owner]
	if ok {
		_, ok = set[c]
	}
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.owner)
	}
	close(c.send)
	h.mu.Unlock()

	metrics.WebSocketConnectionsActive.Dec()
	h.log.WithFields(c.ctx, logger.Fields{
		"owner":  c.owner,
		"action": "ws_unregister",
	}).Info("websocket client unregistered")
}

func (h *Hub) shutdown() {
	msg, _ := json.Marshal(Event{Type: TypeShutdown})

	h.mu.Lock()
	count := 0
	for owner, set := range h.clients {
		for c := range set {
			select {
			case c.send <- msg:
			default:
			}
			close(c.send)
			metrics.WebSocketConnectionsActive.Dec()
			count++
		}
		delete(h.clients, owner)
	}
	h.mu.Unlock()

	h.log.WithFields(context.Background(), logger.Fields{
		"clients": count,
		"action":  "ws_hub_shutdown",
	}).Info("websocket hub shutdown completed")
}

// Publish sends event to every connection of owner without blocking.
func (h *Hub) Publish(owner string, event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Errorf("websocket marshal event failed: %v", err)
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.clients[owner] {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	metrics.TaskEventsPublished.WithLabelValues(string(event.Type)).Inc()
	for _, c := range slow {
		metrics.TaskEventsDropped.Inc()
		h.log.WithFields(c.ctx, logger.Fields{
			"owner":  owner,
			"action": "ws_slow_consumer",
		}).Warn("websocket client too slow, disconnecting")
		c.Close()
	}
}

// Connections reports how many connections owner currently has open.
func (h *Hub) Connections(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[owner])
}
