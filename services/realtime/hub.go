package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"deskhive/models"
	"deskhive/services/availability"
	"deskhive/utils"
)

const snapshotTimeout = 5 * time.Second

// Hub is the availability broadcaster: a registry of connected clients,
// each carrying its own filter criteria. Every inventory mutation triggers
// a per-client recompute through the query engine, so each client only
// ever sees its own filtered slice. A failure to serve one client never
// affects the others.
//
// Pushes are ordered by a generation counter: each mutation takes the next
// generation, and a push whose generation is older than the client's last
// delivered one is discarded, so overlapping recomputes cannot deliver a
// stale view after a fresh one.
type Hub struct {
	engine availability.QueryEngine

	mu      sync.RWMutex
	clients map[string]*Client
	gen     uint64
}

func NewHub(engine availability.QueryEngine) *Hub {
	return &Hub{
		engine:  engine,
		clients: make(map[string]*Client),
	}
}

// Register adds a client and immediately sends its first snapshot (empty
// filters: the unfiltered view, matching the reference behavior on
// connect).
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	g := h.gen
	h.mu.Unlock()

	h.pushTo(c, g)
}

// Unregister removes a client and closes its send channel. This is the
// only place Send is closed, and it happens under the hub lock with the
// closed flag set, so in-flight pushes observe the flag before sending.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	delete(h.clients, c.ID)
	close(c.Send)
}

// UpdateFilters stores the client's new criteria and re-sends its view.
func (h *Hub) UpdateFilters(c *Client, filters models.FilterCriteria) {
	h.mu.Lock()
	c.filters = filters
	c.lastPayload = nil // force a push even if the payload is unchanged
	h.gen++
	g := h.gen
	h.mu.Unlock()

	h.pushTo(c, g)
}

// NotifyStateChanged re-pushes every connected client's own filtered view.
// The fan-out runs off the mutation path.
func (h *Hub) NotifyStateChanged() {
	go h.broadcast(h.bumpGen())
}

func (h *Hub) bumpGen() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	return h.gen
}

func (h *Hub) broadcast(gen uint64) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.pushTo(c, gen)
	}
}

// pushTo recomputes one client's view and sends it if it changed since the
// last push. Errors are logged and isolated to this client. A push that
// lost the race to a newer generation is dropped.
func (h *Hub) pushTo(c *Client, gen uint64) {
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	h.mu.RLock()
	if c.closed {
		h.mu.RUnlock()
		return
	}
	filters := c.filters
	h.mu.RUnlock()

	snapshot, err := h.engine.Evaluate(ctx, filters)
	if err != nil {
		logger.Warn("availability push: evaluate failed",
			zap.String("clientID", c.ID), zap.Error(err))
		return
	}

	payload, err := json.Marshal(outboundMessage{Type: "desk_update", Desks: snapshot.Desks})
	if err != nil {
		logger.Warn("availability push: marshal failed",
			zap.String("clientID", c.ID), zap.Error(err))
		return
	}

	h.mu.Lock()
	if c.closed || gen < c.pushedGen {
		h.mu.Unlock()
		return
	}
	c.pushedGen = gen
	if bytes.Equal(c.lastPayload, payload) {
		h.mu.Unlock()
		return
	}
	c.lastPayload = payload
	// The send stays inside the critical section so Unregister cannot
	// close the channel between the closed check and the send. The select
	// never blocks, so holding the lock here is safe.
	select {
	case c.Send <- payload:
		h.mu.Unlock()
	default:
		h.mu.Unlock()
		// Slow consumer: drop it rather than block the fan-out.
		logger.Warn("availability push: client send buffer full, dropping client",
			zap.String("clientID", c.ID))
		h.Unregister(c)
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// inboundMessage is what clients send: filter updates and pings.
type inboundMessage struct {
	Type    string                 `json:"type"`
	Filters *models.FilterCriteria `json:"filters,omitempty"`
}

// outboundMessage mirrors the reference desk_update event.
type outboundMessage struct {
	Type  string                    `json:"type"`
	Desks []models.DeskAvailability `json:"desks"`
}
