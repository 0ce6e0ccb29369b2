package ws

import (
	"sync"

	"github.com/F-AI-SAL/exbuy/internal/core/ports"

	"github.com/rs/zerolog"
)

var _ ports.Broadcaster = (*Hub)(nil)

// DefaultGroup is the group every shipment subscriber joins on connect.
const DefaultGroup = "shipments_stream"

// Hub owns group membership for live subscriber connections and fans events
// out to all current members of a group.
//
// All membership mutation and broadcast iteration happen under one mutex, so
// a connection is never written to mid-removal and the member set never
// mutates during a fan-out pass. Actual socket writes happen on each client's
// writer goroutine; a slow subscriber only fills its own queue.
type Hub struct {
	mu     sync.Mutex
	groups map[string]map[*Client]struct{}
	log    zerolog.Logger
}

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		groups: make(map[string]map[*Client]struct{}),
		log:    log,
	}
}

// Join adds a connection to a group.
func (h *Hub) Join(group string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[group]
	if !ok {
		members = make(map[*Client]struct{})
		h.groups[group] = members
	}
	members[c] = struct{}{}
	h.log.Info().Str("group", group).Int("members", len(members)).Msg("subscriber joined")
}

// Leave removes a connection from a group. Safe to call for a connection
// that already left.
func (h *Hub) Leave(group string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(group, c)
}

// Broadcast delivers an event to every connection currently joined to the
// group, each as an independent best-effort send. A member whose queue is
// full is evicted rather than retried; delivery to the others proceeds.
// Broadcasting to an empty or unknown group is a no-op.
func (h *Hub) Broadcast(group string, event interface{}) {
	h.mu.Lock()
	var evicted []*Client
	for c := range h.groups[group] {
		if !c.enqueue(event) {
			h.log.Warn().Str("group", group).Msg("subscriber queue full, evicting")
			h.removeLocked(group, c)
			evicted = append(evicted, c)
		}
	}
	h.mu.Unlock()

	// The close handshake can block on an already congested socket, so it
	// runs off the hub lock and off the broadcasting goroutine.
	for _, c := range evicted {
		go c.shutdown("send queue overflow")
	}
}

// GroupSize reports the current membership count of a group.
func (h *Hub) GroupSize(group string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.groups[group])
}

// evict removes a connection from every group and closes it. Called from a
// client's writer goroutine after a failed send.
func (h *Hub) evict(c *Client, reason string) {
	h.mu.Lock()
	for group := range h.groups {
		h.removeLocked(group, c)
	}
	h.mu.Unlock()
	c.shutdown(reason)
}

func (h *Hub) removeLocked(group string, c *Client) {
	members, ok := h.groups[group]
	if !ok {
		return
	}
	if _, present := members[c]; !present {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.groups, group)
	}
	h.log.Info().Str("group", group).Int("members", len(members)).Msg("subscriber left")
}
