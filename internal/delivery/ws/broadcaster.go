package ws

import (
	"context"
	"log"
	"sync"

	"github.com/satriowb/syncpad/internal/presence"
)

// Outbox is the send side of a connection. Delivery is fire-and-forget:
// implementations drop the message when the peer cannot keep up.
type Outbox interface {
	Deliver(data []byte)
}

// Broadcaster resolves a room id to the subset of attached connections
// that should receive an event, using the presence registry as the source
// of truth for membership. A recipient that has already detached simply
// does not receive the event; no error reaches the sender.
type Broadcaster struct {
	mu       sync.RWMutex
	clients  map[string]Outbox
	registry presence.Registry
}

// NewBroadcaster creates a broadcaster over the given registry.
func NewBroadcaster(registry presence.Registry) *Broadcaster {
	return &Broadcaster{
		clients:  make(map[string]Outbox),
		registry: registry,
	}
}

// Attach registers a connection's outbox.
func (b *Broadcaster) Attach(connID string, out Outbox) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[connID] = out
}

// Detach removes a connection's outbox. Subsequent deliveries to it are
// no-ops.
func (b *Broadcaster) Detach(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.clients, connID)
}

// ClientCount returns the number of attached connections.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// ToRoom delivers to every member of the room, including the sender.
func (b *Broadcaster) ToRoom(ctx context.Context, roomID string, data []byte) {
	b.toRoom(ctx, roomID, "", data)
}

// ToRoomExcept delivers to every member of the room except senderID.
func (b *Broadcaster) ToRoomExcept(ctx context.Context, roomID, senderID string, data []byte) {
	b.toRoom(ctx, roomID, senderID, data)
}

// ToSender delivers only to the named connection.
func (b *Broadcaster) ToSender(connID string, data []byte) {
	b.mu.RLock()
	out, ok := b.clients[connID]
	b.mu.RUnlock()
	if ok {
		out.Deliver(data)
	}
}

func (b *Broadcaster) toRoom(ctx context.Context, roomID, skipID string, data []byte) {
	members, err := b.registry.ListMembers(ctx, roomID)
	if err != nil {
		log.Printf("broadcast: list members for room %s: %v", roomID, err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, m := range members {
		if m.ID == skipID {
			continue
		}
		if out, ok := b.clients[m.ID]; ok {
			out.Deliver(data)
		}
	}
}
