package presence

import (
	"context"
	"sync"

	"github.com/satriowb/syncpad/internal/domain"
)

// MemoryRegistry is the in-process Registry backend. Members are kept in
// join order; replacement on rejoin keeps the original position.
type MemoryRegistry struct {
	mu    sync.RWMutex
	rooms map[string][]domain.Member
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		rooms: make(map[string][]domain.Member),
	}
}

// AddOrReplace upserts the member into the room's ordered list.
func (r *MemoryRegistry) AddOrReplace(_ context.Context, roomID string, m domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.rooms[roomID]
	for i, existing := range members {
		if existing.ID == m.ID {
			members[i] = m
			return nil
		}
	}
	r.rooms[roomID] = append(members, m)
	return nil
}

// Remove deletes the member; an emptied room is dropped entirely so the
// registry never holds dangling empty rooms.
func (r *MemoryRegistry) Remove(_ context.Context, roomID, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return nil
	}

	kept := members[:0]
	for _, m := range members {
		if m.ID != memberID {
			kept = append(kept, m)
		}
	}

	if len(kept) == 0 {
		delete(r.rooms, roomID)
		return nil
	}
	r.rooms[roomID] = kept
	return nil
}

// ListMembers returns a copy of the room's member list in join order.
func (r *MemoryRegistry) ListMembers(_ context.Context, roomID string) ([]domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[roomID]
	out := make([]domain.Member, len(members))
	copy(out, members)
	return out, nil
}

// RoomCount returns the number of non-empty rooms.
func (r *MemoryRegistry) RoomCount(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms), nil
}
