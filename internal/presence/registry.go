// Package presence tracks which connections are members of which document
// room. It is the single source of truth for room membership; the
// broadcaster resolves audiences against it.
package presence

import (
	"context"

	"github.com/satriowb/syncpad/internal/domain"
)

// Registry maps room ids to ordered member snapshots. Absence is never an
// error: removing an unknown member is a no-op and listing an unknown room
// yields an empty slice. The memory backend never returns an error; the
// Redis backend surfaces I/O failures.
type Registry interface {
	// AddOrReplace upserts the member into the room's list, keyed by
	// member id. A rejoining connection replaces its stale snapshot in
	// place instead of appearing twice.
	AddOrReplace(ctx context.Context, roomID string, m domain.Member) error

	// Remove deletes the member from the room. When the room becomes
	// empty its entry is removed entirely.
	Remove(ctx context.Context, roomID, memberID string) error

	// ListMembers returns the room's members in join order, or an empty
	// slice for an unknown room.
	ListMembers(ctx context.Context, roomID string) ([]domain.Member, error)

	// RoomCount returns the number of rooms with at least one member.
	RoomCount(ctx context.Context) (int, error)
}
