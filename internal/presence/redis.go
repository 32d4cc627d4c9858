package presence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/satriowb/syncpad/internal/domain"
)

const (
	roomsKey       = "syncpad:rooms"
	roomOrderFmt   = "syncpad:room:%s:order"
	roomMembersFmt = "syncpad:room:%s:members"
)

// RedisRegistry is a shared-cache Registry backend so presence can be
// served by more than one process. Join order is a zset scored by join
// time; snapshots live in a hash keyed by member id. Replacing a snapshot
// keeps the original zset score, so rejoins do not reorder the list.
type RedisRegistry struct {
	rdb *redis.Client
}

// NewRedisRegistry creates a registry backed by the given client.
func NewRedisRegistry(rdb *redis.Client) *RedisRegistry {
	return &RedisRegistry{rdb: rdb}
}

func roomKeys(roomID string) (order, members string) {
	return fmt.Sprintf(roomOrderFmt, roomID), fmt.Sprintf(roomMembersFmt, roomID)
}

// AddOrReplace upserts the member snapshot into the room.
func (r *RedisRegistry) AddOrReplace(ctx context.Context, roomID string, m domain.Member) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal member: %w", err)
	}

	orderKey, membersKey := roomKeys(roomID)
	pipe := r.rdb.TxPipeline()
	pipe.ZAddNX(ctx, orderKey, redis.Z{Score: float64(m.JoinedAt.UnixNano()), Member: m.ID})
	pipe.HSet(ctx, membersKey, m.ID, data)
	pipe.SAdd(ctx, roomsKey, roomID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence add: %w", err)
	}
	return nil
}

// Remove deletes the member and drops the room's keys once empty.
func (r *RedisRegistry) Remove(ctx context.Context, roomID, memberID string) error {
	orderKey, membersKey := roomKeys(roomID)
	pipe := r.rdb.TxPipeline()
	pipe.ZRem(ctx, orderKey, memberID)
	pipe.HDel(ctx, membersKey, memberID)
	card := pipe.ZCard(ctx, orderKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence remove: %w", err)
	}

	if card.Val() == 0 {
		pipe = r.rdb.TxPipeline()
		pipe.Del(ctx, orderKey, membersKey)
		pipe.SRem(ctx, roomsKey, roomID)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("presence cleanup: %w", err)
		}
	}
	return nil
}

// ListMembers returns snapshots in join order. Members whose snapshot is
// missing (cleaned up concurrently) are skipped.
func (r *RedisRegistry) ListMembers(ctx context.Context, roomID string) ([]domain.Member, error) {
	orderKey, membersKey := roomKeys(roomID)

	ids, err := r.rdb.ZRange(ctx, orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("presence list: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Member{}, nil
	}

	raw, err := r.rdb.HMGet(ctx, membersKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("presence list: %w", err)
	}

	members := make([]domain.Member, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var m domain.Member
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			continue
		}
		members = append(members, m)
	}
	return members, nil
}

// RoomCount returns the number of rooms with at least one member.
func (r *RedisRegistry) RoomCount(ctx context.Context) (int, error) {
	n, err := r.rdb.SCard(ctx, roomsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("presence room count: %w", err)
	}
	return int(n), nil
}
