package ws

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/satriowb/syncpad/internal/domain"
	"github.com/satriowb/syncpad/internal/presence"
	"github.com/satriowb/syncpad/internal/store"
)

// Coordinator orchestrates room membership, document reconciliation, and
// presence notifications. It is the only component that talks to the
// document store.
//
// The mutex serializes presence and session mutations so each event runs
// to completion before the next one observes its effects. Store access is
// the one suspend point and always happens outside the lock; session
// state is revalidated after it resumes, so nothing stale is broadcast as
// if current.
type Coordinator struct {
	mu       sync.Mutex
	sessions *SessionStore
	registry presence.Registry
	docs     store.DocumentStore
	cast     *Broadcaster
}

// NewCoordinator wires the coordinator to its collaborators. The registry
// is injected rather than ambient so tests can run isolated instances and
// the backing store stays pluggable.
func NewCoordinator(sessions *SessionStore, registry presence.Registry, docs store.DocumentStore, cast *Broadcaster) *Coordinator {
	return &Coordinator{
		sessions: sessions,
		registry: registry,
		docs:     docs,
		cast:     cast,
	}
}

// Connect allocates a session for a fresh connection and tells the client
// who it is. The broadcaster must already hold the connection's outbox.
func (c *Coordinator) Connect(connID string) domain.UserSession {
	sess := c.sessions.Create(connID)
	c.cast.ToSender(connID, identityEvent(sess.Snapshot()))
	return sess
}

// Join moves the connection into the document's room. The document must
// exist; a connection already in another room leaves it first, with a
// single member_left to that room's remaining members. The joining client
// receives the document state before any presence so the UI can render
// content first.
func (c *Coordinator) Join(ctx context.Context, connID, roomID, name string) {
	if name = strings.TrimSpace(name); name != "" {
		c.sessions.Update(connID, func(s *domain.UserSession) {
			s.Name = clampName(name)
		})
	}

	// Fetch may suspend; no membership is mutated until it succeeds.
	doc, err := c.docs.Get(ctx, roomID)
	if errors.Is(err, store.ErrNotFound) {
		c.cast.ToSender(connID, errorEvent(domain.ErrCodeNotFound, "document not found"))
		return
	}
	if err != nil {
		log.Printf("join: fetch document %s: %v", roomID, err)
		c.cast.ToSender(connID, errorEvent(domain.ErrCodeInternal, "failed to join document"))
		return
	}

	c.mu.Lock()

	// Revalidate: the connection may have dropped during the fetch.
	sess, ok := c.sessions.Get(connID)
	if !ok {
		c.mu.Unlock()
		return
	}

	prevRoom := sess.Room
	if prevRoom != "" && prevRoom != roomID {
		c.leaveRoomLocked(ctx, sess)
	}

	sess, _ = c.sessions.Update(connID, func(s *domain.UserSession) {
		s.Room = roomID
		if prevRoom != roomID {
			s.JoinedAt = time.Now()
		}
	})

	if err := c.registry.AddOrReplace(ctx, roomID, sess.Snapshot()); err != nil {
		// A failed rejoin keeps the room: the registry still holds the
		// previous entry, so clearing would desync session and registry.
		if prevRoom != roomID {
			c.sessions.Update(connID, func(s *domain.UserSession) { s.Room = "" })
		}
		c.mu.Unlock()
		log.Printf("join: register %s in room %s: %v", connID, roomID, err)
		c.cast.ToSender(connID, errorEvent(domain.ErrCodeInternal, "failed to join document"))
		return
	}

	members, err := c.registry.ListMembers(ctx, roomID)
	c.mu.Unlock()
	if err != nil {
		log.Printf("join: list room %s: %v", roomID, err)
		members = []domain.Member{sess.Snapshot()}
	}

	c.cast.ToSender(connID, documentStateEvent(doc, nil))
	c.cast.ToSender(connID, memberListEvent(members))
	c.cast.ToRoomExcept(ctx, roomID, connID, memberEvent(domain.EventMemberJoined, sess.Snapshot(), members))
	c.cast.ToRoom(ctx, roomID, memberListEvent(members))
}

// Update applies a partial edit to the document and broadcasts the fresh
// state to the room, excluding the sender, who already holds the
// authoritative local state it just sent. Conflicts resolve by last write
// wins in store order; there is no merge and no version check.
func (c *Coordinator) Update(ctx context.Context, connID, roomID string, title, content *string) {
	var f store.Fields
	if title != nil {
		t, err := domain.ValidateTitle(*title)
		if err != nil {
			c.cast.ToSender(connID, errorEvent(domain.ErrCodeValidationFailed, err.Error()))
			return
		}
		f.Title = &t
	}
	if content != nil {
		if err := domain.ValidateContent(*content); err != nil {
			c.cast.ToSender(connID, errorEvent(domain.ErrCodeValidationFailed, err.Error()))
			return
		}
		f.Content = content
	}

	// Editor identity is captured before the write: a disconnect while
	// the write is in flight must not abort it, and the broadcast to a
	// now-absent connection is a defined no-op.
	editor, ok := c.sessions.Get(connID)
	if !ok {
		return
	}

	doc, err := c.docs.Update(ctx, roomID, f)
	if errors.Is(err, store.ErrNotFound) {
		c.cast.ToSender(connID, errorEvent(domain.ErrCodeNotFound, "document not found"))
		return
	}
	if err != nil {
		log.Printf("update: document %s: %v", roomID, err)
		c.cast.ToSender(connID, errorEvent(domain.ErrCodeInternal, "failed to update document"))
		return
	}

	m := editor.Snapshot()
	c.cast.ToRoomExcept(ctx, roomID, connID, documentStateEvent(doc, &m))
}

// CursorMove records a cursor position and broadcasts it to the rest of
// the room. Events for a room the sender is not a member of are dropped
// silently; a stale event right after a room switch is routine, not an
// error.
func (c *Coordinator) CursorMove(ctx context.Context, connID, roomID string, cursor domain.Cursor) {
	c.mu.Lock()
	sess, ok := c.sessions.Get(connID)
	if !ok || sess.Room != roomID {
		c.mu.Unlock()
		return
	}

	sess, _ = c.sessions.Update(connID, func(s *domain.UserSession) {
		s.Cursor = cursor
	})
	if err := c.registry.AddOrReplace(ctx, roomID, sess.Snapshot()); err != nil {
		log.Printf("cursor: refresh %s in room %s: %v", connID, roomID, err)
	}
	c.mu.Unlock()

	c.cast.ToRoomExcept(ctx, roomID, connID, cursorUpdatedEvent(sess.Snapshot()))
}

// SetTyping records the typing flag and broadcasts it to the rest of the
// room, with the same silent-drop rule as CursorMove.
func (c *Coordinator) SetTyping(ctx context.Context, connID, roomID string, typing bool) {
	c.mu.Lock()
	sess, ok := c.sessions.Get(connID)
	if !ok || sess.Room != roomID {
		c.mu.Unlock()
		return
	}

	sess, _ = c.sessions.Update(connID, func(s *domain.UserSession) {
		s.Typing = typing
	})
	if err := c.registry.AddOrReplace(ctx, roomID, sess.Snapshot()); err != nil {
		log.Printf("typing: refresh %s in room %s: %v", connID, roomID, err)
	}
	c.mu.Unlock()

	c.cast.ToRoomExcept(ctx, roomID, connID, typingUpdatedEvent(sess.Snapshot()))
}

// Chat broadcasts an ephemeral message to the whole room including the
// sender, so their own message arrives through the same path as everyone
// else's. Requires membership and non-empty trimmed text.
func (c *Coordinator) Chat(ctx context.Context, connID, roomID, text string) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > domain.MaxChatLength {
		return
	}

	c.mu.Lock()
	sess, ok := c.sessions.Get(connID)
	if !ok || sess.Room != roomID {
		c.mu.Unlock()
		return
	}
	sess, _ = c.sessions.Update(connID, func(*domain.UserSession) {})
	c.mu.Unlock()

	c.cast.ToRoom(ctx, roomID, chatEvent(sess.Snapshot(), text))
}

// Rename updates the display name unconditionally. When the session is in
// a room, its registry snapshot is refreshed and the whole room, sender
// included, gets the renamed member with the full updated list.
func (c *Coordinator) Rename(ctx context.Context, connID, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	name = clampName(name)

	c.mu.Lock()
	sess, ok := c.sessions.Update(connID, func(s *domain.UserSession) {
		s.Name = name
	})
	if !ok || sess.Room == "" {
		c.mu.Unlock()
		return
	}

	if err := c.registry.AddOrReplace(ctx, sess.Room, sess.Snapshot()); err != nil {
		c.mu.Unlock()
		log.Printf("rename: refresh %s in room %s: %v", connID, sess.Room, err)
		return
	}
	members, err := c.registry.ListMembers(ctx, sess.Room)
	c.mu.Unlock()
	if err != nil {
		log.Printf("rename: list room %s: %v", sess.Room, err)
		return
	}

	c.cast.ToRoom(ctx, sess.Room, memberEvent(domain.EventMemberRenamed, sess.Snapshot(), members))
}

// Leave removes the connection from its current room, notifies the
// remaining members, and clears the session's room field. A no-op when
// not joined anywhere.
func (c *Coordinator) Leave(ctx context.Context, connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions.Get(connID)
	if !ok || sess.Room == "" {
		return
	}
	c.leaveRoomLocked(ctx, sess)
}

// Disconnect runs the leave path if needed and deletes the session. Safe
// to call for a connection that never joined a room.
func (c *Coordinator) Disconnect(ctx context.Context, connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions.Get(connID)
	if ok && sess.Room != "" {
		c.leaveRoomLocked(ctx, sess)
	}
	c.sessions.Delete(connID)
}

// leaveRoomLocked removes the session from its room, emits exactly one
// member_left to the remaining members, and clears the session's room
// field. Caller holds c.mu.
func (c *Coordinator) leaveRoomLocked(ctx context.Context, sess domain.UserSession) {
	roomID := sess.Room
	if err := c.registry.Remove(ctx, roomID, sess.ID); err != nil {
		log.Printf("leave: remove %s from room %s: %v", sess.ID, roomID, err)
		return
	}

	c.sessions.Update(sess.ID, func(s *domain.UserSession) {
		s.Room = ""
		s.Typing = false
	})

	members, err := c.registry.ListMembers(ctx, roomID)
	if err != nil {
		log.Printf("leave: list room %s: %v", roomID, err)
		return
	}
	if len(members) > 0 {
		c.cast.ToRoom(ctx, roomID, memberEvent(domain.EventMemberLeft, sess.Snapshot(), members))
	}
}

// clampName truncates a display name to the maximum rune length.
func clampName(name string) string {
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		runes := []rune(name)
		name = string(runes[:domain.MaxNameLength])
	}
	return name
}
