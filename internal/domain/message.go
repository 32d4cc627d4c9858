package domain

import (
	"encoding/json"
	"time"
)

// EventType defines the type of event flowing over a connection.
type EventType string

// Inbound events (client to server).
const (
	EventJoin        EventType = "join"
	EventUpdate      EventType = "update"
	EventCursorMove  EventType = "cursor_move"
	EventTypingStart EventType = "typing_start"
	EventTypingStop  EventType = "typing_stop"
	EventChatMessage EventType = "chat_message"
	EventChangeName  EventType = "change_name"
	EventLeave       EventType = "leave"
)

// Outbound events (server to client). EventChatMessage is reused outbound
// so the sender's own message arrives through the same path as everyone
// else's.
const (
	EventIdentity      EventType = "identity"
	EventDocumentState EventType = "document_state"
	EventMemberList    EventType = "member_list"
	EventMemberJoined  EventType = "member_joined"
	EventMemberLeft    EventType = "member_left"
	EventMemberRenamed EventType = "member_renamed"
	EventCursorUpdated EventType = "cursor_updated"
	EventTypingUpdated EventType = "typing_updated"
	EventError         EventType = "error"
)

// Event is the wire envelope for every message in either direction.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// JoinPayload asks to join a document room, optionally setting the
// display name first.
type JoinPayload struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name,omitempty"`
}

// UpdatePayload carries a partial document edit. Nil fields are left
// unchanged by the store.
type UpdatePayload struct {
	RoomID  string  `json:"room_id"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// CursorMovePayload reports a pointer position inside a room.
type CursorMovePayload struct {
	RoomID string  `json:"room_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// RoomPayload names a room for events whose only argument is the room,
// such as typing_start and typing_stop.
type RoomPayload struct {
	RoomID string `json:"room_id"`
}

// ChatSendPayload is the inbound chat request.
type ChatSendPayload struct {
	RoomID string `json:"room_id"`
	Text   string `json:"text"`
}

// ChangeNamePayload sets a new display name.
type ChangeNamePayload struct {
	Name string `json:"name"`
}

// IdentityPayload tells a freshly connected client who it is.
type IdentityPayload struct {
	Member Member `json:"member"`
}

// DocumentStatePayload carries the authoritative document. Editor is set
// when the state is the result of another member's edit and empty on the
// initial snapshot sent at join.
type DocumentStatePayload struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
	Editor    *Member   `json:"editor,omitempty"`
}

// MemberListPayload is the full ordered membership of a room.
type MemberListPayload struct {
	Members []Member `json:"members"`
}

// MemberEventPayload announces a single member change together with the
// resulting full list.
type MemberEventPayload struct {
	Member  Member   `json:"member"`
	Members []Member `json:"members"`
}

// CursorUpdatedPayload broadcasts another member's cursor.
type CursorUpdatedPayload struct {
	Member Member `json:"member"`
	Cursor Cursor `json:"cursor"`
}

// TypingUpdatedPayload broadcasts another member's typing state.
type TypingUpdatedPayload struct {
	Member Member `json:"member"`
	Typing bool   `json:"typing"`
}

// ChatMessage is an ephemeral room-scoped message. It is broadcast once
// and never stored.
type ChatMessage struct {
	ID        string    `json:"id"`
	Author    Member    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Error codes carried by ErrorPayload.
const (
	ErrCodeNotFound         = "not_found"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeInternal         = "internal"
)

// ErrorPayload reports a failed operation to the requesting connection
// only.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
