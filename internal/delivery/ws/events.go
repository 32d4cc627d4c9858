package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/satriowb/syncpad/internal/domain"
)

// newEvent wraps a payload in the wire envelope and returns it marshaled.
func newEvent(t domain.EventType, payload any) []byte {
	raw, _ := json.Marshal(payload)
	ev := domain.Event{
		ID:        uuid.New().String(),
		Type:      t,
		Payload:   raw,
		CreatedAt: time.Now(),
	}
	data, _ := json.Marshal(ev)
	return data
}

func identityEvent(m domain.Member) []byte {
	return newEvent(domain.EventIdentity, domain.IdentityPayload{Member: m})
}

func documentStateEvent(doc domain.Document, editor *domain.Member) []byte {
	return newEvent(domain.EventDocumentState, domain.DocumentStatePayload{
		Title:     doc.Title,
		Content:   doc.Content,
		UpdatedAt: doc.UpdatedAt,
		Editor:    editor,
	})
}

func memberListEvent(members []domain.Member) []byte {
	return newEvent(domain.EventMemberList, domain.MemberListPayload{Members: members})
}

func memberEvent(t domain.EventType, m domain.Member, members []domain.Member) []byte {
	return newEvent(t, domain.MemberEventPayload{Member: m, Members: members})
}

func cursorUpdatedEvent(m domain.Member) []byte {
	return newEvent(domain.EventCursorUpdated, domain.CursorUpdatedPayload{
		Member: m,
		Cursor: m.Cursor,
	})
}

func typingUpdatedEvent(m domain.Member) []byte {
	return newEvent(domain.EventTypingUpdated, domain.TypingUpdatedPayload{
		Member: m,
		Typing: m.Typing,
	})
}

func chatEvent(author domain.Member, text string) []byte {
	return newEvent(domain.EventChatMessage, domain.ChatMessage{
		ID:        uuid.New().String(),
		Author:    author,
		Text:      text,
		CreatedAt: time.Now(),
	})
}

func errorEvent(code, message string) []byte {
	return newEvent(domain.EventError, domain.ErrorPayload{
		Code:    code,
		Message: message,
	})
}
