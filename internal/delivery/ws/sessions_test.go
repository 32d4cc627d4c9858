package ws

import (
	"strings"
	"testing"

	"github.com/satriowb/syncpad/internal/domain"
	"github.com/satriowb/syncpad/internal/usecase"
)

func newTestSessions() *SessionStore {
	return NewSessionStore(usecase.NewIdentityGenerator())
}

func TestSessionStore_Create(t *testing.T) {
	s := newTestSessions()

	sess := s.Create("conn-1")
	if sess.ID != "conn-1" {
		t.Errorf("Expected id 'conn-1', got '%s'", sess.ID)
	}
	if sess.Name == "" {
		t.Error("Expected placeholder name")
	}
	if sess.Color != domain.Palette[0] {
		t.Errorf("Expected first palette color, got %s", sess.Color)
	}
	if !strings.Contains(sess.Avatar, "conn-1") {
		t.Errorf("Expected avatar derived from connection id, got '%s'", sess.Avatar)
	}
	if sess.Room != "" {
		t.Error("Expected fresh session to be in no room")
	}
	if sess.LastSeen.IsZero() {
		t.Error("Expected last seen to be stamped")
	}
}

func TestSessionStore_ColorsRoundRobin(t *testing.T) {
	s := newTestSessions()

	first := s.Create("conn-1")
	second := s.Create("conn-2")

	if first.Color != domain.Palette[0] || second.Color != domain.Palette[1] {
		t.Errorf("Expected palette order, got %s then %s", first.Color, second.Color)
	}
}

func TestSessionStore_Get(t *testing.T) {
	s := newTestSessions()
	s.Create("conn-1")

	if _, ok := s.Get("conn-1"); !ok {
		t.Error("Expected to find created session")
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("Expected missing session to not be found")
	}
}

func TestSessionStore_UpdateVisibleToReads(t *testing.T) {
	s := newTestSessions()
	s.Create("conn-1")

	updated, ok := s.Update("conn-1", func(sess *domain.UserSession) {
		sess.Name = "Alice"
		sess.Typing = true
	})
	if !ok {
		t.Fatal("Expected update to find session")
	}
	if updated.Name != "Alice" || !updated.Typing {
		t.Error("Expected mutation in returned snapshot")
	}

	got, _ := s.Get("conn-1")
	if got.Name != "Alice" || !got.Typing {
		t.Error("Expected mutation visible to subsequent read")
	}
}

func TestSessionStore_UpdateMissing(t *testing.T) {
	s := newTestSessions()

	if _, ok := s.Update("missing", func(*domain.UserSession) {}); ok {
		t.Error("Expected update of missing session to report absence")
	}
}

func TestSessionStore_Delete(t *testing.T) {
	s := newTestSessions()
	s.Create("conn-1")

	s.Delete("conn-1")
	if _, ok := s.Get("conn-1"); ok {
		t.Error("Expected session to be deleted")
	}
	if s.Count() != 0 {
		t.Errorf("Expected count 0, got %d", s.Count())
	}

	// Deleting again is a no-op
	s.Delete("conn-1")
}
