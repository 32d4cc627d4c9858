package domain

import "time"

// Cursor is the last pointer position a connection reported, in editor
// coordinates.
type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UserSession is the per-connection presence state. One exists for every
// live connection, created on connect and deleted on disconnect. It is
// never persisted.
type UserSession struct {
	ID       string    // connection id, stable for the connection's lifetime
	Name     string    // display name, mutable
	Color    string    // assigned from the palette at connect time, immutable
	Avatar   string    // avatar image URL derived from the connection id
	Cursor   Cursor    // last reported position
	Typing   bool      // whether the user is currently typing
	Room     string    // current room (document) id, empty when not joined
	LastSeen time.Time // stamped on every accepted event
	JoinedAt time.Time // when the session entered its current room
}

// Member is the serializable snapshot of a session that membership lists
// and presence events carry.
type Member struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Avatar   string    `json:"avatar"`
	Cursor   Cursor    `json:"cursor"`
	Typing   bool      `json:"typing"`
	LastSeen time.Time `json:"last_seen"`
	JoinedAt time.Time `json:"joined_at"`
}

// Snapshot returns the member view of the session.
func (s *UserSession) Snapshot() Member {
	return Member{
		ID:       s.ID,
		Name:     s.Name,
		Color:    s.Color,
		Avatar:   s.Avatar,
		Cursor:   s.Cursor,
		Typing:   s.Typing,
		LastSeen: s.LastSeen,
		JoinedAt: s.JoinedAt,
	}
}
