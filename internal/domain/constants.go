package domain

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed inbound WebSocket message size in
// bytes. A single update event may carry a full document, so the limit is
// the content bound plus headroom for the envelope, title, and JSON
// escaping.
const MaxMessageSize = MaxContentLength + 8192

// ==== Document Bounds ====

const (
	// MaxTitleLength is the maximum document title length in runes
	MaxTitleLength = 200

	// MaxContentLength is the maximum document content length in bytes
	MaxContentLength = 100000
)

// ==== Presence Bounds ====

const (
	// MaxNameLength is the maximum display name length in runes
	MaxNameLength = 50

	// MaxChatLength is the maximum chat message length in runes
	MaxChatLength = 500
)

// ==== Rate Limit Constants ====

const (
	// DefaultRateLimitAPI is the default rate limit for API endpoints (requests/sec)
	DefaultRateLimitAPI = 10

	// DefaultRateLimitWS is the default rate limit for WebSocket connections (req/sec)
	DefaultRateLimitWS = 5
)

// Palette is the fixed set of member colors, assigned round-robin at
// connect time.
var Palette = []string{
	"#FF6B6B",
	"#4ECDC4",
	"#45B7D1",
	"#96CEB4",
	"#FFEAA7",
	"#DDA0DD",
	"#98D8C8",
	"#F7DC6F",
	"#FFB347",
	"#87CEEB",
}
