package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/satriowb/syncpad/internal/config"
	"github.com/satriowb/syncpad/internal/delivery/ws"
	"github.com/satriowb/syncpad/internal/domain"
	"github.com/satriowb/syncpad/internal/presence"
	"github.com/satriowb/syncpad/internal/store"
)

// isOriginAllowed checks if the origin is in the allowed list
func isOriginAllowed(origin string) bool {
	// Empty origin is allowed (same-origin requests)
	if origin == "" {
		return true
	}

	for _, allowed := range config.AppConfig.AllowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return isOriginAllowed(origin)
	},
}

// Handler serves the document CRUD surface and the websocket entry point.
type Handler struct {
	docs     store.DocumentStore
	coord    *ws.Coordinator
	cast     *ws.Broadcaster
	sessions *ws.SessionStore
	registry presence.Registry
}

// NewHandler wires the handler to its collaborators.
func NewHandler(docs store.DocumentStore, coord *ws.Coordinator, cast *ws.Broadcaster, sessions *ws.SessionStore, registry presence.Registry) *Handler {
	return &Handler{
		docs:     docs,
		coord:    coord,
		cast:     cast,
		sessions: sessions,
		registry: registry,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// HandleCreateDocument creates a new document from a title.
func (h *Handler) HandleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	title, err := domain.ValidateTitle(req.Title)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.docs.Create(r.Context(), title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create document")
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// HandleGetDocument fetches a document by id.
func (h *Handler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch document")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// HandleUpdateDocument applies a partial update. This is the fallback
// path when the socket is unavailable; timestamps are stamped server-side
// either way.
func (h *Handler) HandleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	var f store.Fields
	if req.Title != nil {
		title, err := domain.ValidateTitle(*req.Title)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		f.Title = &title
	}
	if req.Content != nil {
		if err := domain.ValidateContent(*req.Content); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		f.Content = req.Content
	}

	doc, err := h.docs.Update(r.Context(), r.PathValue("id"), f)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update document")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// HandleHealth reports liveness and presence counters.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.registry.RoomCount(r.Context())
	if err != nil {
		rooms = -1
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"timestamp":   time.Now().Format(time.RFC3339),
		"connections": h.cast.ClientCount(),
		"sessions":    h.sessions.Count(),
		"rooms":       rooms,
	})
}

// HandleWebSocket upgrades the connection and starts its session
// lifecycle: allocate identity, attach the outbox, run the pumps. Room
// membership happens later over the socket via join events.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	connID := uuid.New().String()
	client := ws.NewClient(connID, conn, h.coord, h.cast, int64(config.AppConfig.MaxMessageSize))
	h.cast.Attach(connID, client)
	h.coord.Connect(connID)

	go client.WritePump()
	go client.ReadPump()
}
