package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"HorizonSim/internal/domain/models"
	"HorizonSim/internal/usecase"
	xlogger "HorizonSim/pkg/logger"
)

const streamWriteTimeout = 2 * time.Second

// StreamHub pushes episode updates to connected dashboard clients over
// WebSocket. Sub-horizon outcomes arrive in increasing-days order; stale
// episodes are filtered before they reach the hub.
type StreamHub struct {
	logger   *xlogger.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewStreamHub(logger *xlogger.Logger) *StreamHub {
	return &StreamHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// the dashboard is served from another origin in development
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

type streamMsg struct {
	Kind      string                  `json:"kind"` // "state" or "outcome"
	Episode   *models.ScenarioEpisode `json:"episode,omitempty"`
	EpisodeID string                  `json:"episode_id,omitempty"`
	Token     int64                   `json:"token,omitempty"`
	Outcome   *models.PathOutcome     `json:"outcome,omitempty"`
}

// Serve upgrades the request and holds the connection open until the client
// goes away. Inbound frames are drained and ignored.
func (h *StreamHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.conns[conn] = true
	n := len(h.conns)
	h.mu.Unlock()
	h.logger.Debug("stream client connected", xlogger.Int("clients", n))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
	return nil
}

// NotifyState broadcasts a state transition.
func (h *StreamHub) NotifyState(ep models.ScenarioEpisode) {
	h.broadcast(streamMsg{Kind: "state", Episode: &ep})
}

// NotifyOutcome broadcasts one resolved sub-horizon card.
func (h *StreamHub) NotifyOutcome(episodeID string, token int64, out models.PathOutcome) {
	h.broadcast(streamMsg{Kind: "outcome", EpisodeID: episodeID, Token: token, Outcome: &out})
}

func (h *StreamHub) broadcast(msg streamMsg) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			delete(h.conns, conn)
			_ = conn.Close()
		}
	}
}

func (h *StreamHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// Close terminates all client connections.
func (h *StreamHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.Close()
	}
	h.conns = make(map[*websocket.Conn]bool)
}

var _ usecase.Notifier = (*StreamHub)(nil)
