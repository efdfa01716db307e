package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/IBA-HOK/user-attendance-record/internal/config"
	"github.com/IBA-HOK/user-attendance-record/internal/service"
	ws "github.com/IBA-HOK/user-attendance-record/internal/websocket"
)

// refreshInterval is the fallback push cadence. Slot boundaries move
// the current class even when no check-in happens, so the view is
// re-sent on a timer as well as on change events.
const refreshInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// LiveHandler streams the current class view to dashboard clients over
// WebSocket. Each connection subscribes to the roster change channel;
// check-ins and corrections publish there, so dashboards update without
// polling.
type LiveHandler struct {
	rdb           *redis.Client
	rosterService *service.RosterService
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(rdb *redis.Client, rosterService *service.RosterService, log zerolog.Logger, allowedOrigins []string) *LiveHandler {
	return &LiveHandler{
		rdb:           rdb,
		rosterService: rosterService,
		log:           log.With().Str("component", "live_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/live
// Upgrades to WebSocket and pushes the current class view on connect,
// on every roster change, and every refreshInterval.
func (h *LiveHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := h.rdb.Subscribe(ctx, config.CacheKey.LiveRosterChannel())
	defer pubsub.Close()

	h.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("dashboard connected")

	if err := h.pushView(ctx, conn); err != nil {
		return
	}

	// Reader goroutine: decodes client messages and forwards them.
	// The connection allows only one concurrent writer, so every write
	// happens in the select loop below; the reader never writes.
	done := make(chan struct{})
	requests := make(chan ws.RequestEnvelope)
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Warn().Err(err).Msg("unexpected close")
				}
				return
			}
			select {
			case requests <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	changes := pubsub.Channel()
	for {
		select {
		case <-done:
			h.log.Info().Msg("dashboard disconnected")
			return
		case <-ctx.Done():
			return
		case msg := <-requests:
			switch msg.Action {
			case ws.ActionPing:
				if err := ws.WriteTyped(conn, ws.PongEvent{Event: ws.EventPong}); err != nil {
					return
				}
			case ws.ActionRefresh:
				if err := h.pushView(ctx, conn); err != nil {
					return
				}
			default:
				if err := ws.WriteError(conn, "unknown action: "+string(msg.Action)); err != nil {
					return
				}
			}
			continue
		case <-changes:
		case <-ticker.C:
		}
		if err := h.pushView(ctx, conn); err != nil {
			return
		}
	}
}

func (h *LiveHandler) pushView(ctx context.Context, conn *websocket.Conn) error {
	view, err := h.rosterService.CurrentClass(ctx, time.Now())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to build current class view")
		return ws.WriteError(conn, "failed to build view")
	}
	return ws.WriteTyped(conn, ws.RosterEvent{Event: ws.EventRoster, View: view})
}
