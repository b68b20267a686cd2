package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/coder/websocket"
	"github.com/pocketbase/pocketbase/core"

	"github.com/owaisjunedi/dev-interview-platform/internal/config"
	"github.com/owaisjunedi/dev-interview-platform/internal/models"
	"github.com/owaisjunedi/dev-interview-platform/internal/security"
	"github.com/owaisjunedi/dev-interview-platform/internal/services"
)

// WSHandler upgrades /ws requests and pumps inbound events into the router.
type WSHandler struct {
	log     *slog.Logger
	cfg     *config.Config
	hub     *services.Hub
	router  *services.Router
	metrics *services.Metrics
	limiter *security.RateLimiter
}

func NewWSHandler(log *slog.Logger, cfg *config.Config, hub *services.Hub, router *services.Router, metrics *services.Metrics) *WSHandler {
	return &WSHandler{
		log:     log,
		cfg:     cfg,
		hub:     hub,
		router:  router,
		metrics: metrics,
		limiter: security.NewRateLimiter(config.MaxMessagesPerSecond, config.RateLimitWindow),
	}
}

// Handle owns one connection for its whole lifetime: accept, read loop,
// teardown. A connection subscribes to a room by sending join_room; there is
// no room id in the URL.
func (h *WSHandler) Handle(e *core.RequestEvent) error {
	conn, err := websocket.Accept(e.Response, e.Request, &websocket.AcceptOptions{
		OriginPatterns: h.cfg.AllowedOrigins,
	})
	if err != nil {
		return err
	}
	conn.SetReadLimit(config.MaxMessageBytes)

	client := services.NewClient(conn, h.log, h.metrics)
	h.hub.Register(client)
	h.router.HandleConnect(client.ID)
	client.Start()

	defer func() {
		h.hub.Unregister(client.ID)
		// The request context is gone by now; the eviction broadcast must
		// still go out.
		h.router.HandleDisconnect(context.Background(), client.ID)
		h.limiter.Forget(client.ID)
		client.Close()
	}()

	ctx := e.Request.Context()
	for {
		data, ok := client.Read(ctx)
		if !ok {
			break
		}
		h.metrics.IncrementMessagesReceived()

		if !h.limiter.Allow(client.ID) {
			h.metrics.IncrementRateLimitViolations()
			continue
		}

		var msg models.WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.log.Warn("unreadable frame dropped", "connId", client.ID, "err", err)
			continue
		}
		if !security.IsValidEventType(msg.Event) {
			h.log.Warn("unexpected event dropped", "connId", client.ID, "event", msg.Event)
			continue
		}

		// Dispatch errors are already logged and accounted; the loop
		// survives every one of them.
		_ = h.router.Dispatch(ctx, client.ID, &msg)
	}

	return nil
}
