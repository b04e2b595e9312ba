package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/infrastructure/auth"
	"github.com/tradewiser/backend/internal/infrastructure/config"
	"github.com/tradewiser/backend/internal/infrastructure/ws"
)

// WSHandler upgrades connections and registers them with the hub
type WSHandler struct {
	BaseHandler
	hub        *ws.Hub
	jwtService *auth.JWTService
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(hub *ws.Hub, jwtService *auth.JWTService, cfg config.WSConfig, logger *zap.Logger) *WSHandler {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	allowAll := false
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return &WSHandler{
		hub:        hub,
		jwtService: jwtService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
		logger: logger,
	}
}

// Serve authenticates and upgrades the connection. Browsers cannot set
// headers on websocket dials, so the access token is also accepted as
// a `token` query parameter.
func (h *WSHandler) Serve(c *gin.Context) {
	if !h.hub.Running() {
		h.Error(c, http.StatusServiceUnavailable, "WEBSOCKET_DISABLED", "Realtime updates are not enabled")
		return
	}

	token := c.Query("token")
	if token == "" {
		if t, ok := extractBearer(c.GetHeader("Authorization")); ok {
			token = t
		}
	}
	if token == "" {
		h.Unauthorized(c, "Authentication required")
		return
	}

	claims, err := h.jwtService.ValidateAccessToken(token)
	if err != nil {
		h.Unauthorized(c, "Invalid or expired token")
		return
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid token claims")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, userID)
	if !client.Serve() {
		// Hub shut down between the running check and registration.
		conn.Close()
	}
}

func extractBearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):], true
	}
	return "", false
}
