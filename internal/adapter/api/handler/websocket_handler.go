package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/middleware"
	"unicert/internal/domain/repository"
	ws "unicert/internal/infrastructure/websocket"
	"unicert/pkg/errors"
	"unicert/pkg/response"
)

// WebSocketHandler upgrades clients onto the event stream that carries
// certificate and document lifecycle notifications.
type WebSocketHandler struct {
	wsManager *ws.Manager
	verifier  middleware.TokenVerifier
	userRepo  repository.UserRepository
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, verifier middleware.TokenVerifier, userRepo repository.UserRepository) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		verifier:  verifier,
		userRepo:  userRepo,
	}
}

// HandleWebSocket authenticates via the token query parameter, since
// browsers cannot set an Authorization header on a WebSocket upgrade.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return response.Error(c, errors.Unauthorized("token query parameter required", nil))
	}

	uid, err := h.verifier.VerifyToken(c.Request().Context(), token)
	if err != nil {
		return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, errors.Unauthorized("Account no longer exists", err))
	}
	if !user.IsActive() {
		return response.Error(c, errors.Forbidden("Account is not active", nil))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID:   user.ID,
		UserType: user.UserType,
		Conn:     conn,
		Send:     make(chan []byte, 256),
	}

	h.wsManager.Register <- client

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
