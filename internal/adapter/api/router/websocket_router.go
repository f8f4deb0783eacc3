package router

import (
	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/handler"
)

// SetupWebSocketRouter registers the event stream endpoint. Authentication
// happens inside the handler via the token query parameter.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
