package ws

import (
	"net/http"
	"strings"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/logger"
	"rentease_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// TokenParser - auth.TokenManager
type TokenParser interface {
	Parse(token string) (auth.Session, error)
}

type WebSocketHandler struct {
	Manager  *WebSocketManager
	tokens   TokenParser
	upgrader websocket.Upgrader
}

// NewWebSocketHandler; пустой allowedOrigins разрешает любой origin
func NewWebSocketHandler(manager *WebSocketManager, tokens TokenParser, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		Manager: manager,
		tokens:  tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		for _, a := range allowed {
			if strings.EqualFold(strings.TrimRight(a, "/"), origin) {
				return true
			}
		}
		return false
	}
}

// ServeWS - GET /ws/notifications?token=<jwt>.
// Браузер не может передать заголовок Authorization при открытии сокета,
// поэтому токен принимается из query.
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Token is required"))
		return
	}

	session, err := h.tokens.Parse(token)
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrInvalidToken)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "WebSocket upgrade error", "error", err.Error())
		return
	}

	client := newClient(h.Manager, conn, session.UserID())
	h.Manager.register <- client

	go client.writePump()
	go client.readPump()
}
