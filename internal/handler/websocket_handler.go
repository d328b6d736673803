package handler

import (
	"net/http"
	"strconv"

	"github.com/aluvasquez/schoolledger/internal/service"
	ws "github.com/aluvasquez/schoolledger/internal/websocket"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades HTTP connections to long-lived admin-console
// feeds, one per representative channel (or the admin-wide channel).
type WebSocketHandler struct {
	hub      *ws.Hub
	auth     *service.AuthService
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, auth *service.AuthService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The admin console is served from a small, known set of origins;
			// CORS-style origin checks belong to the HTTP middleware stack.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe upgrades the connection and joins the caller to a channel.
// A representative ID path param joins that representative's channel;
// the literal "admin" joins the admin-wide channel.
//
// Browsers cannot set Authorization headers on the WebSocket handshake, so
// the bearer token is accepted as a "token" query parameter here in
// addition to the header middleware supports elsewhere.
func (h *WebSocketHandler) Subscribe(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return NewUnauthorizedError(c, "missing token")
	}
	if _, err := h.auth.ParseToken(token); err != nil {
		return NewUnauthorizedError(c, "invalid or expired token")
	}

	channelID := ws.ChannelAdmin
	if param := c.Param("channel"); param != "" && param != "admin" {
		id, err := strconv.ParseInt(param, 10, 32)
		if err != nil {
			return NewValidationError(c, "channel must be a representative id or \"admin\"", nil)
		}
		channelID = int32(id)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return err
	}

	client := ws.NewClient(conn, channelID, h.hub)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	return nil
}
