package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ASB-05/LearnHubPro/internal/config"
	"github.com/ASB-05/LearnHubPro/internal/hub"
	"github.com/ASB-05/LearnHubPro/internal/relay"
	"github.com/ASB-05/LearnHubPro/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades connections onto the live channel and hands each
// inbound frame to the relay.
type WSHandler struct {
	hub   *hub.Hub
	relay relay.Relay
	wsCfg config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, r relay.Relay, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:   h,
		relay: r,
		wsCfg: wsCfg,
	}
}

func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/v1/chat/ws", h.HandleWebSocket)
}

func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleFrame)
}

func (h *WSHandler) handleFrame(client *hub.Client, raw []byte) {
	h.relay.HandleFrame(context.Background(), client, raw)
}
