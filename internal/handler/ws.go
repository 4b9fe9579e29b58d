package handler

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"

	"github.com/todoiti/todoiti/internal/config"
	"github.com/todoiti/todoiti/internal/model"
	"github.com/todoiti/todoiti/internal/realtime"
	"github.com/todoiti/todoiti/internal/repository"
	"github.com/todoiti/todoiti/internal/utils"
)

// WSHandler upgrades clients to WebSocket and registers them on the
// realtime hub. The access token arrives as a query parameter because the
// browser WebSocket handshake cannot set an Authorization header. Access
// is checked once at connect time, not per message; a suspension during
// an open connection takes effect on the next connect.
type WSHandler struct {
	Cfg    config.Config
	Access *repository.AccessRepo
	Hub    *realtime.Hub
}

func NewWSHandler(cfg config.Config, access *repository.AccessRepo, hub *realtime.Hub) *WSHandler {
	return &WSHandler{Cfg: cfg, Access: access, Hub: hub}
}

type wsFailure struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Subscribe handles GET /v1/ws/:taskListId?accessToken=...
func (h *WSHandler) Subscribe(c echo.Context) error {
	taskListID := c.Param("taskListId")
	accessToken := c.QueryParam("accessToken")

	websocket.Handler(func(conn *websocket.Conn) {
		h.serve(conn, taskListID, accessToken)
	}).ServeHTTP(c.Response(), c.Request())
	return nil
}

// serve authenticates the connection, registers it on the hub and blocks
// until the client goes away. Auth failures answer with a structured
// failure frame before closing, so clients can tell an auth problem from
// a network drop.
func (h *WSHandler) serve(conn *websocket.Conn, taskListID, accessToken string) {
	defer conn.Close()

	if accessToken == "" {
		log.Printf("ws: missing accessToken for task list %s", taskListID)
		h.fail(conn)
		return
	}
	userID, _, err := utils.ParseToken(h.Cfg.JWTAccessSecret, accessToken)
	if err != nil {
		log.Printf("ws: invalid accessToken for task list %s: %v", taskListID, err)
		h.fail(conn)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	grant, err := h.Access.Get(ctx, userID, taskListID)
	cancel()
	if err != nil {
		log.Printf("ws: no access for user %s on task list %s", userID, taskListID)
		h.fail(conn)
		return
	}
	if grant.Level == model.AccessSuspended || grant.Expired(time.Now().UTC()) || !grant.Level.Satisfies(model.AccessRead) {
		h.fail(conn)
		return
	}

	sub := realtime.NewSubscriber(conn)
	h.Hub.Subscribe(taskListID, sub)
	defer h.Hub.Unsubscribe(taskListID, sub)

	// Block until the peer disconnects. Inbound frames carry no meaning
	// in this protocol and are discarded.
	for {
		var discard string
		if err := websocket.Message.Receive(conn, &discard); err != nil {
			return
		}
	}
}

func (h *WSHandler) fail(conn *websocket.Conn) {
	_ = websocket.JSON.Send(conn, wsFailure{Status: "failed", Message: "Unauthorized"})
}
