package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"

	"shortlink/backend/internal/model"
	"shortlink/backend/internal/service/notify"
	"shortlink/backend/pkg/logger"
)

type NotificationHandler struct {
	notifier     notify.Notifier
	writeTimeout time.Duration
}

func NewNotificationHandler(notifier notify.Notifier, writeTimeout time.Duration) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, writeTimeout: writeTimeout}
}

func (h *NotificationHandler) RegisterRoutes(g *echo.Group, guards RouteGuards) {
	g.GET("/notifications/ws", h.Stream, guards.Stream...)
}

// Stream upgrades to a websocket and holds it as the owner's push channel
// until the client goes away. Inbound frames are read and discarded.
func (h *NotificationHandler) Stream(c echo.Context) error {
	ownerID := OwnerID(c)
	if ownerID == "" {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	server := websocket.Server{
		// Browsers on other origins carry a bearer token in the query; the
		// token is the access check.
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler: func(conn *websocket.Conn) {
			ch := notify.NewWebSocketChannel(conn, h.writeTimeout)
			h.notifier.Register(ownerID, ch)
			defer func() {
				h.notifier.Release(ownerID, ch.ID())
				_ = ch.Close()
				logger.Debug("channel closed", "module", "handler", "action", "stream", "resource", "channel", "result", "ok",
					"owner_id", ownerID, "channel_id", ch.ID())
			}()

			_ = ch.Send(c.Request().Context(), model.NotificationMessage{
				Type:    model.NotificationSystem,
				Title:   "Connected",
				Message: "Listening for link activity",
			})

			var frame string
			for {
				if err := websocket.Message.Receive(conn, &frame); err != nil {
					return
				}
			}
		},
	}
	server.ServeHTTP(c.Response(), c.Request())
	return nil
}
