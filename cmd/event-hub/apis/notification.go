package apis

import (
	"context"
	"net/http"
	"time"

	"event-hub-backend/cmd/event-hub/logger"
	"event-hub-backend/cmd/event-hub/model"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type INotificationFeed interface {
	Notifications(ctx context.Context, userID uint) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
}

type INotificationRepo interface {
	MarkRead(ctx context.Context, userID, id uint) error
}

type ISubscriber interface {
	Subscribe(userID uint) (<-chan model.Notification, func())
}

// StreamMessage is one frame on the notification socket.
type StreamMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type NotificationAPI struct {
	feed     INotificationFeed
	repo     INotificationRepo
	hub      ISubscriber
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func NewNotificationAPI(feed INotificationFeed, repo INotificationRepo, hub ISubscriber, log *logger.Logger) *NotificationAPI {

	return &NotificationAPI{
		feed: feed,
		repo: repo,
		hub:  hub,
		log:  log,
		upgrader: websocket.Upgrader{
			// Origins are checked by the CORS layer in front of the router.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (a *NotificationAPI) Setup(g *echo.Group) {
	g.GET("/notifications", a.listNotifications)
	g.GET("/notifications/unread-count", a.unreadCount)
	g.GET("/notifications/ws", a.stream)
	g.PUT("/notifications/read-all", a.markAllRead)
	g.PUT("/notifications/:id/read", a.markRead)
}

func (a *NotificationAPI) listNotifications(c echo.Context) error {

	ctx := c.Request().Context()

	notifications, err := a.feed.Notifications(ctx, identity(c).UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    notifications,
		},
	)
}

func (a *NotificationAPI) unreadCount(c echo.Context) error {

	ctx := c.Request().Context()

	unread, err := a.feed.UnreadCount(ctx, identity(c).UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    map[string]int64{"count": unread},
		},
	)
}

func (a *NotificationAPI) markRead(c echo.Context) error {

	ctx := c.Request().Context()

	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, err)
	}

	if err := a.repo.MarkRead(ctx, identity(c).UserID, id); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
		},
	)
}

func (a *NotificationAPI) markAllRead(c echo.Context) error {

	ctx := c.Request().Context()

	updated, err := a.feed.MarkAllRead(ctx, identity(c).UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "all notifications marked as read",
			Data:    map[string]int64{"updated": updated},
		},
	)
}

// stream pushes notifications to the user as they are sent. The socket is
// write-only; anything the client sends is discarded.
func (a *NotificationAPI) stream(c echo.Context) error {

	userID := identity(c).UserID

	conn, err := a.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		a.log.Warn("WebSocket upgrade failed", "user_id", userID, "error", err)
		return nil
	}

	defer conn.Close()

	ch, unsubscribe := a.hub.Subscribe(userID)
	defer unsubscribe()

	a.log.Debug("Notification stream opened", "user_id", userID)
	defer a.log.Debug("Notification stream closed", "user_id", userID)

	closed := make(chan struct{})
	go func() {
		defer close(closed)

		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := a.write(conn, StreamMessage{Type: "connected"}); err != nil {
		return nil
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case n, ok := <-ch:
			if !ok {
				a.write(conn, StreamMessage{Type: "closed"})
				return nil
			}
			if err := a.write(conn, StreamMessage{Type: "notification", Data: n}); err != nil {
				return nil
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-closed:
			return nil
		}
	}
}

func (a *NotificationAPI) write(conn *websocket.Conn, msg StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
