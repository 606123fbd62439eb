package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"weddingshop/events"
	"weddingshop/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// NotificationHub pushes events to the websocket connections of the user they concern.
type NotificationHub struct {
	clients    map[uint]map[*websocket.Conn]bool // userID -> connections
	broadcast  chan events.Event
	register   chan Subscription
	unregister chan Subscription
	done       chan struct{}
	mu         sync.Mutex
}

type Subscription struct {
	Conn   *websocket.Conn
	UserID uint
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan events.Event, 64),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
		done:       make(chan struct{}),
	}
}

// Run serves register/unregister/broadcast until ctx is done.
func (h *NotificationHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.UserID] == nil {
				h.clients[sub.UserID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.UserID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.UserID][sub.Conn]; ok {
				delete(h.clients[sub.UserID], sub.Conn)
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[ev.UserID] {
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteJSON(ev); err != nil {
					zap.L().Warn("ws write error", zap.Uint("user_id", ev.UserID), zap.Error(err))
					conn.Close()
					delete(h.clients[ev.UserID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *NotificationHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for uid, conns := range h.clients {
		for conn := range conns {
			conn.Close()
		}
		delete(h.clients, uid)
	}
}

// Publish queues ev for its user. A full queue drops the notification rather than stalling the
// request that produced it.
func (h *NotificationHub) Publish(_ context.Context, _ string, ev events.Event) error {
	if ev.UserID == 0 {
		return nil
	}
	select {
	case h.broadcast <- ev:
	default:
		zap.L().Warn("notification dropped", zap.String("type", ev.Type), zap.Uint("user_id", ev.UserID))
	}
	return nil
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket serves GET /ws/notifications.
func (h *NotificationHub) HandleWebSocket(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	if userID == 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("ws upgrade error", zap.Error(err))
		return
	}

	sub := Subscription{Conn: conn, UserID: userID}
	select {
	case h.register <- sub:
	case <-h.done:
		conn.Close()
		return
	}
	go h.readPump(sub)
}

// readPump drains client frames; clients only listen, so any frame just keeps the link alive.
func (h *NotificationHub) readPump(sub Subscription) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
