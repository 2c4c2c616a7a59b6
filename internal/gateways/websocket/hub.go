package websocket

import (
	"context"
	"encoding/json"
	"time"

	"kanbaniq/internal/app/board"
	"kanbaniq/internal/app/user"
	"kanbaniq/internal/providers/firebase"
	"kanbaniq/internal/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

type Client struct {
	hub     *Hub
	conn    ClientConn
	ID      string
	BoardID uint64
	UserID  uint64
	send    chan []byte
}

type ClientConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

func newClient(hub *Hub, conn ClientConn, boardID, userID uint64) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		ID:      uuid.NewString(),
		BoardID: boardID,
		UserID:  userID,
		send:    make(chan []byte, sendBuffer),
	}
}

// Hub fans board events out to the sockets subscribed to that board. All
// client bookkeeping happens on the Run goroutine.
type Hub struct {
	boards     map[uint64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	events     <-chan utils.Event
	done       chan struct{}

	bus           *utils.EventBus
	reportedDrops uint64

	verifier firebase.Verifier
	userSvc  user.Service
	boardSvc board.Service
	logger   *zap.SugaredLogger
}

func NewHub(
	eventBus *utils.EventBus,
	verifier firebase.Verifier,
	userSvc user.Service,
	boardSvc board.Service,
	logger *zap.Logger,
) *Hub {
	return &Hub{
		boards:     make(map[uint64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     eventBus.SubscribeCh(),
		done:       make(chan struct{}),
		bus:        eventBus,
		verifier:   verifier,
		userSvc:    userSvc,
		boardSvc:   boardSvc,
		logger:     logger.Sugar(),
	}
}

func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket Hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.boards {
				for client := range clients {
					h.drop(client)
				}
			}
			h.logger.Info("WebSocket Hub stopped")
			return

		case client := <-h.register:
			clients, ok := h.boards[client.BoardID]
			if !ok {
				clients = make(map[*Client]struct{})
				h.boards[client.BoardID] = clients
			}
			clients[client] = struct{}{}
			h.logger.Infow("Client connected",
				"client_id", client.ID,
				"board_id", client.BoardID,
				"user_id", client.UserID,
				"board_clients", len(clients),
			)

		case client := <-h.unregister:
			if _, ok := h.boards[client.BoardID][client]; ok {
				h.drop(client)
				h.logger.Infow("Client disconnected",
					"client_id", client.ID,
					"board_id", client.BoardID,
					"user_id", client.UserID,
				)
			}

		case ev := <-h.events:
			h.reportDrops()
			h.broadcast(ev)
		}
	}
}

// broadcast delivers ev to every client on its board. A client whose buffer is
// full is dropped rather than allowed to stall the others.
func (h *Hub) broadcast(ev utils.Event) {
	clients := h.boards[ev.BoardID]
	if len(clients) == 0 {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Errorw("Failed to encode event", "event", ev.Event, "board_id", ev.BoardID, "error", err)
		return
	}

	for client := range clients {
		select {
		case client.send <- payload:
		default:
			h.logger.Warnw("Dropping slow client", "client_id", client.ID, "board_id", client.BoardID)
			h.drop(client)
		}
	}

	switch ev.Event {
	case utils.EventBoardDeleted:
		for client := range h.boards[ev.BoardID] {
			h.drop(client)
		}
	case utils.EventMemberRemoved:
		removed, ok := removedUserID(ev.Data)
		if !ok {
			return
		}
		for client := range h.boards[ev.BoardID] {
			if client.UserID == removed {
				h.drop(client)
			}
		}
	}
}

// drop forgets the client and closes its send channel, which makes its write
// pump close the socket.
func (h *Hub) drop(client *Client) {
	clients := h.boards[client.BoardID]
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.boards, client.BoardID)
	}
	close(client.send)
}

func removedUserID(data interface{}) (uint64, bool) {
	m, ok := data.(map[string]interface{})
	if !ok {
		return 0, false
	}
	id, ok := m["user_id"].(uint64)
	return id, ok
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// Clients only listen; anything they send is discarded.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reportDrops logs events the bus discarded since the last report.
func (h *Hub) reportDrops() {
	total := h.bus.Dropped()
	if total <= h.reportedDrops {
		return
	}
	h.logger.Warnw("Realtime events dropped, event bus was full",
		"dropped", total-h.reportedDrops,
		"dropped_total", total,
	)
	h.reportedDrops = total
}
