package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kanbaniq/internal/app/board"
	"kanbaniq/internal/app/user"
	"kanbaniq/internal/providers/firebase"
	"kanbaniq/internal/testutil"
	"kanbaniq/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newBareHub() *Hub {
	return NewHub(utils.NewEventBus(10), nil, nil, nil, zap.NewNop())
}

func attach(h *Hub, boardID, userID uint64, buffer int) *Client {
	c := &Client{hub: h, ID: fmt.Sprintf("c-%d-%d", boardID, userID), BoardID: boardID, UserID: userID, send: make(chan []byte, buffer)}
	if h.boards[boardID] == nil {
		h.boards[boardID] = map[*Client]struct{}{}
	}
	h.boards[boardID][c] = struct{}{}
	return c
}

func closed(c *Client) bool {
	for {
		select {
		case _, ok := <-c.send:
			if !ok {
				return true
			}
		default:
			return false
		}
	}
}

func TestBroadcastIsScopedToBoard(t *testing.T) {
	h := newBareHub()
	onBoard := attach(h, 1, 10, 4)
	elsewhere := attach(h, 2, 10, 4)

	h.broadcast(utils.Event{Event: utils.EventTaskCreated, BoardID: 1, Data: map[string]interface{}{"id": 5}})

	require.Len(t, onBoard.send, 1)
	assert.Empty(t, elsewhere.send)

	var ev utils.Event
	require.NoError(t, json.Unmarshal(<-onBoard.send, &ev))
	assert.Equal(t, utils.EventTaskCreated, ev.Event)
	assert.Equal(t, uint64(1), ev.BoardID)
}

func TestBroadcastDropsSlowClient(t *testing.T) {
	h := newBareHub()
	slow := attach(h, 1, 10, 1)
	fast := attach(h, 1, 11, 8)

	for i := 0; i < 3; i++ {
		h.broadcast(utils.Event{Event: utils.EventTaskUpdated, BoardID: 1})
	}

	assert.True(t, closed(slow))
	assert.Len(t, fast.send, 3)
	assert.Len(t, h.boards[1], 1)
}

func TestMemberRemovedDisconnectsThatUser(t *testing.T) {
	h := newBareHub()
	removed := attach(h, 1, 10, 4)
	stays := attach(h, 1, 11, 4)

	h.broadcast(utils.Event{Event: utils.EventMemberRemoved, BoardID: 1, Data: map[string]interface{}{"user_id": uint64(10)}})

	assert.True(t, closed(removed), "the removed user still gets the event, then the socket closes")
	assert.False(t, closed(stays))
	assert.Len(t, h.boards[1], 1)
}

func TestBoardDeletedDisconnectsEveryone(t *testing.T) {
	h := newBareHub()
	a := attach(h, 1, 10, 4)
	b := attach(h, 1, 11, 4)

	h.broadcast(utils.Event{Event: utils.EventBoardDeleted, BoardID: 1})

	assert.True(t, closed(a))
	assert.True(t, closed(b))
	assert.NotContains(t, h.boards, uint64(1))
}

var secret = []byte("ws-secret")

func signed(t *testing.T, u *user.User) string {
	t.Helper()
	now := time.Now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.FirebaseUID,
		"email": u.Email,
		"exp":   now.Add(time.Minute).Unix(),
		"iat":   now.Unix(),
	}).SignedString(secret)
	require.NoError(t, err)
	return tok
}

func TestServeWS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t, &user.User{}, &board.Board{}, &board.Member{}, &board.Column{})
	redisP, _ := testutil.NewRedis(t)
	users := user.NewRepository(db)
	userSvc := user.NewService(users, redisP, zap.NewNop())
	bus := utils.NewEventBus(100)
	boardSvc := board.NewService(board.NewRepository(db), userSvc, redisP, bus, zap.NewNop())

	ada := &user.User{FirebaseUID: "uid-ada", Email: "ada@example.com", DisplayName: "ada"}
	eve := &user.User{FirebaseUID: "uid-eve", Email: "eve@example.com", DisplayName: "eve"}
	require.NoError(t, users.Create(context.Background(), ada))
	require.NoError(t, users.Create(context.Background(), eve))
	b, err := boardSvc.CreateBoard(context.Background(), ada.ID, board.CreateBoardRequest{Name: "Roadmap"})
	require.NoError(t, err)

	hub := NewHub(bus, firebase.NewHS256Verifier(secret, ""), userSvc, boardSvc, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	r := gin.New()
	RegisterRoutes(r, hub)
	srv := httptest.NewServer(r)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	t.Run("non-member is refused before upgrade", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s?board_id=%d&token=%s", base, b.ID, signed(t, eve)), nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s?board_id=%d", base, b.ID), nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("member receives board events", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s?board_id=%d&token=%s", base, b.ID, signed(t, ada)), nil)
		require.NoError(t, err)
		defer conn.Close()

		// Registration is asynchronous, so keep publishing until one lands.
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			ticker := time.NewTicker(20 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					bus.Publish(b.ID, utils.EventBoardUpdated, map[string]interface{}{"name": "Roadmap"})
				}
			}
		}()

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
		var ev utils.Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, utils.EventBoardUpdated, ev.Event)
		assert.Equal(t, b.ID, ev.BoardID)
	})
}

func TestHubReportsDroppedEvents(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	bus := utils.NewEventBus(1)
	h := NewHub(bus, nil, nil, nil, zap.New(core))

	for i := 0; i < 3; i++ {
		bus.Publish(1, utils.EventTaskMoved, nil)
	}
	h.reportDrops()
	h.reportDrops()

	entries := logs.FilterMessage("Realtime events dropped, event bus was full").All()
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(2), entries[0].ContextMap()["dropped"])

	bus.Publish(1, utils.EventTaskMoved, nil)
	h.reportDrops()
	entries = logs.FilterMessage("Realtime events dropped, event bus was full").All()
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(3), entries[1].ContextMap()["dropped_total"])
}
