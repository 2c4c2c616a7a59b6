package invitation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kanbaniq/internal/app/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(f *fixture, actor *user.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		user.SetContext(c, actor)
		c.Next()
	})
	RegisterRoutes(api, NewHandler(f.svc, zap.NewNop()), f.boardSvc)
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInvitationRoutes(t *testing.T) {
	f := newFixture(t)
	grace := f.user(t, "grace")
	member := f.user(t, "bob")
	_, err := f.boardSvc.AddMember(context.Background(), f.board.ID, member.ID)
	require.NoError(t, err)
	path := fmt.Sprintf("/api/boards/%d/invitations", f.board.ID)

	t.Run("only the admin invites", func(t *testing.T) {
		w := doRequest(newTestRouter(f, member), http.MethodPost, path, `{"email":"grace@example.com"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("email is validated", func(t *testing.T) {
		w := doRequest(newTestRouter(f, f.admin), http.MethodPost, path, `{"email":"nope"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	var inv Invitation
	t.Run("admin invites", func(t *testing.T) {
		w := doRequest(newTestRouter(f, f.admin), http.MethodPost, path, `{"email":"grace@example.com"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
		assert.Equal(t, "grace@example.com", inv.Email)
	})

	t.Run("invitee sees it", func(t *testing.T) {
		w := doRequest(newTestRouter(f, grace), http.MethodGet, "/api/invitations", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp ReceivedListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Invitations, 1)
		assert.Equal(t, "Roadmap", resp.Invitations[0].BoardName)
	})

	t.Run("someone else cannot accept", func(t *testing.T) {
		w := doRequest(newTestRouter(f, member), http.MethodPost, "/api/invitations/"+inv.Token+"/accept", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invitee accepts once", func(t *testing.T) {
		w := doRequest(newTestRouter(f, grace), http.MethodPost, "/api/invitations/"+inv.Token+"/accept", "")
		require.Equal(t, http.StatusOK, w.Code)
		w = doRequest(newTestRouter(f, grace), http.MethodPost, "/api/invitations/"+inv.Token+"/accept", "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		w := doRequest(newTestRouter(f, grace), http.MethodGet, "/api/invitations/garbage", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
