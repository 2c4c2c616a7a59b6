package board

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
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
	RegisterRoutes(api, NewHandler(f.svc, zap.NewNop()), f.svc)
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

func TestBoardRoutesAccessControl(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "ada")
	member := f.user(t, "grace")
	stranger := f.user(t, "eve")

	b, err := f.svc.CreateBoard(context.Background(), admin.ID, CreateBoardRequest{Name: "Roadmap"})
	require.NoError(t, err)
	_, err = f.svc.AddMember(context.Background(), b.ID, member.ID)
	require.NoError(t, err)
	path := "/api/boards/" + strconv.FormatUint(b.ID, 10)

	t.Run("member can read", func(t *testing.T) {
		w := doRequest(newTestRouter(f, member), http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp BoardDetailResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, RoleMember, resp.Role)
		assert.Len(t, resp.Columns, 3)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		w := doRequest(newTestRouter(f, stranger), http.MethodGet, path, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing board", func(t *testing.T) {
		w := doRequest(newTestRouter(f, admin), http.MethodGet, "/api/boards/999999", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := doRequest(newTestRouter(f, admin), http.MethodGet, "/api/boards/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("member cannot rename board", func(t *testing.T) {
		w := doRequest(newTestRouter(f, member), http.MethodPatch, path, `{"name":"Mine"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin adds a column", func(t *testing.T) {
		w := doRequest(newTestRouter(f, admin), http.MethodPost, path+"/columns", `{"name":"Review"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		var col Column
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &col))
		assert.Equal(t, 3, col.Position)
	})

	t.Run("delete column with bad move_to", func(t *testing.T) {
		w := doRequest(newTestRouter(f, admin), http.MethodDelete, path+"/columns/1?move_to=x", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateBoardRoute(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "ada")
	r := newTestRouter(f, admin)

	w := doRequest(r, http.MethodPost, "/api/boards", `{"name":"Launch","columns":["Backlog","Shipped"]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp BoardDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, RoleAdmin, resp.Role)
	require.Len(t, resp.Columns, 2)
	assert.Equal(t, "Shipped", resp.Columns[1].Name)

	w = doRequest(r, http.MethodPost, "/api/boards", `{"description":"no name"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/api/boards", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list BoardListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Boards, 1)
}
