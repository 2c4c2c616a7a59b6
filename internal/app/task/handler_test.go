package task

import (
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

func newTestRouter(t *testing.T, f *fixture, actor *user.User) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())
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

func TestTaskRoutes(t *testing.T) {
	f := newFixture(t)
	alice := f.member(t, "alice")
	stranger := f.user(t, "eve")
	tasksPath := fmt.Sprintf("/api/boards/%d/tasks", f.board.ID)

	t.Run("create rejects unknown priority", func(t *testing.T) {
		w := doRequest(newTestRouter(t, f, alice), http.MethodPost, tasksPath, `{"title":"x","priority":"urgent"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	var created Task
	t.Run("member creates a task", func(t *testing.T) {
		w := doRequest(newTestRouter(t, f, alice), http.MethodPost, tasksPath, `{"title":"Ship it","priority":"high"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, PriorityHigh, created.Priority)
		assert.Equal(t, f.column(0), created.ColumnID)
		assert.Equal(t, alice.ID, created.CreatedByID)
	})

	t.Run("stranger cannot list", func(t *testing.T) {
		w := doRequest(newTestRouter(t, f, stranger), http.MethodGet, tasksPath, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("malformed column filter", func(t *testing.T) {
		w := doRequest(newTestRouter(t, f, alice), http.MethodGet, tasksPath+"?column_id=abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("patch with column_id is rejected", func(t *testing.T) {
		body := fmt.Sprintf(`{"column_id":%d}`, f.column(1))
		w := doRequest(newTestRouter(t, f, alice), http.MethodPatch, fmt.Sprintf("%s/%d", tasksPath, created.ID), body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("move requires column_id", func(t *testing.T) {
		w := doRequest(newTestRouter(t, f, alice), http.MethodPost, fmt.Sprintf("%s/%d/move", tasksPath, created.ID), `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("move returns column orderings", func(t *testing.T) {
		body := fmt.Sprintf(`{"column_id":%d,"position":0}`, f.column(2))
		w := doRequest(newTestRouter(t, f, alice), http.MethodPost, fmt.Sprintf("%s/%d/move", tasksPath, created.ID), body)
		require.Equal(t, http.StatusOK, w.Code)
		var result MoveResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.True(t, result.Moved)
		require.Len(t, result.Columns, 2)
		assert.Empty(t, result.Columns[0].TaskIDs)
		assert.Equal(t, []uint64{created.ID}, result.Columns[1].TaskIDs)
	})

	t.Run("missing task", func(t *testing.T) {
		w := doRequest(newTestRouter(t, f, alice), http.MethodGet, tasksPath+"/999999", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := doRequest(newTestRouter(t, f, alice), http.MethodDelete, fmt.Sprintf("%s/%d", tasksPath, created.ID), "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("my tasks", func(t *testing.T) {
		w := doRequest(newTestRouter(t, f, alice), http.MethodGet, "/api/me/tasks", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp AssignedTaskListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Tasks)
	})
}
