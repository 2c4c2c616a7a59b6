package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kanbaniq/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPinger struct{}

func (failingPinger) Name() string { return "Kafka" }

func (failingPinger) Ping(context.Context) error { return errors.New("no brokers reachable") }

func serve(checker *utils.HealthChecker) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api"), NewHandler(NewService(checker)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	return w
}

func TestHealthEndpoint(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	t.Run("healthy", func(t *testing.T) {
		w := serve(&utils.HealthChecker{Redis: client})
		require.Equal(t, http.StatusOK, w.Code)
		var status utils.HealthStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
	})

	t.Run("degraded", func(t *testing.T) {
		w := serve(&utils.HealthChecker{Redis: client, Extra: []utils.Pinger{failingPinger{}}})
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		var status utils.HealthStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "degraded", status.Status)
		require.Len(t, status.Services, 2)
		assert.Equal(t, "no brokers reachable", status.Services[1].Message)
	})
}
