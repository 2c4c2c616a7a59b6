package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	name string
	err  error
}

func (s stubPinger) Name() string { return s.name }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func TestHealthCheckerHealthy(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	checker := &HealthChecker{Redis: client, Extra: []Pinger{stubPinger{name: "Kafka"}}}
	status := checker.Check(context.Background())

	assert.Equal(t, "healthy", status.Status)
	require.Len(t, status.Services, 2)
	assert.Equal(t, "Redis", status.Services[0].Name)
	assert.Equal(t, "up", status.Services[0].Status)
}

func TestHealthCheckerDegraded(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	checker := &HealthChecker{Redis: client, Extra: []Pinger{stubPinger{name: "NATS", err: errors.New("no servers")}}}
	status := checker.Check(context.Background())

	assert.Equal(t, "degraded", status.Status)
	for _, svc := range status.Services {
		assert.Equal(t, "down", svc.Status, svc.Name)
		assert.NotEmpty(t, svc.Message)
	}
}
