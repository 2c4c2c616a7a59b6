package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProvider(t *testing.T) (*RedisProvider, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	p := NewRedisProvider(mr.Addr(), zap.NewNop(), time.Minute)
	t.Cleanup(func() { _ = p.Close() })
	return p, mr
}

type cachedBoard struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func TestJSONRoundTripUsesDefaultTTL(t *testing.T) {
	p, mr := newTestProvider(t)
	ctx := context.Background()

	p.SetJSON(ctx, "board:1:detail", cachedBoard{ID: 1, Name: "Roadmap"}, 0)

	var got cachedBoard
	require.True(t, p.GetJSON(ctx, "board:1:detail", &got))
	assert.Equal(t, cachedBoard{ID: 1, Name: "Roadmap"}, got)
	assert.Equal(t, time.Minute, mr.TTL("board:1:detail"))
}

func TestGetJSONEvictsGarbage(t *testing.T) {
	p, mr := newTestProvider(t)
	require.NoError(t, mr.Set("board:2:detail", "{not json"))

	var got cachedBoard
	assert.False(t, p.GetJSON(context.Background(), "board:2:detail", &got))
	assert.False(t, mr.Exists("board:2:detail"))
}

func TestGetJSONMiss(t *testing.T) {
	p, _ := newTestProvider(t)
	var got cachedBoard
	assert.False(t, p.GetJSON(context.Background(), "missing", &got))
}

func TestDeletePattern(t *testing.T) {
	p, mr := newTestProvider(t)
	for i := 0; i < 250; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("tasks:board:7:%d", i), "x"))
	}
	require.NoError(t, mr.Set("tasks:board:8:all", "x"))

	n := p.DeletePattern(context.Background(), "tasks:board:7:*")

	assert.Equal(t, 250, n)
	assert.True(t, mr.Exists("tasks:board:8:all"))
}

func TestSetNX(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	first, err := p.SetNX(ctx, "email:sent:abc", 1, time.Hour).Result()
	require.NoError(t, err)
	second, err := p.SetNX(ctx, "email:sent:abc", 1, time.Hour).Result()
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestInvalidate(t *testing.T) {
	p, mr := newTestProvider(t)
	require.NoError(t, mr.Set("board:3:detail", "x"))
	require.NoError(t, mr.Set("boards:user:4", "x"))
	require.NoError(t, mr.Set("boards:user:5", "x"))

	p.Invalidate(context.Background(), "board:3:detail", "boards:user:4")
	p.Invalidate(context.Background())

	assert.False(t, mr.Exists("board:3:detail"))
	assert.False(t, mr.Exists("boards:user:4"))
	assert.True(t, mr.Exists("boards:user:5"))
}
