package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusPublishDropsWhenFull(t *testing.T) {
	bus := NewEventBus(2)

	bus.Publish(1, "task_created", map[string]int{"task_id": 1})
	bus.Publish(1, "task_created", map[string]int{"task_id": 2})
	bus.Publish(1, "task_created", map[string]int{"task_id": 3})

	assert.Equal(t, uint64(1), bus.Dropped())

	first := <-bus.SubscribeCh()
	require.Equal(t, "task_created", first.Event)
	assert.Equal(t, uint64(1), first.BoardID)
	assert.Equal(t, map[string]int{"task_id": 1}, first.Data)
}
