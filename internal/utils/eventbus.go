package utils

import (
	"sync/atomic"
)

const (
	EventBoardUpdated     = "board_updated"
	EventBoardDeleted     = "board_deleted"
	EventMemberJoined     = "member_joined"
	EventMemberRemoved    = "member_removed"
	EventColumnCreated    = "column_created"
	EventColumnUpdated    = "column_updated"
	EventColumnDeleted    = "column_deleted"
	EventColumnsReordered = "columns_reordered"
	EventTaskCreated      = "task_created"
	EventTaskUpdated      = "task_updated"
	EventTaskMoved        = "task_moved"
	EventTaskDeleted      = "task_deleted"
)

type Event struct {
	Event   string      `json:"event"`
	BoardID uint64      `json:"board_id"`
	Data    interface{} `json:"data"`
}

// EventBus hands board events from services to the realtime hub. Publishing
// never blocks: when the buffer is full the event is dropped and counted.
type EventBus struct {
	events  chan Event
	dropped atomic.Uint64
}

func NewEventBus(buffer int) *EventBus {
	if buffer <= 0 {
		buffer = 100
	}
	return &EventBus{
		events: make(chan Event, buffer),
	}
}

func (eb *EventBus) Publish(boardID uint64, event string, data interface{}) {
	e := Event{Event: event, BoardID: boardID, Data: data}
	select {
	case eb.events <- e:
	default:
		eb.dropped.Add(1)
	}
}

func (eb *EventBus) SubscribeCh() <-chan Event {
	return eb.events
}

func (eb *EventBus) Dropped() uint64 {
	return eb.dropped.Load()
}
