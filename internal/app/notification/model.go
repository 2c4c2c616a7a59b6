package notification

import (
	"time"

	"kanbaniq/internal/app/user"
)

const (
	KindTaskCreated        = "task_created"
	KindTaskUpdated        = "task_updated"
	KindTaskAssigned       = "task_assigned"
	KindTaskDeleted        = "task_deleted"
	KindBoardInvitation    = "board_invitation"
	KindInvitationAccepted = "invitation_accepted"
)

// TaskSnapshot is the state of a task as the email should describe it.
type TaskSnapshot struct {
	ID           uint64
	Title        string
	Description  string
	Priority     string
	DueDate      *time.Time
	ColumnName   string
	AssignedToID *uint64
	AssignedByID *uint64
}

// TaskEvent describes a committed task write. Kind is one of task_created,
// task_updated or task_deleted; task_assigned is derived per recipient.
type TaskEvent struct {
	Kind               string
	BoardID            uint64
	Actor              *user.User
	Task               TaskSnapshot
	AssigneeChanged    bool
	PreviousAssigneeID *uint64
	Changes            []string
}

type InvitationEvent struct {
	BoardID   uint64
	Email     string
	Token     string
	ExpiresAt time.Time
	Inviter   *user.User
}

type AcceptedEvent struct {
	BoardID  uint64
	Accepter *user.User
}

// Job is one rendered email. It is what travels through the queue.
type Job struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Text      string    `json:"text"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
}
