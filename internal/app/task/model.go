package task

import (
	"fmt"
	"time"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID           uint64     `json:"id" gorm:"primaryKey"`
	BoardID      uint64     `json:"board_id" gorm:"not null;index"`
	ColumnID     uint64     `json:"column_id" gorm:"not null;index"`
	Title        string     `json:"title" gorm:"size:200;not null"`
	Description  string     `json:"description" gorm:"type:text"`
	Priority     string     `json:"priority" gorm:"size:16;not null;default:'medium'"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Position     int        `json:"position" gorm:"not null"`
	CreatedByID  uint64     `json:"created_by_id" gorm:"not null"`
	AssignedToID *uint64    `json:"assigned_to_id,omitempty" gorm:"index"`
	AssignedByID *uint64    `json:"assigned_by_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AssignedTask is a task in the cross-board "assigned to me" list.
type AssignedTask struct {
	Task
	BoardName  string `json:"board_name"`
	ColumnName string `json:"column_name"`
}

type ListFilter struct {
	ColumnID   *uint64
	AssigneeID *uint64
	Priority   string
}

// cacheKey is a stable rendering of the filter for the task list cache.
func (f ListFilter) cacheKey() string {
	part := func(v *uint64) string {
		if v == nil {
			return "*"
		}
		return fmt.Sprint(*v)
	}
	priority := f.Priority
	if priority == "" {
		priority = "*"
	}
	return fmt.Sprintf("c%s:a%s:p%s", part(f.ColumnID), part(f.AssigneeID), priority)
}

type CreateTaskRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	Priority     string     `json:"priority" binding:"omitempty,priority"`
	DueDate      *time.Time `json:"due_date"`
	ColumnID     *uint64    `json:"column_id"`
	AssignedToID *uint64    `json:"assigned_to_id"`
}

// UpdateTaskRequest changes only the fields that are present. ClearDueDate and
// Unassign remove the due date and the assignee.
type UpdateTaskRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Priority     *string    `json:"priority" binding:"omitempty,priority"`
	DueDate      *time.Time `json:"due_date"`
	ClearDueDate bool       `json:"clear_due_date"`
	AssignedToID *uint64    `json:"assigned_to_id"`
	Unassign     bool       `json:"unassign"`
	ColumnID     *uint64    `json:"column_id"`
}

// MoveTaskRequest places the task at Position in ColumnID. A missing position
// appends; out of range positions are clamped.
type MoveTaskRequest struct {
	ColumnID uint64 `json:"column_id" binding:"required"`
	Position *int   `json:"position"`
}

// ColumnOrder is the authoritative order of one column after a move.
type ColumnOrder struct {
	ColumnID uint64   `json:"column_id"`
	TaskIDs  []uint64 `json:"task_ids"`
}

type MoveResult struct {
	Task    *Task         `json:"task"`
	Columns []ColumnOrder `json:"columns"`
	Moved   bool          `json:"moved"`
}

type TaskListResponse struct {
	Tasks []*Task `json:"tasks"`
}

type AssignedTaskListResponse struct {
	Tasks []*AssignedTask `json:"tasks"`
}
