package task

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"kanbaniq/internal/app/board"
	"kanbaniq/internal/app/notification"
	"kanbaniq/internal/app/user"
	"kanbaniq/internal/providers/redis"
	"kanbaniq/internal/utils"

	"go.uber.org/zap"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

type Service interface {
	CreateTask(ctx context.Context, boardID uint64, actor *user.User, req CreateTaskRequest) (*Task, error)
	ListTasks(ctx context.Context, boardID uint64, filter ListFilter) ([]*Task, error)
	GetTask(ctx context.Context, boardID, taskID uint64) (*Task, error)
	ListAssignedToUser(ctx context.Context, userID uint64) ([]*AssignedTask, error)
	UpdateTask(ctx context.Context, boardID, taskID uint64, actor *user.User, req UpdateTaskRequest) (*Task, error)
	MoveTask(ctx context.Context, boardID, taskID uint64, req MoveTaskRequest) (*MoveResult, error)
	DeleteTask(ctx context.Context, boardID, taskID uint64, actor *user.User) error
}

type service struct {
	repo     Repository
	boardSvc board.Service
	notifier notification.Notifier
	redisP   *redis.RedisProvider
	eventBus *utils.EventBus
	logger   *zap.SugaredLogger
}

func NewService(
	repo Repository,
	boardSvc board.Service,
	notifier notification.Notifier,
	redisP *redis.RedisProvider,
	eventBus *utils.EventBus,
	logger *zap.Logger,
) Service {
	return &service{
		repo:     repo,
		boardSvc: boardSvc,
		notifier: notifier,
		redisP:   redisP,
		eventBus: eventBus,
		logger:   logger.Sugar(),
	}
}

func validateTitle(title string) error {
	if n := utf8.RuneCountInString(title); n < 1 || n > maxTitleLength {
		return fmt.Errorf("%w: title must be between 1 and %d characters, got %d", utils.ErrValidation, maxTitleLength, n)
	}
	return nil
}

func validateDescription(description string) error {
	if n := utf8.RuneCountInString(description); n > maxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters, got %d", utils.ErrValidation, maxDescriptionLength, n)
	}
	return nil
}

func validatePriority(priority string) error {
	if !ValidPriority(priority) {
		return fmt.Errorf("%w: priority must be one of low, medium, high", utils.ErrValidation)
	}
	return nil
}

// column resolves columnID on the board, or the board's first column when
// columnID is nil.
func (s *service) column(ctx context.Context, boardID uint64, columnID *uint64) (*board.Column, error) {
	if columnID == nil {
		columns, err := s.boardSvc.ListColumns(ctx, boardID)
		if err != nil {
			return nil, err
		}
		if len(columns) == 0 {
			return nil, fmt.Errorf("%w: board has no columns", utils.ErrConflict)
		}
		return columns[0], nil
	}
	col, err := s.boardSvc.GetColumn(ctx, boardID, *columnID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, fmt.Errorf("%w: column %d does not belong to this board", utils.ErrValidation, *columnID)
		}
		return nil, err
	}
	return col, nil
}

func (s *service) checkAssignee(ctx context.Context, boardID, userID uint64) error {
	if _, err := s.boardSvc.Membership(ctx, boardID, userID); err != nil {
		if errors.Is(err, utils.ErrForbidden) {
			return fmt.Errorf("%w: assignee %d is not a member of this board", utils.ErrValidation, userID)
		}
		return err
	}
	return nil
}

func (s *service) CreateTask(ctx context.Context, boardID uint64, actor *user.User, req CreateTaskRequest) (*Task, error) {
	title := strings.TrimSpace(req.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.Description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if err := validatePriority(priority); err != nil {
		return nil, err
	}
	col, err := s.column(ctx, boardID, req.ColumnID)
	if err != nil {
		return nil, err
	}

	t := &Task{
		BoardID:     boardID,
		ColumnID:    col.ID,
		Title:       title,
		Description: description,
		Priority:    priority,
		DueDate:     req.DueDate,
		CreatedByID: actor.ID,
	}
	if req.AssignedToID != nil {
		if err := s.checkAssignee(ctx, boardID, *req.AssignedToID); err != nil {
			return nil, err
		}
		assignee, assigner := *req.AssignedToID, actor.ID
		t.AssignedToID = &assignee
		t.AssignedByID = &assigner
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	s.logger.Infow("Task created", "task_id", t.ID, "board_id", boardID, "column_id", t.ColumnID, "actor_id", actor.ID)

	s.invalidate(ctx, boardID, t.AssignedToID)
	s.eventBus.Publish(boardID, utils.EventTaskCreated, t)
	s.notifier.TaskChanged(ctx, notification.TaskEvent{
		Kind:    notification.KindTaskCreated,
		BoardID: boardID,
		Actor:   actor,
		Task:    snapshot(t, col.Name),
	})
	return t, nil
}

func (s *service) ListTasks(ctx context.Context, boardID uint64, filter ListFilter) ([]*Task, error) {
	if filter.Priority != "" {
		if err := validatePriority(filter.Priority); err != nil {
			return nil, err
		}
	}
	cacheKey := utils.TaskListKey(boardID, filter.cacheKey())
	var cached []*Task
	if s.redisP.GetJSON(ctx, cacheKey, &cached) {
		return cached, nil
	}

	tasks, err := s.repo.List(ctx, boardID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*Task{}
	}
	s.redisP.SetJSON(ctx, cacheKey, tasks, 0)
	return tasks, nil
}

func (s *service) GetTask(ctx context.Context, boardID, taskID uint64) (*Task, error) {
	t, err := s.repo.GetByID(ctx, boardID, taskID)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: task %d", utils.ErrNotFound, taskID)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (s *service) ListAssignedToUser(ctx context.Context, userID uint64) ([]*AssignedTask, error) {
	cacheKey := utils.AssignedTasksKey(userID)
	var cached []*AssignedTask
	if s.redisP.GetJSON(ctx, cacheKey, &cached) {
		return cached, nil
	}

	tasks, err := s.repo.ListAssignedTo(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*AssignedTask{}
	}
	s.redisP.SetJSON(ctx, cacheKey, tasks, 0)
	return tasks, nil
}

func (s *service) UpdateTask(ctx context.Context, boardID, taskID uint64, actor *user.User, req UpdateTaskRequest) (*Task, error) {
	if req.ColumnID != nil {
		return nil, fmt.Errorf("%w: use the move endpoint to change a task's column", utils.ErrValidation)
	}
	if req.Unassign && req.AssignedToID != nil {
		return nil, fmt.Errorf("%w: assigned_to_id and unassign are mutually exclusive", utils.ErrValidation)
	}
	if req.ClearDueDate && req.DueDate != nil {
		return nil, fmt.Errorf("%w: due_date and clear_due_date are mutually exclusive", utils.ErrValidation)
	}

	current, err := s.GetTask(ctx, boardID, taskID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	var changes []string
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		if title != current.Title {
			fields["title"] = title
			changes = append(changes, "title")
		}
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if err := validateDescription(description); err != nil {
			return nil, err
		}
		if description != current.Description {
			fields["description"] = description
			changes = append(changes, "description")
		}
	}
	if req.Priority != nil {
		if err := validatePriority(*req.Priority); err != nil {
			return nil, err
		}
		if *req.Priority != current.Priority {
			fields["priority"] = *req.Priority
			changes = append(changes, "priority")
		}
	}
	switch {
	case req.ClearDueDate && current.DueDate != nil:
		fields["due_date"] = nil
		changes = append(changes, "due date")
	case req.DueDate != nil && (current.DueDate == nil || !current.DueDate.Equal(*req.DueDate)):
		fields["due_date"] = *req.DueDate
		changes = append(changes, "due date")
	}

	previousAssignee := current.AssignedToID
	assigneeChanged := false
	switch {
	case req.Unassign && current.AssignedToID != nil:
		fields["assigned_to_id"] = nil
		fields["assigned_by_id"] = nil
		assigneeChanged = true
	case req.AssignedToID != nil && (current.AssignedToID == nil || *current.AssignedToID != *req.AssignedToID):
		if err := s.checkAssignee(ctx, boardID, *req.AssignedToID); err != nil {
			return nil, err
		}
		fields["assigned_to_id"] = *req.AssignedToID
		fields["assigned_by_id"] = actor.ID
		assigneeChanged = true
	}
	if assigneeChanged {
		changes = append(changes, "assignee")
	}

	if len(fields) == 0 {
		return current, nil
	}
	fields["updated_at"] = time.Now()
	if err := s.repo.Update(ctx, taskID, fields); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: task %d", utils.ErrNotFound, taskID)
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	updated, err := s.GetTask(ctx, boardID, taskID)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("Task updated", "task_id", taskID, "board_id", boardID, "changes", changes, "actor_id", actor.ID)

	s.invalidate(ctx, boardID, previousAssignee, updated.AssignedToID)
	s.eventBus.Publish(boardID, utils.EventTaskUpdated, updated)

	ev := notification.TaskEvent{
		Kind:    notification.KindTaskUpdated,
		BoardID: boardID,
		Actor:   actor,
		Task:    snapshot(updated, s.columnName(ctx, boardID, updated.ColumnID)),
		Changes: changes,
	}
	if assigneeChanged {
		ev.AssigneeChanged = true
		ev.PreviousAssigneeID = previousAssignee
	}
	s.notifier.TaskChanged(ctx, ev)
	return updated, nil
}

// MoveTask is the drag-and-drop primitive. It never sends email.
func (s *service) MoveTask(ctx context.Context, boardID, taskID uint64, req MoveTaskRequest) (*MoveResult, error) {
	if _, err := s.column(ctx, boardID, &req.ColumnID); err != nil {
		return nil, err
	}
	// No position appends; the repository clamps it to the column length.
	position := math.MaxInt
	if req.Position != nil {
		position = *req.Position
	}

	result, err := s.repo.Move(ctx, boardID, taskID, req.ColumnID, position)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: task %d", utils.ErrNotFound, taskID)
		}
		return nil, fmt.Errorf("failed to move task: %w", err)
	}
	if !result.Moved {
		return result, nil
	}

	s.invalidate(ctx, boardID, result.Task.AssignedToID)
	s.eventBus.Publish(boardID, utils.EventTaskMoved, map[string]interface{}{
		"task":    result.Task,
		"columns": result.Columns,
	})
	return result, nil
}

func (s *service) DeleteTask(ctx context.Context, boardID, taskID uint64, actor *user.User) error {
	deleted, err := s.repo.Delete(ctx, boardID, taskID)
	if err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("%w: task %d", utils.ErrNotFound, taskID)
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	s.logger.Infow("Task deleted", "task_id", taskID, "board_id", boardID, "actor_id", actor.ID)

	s.invalidate(ctx, boardID, deleted.AssignedToID)
	s.eventBus.Publish(boardID, utils.EventTaskDeleted, map[string]interface{}{
		"task_id":   deleted.ID,
		"column_id": deleted.ColumnID,
	})
	s.notifier.TaskChanged(ctx, notification.TaskEvent{
		Kind:    notification.KindTaskDeleted,
		BoardID: boardID,
		Actor:   actor,
		Task:    snapshot(deleted, s.columnName(ctx, boardID, deleted.ColumnID)),
	})
	return nil
}

func (s *service) columnName(ctx context.Context, boardID, columnID uint64) string {
	col, err := s.boardSvc.GetColumn(ctx, boardID, columnID)
	if err != nil {
		return ""
	}
	return col.Name
}

func (s *service) invalidate(ctx context.Context, boardID uint64, assignees ...*uint64) {
	s.redisP.DeletePattern(ctx, utils.TaskListPattern(boardID))
	keys := make([]string, 0, len(assignees))
	for _, id := range assignees {
		if id != nil {
			keys = append(keys, utils.AssignedTasksKey(*id))
		}
	}
	s.redisP.Invalidate(ctx, keys...)
}

func snapshot(t *Task, columnName string) notification.TaskSnapshot {
	return notification.TaskSnapshot{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		ColumnName:   columnName,
		AssignedToID: t.AssignedToID,
		AssignedByID: t.AssignedByID,
	}
}
