package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kanbaniq/internal/app/board"
	"kanbaniq/internal/utils"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, boardID, taskID uint64) (*Task, error)
	List(ctx context.Context, boardID uint64, filter ListFilter) ([]*Task, error)
	ListAssignedTo(ctx context.Context, userID uint64) ([]*AssignedTask, error)
	Update(ctx context.Context, taskID uint64, fields map[string]interface{}) error
	Move(ctx context.Context, boardID, taskID, toColumnID uint64, position int) (*MoveResult, error)
	Delete(ctx context.Context, boardID, taskID uint64) (*Task, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create appends the task to the end of its column.
func (r *repository) Create(ctx context.Context, task *Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := board.LockBoard(tx, task.BoardID); err != nil {
			return err
		}
		if err := requireColumn(tx, task.BoardID, task.ColumnID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&Task{}).Where("column_id = ?", task.ColumnID).Count(&count).Error; err != nil {
			return err
		}
		task.Position = int(count)
		return tx.Create(task).Error
	})
}

func (r *repository) GetByID(ctx context.Context, boardID, taskID uint64) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).Where("id = ? AND board_id = ?", taskID, boardID).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) List(ctx context.Context, boardID uint64, filter ListFilter) ([]*Task, error) {
	q := r.db.WithContext(ctx).
		Model(&Task{}).
		Select("tasks.*").
		Joins("JOIN board_columns ON board_columns.id = tasks.column_id").
		Where("tasks.board_id = ?", boardID)
	if filter.ColumnID != nil {
		q = q.Where("tasks.column_id = ?", *filter.ColumnID)
	}
	if filter.AssigneeID != nil {
		q = q.Where("tasks.assigned_to_id = ?", *filter.AssigneeID)
	}
	if filter.Priority != "" {
		q = q.Where("tasks.priority = ?", filter.Priority)
	}

	var tasks []*Task
	err := q.Order("board_columns.position ASC, tasks.position ASC, tasks.id ASC").Find(&tasks).Error
	return tasks, err
}

func (r *repository) ListAssignedTo(ctx context.Context, userID uint64) ([]*AssignedTask, error) {
	var tasks []*AssignedTask
	err := r.db.WithContext(ctx).Raw(`
		SELECT tasks.*, boards.name AS board_name, board_columns.name AS column_name
		FROM tasks
		JOIN boards ON boards.id = tasks.board_id
		JOIN board_columns ON board_columns.id = tasks.column_id
		WHERE tasks.assigned_to_id = ?
		ORDER BY CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC, tasks.id ASC
	`, userID).Scan(&tasks).Error
	return tasks, err
}

func (r *repository) Update(ctx context.Context, taskID uint64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Task{}).Where("id = ?", taskID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Move takes the task out of its column, inserts it into toColumnID at
// position (clamped to the column's bounds) and renumbers both columns
// densely. Only rows whose column or position changed are written. The
// returned orderings are what the client should converge to.
func (r *repository) Move(ctx context.Context, boardID, taskID, toColumnID uint64, position int) (*MoveResult, error) {
	var result *MoveResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := board.LockBoard(tx, boardID); err != nil {
			return err
		}
		var moving Task
		if err := board.ForUpdate(tx).Where("id = ? AND board_id = ?", taskID, boardID).First(&moving).Error; err != nil {
			return err
		}
		fromColumnID := moving.ColumnID
		if err := requireColumn(tx, boardID, toColumnID); err != nil {
			return err
		}

		source, err := columnTasks(tx, fromColumnID)
		if err != nil {
			return err
		}
		source = removeTask(source, taskID)

		target := source
		if toColumnID != fromColumnID {
			if target, err = columnTasks(tx, toColumnID); err != nil {
				return err
			}
		}

		if position < 0 {
			position = 0
		}
		if position > len(target) {
			position = len(target)
		}
		target = insertTask(target, &moving, position)

		now := time.Now()
		changed := false
		write := func(columnID uint64, tasks []*Task) error {
			for pos, t := range tasks {
				if t.ColumnID == columnID && t.Position == pos {
					continue
				}
				if err := tx.Model(&Task{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
					"column_id":  columnID,
					"position":   pos,
					"updated_at": now,
				}).Error; err != nil {
					return err
				}
				t.ColumnID = columnID
				t.Position = pos
				t.UpdatedAt = now
				changed = true
			}
			return nil
		}

		result = &MoveResult{Task: &moving}
		if toColumnID != fromColumnID {
			if err := write(fromColumnID, source); err != nil {
				return err
			}
			result.Columns = append(result.Columns, ColumnOrder{ColumnID: fromColumnID, TaskIDs: taskIDs(source)})
		}
		if err := write(toColumnID, target); err != nil {
			return err
		}
		result.Columns = append(result.Columns, ColumnOrder{ColumnID: toColumnID, TaskIDs: taskIDs(target)})
		result.Moved = changed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the task and closes the gap it leaves in its column.
func (r *repository) Delete(ctx context.Context, boardID, taskID uint64) (*Task, error) {
	var deleted Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := board.LockBoard(tx, boardID); err != nil {
			return err
		}
		if err := board.ForUpdate(tx).Where("id = ? AND board_id = ?", taskID, boardID).First(&deleted).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Task{}, taskID).Error; err != nil {
			return err
		}
		remaining, err := columnTasks(tx, deleted.ColumnID)
		if err != nil {
			return err
		}
		for pos, t := range remaining {
			if t.Position == pos {
				continue
			}
			if err := tx.Model(&Task{}).Where("id = ?", t.ID).Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// requireColumn checks, under the board lock, that the column still exists.
func requireColumn(tx *gorm.DB, boardID, columnID uint64) error {
	var col board.Column
	err := tx.Select("id").Where("id = ? AND board_id = ?", columnID, boardID).Take(&col).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: column %d does not belong to this board", utils.ErrValidation, columnID)
	}
	return err
}

func columnTasks(tx *gorm.DB, columnID uint64) ([]*Task, error) {
	var tasks []*Task
	err := board.ForUpdate(tx).
		Where("column_id = ?", columnID).
		Order("position ASC, id ASC").
		Find(&tasks).Error
	return tasks, err
}

func removeTask(tasks []*Task, id uint64) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func insertTask(tasks []*Task, t *Task, pos int) []*Task {
	out := make([]*Task, 0, len(tasks)+1)
	out = append(out, tasks[:pos]...)
	out = append(out, t)
	return append(out, tasks[pos:]...)
}

func taskIDs(tasks []*Task) []uint64 {
	ids := make([]uint64, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
