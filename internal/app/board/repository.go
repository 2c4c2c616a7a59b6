package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kanbaniq/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, board *Board, columnNames []string) error
	GetByID(ctx context.Context, id uint64) (*Board, error)
	ListForUser(ctx context.Context, userID uint64) ([]*BoardSummary, error)
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint64) error

	GetMember(ctx context.Context, boardID, userID uint64) (*Member, error)
	ListMembers(ctx context.Context, boardID uint64) ([]*Member, error)
	AddMember(ctx context.Context, member *Member) (bool, error)
	RemoveMember(ctx context.Context, boardID, userID uint64) error

	ListColumns(ctx context.Context, boardID uint64) ([]*Column, error)
	GetColumn(ctx context.Context, boardID, columnID uint64) (*Column, error)
	CreateColumn(ctx context.Context, column *Column) error
	RenameColumn(ctx context.Context, boardID, columnID uint64, name string) error
	ReorderColumns(ctx context.Context, boardID uint64, ids []uint64) ([]*Column, error)
	DeleteColumn(ctx context.Context, boardID, columnID uint64, moveTo *uint64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts the board, its admin membership and its columns together.
func (r *repository) Create(ctx context.Context, board *Board, columnNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}
		admin := &Member{BoardID: board.ID, UserID: board.AdminID, Role: RoleAdmin, JoinedAt: board.CreatedAt}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		columns := make([]*Column, 0, len(columnNames))
		for i, name := range columnNames {
			columns = append(columns, &Column{BoardID: board.ID, Name: name, Position: i})
		}
		if len(columns) > 0 {
			if err := tx.Create(&columns).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uint64) (*Board, error) {
	var board Board
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uint64) ([]*BoardSummary, error) {
	var boards []*BoardSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT boards.*, board_members.role AS role
		FROM boards
		JOIN board_members ON board_members.board_id = boards.id
		WHERE board_members.user_id = ?
		ORDER BY boards.created_at DESC, boards.id DESC
	`, userID).Scan(&boards).Error
	return boards, err
}

func (r *repository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Board{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the board and everything that hangs off it. Foreign keys are
// not relied on for cascading.
func (r *repository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := LockBoard(tx, id); err != nil {
			return err
		}
		for _, stmt := range []string{
			"DELETE FROM tasks WHERE board_id = ?",
			"DELETE FROM invitations WHERE board_id = ?",
			"DELETE FROM board_columns WHERE board_id = ?",
			"DELETE FROM board_members WHERE board_id = ?",
		} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&Board{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *repository) GetMember(ctx context.Context, boardID, userID uint64) (*Member, error) {
	var m Member
	err := r.db.WithContext(ctx).Where("board_id = ? AND user_id = ?", boardID, userID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) ListMembers(ctx context.Context, boardID uint64) ([]*Member, error) {
	var members []*Member
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("joined_at ASC, user_id ASC").
		Find(&members).Error
	return members, err
}

// AddMember reports whether a new membership row was written; an existing
// membership is left untouched.
func (r *repository) AddMember(ctx context.Context, member *Member) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(member)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RemoveMember deletes the membership and clears the user's assignments on
// the board's tasks.
func (r *repository) RemoveMember(ctx context.Context, boardID, userID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("board_id = ? AND user_id = ?", boardID, userID).Delete(&Member{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Exec(
			"UPDATE tasks SET assigned_to_id = NULL, assigned_by_id = NULL, updated_at = ? WHERE board_id = ? AND assigned_to_id = ?",
			time.Now(), boardID, userID,
		).Error
	})
}

func (r *repository) ListColumns(ctx context.Context, boardID uint64) ([]*Column, error) {
	return listColumns(r.db.WithContext(ctx), boardID)
}

func listColumns(db *gorm.DB, boardID uint64) ([]*Column, error) {
	var columns []*Column
	err := db.Where("board_id = ?", boardID).Order("position ASC, id ASC").Find(&columns).Error
	return columns, err
}

func (r *repository) GetColumn(ctx context.Context, boardID, columnID uint64) (*Column, error) {
	var col Column
	err := r.db.WithContext(ctx).Where("id = ? AND board_id = ?", columnID, boardID).First(&col).Error
	if err != nil {
		return nil, err
	}
	return &col, nil
}

// CreateColumn appends the column after the board's existing ones.
func (r *repository) CreateColumn(ctx context.Context, column *Column) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := LockBoard(tx, column.BoardID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&Column{}).Where("board_id = ?", column.BoardID).Count(&count).Error; err != nil {
			return err
		}
		column.Position = int(count)
		return tx.Create(column).Error
	})
}

func (r *repository) RenameColumn(ctx context.Context, boardID, columnID uint64, name string) error {
	res := r.db.WithContext(ctx).Model(&Column{}).
		Where("id = ? AND board_id = ?", columnID, boardID).
		Updates(map[string]interface{}{"name": name, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReorderColumns sets the column order to ids, which must name every column of
// the board exactly once.
func (r *repository) ReorderColumns(ctx context.Context, boardID uint64, ids []uint64) ([]*Column, error) {
	var out []*Column
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := LockBoard(tx, boardID); err != nil {
			return err
		}
		columns, err := listColumns(tx, boardID)
		if err != nil {
			return err
		}
		if len(ids) != len(columns) {
			return fmt.Errorf("%w: expected %d column ids, got %d", utils.ErrValidation, len(columns), len(ids))
		}
		byID := make(map[uint64]*Column, len(columns))
		for _, c := range columns {
			byID[c.ID] = c
		}
		seen := make(map[uint64]struct{}, len(ids))
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				return fmt.Errorf("%w: column %d does not belong to this board", utils.ErrValidation, id)
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: column %d listed twice", utils.ErrValidation, id)
			}
			seen[id] = struct{}{}
		}

		out = make([]*Column, 0, len(ids))
		for pos, id := range ids {
			col := byID[id]
			if col.Position != pos {
				if err := tx.Model(&Column{}).Where("id = ?", id).Update("position", pos).Error; err != nil {
					return err
				}
				col.Position = pos
			}
			out = append(out, col)
		}
		return nil
	})
	return out, err
}

// DeleteColumn removes a column and closes the gap in the board's column order.
// Tasks of a non-empty column are appended, in order, to moveTo.
func (r *repository) DeleteColumn(ctx context.Context, boardID, columnID uint64, moveTo *uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := LockBoard(tx, boardID); err != nil {
			return err
		}
		columns, err := listColumns(tx, boardID)
		if err != nil {
			return err
		}
		var target *Column
		found := false
		for _, c := range columns {
			if c.ID == columnID {
				found = true
			}
			if moveTo != nil && c.ID == *moveTo {
				target = c
			}
		}
		if !found {
			return gorm.ErrRecordNotFound
		}
		if len(columns) == 1 {
			return fmt.Errorf("%w: a board needs at least one column", utils.ErrConflict)
		}

		var taskIDs []uint64
		if err := tx.Table("tasks").
			Where("column_id = ?", columnID).
			Order("position ASC, id ASC").
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			switch {
			case moveTo == nil:
				return fmt.Errorf("%w: column still has %d tasks, move_to is required", utils.ErrConflict, len(taskIDs))
			case *moveTo == columnID:
				return fmt.Errorf("%w: cannot move tasks into the column being deleted", utils.ErrValidation)
			case target == nil:
				return fmt.Errorf("%w: move_to column %d does not belong to this board", utils.ErrValidation, *moveTo)
			}
			var offset int64
			if err := tx.Table("tasks").Where("column_id = ?", target.ID).Count(&offset).Error; err != nil {
				return err
			}
			now := time.Now()
			for i, id := range taskIDs {
				if err := tx.Table("tasks").Where("id = ?", id).Updates(map[string]interface{}{
					"column_id":  target.ID,
					"position":   int(offset) + i,
					"updated_at": now,
				}).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Delete(&Column{}, columnID).Error; err != nil {
			return err
		}
		pos := 0
		for _, c := range columns {
			if c.ID == columnID {
				continue
			}
			if c.Position != pos {
				if err := tx.Model(&Column{}).Where("id = ?", c.ID).Update("position", pos).Error; err != nil {
					return err
				}
			}
			pos++
		}
		return nil
	})
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ForUpdate adds FOR UPDATE on PostgreSQL. SQLite serializes writers on its own.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// LockBoard takes the board row lock inside tx. Every write that assigns or
// renumbers column or task positions on a board takes it before touching any
// other row, so those writes queue per board and never wait on each other in
// opposite orders. It returns gorm.ErrRecordNotFound for a missing board.
func LockBoard(tx *gorm.DB, boardID uint64) error {
	var b Board
	return ForUpdate(tx).Select("id").Where("id = ?", boardID).Take(&b).Error
}
