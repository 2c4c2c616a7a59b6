package board

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"kanbaniq/internal/app/user"
	"kanbaniq/internal/providers/redis"
	"kanbaniq/internal/utils"

	"go.uber.org/zap"
)

const (
	maxBoardNameLength   = 100
	maxDescriptionLength = 1000
	maxColumnNameLength  = 50
	maxColumns           = 20
)

type Service interface {
	CreateBoard(ctx context.Context, actorID uint64, req CreateBoardRequest) (*BoardDetail, error)
	ListBoards(ctx context.Context, userID uint64) ([]*BoardSummary, error)
	GetBoard(ctx context.Context, boardID uint64) (*Board, error)
	GetBoardDetail(ctx context.Context, boardID uint64) (*BoardDetail, error)
	UpdateBoard(ctx context.Context, boardID uint64, req UpdateBoardRequest) (*Board, error)
	DeleteBoard(ctx context.Context, boardID uint64) error

	Membership(ctx context.Context, boardID, userID uint64) (*Member, error)
	ListMembers(ctx context.Context, boardID uint64) ([]*MemberView, error)
	MemberIDs(ctx context.Context, boardID uint64) ([]uint64, error)
	AddMember(ctx context.Context, boardID, userID uint64) (bool, error)
	MemberJoined(ctx context.Context, boardID, userID uint64)
	RemoveMember(ctx context.Context, boardID, actorID, userID uint64) error

	ListColumns(ctx context.Context, boardID uint64) ([]*Column, error)
	GetColumn(ctx context.Context, boardID, columnID uint64) (*Column, error)
	CreateColumn(ctx context.Context, boardID uint64, name string) (*Column, error)
	RenameColumn(ctx context.Context, boardID, columnID uint64, name string) (*Column, error)
	ReorderColumns(ctx context.Context, boardID uint64, ids []uint64) ([]*Column, error)
	DeleteColumn(ctx context.Context, boardID, columnID uint64, moveTo *uint64) error
}

type service struct {
	repo     Repository
	userSvc  user.Service
	redisP   *redis.RedisProvider
	eventBus *utils.EventBus
	logger   *zap.SugaredLogger
}

func NewService(
	repo Repository,
	userSvc user.Service,
	redisP *redis.RedisProvider,
	eventBus *utils.EventBus,
	logger *zap.Logger,
) Service {
	return &service{
		repo:     repo,
		userSvc:  userSvc,
		redisP:   redisP,
		eventBus: eventBus,
		logger:   logger.Sugar(),
	}
}

func validateLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		if min == 0 {
			return fmt.Errorf("%w: %s must be at most %d characters, got %d", utils.ErrValidation, field, max, n)
		}
		return fmt.Errorf("%w: %s must be between %d and %d characters, got %d", utils.ErrValidation, field, min, max, n)
	}
	return nil
}

func (s *service) CreateBoard(ctx context.Context, actorID uint64, req CreateBoardRequest) (*BoardDetail, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateLength("board name", name, 1, maxBoardNameLength); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.Description)
	if err := validateLength("description", description, 0, maxDescriptionLength); err != nil {
		return nil, err
	}

	columns := DefaultColumns
	if len(req.Columns) > 0 {
		if len(req.Columns) > maxColumns {
			return nil, fmt.Errorf("%w: at most %d columns", utils.ErrValidation, maxColumns)
		}
		columns = make([]string, 0, len(req.Columns))
		for _, c := range req.Columns {
			c = strings.TrimSpace(c)
			if err := validateLength("column name", c, 1, maxColumnNameLength); err != nil {
				return nil, err
			}
			columns = append(columns, c)
		}
	}

	b := &Board{Name: name, Description: description, AdminID: actorID, CreatedAt: time.Now()}
	if err := s.repo.Create(ctx, b, columns); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	s.redisP.Invalidate(ctx, utils.BoardListKey(actorID))
	s.logger.Infow("Board created", "board_id", b.ID, "admin_id", actorID, "columns", len(columns))

	return s.GetBoardDetail(ctx, b.ID)
}

func (s *service) ListBoards(ctx context.Context, userID uint64) ([]*BoardSummary, error) {
	cacheKey := utils.BoardListKey(userID)
	var cached []*BoardSummary
	if s.redisP.GetJSON(ctx, cacheKey, &cached) {
		return cached, nil
	}

	boards, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	if boards == nil {
		boards = []*BoardSummary{}
	}
	s.redisP.SetJSON(ctx, cacheKey, boards, 0)
	return boards, nil
}

func (s *service) GetBoard(ctx context.Context, boardID uint64) (*Board, error) {
	b, err := s.repo.GetByID(ctx, boardID)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: board %d", utils.ErrNotFound, boardID)
		}
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return b, nil
}

func (s *service) GetBoardDetail(ctx context.Context, boardID uint64) (*BoardDetail, error) {
	cacheKey := utils.BoardDetailKey(boardID)
	var cached BoardDetail
	if s.redisP.GetJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	b, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	columns, err := s.repo.ListColumns(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	members, err := s.ListMembers(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if columns == nil {
		columns = []*Column{}
	}

	detail := &BoardDetail{Board: *b, Columns: columns, Members: members}
	s.redisP.SetJSON(ctx, cacheKey, detail, 0)
	return detail, nil
}

func (s *service) UpdateBoard(ctx context.Context, boardID uint64, req UpdateBoardRequest) (*Board, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateLength("board name", name, 1, maxBoardNameLength); err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if err := validateLength("description", description, 0, maxDescriptionLength); err != nil {
			return nil, err
		}
		fields["description"] = description
	}
	if len(fields) == 0 {
		return s.GetBoard(ctx, boardID)
	}

	if err := s.repo.Update(ctx, boardID, fields); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: board %d", utils.ErrNotFound, boardID)
		}
		return nil, fmt.Errorf("failed to update board: %w", err)
	}
	b, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	s.invalidateBoard(ctx, boardID, true)
	s.eventBus.Publish(boardID, utils.EventBoardUpdated, b)
	return b, nil
}

func (s *service) DeleteBoard(ctx context.Context, boardID uint64) error {
	memberIDs, err := s.MemberIDs(ctx, boardID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, boardID); err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("%w: board %d", utils.ErrNotFound, boardID)
		}
		return fmt.Errorf("failed to delete board: %w", err)
	}

	s.redisP.Invalidate(ctx, utils.BoardDetailKey(boardID))
	s.invalidateUsers(ctx, memberIDs)
	s.redisP.DeletePattern(ctx, utils.TaskListPattern(boardID))
	s.logger.Infow("Board deleted", "board_id", boardID, "members", len(memberIDs))

	s.eventBus.Publish(boardID, utils.EventBoardDeleted, map[string]interface{}{"board_id": boardID})
	return nil
}

// Membership returns the actor's membership or an ErrForbidden error.
func (s *service) Membership(ctx context.Context, boardID, userID uint64) (*Member, error) {
	m, err := s.repo.GetMember(ctx, boardID, userID)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: not a member of board %d", utils.ErrForbidden, boardID)
		}
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	return m, nil
}

func (s *service) ListMembers(ctx context.Context, boardID uint64) ([]*MemberView, error) {
	members, err := s.repo.ListMembers(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := s.userSvc.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load member profiles: %w", err)
	}
	byID := make(map[uint64]*user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := make([]*MemberView, 0, len(members))
	for _, m := range members {
		v := &MemberView{UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt}
		if u, ok := byID[m.UserID]; ok {
			v.Email = u.Email
			v.DisplayName = u.Name()
			v.PhotoURL = u.PhotoURL
		}
		views = append(views, v)
	}
	// Admin first, then by join order.
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Role == RoleAdmin && views[j].Role != RoleAdmin
	})
	return views, nil
}

func (s *service) MemberIDs(ctx context.Context, boardID uint64) ([]uint64, error) {
	members, err := s.repo.ListMembers(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}

// AddMember grants userID member access. Adding an existing member is a no-op
// and reports false.
func (s *service) AddMember(ctx context.Context, boardID, userID uint64) (bool, error) {
	if _, err := s.GetBoard(ctx, boardID); err != nil {
		return false, err
	}
	added, err := s.repo.AddMember(ctx, &Member{BoardID: boardID, UserID: userID, Role: RoleMember, JoinedAt: time.Now()})
	if err != nil {
		return false, fmt.Errorf("failed to add member: %w", err)
	}
	if added {
		s.MemberJoined(ctx, boardID, userID)
	}
	return added, nil
}

// MemberJoined refreshes caches and announces a membership that has already
// been committed, including one written by another package's transaction.
func (s *service) MemberJoined(ctx context.Context, boardID, userID uint64) {
	s.redisP.Invalidate(ctx, utils.BoardDetailKey(boardID), utils.BoardListKey(userID))
	s.logger.Infow("Member joined board", "board_id", boardID, "user_id", userID)

	view := &MemberView{UserID: userID, Role: RoleMember, JoinedAt: time.Now()}
	if u, err := s.userSvc.GetByID(ctx, userID); err == nil {
		view.Email = u.Email
		view.DisplayName = u.Name()
		view.PhotoURL = u.PhotoURL
	}
	s.eventBus.Publish(boardID, utils.EventMemberJoined, view)
}

// RemoveMember lets the admin remove anyone but themselves, and lets a member
// leave. The removed user's assignments on the board are cleared.
func (s *service) RemoveMember(ctx context.Context, boardID, actorID, userID uint64) error {
	b, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	if userID == b.AdminID {
		return fmt.Errorf("%w: the board admin cannot leave or be removed", utils.ErrConflict)
	}
	if actorID != b.AdminID && actorID != userID {
		return fmt.Errorf("%w: only the board admin can remove other members", utils.ErrForbidden)
	}

	if err := s.repo.RemoveMember(ctx, boardID, userID); err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("%w: user %d is not a member of board %d", utils.ErrNotFound, userID, boardID)
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.redisP.Invalidate(ctx,
		utils.BoardDetailKey(boardID),
		utils.BoardListKey(userID),
		utils.AssignedTasksKey(userID),
	)
	s.redisP.DeletePattern(ctx, utils.TaskListPattern(boardID))
	s.logger.Infow("Member removed from board", "board_id", boardID, "user_id", userID, "actor_id", actorID)

	s.eventBus.Publish(boardID, utils.EventMemberRemoved, map[string]interface{}{"user_id": userID})
	return nil
}

func (s *service) ListColumns(ctx context.Context, boardID uint64) ([]*Column, error) {
	columns, err := s.repo.ListColumns(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return columns, nil
}

func (s *service) GetColumn(ctx context.Context, boardID, columnID uint64) (*Column, error) {
	col, err := s.repo.GetColumn(ctx, boardID, columnID)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: column %d", utils.ErrNotFound, columnID)
		}
		return nil, fmt.Errorf("failed to get column: %w", err)
	}
	return col, nil
}

func (s *service) CreateColumn(ctx context.Context, boardID uint64, name string) (*Column, error) {
	name = strings.TrimSpace(name)
	if err := validateLength("column name", name, 1, maxColumnNameLength); err != nil {
		return nil, err
	}
	existing, err := s.ListColumns(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= maxColumns {
		return nil, fmt.Errorf("%w: a board can have at most %d columns", utils.ErrConflict, maxColumns)
	}

	col := &Column{BoardID: boardID, Name: name}
	if err := s.repo.CreateColumn(ctx, col); err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	s.invalidateBoard(ctx, boardID, false)
	s.eventBus.Publish(boardID, utils.EventColumnCreated, col)
	return col, nil
}

func (s *service) RenameColumn(ctx context.Context, boardID, columnID uint64, name string) (*Column, error) {
	name = strings.TrimSpace(name)
	if err := validateLength("column name", name, 1, maxColumnNameLength); err != nil {
		return nil, err
	}
	if err := s.repo.RenameColumn(ctx, boardID, columnID, name); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: column %d", utils.ErrNotFound, columnID)
		}
		return nil, fmt.Errorf("failed to rename column: %w", err)
	}
	col, err := s.GetColumn(ctx, boardID, columnID)
	if err != nil {
		return nil, err
	}
	s.invalidateBoard(ctx, boardID, true)
	s.eventBus.Publish(boardID, utils.EventColumnUpdated, col)
	return col, nil
}

func (s *service) ReorderColumns(ctx context.Context, boardID uint64, ids []uint64) ([]*Column, error) {
	columns, err := s.repo.ReorderColumns(ctx, boardID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to reorder columns: %w", err)
	}
	s.invalidateBoard(ctx, boardID, false)
	s.redisP.DeletePattern(ctx, utils.TaskListPattern(boardID))
	s.eventBus.Publish(boardID, utils.EventColumnsReordered, map[string]interface{}{"columns": columns})
	return columns, nil
}

func (s *service) DeleteColumn(ctx context.Context, boardID, columnID uint64, moveTo *uint64) error {
	if err := s.repo.DeleteColumn(ctx, boardID, columnID, moveTo); err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("%w: column %d", utils.ErrNotFound, columnID)
		}
		return fmt.Errorf("failed to delete column: %w", err)
	}
	s.invalidateBoard(ctx, boardID, true)
	s.logger.Infow("Column deleted", "board_id", boardID, "column_id", columnID, "move_to", moveTo)

	s.eventBus.Publish(boardID, utils.EventColumnDeleted, map[string]interface{}{"column_id": columnID, "move_to": moveTo})
	return nil
}

// invalidateBoard drops the cached detail and every member's board list. With
// tasks set the board's task lists and the members' assigned lists go too.
func (s *service) invalidateBoard(ctx context.Context, boardID uint64, tasks bool) {
	s.redisP.Invalidate(ctx, utils.BoardDetailKey(boardID))
	memberIDs, err := s.MemberIDs(ctx, boardID)
	if err != nil {
		s.logger.Warnw("Failed to load members for cache invalidation", "board_id", boardID, "error", err)
		return
	}
	keys := make([]string, 0, 2*len(memberIDs))
	for _, id := range memberIDs {
		keys = append(keys, utils.BoardListKey(id))
		if tasks {
			keys = append(keys, utils.AssignedTasksKey(id))
		}
	}
	s.redisP.Invalidate(ctx, keys...)
	if tasks {
		s.redisP.DeletePattern(ctx, utils.TaskListPattern(boardID))
	}
}

func (s *service) invalidateUsers(ctx context.Context, userIDs []uint64) {
	keys := make([]string, 0, 2*len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, utils.BoardListKey(id), utils.AssignedTasksKey(id))
	}
	s.redisP.Invalidate(ctx, keys...)
}
