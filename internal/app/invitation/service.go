package invitation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kanbaniq/internal/app/board"
	"kanbaniq/internal/app/notification"
	"kanbaniq/internal/app/user"
	"kanbaniq/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Invite(ctx context.Context, boardID uint64, inviter *user.User, email string) (*Invitation, error)
	ListForBoard(ctx context.Context, boardID uint64) ([]*Invitation, error)
	Revoke(ctx context.Context, boardID, invitationID uint64, actor *user.User) error
	ListForUser(ctx context.Context, actor *user.User) ([]*Received, error)
	Preview(ctx context.Context, token string) (*Preview, error)
	Accept(ctx context.Context, actor *user.User, token string) (*Invitation, error)
	Decline(ctx context.Context, actor *user.User, token string) (*Invitation, error)
}

type service struct {
	repo     Repository
	boardSvc board.Service
	userSvc  user.Service
	notifier notification.Notifier
	validate *validator.Validate
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.SugaredLogger
}

func NewService(
	repo Repository,
	boardSvc board.Service,
	userSvc user.Service,
	notifier notification.Notifier,
	ttl time.Duration,
	logger *zap.Logger,
) Service {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &service{
		repo:     repo,
		boardSvc: boardSvc,
		userSvc:  userSvc,
		notifier: notifier,
		validate: validator.New(),
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger.Sugar(),
	}
}

// Invite sends email an invitation to the board. A pending invitation for the
// same address is re-issued with a fresh token and expiry.
func (s *service) Invite(ctx context.Context, boardID uint64, inviter *user.User, email string) (*Invitation, error) {
	email = user.NormalizeEmail(email)
	if err := s.validate.Var(email, "required,email,max=320"); err != nil {
		return nil, fmt.Errorf("%w: %q is not a valid email address", utils.ErrValidation, email)
	}
	if _, err := s.boardSvc.GetBoard(ctx, boardID); err != nil {
		return nil, err
	}

	existing, err := s.userSvc.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if _, err := s.boardSvc.Membership(ctx, boardID, existing.ID); err == nil {
			return nil, fmt.Errorf("%w: %s is already a member of this board", utils.ErrConflict, email)
		} else if !errors.Is(err, utils.ErrForbidden) {
			return nil, err
		}
	case !errors.Is(err, utils.ErrNotFound):
		return nil, err
	}

	token := uuid.NewString()
	expiresAt := s.now().Add(s.ttl)

	inv, err := s.repo.FindPending(ctx, boardID, email)
	switch {
	case err == nil:
		if err := s.repo.Refresh(ctx, inv.ID, token, inviter.ID, expiresAt); err != nil {
			return nil, fmt.Errorf("failed to refresh invitation: %w", err)
		}
		inv.Token = token
		inv.InvitedByID = inviter.ID
		inv.ExpiresAt = expiresAt
		s.logger.Infow("Invitation refreshed", "invitation_id", inv.ID, "board_id", boardID, "inviter_id", inviter.ID)
	case IsNotFound(err):
		inv = &Invitation{
			BoardID:     boardID,
			Email:       email,
			Token:       token,
			InvitedByID: inviter.ID,
			Status:      StatusPending,
			ExpiresAt:   expiresAt,
		}
		if err := s.repo.Create(ctx, inv); err != nil {
			return nil, fmt.Errorf("failed to create invitation: %w", err)
		}
		s.logger.Infow("Invitation created", "invitation_id", inv.ID, "board_id", boardID, "inviter_id", inviter.ID)
	default:
		return nil, fmt.Errorf("failed to look up invitation: %w", err)
	}

	s.notifier.InvitationSent(ctx, notification.InvitationEvent{
		BoardID:   boardID,
		Email:     email,
		Token:     inv.Token,
		ExpiresAt: inv.ExpiresAt,
		Inviter:   inviter,
	})
	return inv, nil
}

func (s *service) ListForBoard(ctx context.Context, boardID uint64) ([]*Invitation, error) {
	invs, err := s.repo.ListPendingForBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	if invs == nil {
		invs = []*Invitation{}
	}
	return invs, nil
}

func (s *service) Revoke(ctx context.Context, boardID, invitationID uint64, actor *user.User) error {
	inv, err := s.repo.GetByID(ctx, boardID, invitationID)
	if err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("%w: invitation %d", utils.ErrNotFound, invitationID)
		}
		return fmt.Errorf("failed to get invitation: %w", err)
	}
	if err := s.transition(ctx, inv, StatusRevoked); err != nil {
		return err
	}
	s.logger.Infow("Invitation revoked", "invitation_id", inv.ID, "board_id", boardID, "actor_id", actor.ID)
	return nil
}

func (s *service) ListForUser(ctx context.Context, actor *user.User) ([]*Received, error) {
	email := user.NormalizeEmail(actor.Email)
	if email == "" {
		return []*Received{}, nil
	}
	invs, err := s.repo.ListPendingForEmail(ctx, email, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	if invs == nil {
		invs = []*Received{}
	}
	return invs, nil
}

func (s *service) Preview(ctx context.Context, token string) (*Preview, error) {
	inv, err := s.byToken(ctx, token)
	if err != nil {
		return nil, err
	}
	b, err := s.boardSvc.GetBoard(ctx, inv.BoardID)
	if err != nil {
		return nil, err
	}
	p := &Preview{
		BoardID:   b.ID,
		BoardName: b.Name,
		Email:     inv.Email,
		Status:    inv.Status,
		ExpiresAt: inv.ExpiresAt,
		Expired:   inv.Expired(s.now()),
	}
	if inviter, err := s.userSvc.GetByID(ctx, inv.InvitedByID); err == nil {
		p.InviterName = inviter.Name()
	}
	return p, nil
}

// Accept makes the actor a member of the invitation's board. The invitation
// must be pending, unexpired and addressed to the actor's email.
func (s *service) Accept(ctx context.Context, actor *user.User, token string) (*Invitation, error) {
	inv, err := s.actionable(ctx, actor, token)
	if err != nil {
		return nil, err
	}
	if _, err := s.boardSvc.GetBoard(ctx, inv.BoardID); err != nil {
		return nil, err
	}

	now := s.now()
	member := &board.Member{BoardID: inv.BoardID, UserID: actor.ID, Role: board.RoleMember, JoinedAt: now}
	added, err := s.repo.Accept(ctx, inv.ID, now, member)
	if err != nil {
		return nil, s.transitionError(err)
	}
	inv.Status = StatusAccepted
	inv.AcceptedAt = &now
	inv.UpdatedAt = now
	if added {
		s.boardSvc.MemberJoined(ctx, inv.BoardID, actor.ID)
	}
	s.logger.Infow("Invitation accepted", "invitation_id", inv.ID, "board_id", inv.BoardID, "user_id", actor.ID)

	s.notifier.InvitationAccepted(ctx, notification.AcceptedEvent{BoardID: inv.BoardID, Accepter: actor})
	return inv, nil
}

func (s *service) Decline(ctx context.Context, actor *user.User, token string) (*Invitation, error) {
	inv, err := s.actionable(ctx, actor, token)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, inv, StatusDeclined); err != nil {
		return nil, err
	}
	s.logger.Infow("Invitation declined", "invitation_id", inv.ID, "board_id", inv.BoardID, "user_id", actor.ID)
	return inv, nil
}

func (s *service) byToken(ctx context.Context, token string) (*Invitation, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, fmt.Errorf("%w: invitation", utils.ErrNotFound)
	}
	inv, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: invitation", utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

func (s *service) actionable(ctx context.Context, actor *user.User, token string) (*Invitation, error) {
	inv, err := s.byToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.Status != StatusPending {
		return nil, fmt.Errorf("%w: invitation is already %s", utils.ErrConflict, inv.Status)
	}
	if inv.Expired(s.now()) {
		return nil, fmt.Errorf("%w: invitation expired on %s", utils.ErrGone, inv.ExpiresAt.Format(time.RFC3339))
	}
	if user.NormalizeEmail(actor.Email) != inv.Email {
		return nil, fmt.Errorf("%w: this invitation was sent to a different email address", utils.ErrForbidden)
	}
	return inv, nil
}

func (s *service) transition(ctx context.Context, inv *Invitation, status string) error {
	if inv.Status != StatusPending {
		return fmt.Errorf("%w: invitation is already %s", utils.ErrConflict, inv.Status)
	}
	if err := s.repo.Transition(ctx, inv.ID, status); err != nil {
		return s.transitionError(err)
	}
	inv.Status = status
	inv.UpdatedAt = s.now()
	return nil
}

func (s *service) transitionError(err error) error {
	if errors.Is(err, errStale) {
		return fmt.Errorf("%w: invitation is no longer pending", utils.ErrConflict)
	}
	return fmt.Errorf("failed to update invitation: %w", err)
}
