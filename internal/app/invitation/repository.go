package invitation

import (
	"context"
	"errors"
	"time"

	"kanbaniq/internal/app/board"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// errStale reports a status transition that lost a race with another one.
var errStale = errors.New("invitation is no longer pending")

type Repository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, boardID, id uint64) (*Invitation, error)
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	FindPending(ctx context.Context, boardID uint64, email string) (*Invitation, error)
	Refresh(ctx context.Context, id uint64, token string, invitedByID uint64, expiresAt time.Time) error
	ListPendingForBoard(ctx context.Context, boardID uint64) ([]*Invitation, error)
	ListPendingForEmail(ctx context.Context, email string, now time.Time) ([]*Received, error)
	Transition(ctx context.Context, id uint64, status string) error
	Accept(ctx context.Context, id uint64, acceptedAt time.Time, member *board.Member) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, inv *Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repository) GetByID(ctx context.Context, boardID, id uint64) (*Invitation, error) {
	var inv Invitation
	if err := r.db.WithContext(ctx).Where("id = ? AND board_id = ?", id, boardID).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) GetByToken(ctx context.Context, token string) (*Invitation, error) {
	var inv Invitation
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) FindPending(ctx context.Context, boardID uint64, email string) (*Invitation, error) {
	var inv Invitation
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND email = ? AND status = ?", boardID, email, StatusPending).
		Order("id DESC").
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) Refresh(ctx context.Context, id uint64, token string, invitedByID uint64, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&Invitation{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"token":         token,
			"invited_by_id": invitedByID,
			"expires_at":    expiresAt,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errStale
	}
	return nil
}

func (r *repository) ListPendingForBoard(ctx context.Context, boardID uint64) ([]*Invitation, error) {
	var invs []*Invitation
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND status = ?", boardID, StatusPending).
		Order("created_at DESC, id DESC").
		Find(&invs).Error
	return invs, err
}

func (r *repository) ListPendingForEmail(ctx context.Context, email string, now time.Time) ([]*Received, error) {
	var invs []*Received
	err := r.db.WithContext(ctx).Raw(`
		SELECT invitations.*, boards.name AS board_name,
			CASE WHEN users.display_name <> '' THEN users.display_name ELSE COALESCE(users.email, '') END AS inviter_name
		FROM invitations
		JOIN boards ON boards.id = invitations.board_id
		LEFT JOIN users ON users.id = invitations.invited_by_id
		WHERE invitations.email = ? AND invitations.status = ? AND invitations.expires_at > ?
		ORDER BY invitations.created_at DESC, invitations.id DESC
	`, email, StatusPending, now).Scan(&invs).Error
	return invs, err
}

// Transition moves a pending invitation to status. It fails with errStale
// when the invitation was no longer pending.
func (r *repository) Transition(ctx context.Context, id uint64, status string) error {
	return transition(r.db.WithContext(ctx), id, map[string]interface{}{"status": status})
}

// Accept marks a pending invitation accepted and writes the membership in the
// same transaction, so a lost race with revoke or decline grants nothing. It
// reports whether a new membership row was written.
func (r *repository) Accept(ctx context.Context, id uint64, acceptedAt time.Time, member *board.Member) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := transition(tx, id, map[string]interface{}{
			"status":      StatusAccepted,
			"accepted_at": acceptedAt,
		}); err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(member)
		if res.Error != nil {
			return res.Error
		}
		added = res.RowsAffected > 0
		return nil
	})
	return added, err
}

func transition(db *gorm.DB, id uint64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	res := db.Model(&Invitation{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errStale
	}
	return nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
