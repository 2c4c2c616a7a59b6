package invitation

import "time"

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
	StatusRevoked  = "revoked"
)

type Invitation struct {
	ID          uint64     `json:"id" gorm:"primaryKey"`
	BoardID     uint64     `json:"board_id" gorm:"not null;index:idx_invitations_board_email"`
	Email       string     `json:"email" gorm:"type:varchar(320);not null;index:idx_invitations_board_email"`
	Token       string     `json:"token" gorm:"type:varchar(36);uniqueIndex;not null"`
	InvitedByID uint64     `json:"invited_by_id" gorm:"not null"`
	Status      string     `json:"status" gorm:"size:16;not null;default:'pending'"`
	ExpiresAt   time.Time  `json:"expires_at" gorm:"not null"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (i *Invitation) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// Received is a pending invitation as its recipient sees it.
type Received struct {
	Invitation
	BoardName   string `json:"board_name"`
	InviterName string `json:"inviter_name"`
}

// Preview is what the invitation link page shows before the user decides.
type Preview struct {
	BoardID     uint64    `json:"board_id"`
	BoardName   string    `json:"board_name"`
	InviterName string    `json:"inviter_name"`
	Email       string    `json:"email"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	Expired     bool      `json:"expired"`
}

type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email,max=320"`
}

type InvitationListResponse struct {
	Invitations []*Invitation `json:"invitations"`
}

type ReceivedListResponse struct {
	Invitations []*Received `json:"invitations"`
}
