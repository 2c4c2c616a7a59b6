package board

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

var DefaultColumns = []string{"To Do", "In Progress", "Done"}

type Board struct {
	ID          uint64    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description"`
	AdminID     uint64    `json:"admin_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Member struct {
	BoardID  uint64    `json:"board_id" gorm:"primaryKey;autoIncrement:false"`
	UserID   uint64    `json:"user_id" gorm:"primaryKey;autoIncrement:false;index"`
	Role     string    `json:"role" gorm:"size:16;not null"`
	JoinedAt time.Time `json:"joined_at"`
}

func (Member) TableName() string {
	return "board_members"
}

type Column struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	BoardID   uint64    `json:"board_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"size:50;not null"`
	Position  int       `json:"position" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Column) TableName() string {
	return "board_columns"
}

// BoardSummary is one entry of the actor's board list.
type BoardSummary struct {
	Board
	Role string `json:"role"`
}

type MemberView struct {
	UserID      uint64    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

type BoardDetail struct {
	Board
	Columns []*Column     `json:"columns"`
	Members []*MemberView `json:"members"`
}

type CreateBoardRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Columns     []string `json:"columns"`
}

type UpdateBoardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ColumnRequest struct {
	Name string `json:"name" binding:"required"`
}

type ReorderColumnsRequest struct {
	ColumnIDs []uint64 `json:"column_ids" binding:"required,min=1"`
}

type BoardListResponse struct {
	Boards []*BoardSummary `json:"boards"`
}

type MemberListResponse struct {
	Members []*MemberView `json:"members"`
}

type ColumnListResponse struct {
	Columns []*Column `json:"columns"`
}
