package user

import "time"

type User struct {
	ID          uint64    `json:"id" gorm:"primaryKey"`
	FirebaseUID string    `json:"-" gorm:"column:firebase_uid;type:varchar(128);uniqueIndex;not null"`
	Email       string    `json:"email" gorm:"type:varchar(320);uniqueIndex;not null"`
	DisplayName string    `json:"display_name" gorm:"type:varchar(128);not null;default:''"`
	PhotoURL    string    `json:"photo_url,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Name is what emails and the UI call the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// Profile is the public view of another user (members, assignees).
type Profile struct {
	ID          uint64 `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, PhotoURL: u.PhotoURL}
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,max=256"`
}
