package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles recognised by the API. New accounts start as RoleUser.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName string `gorm:"size:150" json:"first_name,omitempty"`
	LastName  string `gorm:"size:150" json:"last_name,omitempty"`
	Bio       string `gorm:"type:text" json:"bio,omitempty"`
	Role      string `gorm:"size:50;default:'user';not null" json:"role"`
	Superuser bool   `gorm:"not null;default:false" json:"-"`

	// Confirmation code at rest: bcrypt hash plus expiry, both nil once the
	// code has been redeemed. The plaintext code only ever travels by email.
	ConfirmationHash      *string    `gorm:"size:100" json:"-"`
	ConfirmationExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// IsAdmin reports whether the user holds the admin role. Superusers count
// as admins everywhere a role check happens.
func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin || user.Superuser
}

func (user *User) IsModerator() bool {
	return user.Role == RoleModerator
}

func (User) TableName() string {
	return "users"
}
