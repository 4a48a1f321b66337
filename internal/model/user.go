package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// User is the authentication identity. Its ID is what gets recorded as
// created_by / changed_by / uploaded_by on everything else.
type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username          string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email             string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash      string     `gorm:"size:255;not null" json:"-"`
	FirstName         string     `gorm:"size:100" json:"first_name"`
	LastName          string     `gorm:"size:100" json:"last_name"`
	PhoneNumber       *string    `gorm:"size:15" json:"phone_number,omitempty"`
	Address           *string    `gorm:"type:text" json:"address,omitempty"`
	DateOfBirth       *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	ProfilePictureURL *string    `gorm:"type:text" json:"profile_picture_url,omitempty"`
	RoleID            *uint      `json:"role_id"`
	Role              Role       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
