package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is the GORM-specific struct for the 'users' table: the identity record.
type UserModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	DisplayName string    `gorm:"type:varchar(255);not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = newID()
	}

	return nil
}

// ProfileModel is the GORM-specific struct for the 'profiles' table: one document per identity.
type ProfileModel struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName   string    `gorm:"type:varchar(100);not null;default:''"`
	LastName    string    `gorm:"type:varchar(100);not null;default:''"`
	Phone       string    `gorm:"type:varchar(50);not null;default:''"`
	UserSlug    string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Role        string    `gorm:"type:varchar(20);not null;default:'customer';index"`
	Newsletter  bool      `gorm:"not null;default:false"`
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProfileModel) TableName() string {
	return "profiles"
}
