package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the database model for User
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Username     string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash *string   `gorm:"type:varchar(255)"`
	GoogleID     *string   `gorm:"type:varchar(255);index"`
	Avatar       string    `gorm:"type:text;not null"`
	Role         string    `gorm:"type:varchar(50);not null;default:'user'"`

	RefreshToken        *string    `gorm:"type:varchar(500)"`
	ResetToken          *string    `gorm:"type:varchar(255);index"`
	ResetTokenExpiresAt *time.Time `gorm:"type:timestamp"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
