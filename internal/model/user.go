package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Роль пользователя. Политика одной роли: обычный пациент или администратор.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// users
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	FirstName  string `gorm:"type:varchar(50);not null"`
	LastName   string `gorm:"type:varchar(50);not null"`
	NationalID string `gorm:"type:varchar(11);not null;uniqueIndex"`
	// Только цифры, см. repository.NormalizePhone.
	Phone string `gorm:"type:varchar(11);not null;uniqueIndex"`

	IsPhoneVerified bool     `gorm:"not null"`
	Role            UserRole `gorm:"type:varchar(16);not null;default:'user'"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	return nil
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
