package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sms_verifications — одноразовые коды подтверждения телефона.
// Код хранится только в виде bcrypt-хэша.
type SmsVerification struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Phone     string    `gorm:"type:varchar(11);not null;index"`
	CodeHash  string    `gorm:"type:varchar(100);not null"`
	ExpiresAt time.Time `gorm:"not null"`
	IsUsed    bool      `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

func (v *SmsVerification) BeforeCreate(*gorm.DB) error {
	assignID(&v.ID)
	return nil
}

func (v *SmsVerification) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
