package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// specialties — направления приёма (терапия, ортодонтия и т.п.).
type Specialty struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(500)"`

	HasInstallments bool `gorm:"not null"`
	// Неактивная специальность не принимает новые бронирования.
	IsActive bool `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (s *Specialty) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
