package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Тип события аудита.
type EventType string

const (
	EventTypeReservationCreated       EventType = "reservation_created"
	EventTypeReservationUpdated       EventType = "reservation_updated"
	EventTypeReservationCancelled     EventType = "reservation_cancelled"
	EventTypeReservationStatusChanged EventType = "reservation_status_changed"
	EventTypeWorkingHourChanged       EventType = "working_hour_changed"
	EventTypeUserRegistered           EventType = "user_registered"
	EventTypePhoneVerified            EventType = "phone_verified"
)

// events — события аудита
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	UserID        *uuid.UUID `gorm:"type:uuid;index"`
	ReservationID *uuid.UUID `gorm:"type:uuid;index"`

	Details datatypes.JSON
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	return nil
}
