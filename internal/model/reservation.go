package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/utils"
)

// reservations
//
// Частичный уникальный индекс idx_reservations_active_slot не даёт двум
// активным бронированиям занять один и тот же старт у специальности.
// Пересечения с разными стартами ловит проверка внутри транзакции.
type Reservation struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SpecialtyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reservations_active_slot,where:status <> 'cancelled'"`

	Date      datatypes.Date `gorm:"not null;uniqueIndex:idx_reservations_active_slot;index"`
	StartTime datatypes.Time `gorm:"not null;uniqueIndex:idx_reservations_active_slot"`
	EndTime   datatypes.Time `gorm:"not null;check:chk_reservations_interval,start_time < end_time"`

	Status calendar.Status `gorm:"type:varchar(16);not null;default:'pending';index;check:chk_reservations_status,status IN ('pending','confirmed','cancelled','completed')"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User      *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Specialty *Specialty `gorm:"foreignKey:SpecialtyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (r *Reservation) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}

func (r *Reservation) Interval() calendar.TimeInterval {
	return calendar.TimeInterval{Start: ClockFromDB(r.StartTime), End: ClockFromDB(r.EndTime)}
}

// Day — дата бронирования, 00:00 UTC.
func (r *Reservation) Day() time.Time {
	return utils.DateOnly(time.Time(r.Date))
}

// SetSchedule переносит бронирование на дату и интервал.
func (r *Reservation) SetSchedule(date time.Time, iv calendar.TimeInterval) {
	r.Date = datatypes.Date(utils.DateOnly(date))
	r.StartTime = ClockToDB(iv.Start)
	r.EndTime = ClockToDB(iv.End)
}

func (r *Reservation) ToCalendar() calendar.Reservation {
	return calendar.Reservation{
		ID:          r.ID,
		UserID:      r.UserID,
		SpecialtyID: r.SpecialtyID,
		Date:        r.Day(),
		Interval:    r.Interval(),
		Status:      r.Status,
	}
}

func ReservationsToCalendar(rows []Reservation) []calendar.Reservation {
	out := make([]calendar.Reservation, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToCalendar())
	}
	return out
}
