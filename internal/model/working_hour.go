package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/calendar"
)

// working_hours — окна приёма специальности по дням недели.
type WorkingHour struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	SpecialtyID uuid.UUID `gorm:"type:uuid;not null;index:idx_working_hours_specialty_day,priority:1"`
	// 0: воскресенье, как time.Weekday.
	DayOfWeek int `gorm:"not null;index:idx_working_hours_specialty_day,priority:2;check:chk_working_hours_day,day_of_week BETWEEN 0 AND 6"`

	StartTime datatypes.Time `gorm:"not null"`
	EndTime   datatypes.Time `gorm:"not null;check:chk_working_hours_interval,start_time < end_time"`

	SlotDurationMinutes int  `gorm:"not null;check:chk_working_hours_slot,slot_duration_minutes > 0 AND slot_duration_minutes <= 480"`
	IsActive            bool `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Specialty *Specialty `gorm:"foreignKey:SpecialtyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (w *WorkingHour) BeforeCreate(*gorm.DB) error {
	assignID(&w.ID)
	return nil
}

func (w *WorkingHour) ToCalendar() calendar.WorkingHour {
	return calendar.WorkingHour{
		ID:                  w.ID,
		SpecialtyID:         w.SpecialtyID,
		Day:                 time.Weekday(w.DayOfWeek),
		Interval:            calendar.TimeInterval{Start: ClockFromDB(w.StartTime), End: ClockFromDB(w.EndTime)},
		SlotDurationMinutes: w.SlotDurationMinutes,
		Active:              w.IsActive,
	}
}

// WorkingHoursToCalendar конвертирует список строк в окна движка.
func WorkingHoursToCalendar(rows []WorkingHour) []calendar.WorkingHour {
	out := make([]calendar.WorkingHour, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToCalendar())
	}
	return out
}
