package model

import (
	"time"

	"gorm.io/datatypes"

	"github.com/Leganyst/clinic-booking/internal/calendar"
)

// ClockFromDB переводит колонку типа time во время суток движка.
func ClockFromDB(t datatypes.Time) calendar.ClockTime {
	return calendar.ClockTime(time.Duration(t) / time.Minute)
}

func ClockToDB(c calendar.ClockTime) datatypes.Time {
	return datatypes.NewTime(c.Hour(), c.Minute(), 0, 0)
}
