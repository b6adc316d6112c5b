package calendar

import (
	"time"

	"github.com/Leganyst/clinic-booking/internal/utils"
)

// FormatSlot — человекочитаемое описание интервала в дату date.
func FormatSlot(date time.Time, iv TimeInterval, loc *time.Location) string {
	return utils.FormatSlotForUser(iv.Start.On(date, loc), iv.End.On(date, loc), nil, false, "")
}

// FormatReservation: описание бронирования для SMS, с идентификатором.
func FormatReservation(r Reservation, loc *time.Location) string {
	return utils.FormatSlotForUser(r.StartsAt(loc), r.EndsAt(loc), nil, true, r.ID.String())
}
