package calendar

import (
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/clinic-booking/internal/utils"
)

// Reservation — бронирование в терминах движка календаря.
// Date всегда нормализована к 00:00 UTC (см. utils.DateOnly).
type Reservation struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	SpecialtyID uuid.UUID
	Date        time.Time
	Interval    TimeInterval
	Status      Status
}

// Active: бронирование занимает время (любой статус, кроме cancelled).
func (r Reservation) Active() bool {
	return r.Status.Blocks()
}

// StartsAt: момент начала приёма в часовом поясе клиники.
func (r Reservation) StartsAt(loc *time.Location) time.Time {
	return r.Interval.Start.On(r.Date, loc)
}

func (r Reservation) EndsAt(loc *time.Location) time.Time {
	return r.Interval.End.On(r.Date, loc)
}

// ActiveIntervals возвращает интервалы активных бронирований, кроме excludeID.
func ActiveIntervals(reservations []Reservation, excludeID uuid.UUID) []TimeInterval {
	out := make([]TimeInterval, 0, len(reservations))
	for _, r := range reservations {
		if !r.Active() {
			continue
		}
		if excludeID != uuid.Nil && r.ID == excludeID {
			continue
		}
		out = append(out, r.Interval)
	}
	return out
}

// activeOn фильтрует активные бронирования специальности на дату.
func activeOn(reservations []Reservation, specialtyID uuid.UUID, date time.Time, excludeID uuid.UUID) []TimeInterval {
	date = utils.DateOnly(date)
	sameDay := make([]Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.SpecialtyID == specialtyID && utils.SameDate(r.Date, date) {
			sameDay = append(sameDay, r)
		}
	}
	return ActiveIntervals(sameDay, excludeID)
}
