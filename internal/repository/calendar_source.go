package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/model"
)

// CalendarSource отдаёт движку календаря окна и бронирования из БД.
type CalendarSource struct {
	hours        WorkingHourRepository
	reservations ReservationRepository
}

var (
	_ calendar.WorkingHourSource = (*CalendarSource)(nil)
	_ calendar.ReservationSource = (*CalendarSource)(nil)
)

func NewCalendarSource(hours WorkingHourRepository, reservations ReservationRepository) *CalendarSource {
	return &CalendarSource{hours: hours, reservations: reservations}
}

func (s *CalendarSource) ActiveWorkingHoursForDay(ctx context.Context, specialtyID uuid.UUID, day time.Weekday) ([]calendar.WorkingHour, error) {
	rows, err := s.hours.ListActiveBySpecialtyAndDay(ctx, specialtyID, day)
	if err != nil {
		return nil, err
	}
	return model.WorkingHoursToCalendar(rows), nil
}

func (s *CalendarSource) ActiveWorkingHours(ctx context.Context, specialtyID uuid.UUID) ([]calendar.WorkingHour, error) {
	rows, err := s.hours.ListBySpecialty(ctx, specialtyID, true)
	if err != nil {
		return nil, err
	}
	return model.WorkingHoursToCalendar(rows), nil
}

func (s *CalendarSource) ActiveReservationsOnDate(ctx context.Context, specialtyID uuid.UUID, date time.Time) ([]calendar.Reservation, error) {
	rows, err := s.reservations.ListActiveBySpecialtyAndDate(ctx, specialtyID, date)
	if err != nil {
		return nil, err
	}
	return model.ReservationsToCalendar(rows), nil
}

func (s *CalendarSource) ActiveReservationsInRange(ctx context.Context, specialtyID uuid.UUID, from, to time.Time) ([]calendar.Reservation, error) {
	rows, err := s.reservations.ListActiveBySpecialtyInRange(ctx, specialtyID, from, to)
	if err != nil {
		return nil, err
	}
	return model.ReservationsToCalendar(rows), nil
}
