package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/clinic-booking/internal/utils"
)

// Ограничения длины диапазона для разных точек входа.
const (
	MaxRangeDaysWorkingHours = 7
	MaxRangeDaysAvailability = 30
)

// WorkingHourSource отдаёт активные окна приёма специальности.
type WorkingHourSource interface {
	ActiveWorkingHoursForDay(ctx context.Context, specialtyID uuid.UUID, day time.Weekday) ([]WorkingHour, error)
	ActiveWorkingHours(ctx context.Context, specialtyID uuid.UUID) ([]WorkingHour, error)
}

// ReservationSource отдаёт активные (не отменённые) бронирования специальности.
type ReservationSource interface {
	ActiveReservationsOnDate(ctx context.Context, specialtyID uuid.UUID, date time.Time) ([]Reservation, error)
	ActiveReservationsInRange(ctx context.Context, specialtyID uuid.UUID, from, to time.Time) ([]Reservation, error)
}

// DailySlots — свободные слоты одной даты диапазона.
type DailySlots struct {
	Date    time.Time    `json:"date"`
	Weekday time.Weekday `json:"dayOfWeek"`
	Slots   []Slot       `json:"slots"`
}

// AvailabilityService считает свободное время по графику и бронированиям.
// Собственного состояния не хранит, безопасен для конкурентного использования.
type AvailabilityService struct {
	hours        WorkingHourSource
	reservations ReservationSource
}

func NewAvailabilityService(hours WorkingHourSource, reservations ReservationSource) *AvailabilityService {
	return &AvailabilityService{hours: hours, reservations: reservations}
}

// ValidateRange: from <= to и не больше maxDays дней между ними (maxDays <= 0: без ограничения).
func ValidateRange(from, to time.Time, maxDays int) error {
	from, to = utils.DateOnly(from), utils.DateOnly(to)
	if from.After(to) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidRange, utils.FormatDate(from), utils.FormatDate(to))
	}
	if maxDays > 0 && utils.DaysBetween(from, to) > maxDays {
		return fmt.Errorf("%w: at most %d days allowed", ErrRangeTooLarge, maxDays)
	}
	return nil
}

// AvailableSlotsForDay: свободные слоты специальности на дату, по возрастанию начала.
// Нет окон на этот день недели: пустой список.
func (s *AvailabilityService) AvailableSlotsForDay(ctx context.Context, specialtyID uuid.UUID, date time.Time) ([]Slot, error) {
	candidates, occupied, err := s.loadDay(ctx, specialtyID, date)
	if err != nil {
		return nil, err
	}
	return FreeSlots(candidates, occupied), nil
}

// DaySchedule: все слоты дня с признаком доступности (для администратора).
func (s *AvailabilityService) DaySchedule(ctx context.Context, specialtyID uuid.UUID, date time.Time) ([]Slot, error) {
	candidates, occupied, err := s.loadDay(ctx, specialtyID, date)
	if err != nil {
		return nil, err
	}
	return MarkAvailability(candidates, occupied), nil
}

func (s *AvailabilityService) loadDay(ctx context.Context, specialtyID uuid.UUID, date time.Time) ([]TimeInterval, []TimeInterval, error) {
	date = utils.DateOnly(date)

	hours, err := s.hours.ActiveWorkingHoursForDay(ctx, specialtyID, date.Weekday())
	if err != nil {
		return nil, nil, fmt.Errorf("load working hours: %w", err)
	}
	candidates := GenerateForWindows(hours)
	if len(candidates) == 0 {
		return candidates, nil, nil
	}

	reservations, err := s.reservations.ActiveReservationsOnDate(ctx, specialtyID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("load reservations: %w", err)
	}
	return candidates, activeOn(reservations, specialtyID, date, uuid.Nil), nil
}

// AvailableSlotsForRange: свободные слоты по каждой дате [from, to].
// В результате есть запись для каждой даты, даже если слотов нет.
// Окна и бронирования читаются один раз на весь диапазон.
func (s *AvailabilityService) AvailableSlotsForRange(
	ctx context.Context,
	specialtyID uuid.UUID,
	from, to time.Time,
	maxDays int,
) ([]DailySlots, error) {
	if err := ValidateRange(from, to, maxDays); err != nil {
		return nil, err
	}
	from, to = utils.DateOnly(from), utils.DateOnly(to)

	hours, err := s.hours.ActiveWorkingHours(ctx, specialtyID)
	if err != nil {
		return nil, fmt.Errorf("load working hours: %w", err)
	}
	reservations, err := s.reservations.ActiveReservationsInRange(ctx, specialtyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}

	return BuildRange(NewWorkingHourSet(hours), reservations, specialtyID, from, to), nil
}

// BuildRange: чистая часть AvailableSlotsForRange.
func BuildRange(set *WorkingHourSet, reservations []Reservation, specialtyID uuid.UUID, from, to time.Time) []DailySlots {
	dates := utils.DatesInRange(from, to)
	out := make([]DailySlots, 0, len(dates))
	for _, d := range dates {
		candidates := GenerateForWindows(set.ForDay(specialtyID, d.Weekday()))
		occupied := activeOn(reservations, specialtyID, d, uuid.Nil)
		out = append(out, DailySlots{
			Date:    d,
			Weekday: d.Weekday(),
			Slots:   FreeSlots(candidates, occupied),
		})
	}
	return out
}

// AvailableSlotsInWindow: свободные слоты фиксированной длительности в окне
// window без учёта графика специальности.
func (s *AvailabilityService) AvailableSlotsInWindow(
	ctx context.Context,
	specialtyID uuid.UUID,
	date time.Time,
	window TimeInterval,
	durationMinutes int,
) ([]Slot, error) {
	if durationMinutes <= 0 || durationMinutes > MaxSlotDurationMinutes {
		return nil, fmt.Errorf("%w: duration must be in (0, %d] minutes", ErrInvalidInterval, MaxSlotDurationMinutes)
	}
	if !window.Valid() {
		return nil, fmt.Errorf("%w: window %s", ErrInvalidInterval, window)
	}
	date = utils.DateOnly(date)

	reservations, err := s.reservations.ActiveReservationsOnDate(ctx, specialtyID, date)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	return FreeSlots(GenerateSlots(window, durationMinutes), activeOn(reservations, specialtyID, date, uuid.Nil)), nil
}
