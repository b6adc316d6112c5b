package calendar

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/clinic-booking/internal/utils"
)

// DefaultCancelLeadTime — отмена возможна не позднее чем за сутки до начала приёма.
const DefaultCancelLeadTime = 24 * time.Hour

// HasOverlap: пересекается ли candidate хотя бы с одним из existing.
func HasOverlap(candidate TimeInterval, existing []TimeInterval) bool {
	for _, iv := range existing {
		if Overlaps(candidate, iv) {
			return true
		}
	}
	return false
}

// FindConflicts возвращает все интервалы из existing, пересекающиеся с candidate.
func FindConflicts(candidate TimeInterval, existing []TimeInterval) []TimeInterval {
	var conflicts []TimeInterval
	for _, iv := range existing {
		if Overlaps(candidate, iv) {
			conflicts = append(conflicts, iv)
		}
	}
	return conflicts
}

// BookingRequest: запрос на создание бронирования.
type BookingRequest struct {
	UserID      uuid.UUID
	SpecialtyID uuid.UUID
	Date        time.Time
	Interval    TimeInterval
}

// Checker применяет правила создания, отмены и редактирования.
// Нулевое значение пригодно к работе: сутки на отмену, часовой пояс UTC.
type Checker struct {
	CancelLeadTime time.Duration
	Location       *time.Location
}

func NewChecker(leadTime time.Duration, loc *time.Location) Checker {
	return Checker{CancelLeadTime: leadTime, Location: loc}
}

func (c Checker) leadTime() time.Duration {
	if c.CancelLeadTime <= 0 {
		return DefaultCancelLeadTime
	}
	return c.CancelLeadTime
}

func (c Checker) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// CanCreate проверяет запрос по порядку: пересечение по времени, затем
// второе бронирование пользователя в тот же день (любая специальность).
// specialtyDay: бронирования специальности на дату, userDay: бронирования пользователя на дату.
func (c Checker) CanCreate(req BookingRequest, specialtyDay, userDay []Reservation) error {
	if !req.Interval.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, req.Interval)
	}

	occupied := activeOn(specialtyDay, req.SpecialtyID, req.Date, uuid.Nil)
	if conflicts := FindConflicts(req.Interval, occupied); len(conflicts) > 0 {
		return fmt.Errorf("%w: %s overlaps %s", ErrTimeConflict, req.Interval, conflicts[0])
	}

	date := utils.DateOnly(req.Date)
	for _, r := range userDay {
		if r.UserID == req.UserID && r.Active() && utils.SameDate(r.Date, date) {
			return fmt.Errorf("%w: %s", ErrDuplicateDayBooking, utils.FormatDate(date))
		}
	}
	return nil
}

// CanCancel: отменённое и завершённое не отменяются; до начала должно
// оставаться не меньше CancelLeadTime.
func (c Checker) CanCancel(r Reservation, now time.Time) error {
	switch r.Status {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusCompleted:
		return ErrAlreadyCompleted
	}

	start := r.StartsAt(c.location())
	if start.Before(now.Add(c.leadTime())) {
		return fmt.Errorf("%w: reservation starts at %s", ErrTooLate, start.Format(time.RFC3339))
	}
	return nil
}

// CanEdit: редактируется только pending; новое время не должно пересекаться
// с другими активными бронированиями специальности на новую дату.
func (c Checker) CanEdit(r Reservation, date time.Time, interval TimeInterval, others []Reservation) error {
	if r.Status != StatusPending {
		return fmt.Errorf("%w: status is %s", ErrNotEditable, r.Status)
	}
	if !interval.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}

	occupied := activeOn(others, r.SpecialtyID, date, r.ID)
	if conflicts := FindConflicts(interval, occupied); len(conflicts) > 0 {
		return fmt.Errorf("%w: %s overlaps %s", ErrTimeConflict, interval, conflicts[0])
	}
	return nil
}
