package calendar

import (
	"errors"
	"fmt"
)

// Отказы бизнес-правил. Возвращаются как значения, сравниваются через errors.Is.
var (
	ErrInvalidInterval     = errors.New("invalid time interval")
	ErrTimeConflict        = errors.New("time conflict")
	ErrDuplicateDayBooking = errors.New("user already has a reservation on this day")
	ErrNotEditable         = errors.New("reservation is not editable")
	ErrTooLate             = errors.New("too late to cancel reservation")
	ErrInvalidRange        = errors.New("invalid date range")
	ErrRangeTooLarge       = errors.New("date range too large")

	// Уточнения ErrNotEditable.
	ErrAlreadyCancelled  = fmt.Errorf("%w: reservation already cancelled", ErrNotEditable)
	ErrAlreadyCompleted  = fmt.Errorf("%w: reservation already completed", ErrNotEditable)
	ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", ErrNotEditable)
)

// Kind — машинное имя отказа для транспортного слоя.
type Kind string

const (
	KindNone                Kind = ""
	KindInvalidInterval     Kind = "InvalidInterval"
	KindTimeConflict        Kind = "TimeConflict"
	KindDuplicateDayBooking Kind = "DuplicateDayBooking"
	KindAlreadyCancelled    Kind = "AlreadyCancelled"
	KindAlreadyCompleted    Kind = "AlreadyCompleted"
	KindNotEditable         Kind = "NotEditable"
	KindTooLate             Kind = "TooLate"
	KindInvalidRange        Kind = "InvalidRange"
	KindRangeTooLarge       Kind = "RangeTooLarge"
)

// KindOf классифицирует ошибку. Для ошибок вне таксономии возвращает KindNone.
// Уточнения проверяются раньше общего ErrNotEditable.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidInterval):
		return KindInvalidInterval
	case errors.Is(err, ErrTimeConflict):
		return KindTimeConflict
	case errors.Is(err, ErrDuplicateDayBooking):
		return KindDuplicateDayBooking
	case errors.Is(err, ErrAlreadyCancelled):
		return KindAlreadyCancelled
	case errors.Is(err, ErrAlreadyCompleted):
		return KindAlreadyCompleted
	case errors.Is(err, ErrNotEditable):
		return KindNotEditable
	case errors.Is(err, ErrTooLate):
		return KindTooLate
	case errors.Is(err, ErrInvalidRange):
		return KindInvalidRange
	case errors.Is(err, ErrRangeTooLarge):
		return KindRangeTooLarge
	default:
		return KindNone
	}
}

// IsRejection сообщает, что err является ожидаемым отказом бизнес-правила, а не сбоем.
func IsRejection(err error) bool {
	return KindOf(err) != KindNone
}
