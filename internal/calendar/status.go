package calendar

import (
	"fmt"
	"strings"
)

// Status — статус бронирования.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Разрешённые переходы. Cancelled и Completed терминальные.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusCompleted},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// ParseStatus принимает имя статуса без учёта регистра.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Blocks сообщает, занимает ли бронирование своё время.
func (s Status) Blocks() bool {
	return s != StatusCancelled
}

func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition проверяет переход from -> to.
func Transition(from, to Status) error {
	switch {
	case from == StatusCancelled:
		return ErrAlreadyCancelled
	case from == StatusCompleted:
		return ErrAlreadyCompleted
	case !to.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	case !CanTransition(from, to):
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
