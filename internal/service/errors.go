package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Ошибки сервисного слоя. Отказы правил календаря лежат в пакете calendar.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrSpecialtyInactive = errors.New("specialty not found or inactive")
	ErrAlreadyRegistered = errors.New("phone or national id already registered")
	ErrInvalidCode       = errors.New("invalid or expired verification code")
	ErrRateLimited       = errors.New("too many verification requests")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrSmsFailed         = errors.New("failed to send sms")
)

// notFound переводит gorm.ErrRecordNotFound в ErrNotFound с именем сущности.
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return fmt.Errorf("load %s: %w", entity, err)
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
