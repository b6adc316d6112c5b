package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/clinic-booking/internal/model"
)

// Ошибки валидации пользователя перед бронированием.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPhoneNotVerified = errors.New("phone is not verified")
)

// UserStore — источник данных о пользователях.
// В реале это репозиторий над БД, в тестах мок.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// ValidateBookingUser:
//   - проверяет идентификатор;
//   - вытаскивает пользователя из хранилища;
//   - требует подтверждённый телефон.
func ValidateBookingUser(ctx context.Context, store UserStore, userID uuid.UUID) (*model.User, error) {
	if userID == uuid.Nil {
		return nil, ErrUserNotFound
	}

	u, err := store.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && u == nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if !u.IsPhoneVerified {
		return nil, ErrPhoneNotVerified
	}
	return u, nil
}
