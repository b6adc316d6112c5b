package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/service"
)

// errorResponse — тело ответа с ошибкой. Code заполняется для отказов
// правил бронирования (TimeConflict, TooLate и т.д.).
type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// statusOf переводит ошибку сервиса в HTTP-статус.
func statusOf(err error) int {
	switch calendar.KindOf(err) {
	case calendar.KindInvalidInterval,
		calendar.KindInvalidRange,
		calendar.KindRangeTooLarge,
		calendar.KindNotEditable,
		calendar.KindAlreadyCancelled,
		calendar.KindAlreadyCompleted,
		calendar.KindTooLate:
		return http.StatusBadRequest
	case calendar.KindTimeConflict, calendar.KindDuplicateDayBooking:
		return http.StatusConflict
	}

	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSpecialtyInactive):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrPhoneNotVerified):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAlreadyRegistered), errors.Is(err, service.ErrSpecialtyExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrSmsFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		body := errorResponse{Message: "internal server error"}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				body.Message = msg
			} else {
				body.Message = http.StatusText(code)
			}
		} else {
			code = statusOf(err)
			if code != http.StatusInternalServerError {
				body.Message = err.Error()
				body.Code = string(calendar.KindOf(err))
			} else {
				logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			logger.Error().Err(err).Msg("write error response")
		}
	}
}
