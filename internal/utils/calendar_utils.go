package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout — формат даты в запросах и ответах API.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// DateOnly отбрасывает время суток и приводит дату к 00:00 UTC.
// Все календарные даты в системе хранятся и сравниваются в таком виде.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate разбирает дату "YYYY-MM-DD". Допускается и RFC3339: время отбрасывается.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOnly(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func FormatDate(t time.Time) string {
	return DateOnly(t).Format(DateLayout)
}

func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// DaysBetween: разница в днях между датами (to - from). Отрицательна, если to раньше from.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// DatesInRange возвращает все даты из [from, to] включительно.
// Если to раньше from: пустой список.
func DatesInRange(from, to time.Time) []time.Time {
	from, to = DateOnly(from), DateOnly(to)
	if to.Before(from) {
		return []time.Time{}
	}

	dates := make([]time.Time, 0, DaysBetween(from, to)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// FormatSlotForUser форматирует приём в строку для SMS и уведомлений.
// Если loc != nil, время переводится в указанный часовой пояс.
// Если includeID = true, в конце добавляется идентификатор в скобках.
func FormatSlotForUser(
	start, end time.Time,
	loc *time.Location,
	includeID bool,
	id string,
) string {
	if loc != nil {
		start = start.In(loc)
		end = end.In(loc)
	}

	base := fmt.Sprintf("%s, %s, %s–%s",
		start.Weekday(),
		start.Format("02.01.2006"),
		start.Format("15:04"),
		end.Format("15:04"),
	)

	if includeID && id != "" {
		return fmt.Sprintf("%s (ID: %s)", base, id)
	}
	return base
}
