package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime — время суток в минутах от полуночи, без даты и часового пояса.
// Допустимый диапазон [00:00, 24:00]; 24:00 используется только как конец окна.
type ClockTime int

const (
	Midnight ClockTime = 0
	EndOfDay ClockTime = 24 * 60
)

// NewClockTime собирает время суток из часов и минут.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime разбирает "HH:MM" или "HH:MM:SS".
// Секунды допускаются только нулевые: сетка слотов минутная.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: bad clock time %q", ErrInvalidInterval, s)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: bad clock time %q", ErrInvalidInterval, s)
		}
		nums[i] = n
	}
	if len(nums) == 3 && nums[2] != 0 {
		return 0, fmt.Errorf("%w: seconds are not supported in %q", ErrInvalidInterval, s)
	}
	if nums[1] > 59 {
		return 0, fmt.Errorf("%w: bad clock time %q", ErrInvalidInterval, s)
	}

	c := NewClockTime(nums[0], nums[1])
	if !c.Valid() {
		return 0, fmt.Errorf("%w: clock time out of range %q", ErrInvalidInterval, s)
	}
	return c, nil
}

func (c ClockTime) Valid() bool {
	return c >= Midnight && c <= EndOfDay
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

// Add сдвигает время на указанное число минут (без переноса через сутки).
func (c ClockTime) Add(minutes int) ClockTime {
	return c + ClockTime(minutes)
}

// On возвращает момент времени c в дату day в часовом поясе loc.
func (c ClockTime) On(day time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, loc)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
