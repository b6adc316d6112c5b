package calendar

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxSlotDurationMinutes — верхняя граница длительности слота (8 часов).
	MaxSlotDurationMinutes = 480
	// DefaultSlotDurationMinutes используется, если длительность не передана.
	DefaultSlotDurationMinutes = 30
)

// WorkingHour: окно приёма специальности в определённый день недели.
type WorkingHour struct {
	ID                  uuid.UUID
	SpecialtyID         uuid.UUID
	Day                 time.Weekday
	Interval            TimeInterval
	SlotDurationMinutes int
	Active              bool
}

// ValidateWorkingHour проверяет само окно, без учёта соседей.
func ValidateWorkingHour(w WorkingHour) error {
	if !w.Interval.Valid() {
		return fmt.Errorf("%w: working hour %s", ErrInvalidInterval, w.Interval)
	}
	if w.Day < time.Sunday || w.Day > time.Saturday {
		return fmt.Errorf("%w: bad day of week %d", ErrInvalidInterval, w.Day)
	}
	if w.SlotDurationMinutes <= 0 || w.SlotDurationMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be in (0, %d] minutes, got %d",
			ErrInvalidInterval, MaxSlotDurationMinutes, w.SlotDurationMinutes)
	}
	return nil
}

// CheckWorkingHourConflict проверяет, что candidate не пересекается с другими
// активными окнами той же специальности в тот же день. Запись с тем же ID
// (редактирование) пропускается.
func CheckWorkingHourConflict(candidate WorkingHour, existing []WorkingHour) error {
	if err := ValidateWorkingHour(candidate); err != nil {
		return err
	}

	for _, w := range existing {
		if candidate.ID != uuid.Nil && w.ID == candidate.ID {
			continue
		}
		if !w.Active || w.SpecialtyID != candidate.SpecialtyID || w.Day != candidate.Day {
			continue
		}
		if Overlaps(candidate.Interval, w.Interval) {
			return fmt.Errorf("%w: overlaps working hour %s on %s", ErrTimeConflict, w.Interval, w.Day)
		}
	}
	return nil
}

type hoursKey struct {
	specialtyID uuid.UUID
	day         time.Weekday
}

// WorkingHourSet: активные окна, сгруппированные по (специальность, день недели).
type WorkingHourSet struct {
	byKey map[hoursKey][]WorkingHour
}

// NewWorkingHourSet строит набор; неактивные окна отбрасываются.
func NewWorkingHourSet(hours []WorkingHour) *WorkingHourSet {
	s := &WorkingHourSet{byKey: make(map[hoursKey][]WorkingHour)}
	for _, w := range hours {
		if !w.Active {
			continue
		}
		k := hoursKey{specialtyID: w.SpecialtyID, day: w.Day}
		s.byKey[k] = append(s.byKey[k], w)
	}
	return s
}

// ForDay возвращает копию окон для специальности и дня недели.
func (s *WorkingHourSet) ForDay(specialtyID uuid.UUID, day time.Weekday) []WorkingHour {
	src := s.byKey[hoursKey{specialtyID: specialtyID, day: day}]
	out := make([]WorkingHour, len(src))
	copy(out, src)
	return out
}
