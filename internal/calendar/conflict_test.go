package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestChecker_CanCreate(t *testing.T) {
	spec := uuid.New()
	otherSpec := uuid.New()
	user := uuid.New()
	date := day(2025, 1, 6)

	existing := []Reservation{
		{ID: uuid.New(), UserID: uuid.New(), SpecialtyID: spec, Date: date, Interval: iv("09:00", "09:30"), Status: StatusPending},
		{ID: uuid.New(), UserID: uuid.New(), SpecialtyID: spec, Date: date, Interval: iv("10:00", "10:30"), Status: StatusCancelled},
	}
	var c Checker

	req := BookingRequest{UserID: user, SpecialtyID: spec, Date: date, Interval: iv("09:15", "09:45")}
	if err := c.CanCreate(req, existing, nil); !errors.Is(err, ErrTimeConflict) {
		t.Fatalf("expected ErrTimeConflict, got %v", err)
	}

	// Отменённое бронирование время не занимает.
	req.Interval = iv("10:00", "10:30")
	if err := c.CanCreate(req, existing, nil); err != nil {
		t.Fatalf("expected cancelled reservation to be ignored, got %v", err)
	}

	// Касание концами: не конфликт.
	req.Interval = iv("09:30", "10:00")
	if err := c.CanCreate(req, existing, nil); err != nil {
		t.Fatalf("expected adjacent interval to be allowed, got %v", err)
	}

	userDay := []Reservation{
		{ID: uuid.New(), UserID: user, SpecialtyID: otherSpec, Date: date, Interval: iv("15:00", "15:30"), Status: StatusConfirmed},
	}
	if err := c.CanCreate(req, existing, userDay); !errors.Is(err, ErrDuplicateDayBooking) {
		t.Fatalf("expected ErrDuplicateDayBooking, got %v", err)
	}

	// Конфликт по времени проверяется раньше второго бронирования в день.
	req.Interval = iv("09:00", "09:30")
	if err := c.CanCreate(req, existing, userDay); !errors.Is(err, ErrTimeConflict) {
		t.Fatalf("expected ErrTimeConflict first, got %v", err)
	}

	userDay[0].Status = StatusCancelled
	req.Interval = iv("11:00", "11:30")
	if err := c.CanCreate(req, existing, userDay); err != nil {
		t.Fatalf("expected cancelled user reservation to be ignored, got %v", err)
	}

	req.Interval = TimeInterval{Start: NewClockTime(11, 0), End: NewClockTime(11, 0)}
	if err := c.CanCreate(req, existing, nil); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestChecker_CanCreate_OtherSpecialtyAndDateIgnored(t *testing.T) {
	spec := uuid.New()
	date := day(2025, 1, 6)
	existing := []Reservation{
		{ID: uuid.New(), SpecialtyID: uuid.New(), Date: date, Interval: iv("09:00", "10:00"), Status: StatusPending},
		{ID: uuid.New(), SpecialtyID: spec, Date: day(2025, 1, 7), Interval: iv("09:00", "10:00"), Status: StatusPending},
	}

	req := BookingRequest{UserID: uuid.New(), SpecialtyID: spec, Date: date, Interval: iv("09:00", "09:30")}
	if err := (Checker{}).CanCreate(req, existing, nil); err != nil {
		t.Fatalf("expected no conflict, got %v", err)
	}
}

func TestChecker_CanCancel(t *testing.T) {
	now := time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)
	r := Reservation{ID: uuid.New(), Date: day(2025, 1, 6), Interval: iv("09:00", "09:30"), Status: StatusPending}
	var c Checker

	if err := c.CanCancel(r, now); err != nil {
		t.Fatalf("expected cancel 25h ahead to be allowed, got %v", err)
	}

	// Ровно за сутки: ещё можно.
	if err := c.CanCancel(r, now.Add(time.Hour)); err != nil {
		t.Fatalf("expected cancel exactly 24h ahead to be allowed, got %v", err)
	}

	if err := c.CanCancel(r, now.Add(time.Hour+time.Minute)); !errors.Is(err, ErrTooLate) {
		t.Fatalf("expected ErrTooLate, got %v", err)
	}

	r.Status = StatusCancelled
	if err := c.CanCancel(r, now); !errors.Is(err, ErrAlreadyCancelled) || !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}

	r.Status = StatusCompleted
	if err := c.CanCancel(r, now); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
}

func TestChecker_CanCancel_ClinicLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	c := NewChecker(24*time.Hour, loc)
	r := Reservation{Date: day(2025, 1, 6), Interval: iv("09:00", "09:30"), Status: StatusConfirmed}

	// 09:00 UTC+3 = 06:00 UTC; за 24 часа: 05.01 06:00 UTC.
	if err := c.CanCancel(r, time.Date(2025, 1, 5, 6, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("expected cancel to be allowed, got %v", err)
	}
	if err := c.CanCancel(r, time.Date(2025, 1, 5, 6, 1, 0, 0, time.UTC)); !errors.Is(err, ErrTooLate) {
		t.Fatalf("expected ErrTooLate, got %v", err)
	}
}

func TestChecker_CanEdit(t *testing.T) {
	spec := uuid.New()
	date := day(2025, 1, 6)
	self := Reservation{ID: uuid.New(), SpecialtyID: spec, Date: date, Interval: iv("09:00", "09:30"), Status: StatusPending}
	other := Reservation{ID: uuid.New(), SpecialtyID: spec, Date: date, Interval: iv("10:00", "10:30"), Status: StatusConfirmed}
	all := []Reservation{self, other}
	var c Checker

	// Сдвиг внутри собственного интервала не конфликтует сам с собой.
	if err := c.CanEdit(self, date, iv("09:15", "09:45"), all); err != nil {
		t.Fatalf("expected edit to be allowed, got %v", err)
	}
	if err := c.CanEdit(self, date, iv("09:45", "10:15"), all); !errors.Is(err, ErrTimeConflict) {
		t.Fatalf("expected ErrTimeConflict, got %v", err)
	}
	if err := c.CanEdit(self, day(2025, 1, 7), iv("10:00", "10:30"), all); err != nil {
		t.Fatalf("expected move to another date to be allowed, got %v", err)
	}

	for _, st := range []Status{StatusConfirmed, StatusCancelled, StatusCompleted} {
		r := self
		r.Status = st
		if err := c.CanEdit(r, date, iv("12:00", "12:30"), all); !errors.Is(err, ErrNotEditable) {
			t.Fatalf("status %s: expected ErrNotEditable, got %v", st, err)
		}
	}
}

func TestActiveIntervals(t *testing.T) {
	keep := uuid.New()
	skip := uuid.New()
	list := []Reservation{
		{ID: keep, Interval: iv("09:00", "09:30"), Status: StatusPending},
		{ID: skip, Interval: iv("10:00", "10:30"), Status: StatusPending},
		{ID: uuid.New(), Interval: iv("11:00", "11:30"), Status: StatusCancelled},
	}
	got := ActiveIntervals(list, skip)
	if len(got) != 1 || got[0] != iv("09:00", "09:30") {
		t.Fatalf("unexpected intervals %v", got)
	}
}

func TestCheckWorkingHourConflict(t *testing.T) {
	spec := uuid.New()
	existing := []WorkingHour{
		{ID: uuid.New(), SpecialtyID: spec, Day: time.Monday, Interval: iv("09:00", "12:00"), SlotDurationMinutes: 30, Active: true},
		{ID: uuid.New(), SpecialtyID: spec, Day: time.Monday, Interval: iv("14:00", "18:00"), SlotDurationMinutes: 30, Active: false},
	}

	cand := WorkingHour{SpecialtyID: spec, Day: time.Monday, Interval: iv("11:00", "13:00"), SlotDurationMinutes: 30, Active: true}
	if err := CheckWorkingHourConflict(cand, existing); !errors.Is(err, ErrTimeConflict) {
		t.Fatalf("expected ErrTimeConflict, got %v", err)
	}

	cand.Interval = iv("12:00", "13:00")
	if err := CheckWorkingHourConflict(cand, existing); err != nil {
		t.Fatalf("expected adjacent window to be allowed, got %v", err)
	}

	cand.Interval = iv("15:00", "16:00")
	if err := CheckWorkingHourConflict(cand, existing); err != nil {
		t.Fatalf("expected inactive window to be ignored, got %v", err)
	}

	cand.Day = time.Tuesday
	cand.Interval = iv("09:00", "12:00")
	if err := CheckWorkingHourConflict(cand, existing); err != nil {
		t.Fatalf("expected other day to be allowed, got %v", err)
	}

	// Редактирование самого себя.
	self := existing[0]
	self.Interval = iv("08:00", "11:00")
	if err := CheckWorkingHourConflict(self, existing); err != nil {
		t.Fatalf("expected update to exclude itself, got %v", err)
	}

	self.SlotDurationMinutes = 481
	if err := CheckWorkingHourConflict(self, existing); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for long slot, got %v", err)
	}
}

func TestWorkingHourSet_ForDay(t *testing.T) {
	spec := uuid.New()
	set := NewWorkingHourSet([]WorkingHour{
		{SpecialtyID: spec, Day: time.Monday, Interval: iv("09:00", "12:00"), SlotDurationMinutes: 30, Active: true},
		{SpecialtyID: spec, Day: time.Monday, Interval: iv("13:00", "14:00"), SlotDurationMinutes: 30, Active: false},
		{SpecialtyID: spec, Day: time.Tuesday, Interval: iv("09:00", "12:00"), SlotDurationMinutes: 30, Active: true},
	})

	if got := set.ForDay(spec, time.Monday); len(got) != 1 {
		t.Fatalf("expected 1 active monday window, got %d", len(got))
	}
	if got := set.ForDay(uuid.New(), time.Monday); len(got) != 0 {
		t.Fatalf("expected no windows for unknown specialty, got %d", len(got))
	}
	if got := set.ForDay(spec, time.Tuesday); len(got) != 1 {
		t.Fatalf("expected 1 active tuesday window, got %d", len(got))
	}
}
