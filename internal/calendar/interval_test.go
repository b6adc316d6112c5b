package calendar

import (
	"errors"
	"testing"
)

func iv(start, end string) TimeInterval {
	s, err := ParseClockTime(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseClockTime(end)
	if err != nil {
		panic(err)
	}
	return TimeInterval{Start: s, End: e}
}

func TestParseClockTime(t *testing.T) {
	cases := map[string]ClockTime{
		"00:00":    Midnight,
		"08:30":    NewClockTime(8, 30),
		"17:45:00": NewClockTime(17, 45),
		"24:00":    EndOfDay,
	}
	for in, want := range cases {
		got, err := ParseClockTime(in)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%s: expected %v, got %v", in, want, got)
		}
	}

	for _, bad := range []string{"", "8", "25:00", "10:60", "10:00:30", "aa:bb", "-1:00"} {
		if _, err := ParseClockTime(bad); !errors.Is(err, ErrInvalidInterval) {
			t.Fatalf("%q: expected ErrInvalidInterval, got %v", bad, err)
		}
	}
}

func TestClockTime_TextRoundTrip(t *testing.T) {
	c := NewClockTime(9, 5)
	b, _ := c.MarshalText()
	if string(b) != "09:05" {
		t.Fatalf("expected 09:05, got %s", b)
	}

	var back ClockTime
	if err := back.UnmarshalText(b); err != nil || back != c {
		t.Fatalf("expected %v, got %v (err %v)", c, back, err)
	}
}

func TestNewTimeInterval_RejectsEmptyAndInverted(t *testing.T) {
	if _, err := NewTimeInterval(NewClockTime(10, 0), NewClockTime(10, 0)); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for empty interval, got %v", err)
	}
	if _, err := NewTimeInterval(NewClockTime(11, 0), NewClockTime(10, 0)); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for inverted interval, got %v", err)
	}
	got, err := NewTimeInterval(NewClockTime(10, 0), NewClockTime(11, 0))
	if err != nil || got.Minutes() != 60 {
		t.Fatalf("unexpected result %v, %v", got, err)
	}
}

func TestOverlaps_Examples(t *testing.T) {
	cases := []struct {
		a, b TimeInterval
		want bool
	}{
		{iv("09:00", "10:00"), iv("10:00", "11:00"), false},
		{iv("09:00", "10:00"), iv("09:30", "10:30"), true},
		{iv("09:00", "12:00"), iv("10:00", "11:00"), true},
		{iv("10:00", "11:00"), iv("09:00", "12:00"), true},
		{iv("09:00", "10:00"), iv("11:00", "12:00"), false},
	}
	for _, c := range cases {
		if got := Overlaps(c.a, c.b); got != c.want {
			t.Fatalf("Overlaps(%s, %s) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

// Перебор всех корректных интервалов на сетке 15 минут в пределах 4 часов.
func allIntervals() []TimeInterval {
	var out []TimeInterval
	for s := 0; s <= 240; s += 15 {
		for e := s + 15; e <= 240; e += 15 {
			out = append(out, TimeInterval{Start: ClockTime(s), End: ClockTime(e)})
		}
	}
	return out
}

func TestOverlaps_Properties(t *testing.T) {
	list := allIntervals()
	for _, a := range list {
		if !Overlaps(a, a) {
			t.Fatalf("interval %s must overlap itself", a)
		}
		adjacent := TimeInterval{Start: a.End, End: a.End + 15}
		if Overlaps(a, adjacent) {
			t.Fatalf("adjacent intervals %s and %s must not overlap", a, adjacent)
		}
		for _, b := range list {
			if Overlaps(a, b) != Overlaps(b, a) {
				t.Fatalf("overlap is not symmetric for %s and %s", a, b)
			}
			if Overlaps(a, b) != overlapsByClauses(a, b) {
				t.Fatalf("compact and clause forms differ for %s and %s", a, b)
			}
		}
	}
}
