package calendar

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateSlots_Basic(t *testing.T) {
	slots := GenerateSlots(iv("09:00", "12:00"), 30)
	if len(slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(slots))
	}
	if slots[0] != iv("09:00", "09:30") || slots[5] != iv("11:30", "12:00") {
		t.Fatalf("unexpected bounds: %v .. %v", slots[0], slots[5])
	}
}

func TestGenerateSlots_TailDropped(t *testing.T) {
	slots := GenerateSlots(iv("09:00", "10:45"), 30)
	want := []TimeInterval{iv("09:00", "09:30"), iv("09:30", "10:00"), iv("10:00", "10:30")}
	if !reflect.DeepEqual(slots, want) {
		t.Fatalf("expected %v, got %v", want, slots)
	}
}

func TestGenerateSlots_InvalidInput(t *testing.T) {
	if got := GenerateSlots(iv("09:00", "10:00"), 0); len(got) != 0 {
		t.Fatalf("expected no slots for zero duration, got %v", got)
	}
	if got := GenerateSlots(iv("09:00", "10:00"), -15); len(got) != 0 {
		t.Fatalf("expected no slots for negative duration, got %v", got)
	}
	if got := GenerateSlots(TimeInterval{Start: NewClockTime(10, 0), End: NewClockTime(9, 0)}, 30); len(got) != 0 {
		t.Fatalf("expected no slots for inverted window, got %v", got)
	}
	if got := GenerateSlots(iv("09:00", "09:20"), 30); len(got) != 0 {
		t.Fatalf("expected no slots for window shorter than duration, got %v", got)
	}
}

func TestGenerateSlots_Properties(t *testing.T) {
	for _, window := range allIntervals() {
		for _, d := range []int{10, 15, 20, 45, 60} {
			slots := GenerateSlots(window, d)
			if len(slots) != window.Minutes()/d {
				t.Fatalf("window %s, duration %d: expected %d slots, got %d", window, d, window.Minutes()/d, len(slots))
			}
			for i, s := range slots {
				if s.Minutes() != d || s.Start < window.Start || s.End > window.End {
					t.Fatalf("slot %s is out of window %s or has wrong length", s, window)
				}
				if i > 0 && Overlaps(slots[i-1], s) {
					t.Fatalf("slots %s and %s overlap", slots[i-1], s)
				}
			}
		}
	}
}

func TestGenerateForWindows_MixedDurationsSortedAndDeduped(t *testing.T) {
	spec := uuid.New()
	hours := []WorkingHour{
		{SpecialtyID: spec, Interval: iv("14:00", "15:00"), SlotDurationMinutes: 60, Active: true},
		{SpecialtyID: spec, Interval: iv("09:00", "10:00"), SlotDurationMinutes: 30, Active: true},
		{SpecialtyID: spec, Interval: iv("09:00", "10:00"), SlotDurationMinutes: 30, Active: true},
	}

	got := GenerateForWindows(hours)
	want := []TimeInterval{iv("09:00", "09:30"), iv("09:30", "10:00"), iv("14:00", "15:00")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMarkAvailability(t *testing.T) {
	candidates := GenerateSlots(iv("09:00", "11:00"), 30)
	occupied := []TimeInterval{iv("09:30", "10:15")}

	slots := MarkAvailability(candidates, occupied)
	want := []bool{true, false, false, true}
	for i, s := range slots {
		if s.Available != want[i] {
			t.Fatalf("slot %s: expected available=%v", s.TimeInterval, want[i])
		}
	}

	free := FreeSlots(candidates, occupied)
	if len(free) != 2 || free[0].TimeInterval != iv("09:00", "09:30") || free[1].TimeInterval != iv("10:30", "11:00") {
		t.Fatalf("unexpected free slots %v", free)
	}
}
