package calendar

// DefaultDayWindow — окно по умолчанию для запроса свободного времени без
// привязки к графику специальности.
var DefaultDayWindow = TimeInterval{Start: NewClockTime(8, 0), End: NewClockTime(20, 0)}

// Slot: кандидат на запись и признак доступности.
type Slot struct {
	TimeInterval
	Available bool `json:"isAvailable"`
}

// GenerateSlots нарезает окно на слоты длительностью durationMinutes.
// Шаг равен длительности слота, неполный хвост отбрасывается.
// Некорректный вход (duration <= 0 или пустое окно) даёт пустой список.
func GenerateSlots(window TimeInterval, durationMinutes int) []TimeInterval {
	if durationMinutes <= 0 || window.Start >= window.End {
		return []TimeInterval{}
	}

	slots := make([]TimeInterval, 0, window.Minutes()/durationMinutes)
	for cur := window.Start; cur.Add(durationMinutes) <= window.End; cur = cur.Add(durationMinutes) {
		slots = append(slots, TimeInterval{Start: cur, End: cur.Add(durationMinutes)})
	}
	return slots
}

// GenerateForWindows объединяет слоты всех окон (у каждого своя длительность),
// сортирует и намеренно убирает точные повторы (они возникают только из
// пересекающихся окон, которые CheckWorkingHourConflict не пропускает).
func GenerateForWindows(hours []WorkingHour) []TimeInterval {
	var all []TimeInterval
	for _, w := range hours {
		all = append(all, GenerateSlots(w.Interval, w.SlotDurationMinutes)...)
	}
	if len(all) == 0 {
		return []TimeInterval{}
	}
	SortIntervals(all)
	return dedupSorted(all)
}

// MarkAvailability помечает каждый кандидат: доступен, если не пересекается ни с одним занятым интервалом.
func MarkAvailability(candidates, occupied []TimeInterval) []Slot {
	out := make([]Slot, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Slot{TimeInterval: c, Available: !HasOverlap(c, occupied)})
	}
	return out
}

// FreeSlots оставляет только доступные кандидаты.
func FreeSlots(candidates, occupied []TimeInterval) []Slot {
	out := make([]Slot, 0, len(candidates))
	for _, c := range candidates {
		if !HasOverlap(c, occupied) {
			out = append(out, Slot{TimeInterval: c, Available: true})
		}
	}
	return out
}
