package calendar

import (
	"fmt"
	"sort"
)

// TimeInterval — полуоткрытый интервал [Start, End) внутри одних суток.
type TimeInterval struct {
	Start ClockTime `json:"startTime"`
	End   ClockTime `json:"endTime"`
}

// NewTimeInterval создаёт интервал и проверяет Start < End.
func NewTimeInterval(start, end ClockTime) (TimeInterval, error) {
	iv := TimeInterval{Start: start, End: end}
	if !iv.Valid() {
		return TimeInterval{}, fmt.Errorf("%w: %s", ErrInvalidInterval, iv)
	}
	return iv, nil
}

func (i TimeInterval) Valid() bool {
	return i.Start.Valid() && i.End.Valid() && i.Start < i.End
}

// Minutes: длительность интервала.
func (i TimeInterval) Minutes() int {
	return int(i.End - i.Start)
}

func (i TimeInterval) String() string {
	return i.Start.String() + "–" + i.End.String()
}

// Overlaps проверяет пересечение полуоткрытых интервалов.
// Интервалы, касающиеся концами, не пересекаются.
func Overlaps(a, b TimeInterval) bool {
	return !(a.End <= b.Start || b.End <= a.Start)
}

// overlapsByClauses: та же проверка в форме трёх условий, как она записана
// в SQL репозитория (FindOverlapping), которым сервис перепроверяет слот
// внутри транзакции. Для корректных интервалов эквивалентна Overlaps.
func overlapsByClauses(a, b TimeInterval) bool {
	return (a.Start >= b.Start && a.Start < b.End) ||
		(a.End > b.Start && a.End <= b.End) ||
		(a.Start <= b.Start && a.End >= b.End)
}

// SortIntervals сортирует по началу, при равенстве по концу.
func SortIntervals(list []TimeInterval) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Start != list[j].Start {
			return list[i].Start < list[j].Start
		}
		return list[i].End < list[j].End
	})
}

// dedupSorted убирает подряд идущие одинаковые интервалы из отсортированного списка.
func dedupSorted(list []TimeInterval) []TimeInterval {
	if len(list) < 2 {
		return list
	}
	out := list[:1]
	for _, iv := range list[1:] {
		if iv != out[len(out)-1] {
			out = append(out, iv)
		}
	}
	return out
}
