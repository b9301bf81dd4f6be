// Package calendar models the game year for growth timing.
package calendar

import "strings"

// TicksPerMonth is the length of one month in year ticks.
const TicksPerMonth = 33600

// Month is one of the twelve months of the game year.
type Month int

const (
	Granite Month = iota
	Slate
	Felsite
	Hematite
	Malachite
	Galena
	Limestone
	Sandstone
	Timber
	Moonstone
	Opal
	Obsidian
)

var monthNames = [...]string{
	"Granite", "Slate", "Felsite",
	"Hematite", "Malachite", "Galena",
	"Limestone", "Sandstone", "Timber",
	"Moonstone", "Opal", "Obsidian",
}

// Months lists the year in order.
func Months() []Month {
	out := make([]Month, 12)
	for i := range out {
		out[i] = Month(i)
	}
	return out
}

func (m Month) String() string {
	if m < 0 || int(m) >= len(monthNames) {
		return "Unknown"
	}
	return monthNames[m]
}

// YearTick is the tick at which the month begins.
func (m Month) YearTick() int32 {
	return int32(m) * TicksPerMonth
}

// TimeOfYear selects the moment the scene is rendered at, either the
// world's current tick or the start of a fixed month.
type TimeOfYear struct {
	month   Month
	current bool
}

// Current renders at the world's live tick.
func Current() TimeOfYear { return TimeOfYear{current: true} }

// At renders at the start of the given month.
func At(m Month) TimeOfYear { return TimeOfYear{month: m} }

// Resolve returns the year tick to render at, given the world's current
// tick.
func (t TimeOfYear) Resolve(curYearTick int32) int32 {
	if t.current {
		return curYearTick
	}
	return t.month.YearTick()
}

func (t TimeOfYear) String() string {
	if t.current {
		return "current"
	}
	return t.month.String()
}

// ParseTimeOfYear reads a flag value, either "current" or a month name.
func ParseTimeOfYear(s string) (TimeOfYear, bool) {
	if s == "" || s == "current" {
		return Current(), true
	}
	for i, name := range monthNames {
		if strings.EqualFold(s, name) {
			return At(Month(i)), true
		}
	}
	return TimeOfYear{}, false
}
