// Package hours decides whether the store is accepting orders at a given
// instant. The simple Window gate is the fallback; the OperatingGate layers
// weekday schedules, holidays and temporary suspension on top of it.
package hours

import (
	"sync"
	"time"
)

// Gate reports whether the store is open for business at t.
type Gate interface {
	IsOpen(t time.Time) bool
}

// Window is a stateless open/close time-of-day gate. Times are HH:MM
// strings compared lexically, matching the display clock.
type Window struct {
	Open  string
	Close string
}

func (w Window) IsOpen(t time.Time) bool {
	hhmm := t.Format("15:04")
	return hhmm >= w.Open && hhmm <= w.Close
}

// DayHours is the schedule for a single weekday.
type DayHours struct {
	Enabled bool
	Open    string
	Close   string
}

// BreakTime is a daily window during which intake is paused.
type BreakTime struct {
	Enabled bool
	Start   string
	End     string
}

// OperatingInfo is the operator-managed schedule: per-weekday hours,
// recurring weekly holidays and one-off holiday dates.
type OperatingInfo struct {
	Days            map[time.Weekday]DayHours
	Break           BreakTime
	RegularHolidays []time.Weekday
	TempHolidays    []string // YYYY-MM-DD
}

// OperatingGate evaluates OperatingInfo and an optional temporary
// suspension. Suspension is the only mutable part and is guarded.
type OperatingGate struct {
	info OperatingInfo

	mu             sync.RWMutex
	suspendedUntil time.Time
}

func NewOperatingGate(info OperatingInfo) *OperatingGate {
	return &OperatingGate{info: info}
}

// Suspend pauses operation until the given instant. Passing a zero time
// resumes immediately.
func (g *OperatingGate) Suspend(until time.Time) {
	g.mu.Lock()
	g.suspendedUntil = until
	g.mu.Unlock()
}

// Suspended reports whether a suspension is active at t and, if so, when
// operation resumes.
func (g *OperatingGate) Suspended(t time.Time) (bool, time.Time) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.suspendedUntil.After(t) {
		return true, g.suspendedUntil
	}
	return false, time.Time{}
}

func (g *OperatingGate) IsOpen(t time.Time) bool {
	if suspended, _ := g.Suspended(t); suspended {
		return false
	}

	for _, day := range g.info.RegularHolidays {
		if t.Weekday() == day {
			return false
		}
	}

	date := t.Format("2006-01-02")
	for _, holiday := range g.info.TempHolidays {
		if holiday == date {
			return false
		}
	}

	day, ok := g.info.Days[t.Weekday()]
	if !ok || !day.Enabled {
		return false
	}

	hhmm := t.Format("15:04")
	if hhmm < day.Open || hhmm > day.Close {
		return false
	}

	if g.info.Break.Enabled && hhmm >= g.info.Break.Start && hhmm <= g.info.Break.End {
		return false
	}

	return true
}
