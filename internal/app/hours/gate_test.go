package hours

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	// 2025-03-10 is a Monday.
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestWindow(t *testing.T) {
	window := Window{Open: "09:00", Close: "22:00"}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"before opening", at(8, 59), false},
		{"at opening", at(9, 0), true},
		{"midday", at(14, 30), true},
		{"at closing", at(22, 0), true},
		{"after closing", at(22, 1), false},
		{"midnight", at(0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := window.IsOpen(tt.t); got != tt.want {
				t.Errorf("IsOpen(%s) = %v, want %v", tt.t.Format("15:04"), got, tt.want)
			}
		})
	}
}

func testInfo() OperatingInfo {
	days := make(map[time.Weekday]DayHours)
	for d := time.Sunday; d <= time.Saturday; d++ {
		days[d] = DayHours{Enabled: true, Open: "09:00", Close: "22:00"}
	}
	days[time.Sunday] = DayHours{Enabled: false}
	return OperatingInfo{
		Days:            days,
		Break:           BreakTime{Enabled: true, Start: "15:00", End: "16:00"},
		RegularHolidays: []time.Weekday{time.Tuesday},
		TempHolidays:    []string{"2025-03-13"},
	}
}

func TestOperatingGate(t *testing.T) {
	gate := NewOperatingGate(testInfo())

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"regular monday", at(12, 0), true},
		{"before opening", at(8, 0), false},
		{"during break", at(15, 30), false},
		{"after break", at(16, 1), true},
		{"disabled sunday", time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC), false},
		{"regular holiday tuesday", time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC), false},
		{"temporary holiday", time.Date(2025, 3, 13, 12, 0, 0, 0, time.UTC), false},
		{"day after temporary holiday", time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.IsOpen(tt.t); got != tt.want {
				t.Errorf("IsOpen(%s) = %v, want %v", tt.t.Format(time.RFC3339), got, tt.want)
			}
		})
	}
}

func TestOperatingGateSuspension(t *testing.T) {
	gate := NewOperatingGate(testInfo())
	now := at(12, 0)

	if !gate.IsOpen(now) {
		t.Fatal("gate should be open before suspension")
	}

	resume := now.Add(30 * time.Minute)
	gate.Suspend(resume)

	if gate.IsOpen(now) {
		t.Error("gate open during suspension")
	}
	suspended, until := gate.Suspended(now)
	if !suspended || !until.Equal(resume) {
		t.Errorf("Suspended() = %v, %v, want true, %v", suspended, until, resume)
	}

	if !gate.IsOpen(resume.Add(time.Second)) {
		t.Error("gate closed after suspension elapsed")
	}

	gate.Suspend(time.Time{})
	if !gate.IsOpen(now) {
		t.Error("gate closed after suspension cleared")
	}
}
