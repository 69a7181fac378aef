package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

func TestNewAvailabilityWindow_Invariants(t *testing.T) {
	_, err := NewAvailabilityWindow(1, 1, "09:00", "12:00")
	require.NoError(t, err)

	_, err = NewAvailabilityWindow(1, 1, "12:00", "12:00")
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewAvailabilityWindow(1, 1, "13:00", "12:00")
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewAvailabilityWindow(1, 7, "09:00", "12:00")
	assert.ErrorIs(t, err, ErrInvalidDayOfWeek)

	_, err = NewAvailabilityWindow(1, 1, "9:00", "12:00")
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestAvailabilityWindow_ContainsIsHalfOpen(t *testing.T) {
	w, err := NewAvailabilityWindow(1, 1, "09:00", "12:00")
	require.NoError(t, err)

	assert.False(t, w.Contains("08:59"))
	assert.True(t, w.Contains("09:00"))
	assert.True(t, w.Contains("11:59"))
	assert.False(t, w.Contains("12:00"))
}

func TestAvailabilityWindow_Overlaps(t *testing.T) {
	base := &AvailabilityWindow{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"}

	tests := []struct {
		name  string
		start types.TimeString
		end   types.TimeString
		day   int
		want  bool
	}{
		{name: "adjacent after", start: "12:00", end: "14:00", day: 1, want: false},
		{name: "adjacent before", start: "07:00", end: "09:00", day: 1, want: false},
		{name: "inside", start: "10:00", end: "11:00", day: 1, want: true},
		{name: "straddles end", start: "11:30", end: "13:00", day: 1, want: true},
		{name: "other day", start: "10:00", end: "11:00", day: 2, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := &AvailabilityWindow{DayOfWeek: tt.day, StartTime: tt.start, EndTime: tt.end}
			assert.Equal(t, tt.want, base.Overlaps(other))
			assert.Equal(t, tt.want, other.Overlaps(base))
		})
	}
}

func TestDayOfWeek_SundayIsZero(t *testing.T) {
	assert.Equal(t, 0, DayOfWeek(time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, DayOfWeek(time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)))
}
