package domain

import (
	"time"

	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

// AvailabilityWindow еженедельное окно приема провайдера: [StartTime, EndTime)
type AvailabilityWindow struct {
	ID         int64
	ProviderID int64
	DayOfWeek  int // 0 = воскресенье
	StartTime  types.TimeString
	EndTime    types.TimeString
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewAvailabilityWindow создает активное окно, проверяя инварианты
func NewAvailabilityWindow(providerID int64, day int, start, end types.TimeString) (*AvailabilityWindow, error) {
	w := &AvailabilityWindow{
		ProviderID: providerID,
		DayOfWeek:  day,
		StartTime:  start,
		EndTime:    end,
		IsActive:   true,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate проверяет день недели, формат времени и start < end
func (w *AvailabilityWindow) Validate() error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return ErrInvalidDayOfWeek
	}
	if w.StartTime.Validate() != nil || w.EndTime.Validate() != nil {
		return ErrInvalidWindow
	}
	if !w.StartTime.IsBefore(w.EndTime) {
		return ErrInvalidWindow
	}
	return nil
}

// Contains true, если start <= t < end
func (w *AvailabilityWindow) Contains(t types.TimeString) bool {
	return !t.IsBefore(w.StartTime) && t.IsBefore(w.EndTime)
}

// Overlaps проверяет пересечение полуинтервалов; смежные окна не пересекаются
func (w *AvailabilityWindow) Overlaps(other *AvailabilityWindow) bool {
	if w.DayOfWeek != other.DayOfWeek {
		return false
	}
	return w.StartTime.IsBefore(other.EndTime) && other.StartTime.IsBefore(w.EndTime)
}

// DayOfWeek день недели даты, 0 = воскресенье
func DayOfWeek(date time.Time) int {
	return int(date.Weekday())
}
