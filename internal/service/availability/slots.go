package availability

import (
	"sort"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

// generateSlots строит сетку с шагом step по всем окнам: start, start+step, ... < end.
// Пересекающиеся окна дают одинаковые точки, они схлопываются.
func generateSlots(windows []*domain.AvailabilityWindow, step int) ([]types.TimeString, error) {
	seen := make(map[types.TimeString]struct{})
	slots := make([]types.TimeString, 0)

	for _, w := range windows {
		if !w.IsActive {
			continue
		}

		start, err := w.StartTime.Minutes()
		if err != nil {
			return nil, err
		}
		end, err := w.EndTime.Minutes()
		if err != nil {
			return nil, err
		}

		for m := start; m < end; m += step {
			slot, err := types.FromMinutes(m)
			if err != nil {
				return nil, err
			}
			if _, ok := seen[slot]; ok {
				continue
			}
			seen[slot] = struct{}{}
			slots = append(slots, slot)
		}
	}

	// HH:MM с ведущими нулями сортируется лексикографически
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots, nil
}

// markBooked помечает занятыми точки, которые отклонит проверка коллизий для mode.
// online (и пустой mode): занята точка с активным бронированием.
// offline: занята любая точка в пределах часа от активного бронирования
// и точки, чей буфер выходит за пределы суток.
func markBooked(slots []types.TimeString, bookings []*domain.Booking, mode domain.BookingMode) []domain.AvailabilitySlot {
	result := make([]domain.AvailabilitySlot, len(slots))
	for i, slot := range slots {
		_, taken := conflicts.Collides(mode, slot, bookings, 0)
		if mode == domain.ModeOffline && !conflicts.OfflineBufferFits(slot) {
			taken = true
		}
		result[i] = domain.AvailabilitySlot{Time: slot, Available: !taken}
	}
	return result
}

// findOverlap возвращает активное окно, пересекающееся с candidate
func findOverlap(candidate *domain.AvailabilityWindow, windows []*domain.AvailabilityWindow) *domain.AvailabilityWindow {
	if !candidate.IsActive {
		return nil
	}
	for _, w := range windows {
		if w.ID == candidate.ID || !w.IsActive {
			continue
		}
		if candidate.Overlaps(w) {
			return w
		}
	}
	return nil
}
