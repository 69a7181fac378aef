package domain

import "github.com/m04kA/SMC-RitualBookingService/pkg/types"

// AvailabilitySlot точка сетки слотов на конкретную дату
type AvailabilitySlot struct {
	Time      types.TimeString
	Available bool
}
