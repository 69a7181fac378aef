package conflicts

import (
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

// CheckRequest кандидат на бронирование
type CheckRequest struct {
	ProviderID  int64
	RequesterID int64 // владелец адреса для offline
	Date        time.Time
	Time        types.TimeString
	Mode        domain.BookingMode
	AddressID   *int64

	// ExcludeBookingID бронирование, которое не считается коллизией (перенос самого себя)
	ExcludeBookingID int64
}
