package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	Actor     domain.Actor
	BookingID int64
	Date      time.Time        // Новая дата
	Time      types.TimeString // Новое время, HH:MM
	Timezone  *string          // Не задан - остается прежний
	Reason    *string
}
