package create_booking

import (
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	RequesterID int64              // ID заказчика
	ProviderID  int64              // ID провайдера
	ServiceID   int64              // ID услуги
	Date        time.Time          // Дата бронирования (без времени)
	Time        types.TimeString   // Время начала, HH:MM
	Timezone    string             // Часовой пояс заказчика
	Mode        domain.BookingMode // online | offline
	AddressID   *int64             // Обязателен для offline
	Notes       *string
}

// Response созданное бронирование и запись о платеже
type Response struct {
	Booking *domain.Booking
	Payment *domain.Payment
}
