package conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
)

// WindowRepository источник окон доступности
type WindowRepository interface {
	ListActiveByProviderAndDay(ctx context.Context, providerID int64, dayOfWeek int) ([]*domain.AvailabilityWindow, error)
}

// BookingRepository источник уже существующих бронирований
type BookingRepository interface {
	ListActiveByProviderAndDate(ctx context.Context, providerID int64, date time.Time) ([]*domain.Booking, error)
}

// AddressResolver проверяет, что адрес принадлежит заказчику
type AddressResolver interface {
	Resolve(ctx context.Context, addressID, ownerID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
