package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
)

// WindowRepository интерфейс репозитория окон доступности
type WindowRepository interface {
	Create(ctx context.Context, window *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityWindow, error)
	ListByProvider(ctx context.Context, providerID int64, activeOnly bool) ([]*domain.AvailabilityWindow, error)
	ListActiveByProviderAndDay(ctx context.Context, providerID int64, dayOfWeek int) ([]*domain.AvailabilityWindow, error)
	Update(ctx context.Context, window *domain.AvailabilityWindow) error
	Delete(ctx context.Context, id int64) error
}

// BookingRepository чтение активных бронирований для сетки слотов
type BookingRepository interface {
	ListActiveByProviderAndDate(ctx context.Context, providerID int64, date time.Time) ([]*domain.Booking, error)
}

// CatalogRepository интерфейс каталога провайдеров
type CatalogRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	LockProvider(ctx context.Context, id int64) (*domain.Provider, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
