package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/dispatch"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CatalogRepository интерфейс каталога провайдеров и услуг
type CatalogRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	LockProvider(ctx context.Context, id int64) (*domain.Provider, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
}

// ConflictChecker проверка слота
type ConflictChecker interface {
	ValidateMode(ctx context.Context, req conflicts.CheckRequest) error
	CheckSlot(ctx context.Context, req conflicts.CheckRequest) error
}

// Dispatcher побочные эффекты после фиксации
type Dispatcher interface {
	Notify(ctx context.Context, bookingID int64, notifications ...dispatch.Notification)
	Publish(ctx context.Context, key string, b *domain.Booking, actorID int64, reason string)
	RequestPayment(ctx context.Context, payment *domain.Payment)
}

// TransactionManager интерфейс для управления транзакциями.
// Do открывает READ COMMITTED: после ожидания блокировки провайдера
// каждый следующий запрос видит брони, зафиксированные конкурентом.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики бронирований
type Metrics interface {
	IncBookingCreated(mode string)
	IncConflict(reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
