package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/dispatch"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Reschedule(ctx context.Context, id int64, date time.Time, t types.TimeString, timezone string, reason *string) error
}

// CatalogRepository интерфейс каталога провайдеров
type CatalogRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	LockProvider(ctx context.Context, id int64) (*domain.Provider, error)
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
}

// TransactionManager интерфейс для управления транзакциями.
// Do открывает READ COMMITTED: после ожидания блокировки провайдера
// каждый следующий запрос видит брони, зафиксированные конкурентом.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики бронирований
type Metrics interface {
	IncConflict(reason string)
	IncTransition(action string)
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
