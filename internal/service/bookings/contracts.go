package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/dispatch"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByRequester(ctx context.Context, requesterID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	ListByProvider(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Start(ctx context.Context, id int64, meetingLink, meetingPassword *string) error
	Complete(ctx context.Context, id int64, completedAt time.Time) error
	Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error
}

// CatalogRepository интерфейс каталога провайдеров и услуг
type CatalogRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	IncrementTotalBookings(ctx context.Context, providerID int64) error
}

// Dispatcher побочные эффекты после фиксации
type Dispatcher interface {
	Notify(ctx context.Context, bookingID int64, notifications ...dispatch.Notification)
	Publish(ctx context.Context, key string, b *domain.Booking, actorID int64, reason string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики переходов
type Metrics interface {
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

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
