package add_review

import (
	"context"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/dispatch"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	AttachReview(ctx context.Context, id int64, rating int, review *string) error
}

// ReviewRepository интерфейс репозитория отзывов
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
}

// CatalogRepository интерфейс каталога провайдеров
type CatalogRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	ApplyRating(ctx context.Context, providerID int64, rating int) error
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

// Metrics бизнес-метрики
type Metrics interface {
	IncTransition(action string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
