package app

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/memory"
	paymentRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/payment"
	reviewRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/review"
	"github.com/m04kA/SMC-RitualBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

// BookingStore полный набор операций над бронированиями, общий для Postgres и памяти
type BookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListActiveByProviderAndDate(ctx context.Context, providerID int64, date time.Time) ([]*domain.Booking, error)
	ListByRequester(ctx context.Context, requesterID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	ListByProvider(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Start(ctx context.Context, id int64, meetingLink, meetingPassword *string) error
	Complete(ctx context.Context, id int64, completedAt time.Time) error
	Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error
	Reschedule(ctx context.Context, id int64, date time.Time, t types.TimeString, timezone string, reason *string) error
	AttachReview(ctx context.Context, id int64, rating int, review *string) error
}

// WindowStore окна доступности
type WindowStore interface {
	Create(ctx context.Context, window *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityWindow, error)
	ListByProvider(ctx context.Context, providerID int64, activeOnly bool) ([]*domain.AvailabilityWindow, error)
	ListActiveByProviderAndDay(ctx context.Context, providerID int64, dayOfWeek int) ([]*domain.AvailabilityWindow, error)
	Update(ctx context.Context, window *domain.AvailabilityWindow) error
	Delete(ctx context.Context, id int64) error
}

// CatalogStore провайдеры и услуги
type CatalogStore interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	GetProviderByUserID(ctx context.Context, userID int64) (*domain.Provider, error)
	LockProvider(ctx context.Context, id int64) (*domain.Provider, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	IncrementTotalBookings(ctx context.Context, providerID int64) error
	ApplyRating(ctx context.Context, providerID int64, rating int) error
}

type ReviewStore interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Review, error)
	ListByProvider(ctx context.Context, providerID int64) ([]*domain.Review, error)
}

type PaymentStore interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
	SetGatewayOrder(ctx context.Context, paymentID int64, orderID string) error
}

// TxManager транзакции, в которых выполняются проверка слота и запись
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Storage репозитории выбранного хранилища
type Storage struct {
	Bookings BookingStore
	Windows  WindowStore
	Catalog  CatalogStore
	Reviews  ReviewStore
	Payments PaymentStore
	Tx       TxManager
}

// NewMemoryStorage хранилище в памяти процесса
func NewMemoryStorage(store *memory.Store) Storage {
	return Storage{
		Bookings: store.Bookings(),
		Windows:  store.Availability(),
		Catalog:  store.Catalog(),
		Reviews:  store.Reviews(),
		Payments: store.Payments(),
		Tx:       store.TxManager(),
	}
}

// NewPostgresStorage репозитории Postgres поверх db (*sql.DB или *dbmetrics.DB)
func NewPostgresStorage(db dbmetrics.DBExecutor, tx TxManager) Storage {
	return Storage{
		Bookings: bookingRepo.NewRepository(db),
		Windows:  availabilityRepo.NewRepository(db),
		Catalog:  catalogRepo.NewRepository(db),
		Reviews:  reviewRepo.NewRepository(db),
		Payments: paymentRepo.NewRepository(db),
		Tx:       tx,
	}
}
