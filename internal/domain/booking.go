package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// ParseBookingStatus валидирует строковый статус
func ParseBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(s)
	switch status {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return status, true
	default:
		return "", false
	}
}

// BookingMode формат проведения услуги
type BookingMode string

const (
	ModeOnline  BookingMode = "online"
	ModeOffline BookingMode = "offline"
)

// ParseBookingMode валидирует строковый режим
func ParseBookingMode(s string) (BookingMode, bool) {
	mode := BookingMode(s)
	switch mode {
	case ModeOnline, ModeOffline:
		return mode, true
	default:
		return "", false
	}
}

// PaymentStatus статус оплаты, слабо связан со статусом бронирования
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking бронирование услуги у провайдера
type Booking struct {
	ID          int64
	RequesterID int64
	ProviderID  int64
	ServiceID   int64
	BookingDate time.Time // только дата
	BookingTime types.TimeString
	Timezone    string
	Mode        BookingMode
	AddressID   *int64 // обязателен для offline
	Status      BookingStatus

	// Снимки на момент создания, не следуют за изменениями цены услуги
	DurationMinutes int
	TotalAmount     decimal.Decimal

	PaymentStatus   PaymentStatus
	MeetingLink     *string
	MeetingPassword *string
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time
	RescheduleReason   *string
	CompletedAt        *time.Time

	// Денормализованная копия отзыва (источник истины - Review)
	Rating *int
	Review *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal true для completed и cancelled
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// IsActive true, если бронирование занимает слот
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// IsOffline true для очного визита
func (b *Booking) IsOffline() bool {
	return b.Mode == ModeOffline
}

// HasReview true, если отзыв уже прикреплен
func (b *Booking) HasReview() bool {
	return b.Rating != nil
}

func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusInProgress
}

// ProviderBookingsFilter фильтр бронирований провайдера
type ProviderBookingsFilter struct {
	ProviderID      int64          // обязательный
	StartDate       *time.Time     // начало периода (включительно)
	EndDate         *time.Time     // конец периода (включительно)
	Status          *BookingStatus // конкретный статус
	IncludeInactive bool           // включать завершенные и отмененные
}

// DateOnly отбрасывает время, оставляя полночь UTC той же календарной даты
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
