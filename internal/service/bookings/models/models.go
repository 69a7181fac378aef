package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Actor  domain.Actor
	Reason *string
}

// GetRequesterBookingsRequest запрос истории бронирований заказчика
type GetRequesterBookingsRequest struct {
	Actor       domain.Actor
	RequesterID int64
	Status      *string
}

// GetProviderBookingsRequest запрос бронирований провайдера
type GetProviderBookingsRequest struct {
	Actor           domain.Actor
	ProviderID      int64
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *string    // Фильтр по статусу (опционально)
	IncludeInactive bool       // Включить завершенные и отмененные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderBookingsRequest) ToDomainFilter() (domain.ProviderBookingsFilter, error) {
	filter := domain.ProviderBookingsFilter{
		ProviderID:      r.ProviderID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64  `json:"id"`
	RequesterID     int64  `json:"requesterId"`
	ProviderID      int64  `json:"providerId"`
	ServiceID       int64  `json:"serviceId"`
	BookingDate     string `json:"bookingDate"` // "2025-10-15"
	BookingTime     string `json:"bookingTime"` // "10:00"
	Timezone        string `json:"timezone"`
	Mode            string `json:"mode"`
	AddressID       *int64 `json:"addressId,omitempty"`
	Status          string `json:"status"`
	DurationMinutes int    `json:"durationMinutes"`
	TotalAmount     string `json:"totalAmount"` // "1750.00"
	PaymentStatus   string `json:"paymentStatus"`

	MeetingLink     *string `json:"meetingLink,omitempty"`
	MeetingPassword *string `json:"meetingPassword,omitempty"`
	Notes           *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601
	RescheduleReason   *string `json:"rescheduleReason,omitempty"`
	CompletedAt        *string `json:"completedAt,omitempty"` // ISO 8601

	Rating *int    `json:"rating,omitempty"`
	Review *string `json:"review,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		RequesterID:        b.RequesterID,
		ProviderID:         b.ProviderID,
		ServiceID:          b.ServiceID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		BookingTime:        b.BookingTime.String(),
		Timezone:           b.Timezone,
		Mode:               string(b.Mode),
		AddressID:          b.AddressID,
		Status:             string(b.Status),
		DurationMinutes:    b.DurationMinutes,
		TotalAmount:        b.TotalAmount.StringFixed(2),
		PaymentStatus:      string(b.PaymentStatus),
		MeetingLink:        b.MeetingLink,
		MeetingPassword:    b.MeetingPassword,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        formatTime(b.CancelledAt),
		RescheduleReason:   b.RescheduleReason,
		CompletedAt:        formatTime(b.CompletedAt),
		Rating:             b.Rating,
		Review:             b.Review,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s, ok := domain.ParseBookingStatus(status)
	if !ok {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
