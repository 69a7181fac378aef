package create_booking

import (
	"github.com/m04kA/SMC-RitualBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-RitualBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ProviderID  int64   `json:"providerId" validate:"required,gt=0"`
	ServiceID   int64   `json:"serviceId" validate:"required,gt=0"`
	BookingDate string  `json:"bookingDate" validate:"required,datetime=2006-01-02"` // "2025-10-15"
	BookingTime string  `json:"bookingTime" validate:"required"`                     // "10:00"
	Timezone    string  `json:"timezone" validate:"required,max=64"`
	Mode        string  `json:"mode" validate:"required,oneof=online offline"`
	AddressID   *int64  `json:"addressId,omitempty" validate:"omitempty,gt=0"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// PaymentResponse запись о платеже
type PaymentResponse struct {
	ID             int64   `json:"id"`
	Amount         string  `json:"amount"`
	Currency       string  `json:"currency"`
	Status         string  `json:"status"`
	GatewayOrderID *string `json:"gatewayOrderId,omitempty"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Booking *models.BookingResponse `json:"booking"`
	Payment *PaymentResponse        `json:"payment"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(requesterID int64) (*createBooking.Request, error) {
	bookingDate, err := handlers.ParseDate(r.BookingDate)
	if err != nil {
		return nil, err
	}

	bookingTime, err := types.NewTimeStringFromString(r.BookingTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		RequesterID: requesterID,
		ProviderID:  r.ProviderID,
		ServiceID:   r.ServiceID,
		Date:        bookingDate,
		Time:        bookingTime,
		Timezone:    r.Timezone,
		Mode:        domain.BookingMode(r.Mode),
		AddressID:   r.AddressID,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	out := &CreateBookingResponse{Booking: models.FromDomainBooking(resp.Booking)}
	if resp.Payment != nil {
		out.Payment = &PaymentResponse{
			ID:             resp.Payment.ID,
			Amount:         resp.Payment.Amount.StringFixed(2),
			Currency:       resp.Payment.Currency,
			Status:         string(resp.Payment.Status),
			GatewayOrderID: resp.Payment.GatewayOrderID,
		}
	}
	return out
}
