package cancel_booking

import (
	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(actor domain.Actor) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		Actor:  actor,
		Reason: r.CancellationReason,
	}
}
