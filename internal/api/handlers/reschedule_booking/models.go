package reschedule_booking

import (
	"github.com/m04kA/SMC-RitualBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	rescheduleBooking "github.com/m04kA/SMC-RitualBookingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	BookingDate string  `json:"bookingDate" validate:"required,datetime=2006-01-02"`
	BookingTime string  `json:"bookingTime" validate:"required"`
	Timezone    *string `json:"timezone,omitempty" validate:"omitempty,max=64"`
	Reason      *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID int64, actor domain.Actor) (*rescheduleBooking.Request, error) {
	date, err := handlers.ParseDate(r.BookingDate)
	if err != nil {
		return nil, err
	}

	t, err := types.NewTimeStringFromString(r.BookingTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		Actor:     actor,
		BookingID: bookingID,
		Date:      date,
		Time:      t,
		Timezone:  r.Timezone,
		Reason:    r.Reason,
	}, nil
}
