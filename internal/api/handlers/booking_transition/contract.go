package booking_transition

import (
	"context"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/bookings/models"
)

type BookingService interface {
	Confirm(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error)
	Start(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error)
	Complete(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
