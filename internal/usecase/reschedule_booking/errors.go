package reschedule_booking

import (
	"errors"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.KindBadRequest, "invalid reschedule request")

	// ErrDateInPast возвращается при переносе на прошедшую дату
	ErrDateInPast = domain.NewError(domain.KindBadRequest, "booking date is in the past")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
