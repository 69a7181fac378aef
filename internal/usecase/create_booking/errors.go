package create_booking

import (
	"errors"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.KindBadRequest, "invalid booking request")

	// ErrDateInPast возвращается при попытке забронировать прошедшую дату
	ErrDateInPast = domain.NewError(domain.KindBadRequest, "booking date is in the past")

	// ErrServiceNotOffered возвращается, когда услуга не принадлежит провайдеру или снята с продажи
	ErrServiceNotOffered = domain.NewError(domain.KindNotFound, "service is not offered by this provider")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
