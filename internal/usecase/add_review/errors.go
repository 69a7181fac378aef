package add_review

import (
	"errors"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.KindBadRequest, "invalid review")

	// ErrReviewExists возвращается при повторном отзыве на бронирование
	ErrReviewExists = domain.NewError(domain.KindConflict, "booking already has a review")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("add_review: internal error")
)
