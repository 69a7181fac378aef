package availability

import (
	"errors"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
)

var (
	// ErrWindowNotFound возвращается, когда окно не найдено или принадлежит другому провайдеру
	ErrWindowNotFound = domain.NewError(domain.KindNotFound, "availability window not found")

	// ErrWindowOverlap возвращается при пересечении с другим активным окном того же дня
	ErrWindowOverlap = domain.NewError(domain.KindConflict, "availability window overlaps an existing window")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.KindBadRequest, "invalid availability request")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
