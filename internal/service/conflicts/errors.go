package conflicts

import (
	"errors"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
)

var (
	// ErrAddressRequired очный визит без адреса
	ErrAddressRequired = domain.NewError(domain.KindBadRequest, "address is required for offline bookings")

	// ErrAddressNotFound адрес не найден или принадлежит другому пользователю
	ErrAddressNotFound = domain.NewError(domain.KindNotFound, "address not found")

	// ErrOfflineUnavailable очные визиты недоступны: принадлежность адреса проверить нельзя
	ErrOfflineUnavailable = domain.NewError(domain.KindBadRequest,
		"offline bookings are unavailable: address verification is not configured")

	// ErrOfflineBufferCrossesMidnight буфер очного визита выходит за пределы суток
	ErrOfflineBufferCrossesMidnight = domain.NewError(domain.KindBadRequest,
		"offline bookings must leave a full hour before and after within the same day")

	// ErrProviderUnavailable время вне окон доступности провайдера
	ErrProviderUnavailable = domain.NewError(domain.KindBadRequest, "provider not available at requested time")

	// ErrSlotTaken время уже занято
	ErrSlotTaken = domain.NewError(domain.KindConflict, "time slot already booked")

	// ErrSlotTakenOffline нарушен часовой буфер очного визита
	ErrSlotTakenOffline = domain.NewError(domain.KindConflict,
		"time slot unavailable; offline bookings require the preceding and following hour to be free")

	// ErrInvalidTime некорректный формат времени
	ErrInvalidTime = domain.NewError(domain.KindBadRequest, "invalid booking time")

	// ErrInternal внутренняя ошибка проверки
	ErrInternal = errors.New("conflicts: internal error")
)
