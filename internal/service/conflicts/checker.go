package conflicts

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/integrations/addressservice"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

const minutesPerDay = 24 * 60

// Checker решает, можно ли занять слот провайдера
type Checker struct {
	windows   WindowRepository
	bookings  BookingRepository
	addresses AddressResolver
	logger    Logger
}

// NewChecker создает новый экземпляр проверки конфликтов
func NewChecker(windows WindowRepository, bookings BookingRepository, addresses AddressResolver, logger Logger) *Checker {
	return &Checker{
		windows:   windows,
		bookings:  bookings,
		addresses: addresses,
		logger:    logger,
	}
}

// Check полная проверка: режим визита, затем окна и коллизии
func (c *Checker) Check(ctx context.Context, req CheckRequest) error {
	if err := c.ValidateMode(ctx, req); err != nil {
		return err
	}
	return c.CheckSlot(ctx, req)
}

// ValidateMode проверяет то, что не зависит от расписания: адрес и границы суток для offline.
// Обращается к внешнему сервису, поэтому вызывается до открытия транзакции.
func (c *Checker) ValidateMode(ctx context.Context, req CheckRequest) error {
	if err := req.Time.Validate(); err != nil {
		return ErrInvalidTime
	}

	if req.Mode != domain.ModeOffline {
		return nil
	}

	if req.AddressID == nil || *req.AddressID <= 0 {
		return ErrAddressRequired
	}

	if err := c.addresses.Resolve(ctx, *req.AddressID, req.RequesterID); err != nil {
		if errors.Is(err, addressservice.ErrAddressNotFound) {
			c.logger.Warn("CheckConflicts: address id=%d not found for user id=%d", *req.AddressID, req.RequesterID)
			return ErrAddressNotFound
		}
		if errors.Is(err, addressservice.ErrNotConfigured) {
			c.logger.Warn("CheckConflicts: offline booking rejected, address service is not configured")
			return ErrOfflineUnavailable
		}
		return fmt.Errorf("%w: ValidateMode - resolve address: %v", ErrInternal, err)
	}

	if !OfflineBufferFits(req.Time) {
		return ErrOfflineBufferCrossesMidnight
	}

	return nil
}

// CheckSlot проверяет окна доступности и коллизии с существующими бронированиями.
// Должен выполняться в той же транзакции, что и запись бронирования.
func (c *Checker) CheckSlot(ctx context.Context, req CheckRequest) error {
	day := domain.DayOfWeek(req.Date)

	windows, err := c.windows.ListActiveByProviderAndDay(ctx, req.ProviderID, day)
	if err != nil {
		return fmt.Errorf("%w: CheckSlot - list windows: %v", ErrInternal, err)
	}

	if FindWindow(windows, day, req.Time) == nil {
		c.logger.Warn("CheckConflicts: provider id=%d has no window on day=%d at %s", req.ProviderID, day, req.Time)
		return ErrProviderUnavailable
	}

	existing, err := c.bookings.ListActiveByProviderAndDate(ctx, req.ProviderID, req.Date)
	if err != nil {
		return fmt.Errorf("%w: CheckSlot - list bookings: %v", ErrInternal, err)
	}

	if other, ok := Collides(req.Mode, req.Time, existing, req.ExcludeBookingID); ok {
		c.logger.Warn("CheckConflicts: provider id=%d, %s %s collides with booking id=%d at %s",
			req.ProviderID, req.Date.Format(domain.DateFormat), req.Time, other.ID, other.BookingTime)
		if req.Mode == domain.ModeOffline {
			return ErrSlotTakenOffline
		}
		return ErrSlotTaken
	}

	return nil
}

// FindWindow возвращает первое активное окно дня, содержащее t.
// Пересекающиеся окна допустимы: достаточно любого.
func FindWindow(windows []*domain.AvailabilityWindow, day int, t types.TimeString) *domain.AvailabilityWindow {
	for _, w := range windows {
		if !w.IsActive || w.DayOfWeek != day {
			continue
		}
		if w.Contains(t) {
			return w
		}
	}
	return nil
}

// OfflineBufferFits true, если часовой буфер вокруг t не выходит за сутки: t в [01:00, 23:00]
func OfflineBufferFits(t types.TimeString) bool {
	minutes, err := t.Minutes()
	if err != nil {
		return false
	}
	return minutes >= domain.OfflineBufferMinutes && minutes <= minutesPerDay-domain.OfflineBufferMinutes
}

// Collides ищет среди бронирований одной даты первое, мешающее кандидату.
// online: активное бронирование ровно в t.
// offline: активное бронирование в пределах [t-1h, t+1h].
// Бронирование exclude не учитывается.
func Collides(mode domain.BookingMode, t types.TimeString, existing []*domain.Booking, exclude int64) (*domain.Booking, bool) {
	for _, b := range existing {
		if b.ID == exclude && exclude != 0 {
			continue
		}
		if !b.IsActive() {
			continue
		}

		if mode != domain.ModeOffline {
			if b.BookingTime == t {
				return b, true
			}
			continue
		}

		diff, err := b.BookingTime.DiffMinutes(t)
		if err != nil {
			continue
		}
		if diff >= -domain.OfflineBufferMinutes && diff <= domain.OfflineBufferMinutes {
			return b, true
		}
	}
	return nil, false
}
