package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/dispatch"
)

// UseCase use case для переноса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	checker      ConflictChecker
	dispatcher   Dispatcher
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	checker ConflictChecker,
	dispatcher Dispatcher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		checker:      checker,
		dispatcher:   dispatcher,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переносит бронирование на новую дату и время.
// Новый слот проверяется теми же правилами, что и при создании, без учета самого бронирования.
// Перенос на то же время допустим (например, смена часового пояса).
// Статус возвращается в pending, цена остается прежней.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("RescheduleBooking: booking id=%d by user %d to %s %s",
		req.BookingID, req.Actor.UserID, req.Date.Format(domain.DateFormat), req.Time)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	if isDateInPast(date, uc.timeProvider.Now()) {
		uc.logger.Warn("RescheduleBooking: date %s is in the past", date.Format(domain.DateFormat))
		return nil, ErrDateInPast
	}

	// 1. Текущее состояние для проверок, не требующих блокировки
	current, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	provider, err := uc.catalogRepo.GetProvider(ctx, current.ProviderID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProviderNotFound) {
			return nil, domain.ErrProviderNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get provider id=%d: %v", current.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	if _, err := domain.CanTransition(req.Actor, current, provider.UserID, domain.ActionReschedule); err != nil {
		uc.logger.Warn("RescheduleBooking: booking id=%d status=%s: %v", current.ID, current.Status, err)
		return nil, err
	}

	timezone := current.Timezone
	if req.Timezone != nil {
		timezone = *req.Timezone
	}

	checkReq := conflicts.CheckRequest{
		ProviderID:       current.ProviderID,
		RequesterID:      current.RequesterID,
		Date:             date,
		Time:             req.Time,
		Mode:             current.Mode,
		AddressID:        current.AddressID,
		ExcludeBookingID: current.ID,
	}
	if err := uc.checker.ValidateMode(ctx, checkReq); err != nil {
		return nil, uc.reject(err)
	}

	var updated *domain.Booking

	// 2. Повторная проверка и перенос под блокировкой
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := uc.catalogRepo.LockProvider(txCtx, current.ProviderID); err != nil {
			return fmt.Errorf("%w: failed to lock provider: %v", ErrInternal, err)
		}

		locked, err := uc.getBooking(txCtx, req.BookingID)
		if err != nil {
			return err
		}

		// статус мог измениться с момента первого чтения
		if _, err := domain.CanTransition(req.Actor, locked, provider.UserID, domain.ActionReschedule); err != nil {
			return err
		}

		if err := uc.checker.CheckSlot(txCtx, checkReq); err != nil {
			return err
		}

		if err := uc.bookingRepo.Reschedule(txCtx, locked.ID, date, req.Time, timezone, req.Reason); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return conflicts.ErrSlotTaken
			}
			return fmt.Errorf("%w: failed to reschedule booking: %v", ErrInternal, err)
		}

		updated, err = uc.getBooking(txCtx, locked.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("RescheduleBooking: %v", err)
			return nil, err
		}
		return nil, uc.reject(err)
	}

	uc.logger.Info("RescheduleBooking: booking id=%d moved to %s %s", updated.ID, updated.BookingDate.Format(domain.DateFormat), updated.BookingTime)
	uc.metrics.IncTransition(string(domain.ActionReschedule))

	// 3. Уведомления обеим сторонам
	message := fmt.Sprintf("Booking moved from %s %s to %s %s",
		current.BookingDate.Format(domain.DateFormat), current.BookingTime,
		updated.BookingDate.Format(domain.DateFormat), updated.BookingTime)
	uc.dispatcher.Notify(ctx, updated.ID,
		dispatch.Notification{UserID: updated.RequesterID, Title: "Booking rescheduled", Message: message},
		dispatch.Notification{UserID: provider.UserID, Title: "Booking rescheduled", Message: message},
	)

	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}
	uc.dispatcher.Publish(ctx, domain.EventBookingRescheduled, updated, req.Actor.UserID, reason)

	return updated, nil
}

func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%d not found", id)
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// reject логирует отказ и считает конфликты слота
func (uc *UseCase) reject(err error) error {
	if _, ok := domain.KindOf(err); !ok {
		uc.logger.Error("RescheduleBooking: %v", err)
		return err
	}

	uc.logger.Warn("RescheduleBooking: rejected: %v", err)
	switch {
	case errors.Is(err, conflicts.ErrSlotTakenOffline):
		uc.metrics.IncConflict("offline_buffer")
	case errors.Is(err, conflicts.ErrSlotTaken):
		uc.metrics.IncConflict("slot_taken")
	case errors.Is(err, conflicts.ErrProviderUnavailable):
		uc.metrics.IncConflict("outside_availability")
	}
	return err
}
