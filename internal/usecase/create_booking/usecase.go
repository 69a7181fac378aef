package create_booking

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

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	paymentRepo  PaymentRepository
	checker      ConflictChecker
	dispatcher   Dispatcher
	txManager    TransactionManager
	metrics      Metrics
	currency     string
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	paymentRepo PaymentRepository,
	checker ConflictChecker,
	dispatcher Dispatcher,
	txManager TransactionManager,
	metrics Metrics,
	currency string,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		paymentRepo:  paymentRepo,
		checker:      checker,
		dispatcher:   dispatcher,
		txManager:    txManager,
		metrics:      metrics,
		currency:     currency,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка слота, бронирование и запись о платеже фиксируются одной сериализуемой транзакцией,
// уведомления и заказ в платежном шлюзе выполняются после неё.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: requester=%d, provider=%d, service=%d, date=%s, time=%s, mode=%s",
		req.RequesterID, req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat), req.Time, req.Mode)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	if isDateInPast(date, uc.timeProvider.Now()) {
		uc.logger.Warn("CreateBooking: date %s is in the past", date.Format(domain.DateFormat))
		return nil, ErrDateInPast
	}

	// 2. Провайдер и услуга
	provider, err := uc.catalogRepo.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProviderNotFound) {
			uc.logger.Warn("CreateBooking: provider id=%d not found", req.ProviderID)
			return nil, domain.ErrProviderNotFound
		}
		uc.logger.Error("CreateBooking: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, domain.ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.ProviderID != provider.ID || !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is not offered by provider id=%d", service.ID, provider.ID)
		return nil, ErrServiceNotOffered
	}

	// 3. Адрес и границы суток проверяются до транзакции: это вызов внешнего сервиса
	checkReq := conflicts.CheckRequest{
		ProviderID:  provider.ID,
		RequesterID: req.RequesterID,
		Date:        date,
		Time:        req.Time,
		Mode:        req.Mode,
		AddressID:   req.AddressID,
	}
	if err := uc.checker.ValidateMode(ctx, checkReq); err != nil {
		return nil, uc.reject(err)
	}

	var (
		created *domain.Booking
		payment *domain.Payment
	)

	// 4. Проверка слота и запись в транзакции под блокировкой провайдера
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 4.1. Блокировка провайдера сериализует конкурирующие записи его расписания
		locked, err := uc.catalogRepo.LockProvider(txCtx, provider.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to lock provider: %v", ErrInternal, err)
		}

		// 4.2. Окна доступности и коллизии
		if err := uc.checker.CheckSlot(txCtx, checkReq); err != nil {
			return err
		}

		// 4.3. Бронирование со снимком длительности и цены
		booking := &domain.Booking{
			RequesterID:     req.RequesterID,
			ProviderID:      provider.ID,
			ServiceID:       service.ID,
			BookingDate:     date,
			BookingTime:     req.Time,
			Timezone:        req.Timezone,
			Mode:            req.Mode,
			Status:          domain.StatusPending,
			DurationMinutes: service.DurationMinutes,
			TotalAmount:     domain.CalculateTotal(service.BasePrice, locked.HourlyRate, service.DurationMinutes),
			PaymentStatus:   domain.PaymentPending,
			Notes:           req.Notes,
		}
		if req.Mode == domain.ModeOffline {
			booking.AddressID = req.AddressID
		}

		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return conflicts.ErrSlotTaken
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 4.4. Запись о платеже в той же транзакции
		payment, err = uc.paymentRepo.Create(txCtx, &domain.Payment{
			BookingID: created.ID,
			Amount:    created.TotalAmount,
			Currency:  uc.currency,
			Status:    domain.PaymentPending,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create payment record: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateBooking: %v", err)
			return nil, err
		}
		return nil, uc.reject(err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, total=%s", created.ID, created.TotalAmount.StringFixed(2))
	uc.metrics.IncBookingCreated(string(created.Mode))

	// 5. Побочные эффекты после фиксации
	uc.dispatcher.RequestPayment(ctx, payment)
	uc.dispatcher.Notify(ctx, created.ID, dispatch.Notification{
		UserID:  provider.UserID,
		Title:   "New booking request",
		Message: fmt.Sprintf("New booking for %s on %s at %s", service.Name, created.BookingDate.Format(domain.DateFormat), created.BookingTime),
	})
	uc.dispatcher.Publish(ctx, domain.EventBookingCreated, created, req.RequesterID, "")

	return &Response{Booking: created, Payment: payment}, nil
}

// reject логирует отказ и считает конфликты слота
func (uc *UseCase) reject(err error) error {
	if kind, ok := domain.KindOf(err); ok {
		uc.logger.Warn("CreateBooking: rejected: %v", err)
		if kind == domain.KindConflict || errors.Is(err, conflicts.ErrProviderUnavailable) {
			uc.metrics.IncConflict(conflictReason(err))
		}
		return err
	}
	uc.logger.Error("CreateBooking: %v", err)
	return err
}

func conflictReason(err error) string {
	switch {
	case errors.Is(err, conflicts.ErrSlotTakenOffline):
		return "offline_buffer"
	case errors.Is(err, conflicts.ErrSlotTaken):
		return "slot_taken"
	case errors.Is(err, conflicts.ErrProviderUnavailable):
		return "outside_availability"
	default:
		return "other"
	}
}
