package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
)

// Dispatcher выполняет побочные эффекты после фиксации транзакции.
// Ошибки логируются и не возвращаются: состояние бронирования уже сохранено.
type Dispatcher struct {
	notifier  Notifier
	publisher EventPublisher
	gateway   PaymentGateway
	payments  PaymentRepository
	metrics   Metrics
	logger    Logger
	timeout   time.Duration
	now       func() time.Time
}

// NewDispatcher создает диспетчер побочных эффектов.
// timeout ограничивает каждый отдельный вызов внешней системы.
func NewDispatcher(
	notifier Notifier,
	publisher EventPublisher,
	gateway PaymentGateway,
	payments PaymentRepository,
	metrics Metrics,
	logger Logger,
	timeout time.Duration,
) *Dispatcher {
	return &Dispatcher{
		notifier:  notifier,
		publisher: publisher,
		gateway:   gateway,
		payments:  payments,
		metrics:   metrics,
		logger:    logger,
		timeout:   timeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// detached отвязывает вызов от отмены HTTP-запроса, сохраняя значения контекста
func (d *Dispatcher) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
}

// Notify отправляет уведомления по бронированию
func (d *Dispatcher) Notify(ctx context.Context, bookingID int64, notifications ...Notification) {
	for _, n := range notifications {
		callCtx, cancel := d.detached(ctx)
		err := d.notifier.Notify(callCtx, n.UserID, n.Title, n.Message, bookingID)
		cancel()

		if err != nil {
			d.logger.Error("Dispatch: failed to notify user id=%d about booking id=%d: %v", n.UserID, bookingID, err)
			d.metrics.IncSideEffectFailure(kindNotification)
		}
	}
}

// Publish публикует событие жизненного цикла бронирования
func (d *Dispatcher) Publish(ctx context.Context, key string, b *domain.Booking, actorID int64, reason string) {
	event := domain.BookingEvent{
		EventID:     uuid.NewString(),
		Key:         key,
		BookingID:   b.ID,
		RequesterID: b.RequesterID,
		ProviderID:  b.ProviderID,
		ActorID:     actorID,
		Status:      b.Status,
		Date:        b.BookingDate.Format(domain.DateFormat),
		Time:        b.BookingTime.String(),
		Timezone:    b.Timezone,
		Reason:      reason,
		OccurredAt:  d.now(),
	}
	if !b.TotalAmount.IsZero() {
		event.Amount = b.TotalAmount.StringFixed(2)
	}

	callCtx, cancel := d.detached(ctx)
	defer cancel()

	if err := d.publisher.Publish(callCtx, key, event); err != nil {
		d.logger.Error("Dispatch: failed to publish %s for booking id=%d: %v", key, b.ID, err)
		d.metrics.IncSideEffectFailure(kindEvent)
	}
}

// RequestPayment создает заказ в платежном шлюзе и запоминает его идентификатор
func (d *Dispatcher) RequestPayment(ctx context.Context, payment *domain.Payment) {
	callCtx, cancel := d.detached(ctx)
	defer cancel()

	orderID, err := d.gateway.CreateOrder(callCtx, payment.BookingID, payment.Amount, payment.Currency)
	if err != nil {
		d.logger.Error("Dispatch: failed to create gateway order for booking id=%d: %v", payment.BookingID, err)
		d.metrics.IncSideEffectFailure(kindPayment)
		return
	}

	if err := d.payments.SetGatewayOrder(callCtx, payment.ID, orderID); err != nil {
		d.logger.Error("Dispatch: failed to save gateway order %s for payment id=%d: %v", orderID, payment.ID, err)
		d.metrics.IncSideEffectFailure(kindPayment)
		return
	}

	payment.GatewayOrderID = &orderID
}
