package memory

import (
	"context"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/payment"
)

// PaymentRepository записи о платежах в памяти
type PaymentRepository struct {
	store *Store
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	defer r.store.lock(ctx)()
	st := r.store.state

	payment.ID = st.nextID()
	payment.CreatedAt = r.store.now()
	payment.UpdatedAt = payment.CreatedAt
	st.payments[payment.ID] = *payment
	return payment, nil
}

func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	defer r.store.lock(ctx)()

	var found *domain.Payment
	for _, p := range r.store.state.payments {
		p := p
		if p.BookingID == bookingID && (found == nil || p.ID > found.ID) {
			found = &p
		}
	}
	if found == nil {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	return found, nil
}

func (r *PaymentRepository) SetGatewayOrder(ctx context.Context, paymentID int64, orderID string) error {
	defer r.store.lock(ctx)()

	p, ok := r.store.state.payments[paymentID]
	if !ok {
		return paymentRepo.ErrPaymentNotFound
	}
	p.GatewayOrderID = &orderID
	p.UpdatedAt = r.store.now()
	r.store.state.payments[paymentID] = p
	return nil
}

// Count количество записей о платежах
func (r *PaymentRepository) Count(ctx context.Context) int {
	defer r.store.lock(ctx)()
	return len(r.store.state.payments)
}
