package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/pkg/logger"
)

type recordingNotifier struct {
	mu    sync.Mutex
	users []int64
	err   error
}

func (n *recordingNotifier) Notify(ctx context.Context, userID int64, _, _ string, _ int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	n.users = append(n.users, userID)
	return n.err
}

type recordingPublisher struct {
	keys   []string
	events []domain.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, payload any) error {
	p.keys = append(p.keys, key)
	if e, ok := payload.(domain.BookingEvent); ok {
		p.events = append(p.events, e)
	}
	return p.err
}

type stubGateway struct {
	orderID string
	err     error
}

func (g *stubGateway) CreateOrder(context.Context, int64, decimal.Decimal, string) (string, error) {
	return g.orderID, g.err
}

type stubPayments struct {
	saved map[int64]string
}

func (p *stubPayments) SetGatewayOrder(_ context.Context, id int64, orderID string) error {
	p.saved[id] = orderID
	return nil
}

type countingMetrics struct {
	failures map[string]int
}

func (m *countingMetrics) IncSideEffectFailure(kind string) {
	m.failures[kind]++
}

func newDispatcher(n Notifier, p EventPublisher, g PaymentGateway) (*Dispatcher, *countingMetrics, *stubPayments) {
	m := &countingMetrics{failures: map[string]int{}}
	payments := &stubPayments{saved: map[int64]string{}}
	return NewDispatcher(n, p, g, payments, m, logger.NewNop(), time.Second), m, payments
}

func TestDispatcher_NotifyFailureIsSwallowed(t *testing.T) {
	n := &recordingNotifier{err: errors.New("smtp down")}
	d, m, _ := newDispatcher(n, &recordingPublisher{}, &stubGateway{})

	d.Notify(context.Background(), 1, Notification{UserID: 10}, Notification{UserID: 20})

	assert.Equal(t, []int64{10, 20}, n.users)
	assert.Equal(t, 2, m.failures[kindNotification])
}

func TestDispatcher_IgnoresRequestCancellation(t *testing.T) {
	n := &recordingNotifier{}
	d, m, _ := newDispatcher(n, &recordingPublisher{}, &stubGateway{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d.Notify(ctx, 1, Notification{UserID: 10})
	assert.Equal(t, []int64{10}, n.users)
	assert.Zero(t, m.failures[kindNotification])
}

func TestDispatcher_Publish(t *testing.T) {
	p := &recordingPublisher{}
	d, _, _ := newDispatcher(&recordingNotifier{}, p, &stubGateway{})

	b := &domain.Booking{
		ID:          5,
		RequesterID: 7,
		ProviderID:  1,
		Status:      domain.StatusCancelled,
		BookingDate: time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
		BookingTime: "10:00",
		TotalAmount: decimal.NewFromInt(1500),
	}
	d.Publish(context.Background(), domain.EventBookingCancelled, b, 7, "sick")

	require.Len(t, p.events, 1)
	e := p.events[0]
	assert.Equal(t, domain.EventBookingCancelled, e.Key)
	assert.Equal(t, "2025-10-20", e.Date)
	assert.Equal(t, "1500.00", e.Amount)
	assert.Equal(t, "sick", e.Reason)
	assert.NotEmpty(t, e.EventID)
}

func TestDispatcher_PublishFailureIsSwallowed(t *testing.T) {
	d, m, _ := newDispatcher(&recordingNotifier{}, &recordingPublisher{err: errors.New("channel closed")}, &stubGateway{})

	d.Publish(context.Background(), domain.EventBookingCreated, &domain.Booking{ID: 1}, 7, "")
	assert.Equal(t, 1, m.failures[kindEvent])
}

func TestDispatcher_RequestPayment(t *testing.T) {
	d, m, payments := newDispatcher(&recordingNotifier{}, &recordingPublisher{}, &stubGateway{orderID: "pi_123"})

	p := &domain.Payment{ID: 9, BookingID: 1, Amount: decimal.NewFromInt(100), Currency: "INR"}
	d.RequestPayment(context.Background(), p)

	assert.Equal(t, "pi_123", payments.saved[9])
	require.NotNil(t, p.GatewayOrderID)
	assert.Zero(t, m.failures[kindPayment])

	failing, m2, payments2 := newDispatcher(&recordingNotifier{}, &recordingPublisher{}, &stubGateway{err: errors.New("card network")})
	failing.RequestPayment(context.Background(), &domain.Payment{ID: 10, BookingID: 2})
	assert.Empty(t, payments2.saved)
	assert.Equal(t, 1, m2.failures[kindPayment])
}
