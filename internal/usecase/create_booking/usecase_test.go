package create_booking

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
	"github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-RitualBookingService/internal/integrations/addressservice"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/dispatch"
	"github.com/m04kA/SMC-RitualBookingService/pkg/logger"
	"github.com/m04kA/SMC-RitualBookingService/pkg/metrics"
	"github.com/m04kA/SMC-RitualBookingService/pkg/ptr"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

const (
	providerUserID = int64(20)
	requesterID    = int64(7)
	otherRequester = int64(8)
	homeAddressID  = int64(100)
)

// 2025-10-20 - понедельник
var monday = time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type addressBook map[int64]int64

func (a addressBook) Resolve(_ context.Context, addressID, ownerID int64) error {
	if a[addressID] != ownerID {
		return addressservice.ErrAddressNotFound
	}
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	users []int64
	err   error
}

func (n *recordingNotifier) Notify(_ context.Context, userID int64, _, _ string, _ int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
	return n.err
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

type stubGateway struct{}

func (stubGateway) CreateOrder(_ context.Context, _ int64, _ decimal.Decimal, _ string) (string, error) {
	return "pi_test", nil
}

type fixture struct {
	store     *memory.Store
	uc        *UseCase
	notifier  *recordingNotifier
	publisher *recordingPublisher
	provider  *domain.Provider
	service   *domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	provider := store.AddProvider(domain.Provider{UserID: providerUserID, DisplayName: "Pandit Sharma", HourlyRate: decimal.NewFromInt(500)})
	service := store.AddService(domain.Service{
		ProviderID:      provider.ID,
		Name:            "Griha Pravesh",
		BasePrice:       decimal.NewFromInt(1000),
		DurationMinutes: 90,
		IsActive:        true,
	})

	ctx := context.Background()
	for _, w := range []struct{ start, end types.TimeString }{{"09:00", "12:00"}, {"12:00", "14:00"}} {
		window, err := domain.NewAvailabilityWindow(provider.ID, 1, w.start, w.end)
		require.NoError(t, err)
		_, err = store.Availability().Create(ctx, window)
		require.NoError(t, err)
	}

	log := logger.NewNop()
	notifier := &recordingNotifier{}
	publisher := &recordingPublisher{}
	var m *metrics.Metrics

	checker := conflicts.NewChecker(store.Availability(), store.Bookings(), addressBook{homeAddressID: requesterID}, log)
	dispatcher := dispatch.NewDispatcher(notifier, publisher, stubGateway{}, store.Payments(), m, log, time.Second)

	uc := NewUseCase(store.Bookings(), store.Catalog(), store.Payments(), checker, dispatcher, store.TxManager(), m, "INR", log)
	uc.timeProvider = fixedTime{now: monday.Add(-48 * time.Hour)}

	return &fixture{store: store, uc: uc, notifier: notifier, publisher: publisher, provider: provider, service: service}
}

func (f *fixture) request(requester int64, t types.TimeString, mode domain.BookingMode) *Request {
	req := &Request{
		RequesterID: requester,
		ProviderID:  f.provider.ID,
		ServiceID:   f.service.ID,
		Date:        monday,
		Time:        t,
		Timezone:    "Asia/Kolkata",
		Mode:        mode,
	}
	if mode == domain.ModeOffline {
		req.AddressID = ptr.Ptr(homeAddressID)
	}
	return req
}

func TestExecute_AcceptedOnlineBooking(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), f.request(requesterID, "10:00", domain.ModeOnline))
	require.NoError(t, err)

	b := resp.Booking
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, 90, b.DurationMinutes)
	assert.True(t, b.TotalAmount.Equal(decimal.NewFromInt(1750)), "total %s", b.TotalAmount)
	assert.Nil(t, b.AddressID)

	require.NotNil(t, resp.Payment)
	assert.Equal(t, b.ID, resp.Payment.BookingID)
	assert.True(t, resp.Payment.Amount.Equal(b.TotalAmount))
	assert.Equal(t, domain.PaymentPending, resp.Payment.Status)

	stored, err := f.store.Payments().GetByBookingID(context.Background(), b.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.GatewayOrderID)
	assert.Equal(t, "pi_test", *stored.GatewayOrderID)

	assert.Equal(t, []int64{providerUserID}, f.notifier.users)
	assert.Equal(t, []string{domain.EventBookingCreated}, f.publisher.keys)
}

func TestExecute_OnlineDoubleBookingIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, f.request(requesterID, "10:00", domain.ModeOnline))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, f.request(otherRequester, "10:00", domain.ModeOnline))
	assert.ErrorIs(t, err, conflicts.ErrSlotTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// отклоненное создание не оставляет записи о платеже
	assert.Equal(t, 1, f.store.Payments().Count(ctx))
	assert.Len(t, f.notifier.users, 1)

	_, err = f.uc.Execute(ctx, f.request(otherRequester, "10:30", domain.ModeOnline))
	assert.NoError(t, err)
}

func TestExecute_OfflineBuffer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, f.request(requesterID, "10:00", domain.ModeOffline))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, f.request(requesterID, "10:30", domain.ModeOffline))
	assert.ErrorIs(t, err, conflicts.ErrSlotTakenOffline)
	assert.ErrorIs(t, err, domain.ErrConflict)

	resp, err := f.uc.Execute(ctx, f.request(requesterID, "12:00", domain.ModeOffline))
	require.NoError(t, err)
	require.NotNil(t, resp.Booking.AddressID)
	assert.Equal(t, homeAddressID, *resp.Booking.AddressID)
}

func TestExecute_OutsideAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, f.request(requesterID, "14:00", domain.ModeOnline))
	assert.ErrorIs(t, err, conflicts.ErrProviderUnavailable)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	tuesday := f.request(requesterID, "10:00", domain.ModeOnline)
	tuesday.Date = monday.AddDate(0, 0, 1)
	_, err = f.uc.Execute(ctx, tuesday)
	assert.ErrorIs(t, err, conflicts.ErrProviderUnavailable)

	assert.Zero(t, f.store.Payments().Count(ctx))
}

func TestExecute_OfflineAddressChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.request(requesterID, "10:00", domain.ModeOffline)
	req.AddressID = nil
	_, err := f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, conflicts.ErrAddressRequired)

	// адрес принадлежит другому пользователю
	_, err = f.uc.Execute(ctx, f.request(otherRequester, "10:00", domain.ModeOffline))
	assert.ErrorIs(t, err, conflicts.ErrAddressNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_CatalogChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.request(requesterID, "10:00", domain.ModeOnline)
	req.ProviderID = 999
	_, err := f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, domain.ErrProviderNotFound)

	req = f.request(requesterID, "10:00", domain.ModeOnline)
	req.ServiceID = 999
	_, err = f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)

	other := f.store.AddProvider(domain.Provider{UserID: 21})
	foreign := f.store.AddService(domain.Service{ProviderID: other.ID, BasePrice: decimal.NewFromInt(1), DurationMinutes: 30, IsActive: true})
	req = f.request(requesterID, "10:00", domain.ModeOnline)
	req.ServiceID = foreign.ID
	_, err = f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrServiceNotOffered)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(r *Request)
		want   error
	}{
		{name: "bad time", mutate: func(r *Request) { r.Time = "10:0" }, want: ErrInvalidInput},
		{name: "bad mode", mutate: func(r *Request) { r.Mode = "hybrid" }, want: ErrInvalidInput},
		{name: "no timezone", mutate: func(r *Request) { r.Timezone = "" }, want: ErrInvalidInput},
		{name: "past date", mutate: func(r *Request) { r.Date = monday.AddDate(0, 0, -7) }, want: ErrDateInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(requesterID, "10:00", domain.ModeOnline)
			tt.mutate(req)
			_, err := f.uc.Execute(ctx, req)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
		})
	}
}

func TestExecute_OfflineNearMidnightRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), f.request(requesterID, "00:30", domain.ModeOffline))
	assert.ErrorIs(t, err, conflicts.ErrOfflineBufferCrossesMidnight)
}

func TestExecute_ConcurrentDoubleBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		failures  []error
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(requester int64) {
			defer wg.Done()
			_, err := f.uc.Execute(ctx, f.request(requester, "11:00", domain.ModeOnline))

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			failures = append(failures, err)
		}(int64(100 + i))
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	require.Len(t, failures, attempts-1)
	for _, err := range failures {
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, f.store.Payments().Count(ctx))
}

func TestExecute_NotificationFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("notification service unavailable")

	resp, err := f.uc.Execute(context.Background(), f.request(requesterID, "10:00", domain.ModeOnline))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resp.Booking.Status)
	assert.Equal(t, []int64{providerUserID}, f.notifier.users)
}
