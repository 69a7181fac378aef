package reschedule_booking

import (
	"context"
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

var requester = domain.Actor{UserID: requesterID, Role: domain.RoleUser}

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
}

func (n *recordingNotifier) Notify(_ context.Context, userID int64, _, _ string, _ int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
	return nil
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

type noopGateway struct{}

func (noopGateway) CreateOrder(_ context.Context, _ int64, _ decimal.Decimal, _ string) (string, error) {
	return "", nil
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

	window, err := domain.NewAvailabilityWindow(provider.ID, 1, "09:00", "14:00")
	require.NoError(t, err)
	_, err = store.Availability().Create(context.Background(), window)
	require.NoError(t, err)

	log := logger.NewNop()
	var m *metrics.Metrics
	notifier := &recordingNotifier{}
	publisher := &recordingPublisher{}

	checker := conflicts.NewChecker(store.Availability(), store.Bookings(), addressBook{homeAddressID: requesterID}, log)
	dispatcher := dispatch.NewDispatcher(notifier, publisher, noopGateway{}, store.Payments(), m, log, time.Second)

	uc := NewUseCase(store.Bookings(), store.Catalog(), checker, dispatcher, store.TxManager(), m, log)
	uc.timeProvider = fixedTime{now: monday.Add(-48 * time.Hour)}

	return &fixture{store: store, uc: uc, notifier: notifier, publisher: publisher, provider: provider, service: service}
}

func (f *fixture) seed(t *testing.T, requester int64, at types.TimeString, mode domain.BookingMode, status domain.BookingStatus) *domain.Booking {
	t.Helper()

	b := &domain.Booking{
		RequesterID:     requester,
		ProviderID:      f.provider.ID,
		ServiceID:       f.service.ID,
		BookingDate:     monday,
		BookingTime:     at,
		Timezone:        "Asia/Kolkata",
		Mode:            mode,
		Status:          status,
		DurationMinutes: 90,
		TotalAmount:     decimal.NewFromInt(1750),
		PaymentStatus:   domain.PaymentPending,
	}
	if mode == domain.ModeOffline {
		b.AddressID = ptr.Ptr(homeAddressID)
	}
	created, err := f.store.Bookings().Create(context.Background(), b)
	require.NoError(t, err)
	return created
}

func TestExecute_MovesBookingAndResetsToPending(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, requesterID, "10:00", domain.ModeOnline, domain.StatusConfirmed)

	got, err := f.uc.Execute(context.Background(), &Request{
		Actor:     requester,
		BookingID: b.ID,
		Date:      monday,
		Time:      "12:30",
		Reason:    ptr.Ptr("train delayed"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, types.TimeString("12:30"), got.BookingTime)
	assert.Equal(t, "Asia/Kolkata", got.Timezone)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(1750)), "price snapshot must be kept")
	require.NotNil(t, got.RescheduleReason)
	assert.Equal(t, "train delayed", *got.RescheduleReason)

	assert.ElementsMatch(t, []int64{requesterID, providerUserID}, f.notifier.users)
	assert.Equal(t, []string{domain.EventBookingRescheduled}, f.publisher.keys)
}

func TestExecute_SameSlotWithNewTimezone(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, requesterID, "10:00", domain.ModeOnline, domain.StatusConfirmed)

	got, err := f.uc.Execute(context.Background(), &Request{
		Actor:     requester,
		BookingID: b.ID,
		Date:      monday,
		Time:      "10:00",
		Timezone:  ptr.Ptr("Europe/London"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, types.TimeString("10:00"), got.BookingTime)
	assert.Equal(t, "Europe/London", got.Timezone)
	assert.Equal(t, []string{domain.EventBookingRescheduled}, f.publisher.keys)
}

func TestExecute_OfflineMayShiftWithinItsOwnBuffer(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, requesterID, "10:00", domain.ModeOffline, domain.StatusPending)

	got, err := f.uc.Execute(context.Background(), &Request{Actor: requester, BookingID: b.ID, Date: monday, Time: "10:30"})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:30"), got.BookingTime)
}

func TestExecute_CollisionWithAnotherBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, otherRequester, "12:00", domain.ModeOnline, domain.StatusPending)
	b := f.seed(t, requesterID, "10:00", domain.ModeOffline, domain.StatusPending)

	_, err := f.uc.Execute(ctx, &Request{Actor: requester, BookingID: b.ID, Date: monday, Time: "11:30"})
	assert.ErrorIs(t, err, conflicts.ErrSlotTakenOffline)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := f.store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), stored.BookingTime)
	assert.Empty(t, f.publisher.keys)
}

func TestExecute_OutsideAvailability(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, requesterID, "10:00", domain.ModeOnline, domain.StatusPending)

	_, err := f.uc.Execute(context.Background(), &Request{Actor: requester, BookingID: b.ID, Date: monday, Time: "15:00"})
	assert.ErrorIs(t, err, conflicts.ErrProviderUnavailable)
}

func TestExecute_RejectedStatuses(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusInProgress, domain.StatusCompleted, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			b := f.seed(t, requesterID, "10:00", domain.ModeOnline, status)

			_, err := f.uc.Execute(context.Background(), &Request{Actor: requester, BookingID: b.ID, Date: monday, Time: "11:00"})
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		})
	}
}

func TestExecute_Authorization(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, requesterID, "10:00", domain.ModeOnline, domain.StatusPending)

	_, err := f.uc.Execute(context.Background(), &Request{
		Actor:     domain.Actor{UserID: 99, Role: domain.RoleUser},
		BookingID: b.ID,
		Date:      monday,
		Time:      "11:00",
	})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	got, err := f.uc.Execute(context.Background(), &Request{
		Actor:     domain.Actor{UserID: providerUserID, Role: domain.RoleUser},
		BookingID: b.ID,
		Date:      monday,
		Time:      "11:00",
	})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("11:00"), got.BookingTime)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, requesterID, "10:00", domain.ModeOnline, domain.StatusPending)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{Actor: requester, BookingID: b.ID, Date: monday, Time: "25:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(ctx, &Request{Actor: requester, BookingID: b.ID, Date: monday.AddDate(0, 0, -7), Time: "10:00"})
	assert.ErrorIs(t, err, ErrDateInPast)

	_, err = f.uc.Execute(ctx, &Request{Actor: requester, BookingID: 404, Date: monday, Time: "11:00"})
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}
