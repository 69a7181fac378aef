package conflicts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/integrations/addressservice"
	"github.com/m04kA/SMC-RitualBookingService/pkg/logger"
	"github.com/m04kA/SMC-RitualBookingService/pkg/ptr"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

const (
	providerID  = int64(1)
	requesterID = int64(7)
	addressID   = int64(100)
)

// 2025-10-20 - понедельник
var monday = time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

type fakeWindows struct {
	windows []*domain.AvailabilityWindow
	err     error
}

func (f *fakeWindows) ListActiveByProviderAndDay(_ context.Context, pid int64, day int) ([]*domain.AvailabilityWindow, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.AvailabilityWindow
	for _, w := range f.windows {
		if w.ProviderID == pid && w.DayOfWeek == day && w.IsActive {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeBookings struct {
	bookings []*domain.Booking
}

func (f *fakeBookings) ListActiveByProviderAndDate(_ context.Context, pid int64, date time.Time) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.ProviderID == pid && b.BookingDate.Equal(date) && b.IsActive() {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeAddresses struct {
	owned map[int64]int64 // addressID -> ownerID
	err   error
}

func (f *fakeAddresses) Resolve(_ context.Context, id, owner int64) error {
	if f.err != nil {
		return f.err
	}
	if f.owned[id] != owner {
		return addressservice.ErrAddressNotFound
	}
	return nil
}

func window(day int, start, end types.TimeString) *domain.AvailabilityWindow {
	return &domain.AvailabilityWindow{ProviderID: providerID, DayOfWeek: day, StartTime: start, EndTime: end, IsActive: true}
}

func booking(id int64, t types.TimeString, mode domain.BookingMode, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		ProviderID:  providerID,
		BookingDate: monday,
		BookingTime: t,
		Mode:        mode,
		Status:      status,
	}
}

func newChecker(windows []*domain.AvailabilityWindow, bookings ...*domain.Booking) *Checker {
	return NewChecker(
		&fakeWindows{windows: windows},
		&fakeBookings{bookings: bookings},
		&fakeAddresses{owned: map[int64]int64{addressID: requesterID}},
		logger.NewNop(),
	)
}

func onlineRequest(t types.TimeString) CheckRequest {
	return CheckRequest{ProviderID: providerID, RequesterID: requesterID, Date: monday, Time: t, Mode: domain.ModeOnline}
}

func offlineRequest(t types.TimeString) CheckRequest {
	return CheckRequest{
		ProviderID:  providerID,
		RequesterID: requesterID,
		Date:        monday,
		Time:        t,
		Mode:        domain.ModeOffline,
		AddressID:   ptr.Ptr(addressID),
	}
}

func TestCheck_OnlineExactTimeCollision(t *testing.T) {
	c := newChecker(
		[]*domain.AvailabilityWindow{window(1, "09:00", "12:00")},
		booking(1, "10:00", domain.ModeOnline, domain.StatusPending),
	)
	ctx := context.Background()

	err := c.Check(ctx, onlineRequest("10:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.NoError(t, c.Check(ctx, onlineRequest("10:30")))
	assert.NoError(t, c.Check(ctx, onlineRequest("09:00")))
}

func TestCheck_OfflineBuffer(t *testing.T) {
	c := newChecker(
		[]*domain.AvailabilityWindow{window(1, "09:00", "14:00")},
		booking(1, "10:00", domain.ModeOffline, domain.StatusConfirmed),
	)
	ctx := context.Background()

	for _, tm := range []types.TimeString{"09:00", "09:30", "10:00", "10:30", "11:00"} {
		err := c.Check(ctx, offlineRequest(tm))
		assert.ErrorIs(t, err, ErrSlotTakenOffline, "time %s", tm)
	}

	assert.NoError(t, c.Check(ctx, offlineRequest("11:30")))
	assert.NoError(t, c.Check(ctx, offlineRequest("12:00")))
}

func TestCheck_OfflineCandidateSeesOnlineNeighbours(t *testing.T) {
	c := newChecker(
		[]*domain.AvailabilityWindow{window(1, "09:00", "14:00")},
		booking(1, "11:00", domain.ModeOnline, domain.StatusPending),
	)

	assert.ErrorIs(t, c.Check(context.Background(), offlineRequest("10:00")), ErrSlotTakenOffline)
	// online кандидат проверяется только на точное совпадение
	assert.NoError(t, c.Check(context.Background(), onlineRequest("10:00")))
}

func TestCheck_TerminalBookingsDoNotBlock(t *testing.T) {
	c := newChecker(
		[]*domain.AvailabilityWindow{window(1, "09:00", "12:00")},
		booking(1, "10:00", domain.ModeOnline, domain.StatusCancelled),
		booking(2, "10:00", domain.ModeOnline, domain.StatusCompleted),
	)

	assert.NoError(t, c.Check(context.Background(), onlineRequest("10:00")))
}

func TestCheck_ExcludesBookingItself(t *testing.T) {
	c := newChecker(
		[]*domain.AvailabilityWindow{window(1, "09:00", "14:00")},
		booking(5, "10:00", domain.ModeOffline, domain.StatusPending),
	)

	req := offlineRequest("10:30")
	assert.ErrorIs(t, c.Check(context.Background(), req), ErrSlotTakenOffline)

	req.ExcludeBookingID = 5
	assert.NoError(t, c.Check(context.Background(), req))
}

func TestCheck_ProviderUnavailable(t *testing.T) {
	inactive := window(1, "13:00", "15:00")
	inactive.IsActive = false
	c := newChecker([]*domain.AvailabilityWindow{window(1, "09:00", "12:00"), inactive, window(2, "09:00", "18:00")})
	ctx := context.Background()

	tests := []types.TimeString{"08:30", "12:00", "13:30", "17:00"}
	for _, tm := range tests {
		err := c.Check(ctx, onlineRequest(tm))
		assert.ErrorIs(t, err, ErrProviderUnavailable, "time %s", tm)
		assert.ErrorIs(t, err, domain.ErrBadRequest)
	}
}

func TestCheck_OverlappingWindowsAreTolerated(t *testing.T) {
	c := newChecker([]*domain.AvailabilityWindow{window(1, "09:00", "12:00"), window(1, "11:00", "15:00")})

	assert.NoError(t, c.Check(context.Background(), onlineRequest("11:30")))
	assert.NoError(t, c.Check(context.Background(), onlineRequest("14:30")))
}

func TestValidateMode_Address(t *testing.T) {
	c := newChecker([]*domain.AvailabilityWindow{window(1, "09:00", "12:00")})
	ctx := context.Background()

	req := offlineRequest("10:00")
	req.AddressID = nil
	assert.ErrorIs(t, c.ValidateMode(ctx, req), ErrAddressRequired)

	req.AddressID = ptr.Ptr(int64(999))
	err := c.ValidateMode(ctx, req)
	assert.ErrorIs(t, err, ErrAddressNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, c.ValidateMode(ctx, offlineRequest("10:00")))

	// online не требует адреса
	assert.NoError(t, c.ValidateMode(ctx, onlineRequest("10:00")))
}

func TestValidateMode_AddressServiceDown(t *testing.T) {
	c := NewChecker(&fakeWindows{}, &fakeBookings{}, &fakeAddresses{err: errors.New("dial tcp: refused")}, logger.NewNop())

	err := c.ValidateMode(context.Background(), offlineRequest("10:00"))
	assert.ErrorIs(t, err, ErrInternal)
	_, isDomain := domain.KindOf(err)
	assert.False(t, isDomain)
}

func TestValidateMode_AddressServiceNotConfigured(t *testing.T) {
	c := NewChecker(&fakeWindows{}, &fakeBookings{}, addressservice.Unconfigured{}, logger.NewNop())
	ctx := context.Background()

	err := c.ValidateMode(ctx, offlineRequest("10:00"))
	assert.ErrorIs(t, err, ErrOfflineUnavailable)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	assert.NoError(t, c.ValidateMode(ctx, onlineRequest("10:00")))
}

func TestValidateMode_OfflineNearMidnight(t *testing.T) {
	c := newChecker(nil)
	ctx := context.Background()

	for _, tm := range []types.TimeString{"00:00", "00:30", "00:59", "23:01", "23:30"} {
		assert.ErrorIs(t, c.ValidateMode(ctx, offlineRequest(tm)), ErrOfflineBufferCrossesMidnight, "time %s", tm)
	}
	for _, tm := range []types.TimeString{"01:00", "23:00"} {
		assert.NoError(t, c.ValidateMode(ctx, offlineRequest(tm)), "time %s", tm)
	}

	// online бронирования у полуночи допустимы
	assert.NoError(t, c.ValidateMode(ctx, onlineRequest("00:00")))
}

func TestValidateMode_InvalidTime(t *testing.T) {
	c := newChecker(nil)
	assert.ErrorIs(t, c.ValidateMode(context.Background(), onlineRequest("9:00")), ErrInvalidTime)
}

func TestCheckSlot_RepositoryFailure(t *testing.T) {
	c := NewChecker(&fakeWindows{err: errors.New("connection reset")}, &fakeBookings{}, &fakeAddresses{}, logger.NewNop())

	err := c.CheckSlot(context.Background(), onlineRequest("10:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestFindWindow(t *testing.T) {
	windows := []*domain.AvailabilityWindow{window(1, "09:00", "12:00"), window(3, "09:00", "12:00")}

	assert.NotNil(t, FindWindow(windows, 1, "09:00"))
	assert.Nil(t, FindWindow(windows, 1, "12:00"))
	assert.Nil(t, FindWindow(windows, 2, "10:00"))
	assert.NotNil(t, FindWindow(windows, 3, "11:59"))
}

func TestCollides_ReturnsBlockingBooking(t *testing.T) {
	existing := []*domain.Booking{
		booking(1, "08:00", domain.ModeOnline, domain.StatusPending),
		booking(2, "09:00", domain.ModeOnline, domain.StatusInProgress),
	}

	other, ok := Collides(domain.ModeOffline, "10:00", existing, 0)
	require.True(t, ok)
	assert.Equal(t, int64(2), other.ID)

	_, ok = Collides(domain.ModeOnline, "10:00", existing, 0)
	assert.False(t, ok)
}
