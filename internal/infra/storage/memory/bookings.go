package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

// BookingRepository бронирования в памяти. Повторяет ограничение
// bookings_active_slot_uidx: одно активное бронирование на (провайдер, дата, время).
type BookingRepository struct {
	store *Store
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	defer r.store.lock(ctx)()
	st := r.store.state

	booking.BookingDate = domain.DateOnly(booking.BookingDate)
	if booking.IsActive() && slotTaken(st, booking.ProviderID, booking.BookingDate, booking.BookingTime, 0) {
		return nil, bookingRepo.ErrSlotTaken
	}

	booking.ID = st.nextID()
	booking.CreatedAt = r.store.now()
	booking.UpdatedAt = booking.CreatedAt
	st.bookings[booking.ID] = *booking

	return booking, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	defer r.store.lock(ctx)()

	b, ok := r.store.state.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (r *BookingRepository) ListActiveByProviderAndDate(ctx context.Context, providerID int64, date time.Time) ([]*domain.Booking, error) {
	defer r.store.lock(ctx)()

	date = domain.DateOnly(date)
	out := r.filter(func(b *domain.Booking) bool {
		return b.ProviderID == providerID && b.BookingDate.Equal(date) && b.IsActive()
	})
	sort.Slice(out, func(i, j int) bool { return out[i].BookingTime < out[j].BookingTime })
	return out, nil
}

func (r *BookingRepository) ListByRequester(ctx context.Context, requesterID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	defer r.store.lock(ctx)()

	out := r.filter(func(b *domain.Booking) bool {
		return b.RequesterID == requesterID && (status == nil || b.Status == *status)
	})
	sortNewestFirst(out)
	return out, nil
}

func (r *BookingRepository) ListByProvider(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	defer r.store.lock(ctx)()

	out := r.filter(func(b *domain.Booking) bool {
		if b.ProviderID != filter.ProviderID {
			return false
		}
		if filter.StartDate != nil && b.BookingDate.Before(domain.DateOnly(*filter.StartDate)) {
			return false
		}
		if filter.EndDate != nil && b.BookingDate.After(domain.DateOnly(*filter.EndDate)) {
			return false
		}
		if filter.Status != nil {
			return b.Status == *filter.Status
		}
		return filter.IncludeInactive || b.IsActive()
	})

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		sort.Slice(out, func(i, j int) bool { return out[i].BookingTime < out[j].BookingTime })
	} else {
		sortNewestFirst(out)
	}
	return out, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.update(ctx, id, func(b *domain.Booking) error {
		b.Status = status
		return nil
	})
}

func (r *BookingRepository) Start(ctx context.Context, id int64, meetingLink, meetingPassword *string) error {
	return r.update(ctx, id, func(b *domain.Booking) error {
		b.Status = domain.StatusInProgress
		b.MeetingLink = meetingLink
		b.MeetingPassword = meetingPassword
		return nil
	})
}

func (r *BookingRepository) Complete(ctx context.Context, id int64, completedAt time.Time) error {
	return r.update(ctx, id, func(b *domain.Booking) error {
		b.Status = domain.StatusCompleted
		b.CompletedAt = &completedAt
		return nil
	})
}

func (r *BookingRepository) Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error {
	return r.update(ctx, id, func(b *domain.Booking) error {
		b.Status = domain.StatusCancelled
		b.CancellationReason = reason
		b.CancelledAt = &cancelledAt
		return nil
	})
}

func (r *BookingRepository) Reschedule(ctx context.Context, id int64, date time.Time, t types.TimeString, timezone string, reason *string) error {
	return r.update(ctx, id, func(b *domain.Booking) error {
		date = domain.DateOnly(date)
		if slotTaken(r.store.state, b.ProviderID, date, t, b.ID) {
			return bookingRepo.ErrSlotTaken
		}
		b.BookingDate = date
		b.BookingTime = t
		b.Timezone = timezone
		b.Status = domain.StatusPending
		b.RescheduleReason = reason
		return nil
	})
}

func (r *BookingRepository) AttachReview(ctx context.Context, id int64, rating int, review *string) error {
	return r.update(ctx, id, func(b *domain.Booking) error {
		b.Rating = &rating
		b.Review = review
		return nil
	})
}

func (r *BookingRepository) update(ctx context.Context, id int64, mutate func(b *domain.Booking) error) error {
	defer r.store.lock(ctx)()

	b, ok := r.store.state.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if err := mutate(&b); err != nil {
		return err
	}
	b.UpdatedAt = r.store.now()
	r.store.state.bookings[id] = b
	return nil
}

func (r *BookingRepository) filter(keep func(b *domain.Booking) bool) []*domain.Booking {
	out := make([]*domain.Booking, 0)
	for _, b := range r.store.state.bookings {
		b := b
		if keep(&b) {
			out = append(out, &b)
		}
	}
	return out
}

func slotTaken(st *state, providerID int64, date time.Time, t types.TimeString, exclude int64) bool {
	for _, b := range st.bookings {
		if b.ID == exclude || !b.IsActive() {
			continue
		}
		if b.ProviderID == providerID && b.BookingDate.Equal(date) && b.BookingTime == t {
			return true
		}
	}
	return false
}

func sortNewestFirst(bookings []*domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].BookingDate.Equal(bookings[j].BookingDate) {
			return bookings[i].BookingDate.After(bookings[j].BookingDate)
		}
		return bookings[i].BookingTime > bookings[j].BookingTime
	})
}
