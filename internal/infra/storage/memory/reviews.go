package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	reviewRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/review"
)

// ReviewRepository отзывы в памяти, не более одного на бронирование
type ReviewRepository struct {
	store *Store
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	defer r.store.lock(ctx)()
	st := r.store.state

	for _, existing := range st.reviews {
		if existing.BookingID == review.BookingID {
			return nil, reviewRepo.ErrReviewExists
		}
	}

	review.ID = st.nextID()
	review.CreatedAt = r.store.now()
	st.reviews[review.ID] = *review
	return review, nil
}

func (r *ReviewRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Review, error) {
	defer r.store.lock(ctx)()

	for _, review := range r.store.state.reviews {
		if review.BookingID == bookingID {
			review := review
			return &review, nil
		}
	}
	return nil, reviewRepo.ErrReviewNotFound
}

func (r *ReviewRepository) ListByProvider(ctx context.Context, providerID int64) ([]*domain.Review, error) {
	defer r.store.lock(ctx)()

	out := make([]*domain.Review, 0)
	for _, review := range r.store.state.reviews {
		review := review
		if review.ProviderID == providerID {
			out = append(out, &review)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
