package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/availability"
)

// AvailabilityRepository окна доступности в памяти
type AvailabilityRepository struct {
	store *Store
}

func (r *AvailabilityRepository) Create(ctx context.Context, window *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	defer r.store.lock(ctx)()
	st := r.store.state

	window.ID = st.nextID()
	window.CreatedAt = r.store.now()
	window.UpdatedAt = window.CreatedAt
	st.windows[window.ID] = *window
	return window, nil
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*domain.AvailabilityWindow, error) {
	defer r.store.lock(ctx)()

	w, ok := r.store.state.windows[id]
	if !ok {
		return nil, availabilityRepo.ErrWindowNotFound
	}
	return &w, nil
}

func (r *AvailabilityRepository) ListByProvider(ctx context.Context, providerID int64, activeOnly bool) ([]*domain.AvailabilityWindow, error) {
	defer r.store.lock(ctx)()

	return r.filter(func(w *domain.AvailabilityWindow) bool {
		return w.ProviderID == providerID && (!activeOnly || w.IsActive)
	}), nil
}

func (r *AvailabilityRepository) ListActiveByProviderAndDay(ctx context.Context, providerID int64, dayOfWeek int) ([]*domain.AvailabilityWindow, error) {
	defer r.store.lock(ctx)()

	return r.filter(func(w *domain.AvailabilityWindow) bool {
		return w.ProviderID == providerID && w.DayOfWeek == dayOfWeek && w.IsActive
	}), nil
}

func (r *AvailabilityRepository) Update(ctx context.Context, window *domain.AvailabilityWindow) error {
	defer r.store.lock(ctx)()
	st := r.store.state

	current, ok := st.windows[window.ID]
	if !ok {
		return availabilityRepo.ErrWindowNotFound
	}
	current.DayOfWeek = window.DayOfWeek
	current.StartTime = window.StartTime
	current.EndTime = window.EndTime
	current.IsActive = window.IsActive
	current.UpdatedAt = r.store.now()
	st.windows[window.ID] = current
	return nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id int64) error {
	defer r.store.lock(ctx)()

	if _, ok := r.store.state.windows[id]; !ok {
		return availabilityRepo.ErrWindowNotFound
	}
	delete(r.store.state.windows, id)
	return nil
}

func (r *AvailabilityRepository) filter(keep func(w *domain.AvailabilityWindow) bool) []*domain.AvailabilityWindow {
	out := make([]*domain.AvailabilityWindow, 0)
	for _, w := range r.store.state.windows {
		w := w
		if keep(&w) {
			out = append(out, &w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}
