package memory

import (
	"context"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/catalog"
)

// CatalogRepository провайдеры и услуги в памяти
type CatalogRepository struct {
	store *Store
}

func (r *CatalogRepository) GetProvider(ctx context.Context, id int64) (*domain.Provider, error) {
	defer r.store.lock(ctx)()

	p, ok := r.store.state.providers[id]
	if !ok {
		return nil, catalogRepo.ErrProviderNotFound
	}
	return &p, nil
}

func (r *CatalogRepository) GetProviderByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	defer r.store.lock(ctx)()

	for _, p := range r.store.state.providers {
		if p.UserID == userID {
			p := p
			return &p, nil
		}
	}
	return nil, catalogRepo.ErrProviderNotFound
}

// LockProvider в памяти эквивалентен GetProvider: транзакция уже эксклюзивна
func (r *CatalogRepository) LockProvider(ctx context.Context, id int64) (*domain.Provider, error) {
	return r.GetProvider(ctx, id)
}

func (r *CatalogRepository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	defer r.store.lock(ctx)()

	s, ok := r.store.state.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return &s, nil
}

func (r *CatalogRepository) IncrementTotalBookings(ctx context.Context, providerID int64) error {
	return r.updateProvider(ctx, providerID, func(p *domain.Provider) {
		p.TotalBookings++
	})
}

func (r *CatalogRepository) ApplyRating(ctx context.Context, providerID int64, rating int) error {
	return r.updateProvider(ctx, providerID, func(p *domain.Provider) {
		agg := domain.RatingAggregate{Sum: p.RatingSum, Count: p.RatingCount}.Add(rating)
		p.RatingSum = agg.Sum
		p.RatingCount = agg.Count
		p.Rating = agg.Average()
	})
}

func (r *CatalogRepository) updateProvider(ctx context.Context, id int64, mutate func(p *domain.Provider)) error {
	defer r.store.lock(ctx)()

	p, ok := r.store.state.providers[id]
	if !ok {
		return catalogRepo.ErrProviderNotFound
	}
	mutate(&p)
	p.UpdatedAt = r.store.now()
	r.store.state.providers[id] = p
	return nil
}
