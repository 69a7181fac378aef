package list_reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/catalog"
)

// UseCase публичный список отзывов провайдера
type UseCase struct {
	reviewRepo  ReviewRepository
	catalogRepo CatalogRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(reviewRepo ReviewRepository, catalogRepo CatalogRepository, logger Logger) *UseCase {
	return &UseCase{
		reviewRepo:  reviewRepo,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// Execute возвращает отзывы провайдера вместе с его агрегированным рейтингом
func (uc *UseCase) Execute(ctx context.Context, providerID int64) (*Response, error) {
	provider, err := uc.catalogRepo.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProviderNotFound) {
			uc.logger.Warn("ListReviews: provider id=%d not found", providerID)
			return nil, domain.ErrProviderNotFound
		}
		uc.logger.Error("ListReviews: failed to get provider id=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	reviews, err := uc.reviewRepo.ListByProvider(ctx, providerID)
	if err != nil {
		uc.logger.Error("ListReviews: failed to list reviews for provider id=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: failed to list reviews: %v", ErrInternal, err)
	}

	return &Response{
		ProviderID:  provider.ID,
		Rating:      provider.Rating,
		ReviewCount: provider.RatingCount,
		Reviews:     reviews,
	}, nil
}
