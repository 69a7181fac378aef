package add_review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/catalog"
	reviewRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/review"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/dispatch"
)

// UseCase use case для отзыва о завершенном бронировании
type UseCase struct {
	bookingRepo BookingRepository
	reviewRepo  ReviewRepository
	catalogRepo CatalogRepository
	dispatcher  Dispatcher
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	reviewRepo ReviewRepository,
	catalogRepo CatalogRepository,
	dispatcher Dispatcher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		reviewRepo:  reviewRepo,
		catalogRepo: catalogRepo,
		dispatcher:  dispatcher,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute сохраняет отзыв, копирует его в бронирование и учитывает оценку в рейтинге провайдера.
// Все три записи выполняются в одной транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AddReview: booking id=%d by user %d, rating=%d", req.BookingID, req.Actor.UserID, req.Rating)

	if err := domain.ValidateRating(req.Rating); err != nil {
		uc.logger.Warn("AddReview: %v", err)
		return nil, err
	}

	comment := req.Comment
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if utf8.RuneCountInString(trimmed) > domain.MaxReviewCommentLength {
			return nil, fmt.Errorf("%w: comment must be at most %d characters", ErrInvalidInput, domain.MaxReviewCommentLength)
		}
		comment = &trimmed
		if trimmed == "" {
			comment = nil
		}
	}

	var (
		review   *domain.Review
		booking  *domain.Booking
		provider *domain.Provider
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return domain.ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		owner, err := uc.catalogRepo.GetProvider(txCtx, current.ProviderID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrProviderNotFound) {
				return domain.ErrProviderNotFound
			}
			return fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
		}

		if _, err := domain.CanTransition(req.Actor, current, owner.UserID, domain.ActionReview); err != nil {
			return err
		}

		if current.HasReview() {
			return ErrReviewExists
		}

		review, err = uc.reviewRepo.Create(txCtx, &domain.Review{
			BookingID:  current.ID,
			ReviewerID: req.Actor.UserID,
			ProviderID: current.ProviderID,
			Rating:     req.Rating,
			Comment:    comment,
		})
		if err != nil {
			if errors.Is(err, reviewRepo.ErrReviewExists) {
				return ErrReviewExists
			}
			return fmt.Errorf("%w: failed to create review: %v", ErrInternal, err)
		}

		if err := uc.bookingRepo.AttachReview(txCtx, current.ID, req.Rating, comment); err != nil {
			return fmt.Errorf("%w: failed to attach review: %v", ErrInternal, err)
		}

		if err := uc.catalogRepo.ApplyRating(txCtx, current.ProviderID, req.Rating); err != nil {
			return fmt.Errorf("%w: failed to apply rating: %v", ErrInternal, err)
		}

		if booking, err = uc.bookingRepo.GetByID(txCtx, current.ID); err != nil {
			return fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
		}
		if provider, err = uc.catalogRepo.GetProvider(txCtx, current.ProviderID); err != nil {
			return fmt.Errorf("%w: failed to reload provider: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("AddReview: %v", err)
		} else {
			uc.logger.Warn("AddReview: rejected: %v", err)
		}
		return nil, err
	}

	uc.logger.Info("AddReview: review id=%d saved, provider id=%d rating is now %.2f (%d reviews)",
		review.ID, provider.ID, provider.Rating, provider.RatingCount)
	uc.metrics.IncTransition(string(domain.ActionReview))

	uc.dispatcher.Notify(ctx, booking.ID, dispatch.Notification{
		UserID:  provider.UserID,
		Title:   "New review",
		Message: fmt.Sprintf("You received a %d-star review", review.Rating),
	})
	uc.dispatcher.Publish(ctx, domain.EventBookingReviewed, booking, req.Actor.UserID, "")

	return &Response{
		Review:         review,
		Booking:        booking,
		ProviderRating: provider.Rating,
		ReviewCount:    provider.RatingCount,
	}, nil
}
