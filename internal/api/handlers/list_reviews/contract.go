package list_reviews

import (
	"context"

	listReviews "github.com/m04kA/SMC-RitualBookingService/internal/usecase/list_reviews"
)

type ListReviewsUseCase interface {
	Execute(ctx context.Context, providerID int64) (*listReviews.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
