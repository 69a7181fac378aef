package list_reviews

import "github.com/m04kA/SMC-RitualBookingService/internal/domain"

// Response отзывы провайдера, новые сначала, и сводный рейтинг
type Response struct {
	ProviderID  int64
	Rating      float64
	ReviewCount int64
	Reviews     []*domain.Review
}
