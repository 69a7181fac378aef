package add_review

import "github.com/m04kA/SMC-RitualBookingService/internal/domain"

// Request модель запроса на отзыв
type Request struct {
	Actor     domain.Actor
	BookingID int64
	Rating    int     // 1..5
	Comment   *string // Необязательный текст отзыва
}

// Response сохраненный отзыв и обновленные бронирование и рейтинг провайдера
type Response struct {
	Review         *domain.Review
	Booking        *domain.Booking
	ProviderRating float64
	ReviewCount    int64
}
