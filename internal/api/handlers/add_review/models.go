package add_review

import (
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/bookings/models"
	addReview "github.com/m04kA/SMC-RitualBookingService/internal/usecase/add_review"
)

// AddReviewRequest HTTP request model
type AddReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *AddReviewRequest) ToUseCaseRequest(bookingID int64, actor domain.Actor) *addReview.Request {
	return &addReview.Request{
		Actor:     actor,
		BookingID: bookingID,
		Rating:    r.Rating,
		Comment:   r.Comment,
	}
}

// ReviewResponse отзыв
type ReviewResponse struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"bookingId"`
	ReviewerID int64     `json:"reviewerId"`
	ProviderID int64     `json:"providerId"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AddReviewResponse HTTP response model
type AddReviewResponse struct {
	Review         ReviewResponse          `json:"review"`
	Booking        *models.BookingResponse `json:"booking"`
	ProviderRating float64                 `json:"providerRating"`
	ReviewCount    int64                   `json:"reviewCount"`
}

// FromDomainReview конвертирует domain модель в DTO
func FromDomainReview(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		BookingID:  r.BookingID,
		ReviewerID: r.ReviewerID,
		ProviderID: r.ProviderID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *addReview.Response) *AddReviewResponse {
	return &AddReviewResponse{
		Review:         FromDomainReview(resp.Review),
		Booking:        models.FromDomainBooking(resp.Booking),
		ProviderRating: resp.ProviderRating,
		ReviewCount:    resp.ReviewCount,
	}
}
