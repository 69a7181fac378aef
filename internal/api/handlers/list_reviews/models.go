package list_reviews

import (
	addReview "github.com/m04kA/SMC-RitualBookingService/internal/api/handlers/add_review"
	listReviews "github.com/m04kA/SMC-RitualBookingService/internal/usecase/list_reviews"
)

// ListReviewsResponse отзывы провайдера и его рейтинг
type ListReviewsResponse struct {
	ProviderID  int64                      `json:"providerId"`
	Rating      float64                    `json:"rating"`
	ReviewCount int64                      `json:"reviewCount"`
	Reviews     []addReview.ReviewResponse `json:"reviews"`
}

func fromUseCaseResponse(resp *listReviews.Response) *ListReviewsResponse {
	out := &ListReviewsResponse{
		ProviderID:  resp.ProviderID,
		Rating:      resp.Rating,
		ReviewCount: resp.ReviewCount,
		Reviews:     make([]addReview.ReviewResponse, 0, len(resp.Reviews)),
	}
	for _, r := range resp.Reviews {
		out.Reviews = append(out.Reviews, addReview.FromDomainReview(r))
	}
	return out
}
