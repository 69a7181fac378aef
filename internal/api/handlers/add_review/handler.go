package add_review

import (
	"net/http"

	"github.com/m04kA/SMC-RitualBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RitualBookingService/internal/api/middleware"
)

const (
	msgInvalidBookingID   = "invalid booking ID"
	msgInvalidRequestBody = "invalid request body"
	msgMissingUserID      = "missing user ID"
)

type Handler struct {
	useCase AddReviewUseCase
	logger  Logger
}

func NewHandler(useCase AddReviewUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/review
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/review - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AddReviewRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/review - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody+": "+err.Error())
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, actor))
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /bookings/{id}/review - Rejected: booking_id=%d, user_id=%d, error=%v",
				bookingID, actor.UserID, err)
		} else {
			h.logger.Error("POST /bookings/{id}/review - Failed: booking_id=%d, error=%v", bookingID, err)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/review - Review added: booking_id=%d, rating=%d, provider_rating=%.2f",
		bookingID, req.Rating, resp.ProviderRating)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}
