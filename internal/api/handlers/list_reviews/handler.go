package list_reviews

import (
	"net/http"

	"github.com/m04kA/SMC-RitualBookingService/internal/api/handlers"
)

const msgInvalidProviderID = "invalid provider ID"

type Handler struct {
	useCase ListReviewsUseCase
	logger  Logger
}

func NewHandler(useCase ListReviewsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/reviews
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("GET /providers/{id}/reviews - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), providerID)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /providers/{id}/reviews - Rejected: provider_id=%d, error=%v", providerID, err)
		} else {
			h.logger.Error("GET /providers/{id}/reviews - Failed: provider_id=%d, error=%v", providerID, err)
		}
		return
	}

	h.logger.Info("GET /providers/{id}/reviews - Reviews retrieved: provider_id=%d, count=%d", providerID, len(resp.Reviews))
	handlers.RespondJSON(w, http.StatusOK, fromUseCaseResponse(resp))
}
