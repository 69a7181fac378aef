package get_availability

import (
	"net/http"

	"github.com/m04kA/SMC-RitualBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/availability/models"
)

const (
	msgInvalidProviderID = "invalid provider ID"
	msgInvalidDate       = "invalid date, expected YYYY-MM-DD"
	msgInvalidMode       = "invalid mode, expected online or offline"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/availability
// Query params: date, mode (опционально). Без даты возвращаются недельные окна.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("GET /providers/{id}/availability - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	req := &models.GetAvailabilityRequest{ProviderID: providerID}
	if v := r.URL.Query().Get("date"); v != "" {
		date, err := handlers.ParseDate(v)
		if err != nil {
			h.logger.Warn("GET /providers/{id}/availability - Invalid date: %s", v)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.Date = &date
	}
	if v := r.URL.Query().Get("mode"); v != "" {
		mode, ok := domain.ParseBookingMode(v)
		if !ok {
			h.logger.Warn("GET /providers/{id}/availability - Invalid mode: %s", v)
			handlers.RespondBadRequest(w, msgInvalidMode)
			return
		}
		req.Mode = mode
	}

	result, err := h.service.GetAvailability(r.Context(), req)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /providers/{id}/availability - Rejected: provider_id=%d, error=%v", providerID, err)
		} else {
			h.logger.Error("GET /providers/{id}/availability - Failed: provider_id=%d, error=%v", providerID, err)
		}
		return
	}

	h.logger.Info("GET /providers/{id}/availability - Availability retrieved: provider_id=%d, slots=%d, windows=%d",
		providerID, len(result.Slots), len(result.Windows))
	handlers.RespondJSON(w, http.StatusOK, result)
}
