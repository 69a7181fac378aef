package get_provider_bookings

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-RitualBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RitualBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/bookings/models"
)

const (
	msgInvalidProviderID = "invalid provider ID"
	msgInvalidStartDate  = "invalid startDate, expected YYYY-MM-DD"
	msgInvalidEndDate    = "invalid endDate, expected YYYY-MM-DD"
	msgInvalidInclude    = "invalid includeInactive, expected true or false"
	msgMissingUserID     = "missing user ID"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/bookings
// Query params: status, startDate, endDate, includeInactive (все опциональны)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("GET /providers/{id}/bookings - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.GetProviderBookingsRequest{Actor: actor, ProviderID: providerID}
	query := r.URL.Query()

	if v := query.Get("startDate"); v != "" {
		date, err := handlers.ParseDate(v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidStartDate)
			return
		}
		req.StartDate = &date
	}
	if v := query.Get("endDate"); v != "" {
		date, err := handlers.ParseDate(v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidEndDate)
			return
		}
		req.EndDate = &date
	}
	if v := query.Get("status"); v != "" {
		req.Status = &v
	}
	if v := query.Get("includeInactive"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidInclude)
			return
		}
		req.IncludeInactive = include
	}

	result, err := h.service.GetProviderBookings(r.Context(), req)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /providers/{id}/bookings - Rejected: provider_id=%d, actor=%d, error=%v",
				providerID, actor.UserID, err)
		} else {
			h.logger.Error("GET /providers/{id}/bookings - Failed to get bookings: provider_id=%d, error=%v", providerID, err)
		}
		return
	}

	h.logger.Info("GET /providers/{id}/bookings - Bookings retrieved successfully: provider_id=%d, count=%d",
		providerID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
