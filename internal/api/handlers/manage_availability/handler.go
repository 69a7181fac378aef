package manage_availability

import (
	"net/http"

	"github.com/m04kA/SMC-RitualBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RitualBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/availability/models"
)

const (
	msgInvalidProviderID  = "invalid provider ID"
	msgInvalidWindowID    = "invalid window ID"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidTime        = "startTime and endTime must be HH:MM"
	msgMissingUserID      = "missing user ID"
)

// Handler управление окнами доступности провайдера
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

// List GET /api/v1/providers/{providerId}/availability-windows
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, providerID, ok := h.parse(w, r, "GET /providers/{id}/availability-windows")
	if !ok {
		return
	}

	result, err := h.service.ListWindows(r.Context(), actor, providerID)
	if err != nil {
		h.fail(w, "GET /providers/{id}/availability-windows", providerID, err)
		return
	}

	h.logger.Info("GET /providers/{id}/availability-windows - Windows retrieved: provider_id=%d, count=%d",
		providerID, len(result.Windows))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/v1/providers/{providerId}/availability-windows
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "POST /providers/{id}/availability-windows"

	actor, providerID, ok := h.parse(w, r, op)
	if !ok {
		return
	}

	var body CreateWindowRequest
	if err := handlers.DecodeAndValidate(r, &body); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody+": "+err.Error())
		return
	}

	req, err := body.ToServiceRequest(actor, providerID)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	window, err := h.service.CreateWindow(r.Context(), req)
	if err != nil {
		h.fail(w, op, providerID, err)
		return
	}

	h.logger.Info("%s - Window created: provider_id=%d, window_id=%d", op, providerID, window.ID)
	handlers.RespondJSON(w, http.StatusCreated, window)
}

// Update PUT /api/v1/providers/{providerId}/availability-windows/{windowId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "PUT /providers/{id}/availability-windows/{windowId}"

	actor, providerID, ok := h.parse(w, r, op)
	if !ok {
		return
	}
	windowID, ok := h.windowID(w, r, op)
	if !ok {
		return
	}

	var body UpdateWindowRequest
	if err := handlers.DecodeAndValidate(r, &body); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody+": "+err.Error())
		return
	}

	req, err := body.ToServiceRequest(actor, providerID, windowID)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	window, err := h.service.UpdateWindow(r.Context(), req)
	if err != nil {
		h.fail(w, op, providerID, err)
		return
	}

	h.logger.Info("%s - Window updated: provider_id=%d, window_id=%d", op, providerID, windowID)
	handlers.RespondJSON(w, http.StatusOK, window)
}

// Deactivate PATCH /api/v1/providers/{providerId}/availability-windows/{windowId}/deactivate
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	const op = "PATCH /providers/{id}/availability-windows/{windowId}/deactivate"

	actor, providerID, ok := h.parse(w, r, op)
	if !ok {
		return
	}
	windowID, ok := h.windowID(w, r, op)
	if !ok {
		return
	}

	window, err := h.service.DeactivateWindow(r.Context(), &models.WindowRequest{
		Actor:      actor,
		ProviderID: providerID,
		WindowID:   windowID,
	})
	if err != nil {
		h.fail(w, op, providerID, err)
		return
	}

	h.logger.Info("%s - Window deactivated: provider_id=%d, window_id=%d", op, providerID, windowID)
	handlers.RespondJSON(w, http.StatusOK, window)
}

// Delete DELETE /api/v1/providers/{providerId}/availability-windows/{windowId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "DELETE /providers/{id}/availability-windows/{windowId}"

	actor, providerID, ok := h.parse(w, r, op)
	if !ok {
		return
	}
	windowID, ok := h.windowID(w, r, op)
	if !ok {
		return
	}

	err := h.service.DeleteWindow(r.Context(), &models.WindowRequest{
		Actor:      actor,
		ProviderID: providerID,
		WindowID:   windowID,
	})
	if err != nil {
		h.fail(w, op, providerID, err)
		return
	}

	h.logger.Info("%s - Window deleted: provider_id=%d, window_id=%d", op, providerID, windowID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request, op string) (domain.Actor, int64, bool) {
	providerID, err := handlers.PathID(r, "providerId")
	if err != nil {
		h.logger.Warn("%s - Invalid provider ID: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return domain.Actor{}, 0, false
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return domain.Actor{}, 0, false
	}

	return actor, providerID, true
}

func (h *Handler) windowID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	windowID, err := handlers.PathID(r, "windowId")
	if err != nil {
		h.logger.Warn("%s - Invalid window ID: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidWindowID)
		return 0, false
	}
	return windowID, true
}

func (h *Handler) fail(w http.ResponseWriter, op string, providerID int64, err error) {
	if handlers.RespondDomainError(w, err) {
		h.logger.Warn("%s - Rejected: provider_id=%d, error=%v", op, providerID, err)
		return
	}
	h.logger.Error("%s - Failed: provider_id=%d, error=%v", op, providerID, err)
}
