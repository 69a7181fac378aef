package booking_transition

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RitualBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RitualBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "invalid booking ID"
	msgUnknownAction    = "unknown action"
	msgMissingUserID    = "missing user ID"
)

type transitionFunc func(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error)

type Handler struct {
	actions map[domain.Action]transitionFunc
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		actions: map[domain.Action]transitionFunc{
			domain.ActionConfirm:  service.Confirm,
			domain.ActionStart:    service.Start,
			domain.ActionComplete: service.Complete,
		},
		logger: logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/{action:confirm|start|complete}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/{action} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	action := domain.Action(mux.Vars(r)["action"])
	transition, ok := h.actions[action]
	if !ok {
		handlers.RespondBadRequest(w, msgUnknownAction)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := transition(r.Context(), bookingID, actor)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("PATCH /bookings/{id}/%s - Rejected: booking_id=%d, user_id=%d, error=%v",
				action, bookingID, actor.UserID, err)
		} else {
			h.logger.Error("PATCH /bookings/{id}/%s - Failed: booking_id=%d, error=%v", action, bookingID, err)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/%s - Booking updated: booking_id=%d, status=%s", action, bookingID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
