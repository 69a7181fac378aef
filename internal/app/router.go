package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	addReviewHandler "github.com/m04kA/SMC-RitualBookingService/internal/api/handlers/add_review"
	bookingTransitionHandler "github.com/m04kA/SMC-RitualBookingService/internal/api/handlers/booking_transition"
	cancelBookingHandler "github.com/m04kA/SMC-RitualBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-RitualBookingService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-RitualBookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-RitualBookingService/internal/api/handlers/get_booking"
	getProviderBookingsHandler "github.com/m04kA/SMC-RitualBookingService/internal/api/handlers/get_provider_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-RitualBookingService/internal/api/handlers/get_user_bookings"
	listReviewsHandler "github.com/m04kA/SMC-RitualBookingService/internal/api/handlers/list_reviews"
	manageAvailabilityHandler "github.com/m04kA/SMC-RitualBookingService/internal/api/handlers/manage_availability"
	rescheduleBookingHandler "github.com/m04kA/SMC-RitualBookingService/internal/api/handlers/reschedule_booking"
	"github.com/m04kA/SMC-RitualBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/availability"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/dispatch"
	addReviewUC "github.com/m04kA/SMC-RitualBookingService/internal/usecase/add_review"
	createBookingUC "github.com/m04kA/SMC-RitualBookingService/internal/usecase/create_booking"
	listReviewsUC "github.com/m04kA/SMC-RitualBookingService/internal/usecase/list_reviews"
	rescheduleBookingUC "github.com/m04kA/SMC-RitualBookingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-RitualBookingService/pkg/metrics"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Deps зависимости HTTP API
type Deps struct {
	Storage   Storage
	Addresses conflicts.AddressResolver
	Notifier  dispatch.Notifier
	Publisher dispatch.EventPublisher
	Gateway   dispatch.PaymentGateway
	Metrics   *metrics.Metrics // nil - метрики выключены
	Logger    Logger

	MetricsPath     string
	Currency        string
	MeetingBaseURL  string
	DispatchTimeout time.Duration
	RateLimiter     *middleware.RateLimiter // nil - без ограничения
}

// NewRouter собирает сервисы, use case'ы и маршруты /api/v1
func NewRouter(d Deps) *mux.Router {
	s := d.Storage

	dispatcher := dispatch.NewDispatcher(d.Notifier, d.Publisher, d.Gateway, s.Payments, d.Metrics, d.Logger, d.DispatchTimeout)
	checker := conflicts.NewChecker(s.Windows, s.Bookings, d.Addresses, d.Logger)

	// Сервисы
	bookingSvc := bookings.NewService(s.Bookings, s.Catalog, dispatcher, s.Tx, d.Metrics, d.MeetingBaseURL, d.Logger)
	availabilitySvc := availability.NewService(s.Windows, s.Bookings, s.Catalog, s.Tx, d.Logger)

	// Use cases
	createBooking := createBookingUC.NewUseCase(s.Bookings, s.Catalog, s.Payments, checker, dispatcher, s.Tx, d.Metrics, d.Currency, d.Logger)
	rescheduleBooking := rescheduleBookingUC.NewUseCase(s.Bookings, s.Catalog, checker, dispatcher, s.Tx, d.Metrics, d.Logger)
	addReview := addReviewUC.NewUseCase(s.Bookings, s.Reviews, s.Catalog, dispatcher, s.Tx, d.Metrics, d.Logger)
	listReviews := listReviewsUC.NewUseCase(s.Reviews, s.Catalog, d.Logger)

	// Handlers
	createBookingH := createBookingHandler.NewHandler(createBooking, d.Logger)
	getBookingH := getBookingHandler.NewHandler(bookingSvc, d.Logger)
	transitionH := bookingTransitionHandler.NewHandler(bookingSvc, d.Logger)
	cancelBookingH := cancelBookingHandler.NewHandler(bookingSvc, d.Logger)
	rescheduleBookingH := rescheduleBookingHandler.NewHandler(rescheduleBooking, d.Logger)
	addReviewH := addReviewHandler.NewHandler(addReview, d.Logger)
	getUserBookingsH := getUserBookingsHandler.NewHandler(bookingSvc, d.Logger)
	getProviderBookingsH := getProviderBookingsHandler.NewHandler(bookingSvc, d.Logger)
	getAvailabilityH := getAvailabilityHandler.NewHandler(availabilitySvc, d.Logger)
	windowsH := manageAvailabilityHandler.NewHandler(availabilitySvc, d.Logger)
	listReviewsH := listReviewsHandler.NewHandler(listReviews, d.Logger)

	r := mux.NewRouter()

	if d.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(d.Metrics))
		if d.MetricsPath != "" {
			r.Handle(d.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
		}
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	if d.RateLimiter != nil {
		api.Use(d.RateLimiter.Middleware())
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/providers/{providerId}/availability", getAvailabilityH.Handle).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/reviews", listReviewsH.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBookingH.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBookingH.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/{action:confirm|start|complete}", transitionH.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBookingH.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBookingH.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/review", addReviewH.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookingsH.Handle).Methods(http.MethodGet)

	// --- Кабинет провайдера ---
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookingsH.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/availability-windows", windowsH.List).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/availability-windows", windowsH.Create).Methods(http.MethodPost)
	protected.HandleFunc("/providers/{providerId}/availability-windows/{windowId}", windowsH.Update).Methods(http.MethodPut)
	protected.HandleFunc("/providers/{providerId}/availability-windows/{windowId}", windowsH.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/providers/{providerId}/availability-windows/{windowId}/deactivate", windowsH.Deactivate).Methods(http.MethodPatch)

	return r
}
