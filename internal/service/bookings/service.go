package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/dispatch"
)

// meetingPasswordLength длина пароля виртуальной встречи
const meetingPasswordLength = 10

// Service сервис чтения и смены статусов бронирований
type Service struct {
	bookingRepo    BookingRepository
	catalogRepo    CatalogRepository
	dispatcher     Dispatcher
	txManager      TransactionManager
	metrics        Metrics
	meetingBaseURL string
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый сервис бронирований
func NewService(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	dispatcher Dispatcher,
	txManager TransactionManager,
	metrics Metrics,
	meetingBaseURL string,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		catalogRepo:    catalogRepo,
		dispatcher:     dispatcher,
		txManager:      txManager,
		metrics:        metrics,
		meetingBaseURL: strings.TrimRight(meetingBaseURL, "/"),
		timeProvider:   realTimeProvider{},
		logger:         logger,
	}
}

// GetByID получает бронирование по ID.
// Видеть бронирование могут заказчик, провайдер и администратор.
func (s *Service) GetByID(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, "GetByID", bookingID)
	if err != nil {
		return nil, err
	}

	provider, err := s.getProvider(ctx, "GetByID", booking.ProviderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanPerform(actor, booking, provider.UserID, domain.ActionView) {
		s.logger.Warn("GetByID: user %d has no access to booking id=%d", actor.UserID, bookingID)
		return nil, domain.ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetRequesterBookings история бронирований заказчика, новые сначала
func (s *Service) GetRequesterBookings(ctx context.Context, req *models.GetRequesterBookingsRequest) (*models.BookingListResponse, error) {
	if req.Actor.UserID != req.RequesterID && !req.Actor.IsAdmin() {
		s.logger.Warn("GetRequesterBookings: user %d tried to read bookings of user %d", req.Actor.UserID, req.RequesterID)
		return nil, domain.ErrAccessDenied
	}

	var status *domain.BookingStatus
	if req.Status != nil {
		st, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		status = &st
	}

	bookings, err := s.bookingRepo.ListByRequester(ctx, req.RequesterID, status)
	if err != nil {
		s.logger.Error("GetRequesterBookings: failed to list bookings for user %d: %v", req.RequesterID, err)
		return nil, fmt.Errorf("%w: GetRequesterBookings - repository: %v", ErrInternal, err)
	}

	s.logger.Info("GetRequesterBookings: found %d bookings for user %d", len(bookings), req.RequesterID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings бронирования провайдера с фильтрами.
// Доступно владельцу провайдера и администратору.
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	provider, err := s.getProvider(ctx, "GetProviderBookings", req.ProviderID)
	if err != nil {
		return nil, err
	}

	if req.Actor.UserID != provider.UserID && !req.Actor.IsAdmin() {
		s.logger.Warn("GetProviderBookings: user %d is not the owner of provider %d", req.Actor.UserID, req.ProviderID)
		return nil, domain.ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListByProvider(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: failed to list bookings for provider %d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: found %d bookings for provider %d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// Confirm pending -> confirmed, выполняет провайдер
func (s *Service) Confirm(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error) {
	res, err := s.transition(ctx, bookingID, actor, domain.ActionConfirm, func(txCtx context.Context, b *domain.Booking, next domain.BookingStatus) error {
		return s.bookingRepo.UpdateStatus(txCtx, b.ID, next)
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Notify(ctx, res.booking.ID, dispatch.Notification{
		UserID:  res.booking.RequesterID,
		Title:   "Booking confirmed",
		Message: fmt.Sprintf("%s confirmed your booking on %s at %s", res.provider.DisplayName, res.booking.BookingDate.Format(domain.DateFormat), res.booking.BookingTime),
	})
	s.dispatcher.Publish(ctx, domain.EventBookingConfirmed, res.booking, actor.UserID, "")

	return models.FromDomainBooking(res.booking), nil
}

// Start confirmed -> in_progress. Для виртуальной услуги выдается ссылка на встречу.
func (s *Service) Start(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error) {
	res, err := s.transition(ctx, bookingID, actor, domain.ActionStart, func(txCtx context.Context, b *domain.Booking, _ domain.BookingStatus) error {
		service, err := s.catalogRepo.GetService(txCtx, b.ServiceID)
		if err != nil {
			return fmt.Errorf("%w: Start - get service: %v", ErrInternal, err)
		}

		var link, password *string
		if service.IsVirtual {
			link, password = s.newMeeting()
		}
		return s.bookingRepo.Start(txCtx, b.ID, link, password)
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your session with %s has started", res.provider.DisplayName)
	if res.booking.MeetingLink != nil {
		message = fmt.Sprintf("%s. Join: %s", message, *res.booking.MeetingLink)
	}
	s.dispatcher.Notify(ctx, res.booking.ID, dispatch.Notification{
		UserID:  res.booking.RequesterID,
		Title:   "Session started",
		Message: message,
	})
	s.dispatcher.Publish(ctx, domain.EventBookingStarted, res.booking, actor.UserID, "")

	return models.FromDomainBooking(res.booking), nil
}

// Complete in_progress -> completed, увеличивает счетчик завершенных бронирований провайдера
func (s *Service) Complete(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error) {
	res, err := s.transition(ctx, bookingID, actor, domain.ActionComplete, func(txCtx context.Context, b *domain.Booking, _ domain.BookingStatus) error {
		if err := s.bookingRepo.Complete(txCtx, b.ID, s.timeProvider.Now()); err != nil {
			return err
		}
		if err := s.catalogRepo.IncrementTotalBookings(txCtx, b.ProviderID); err != nil {
			return fmt.Errorf("%w: Complete - increment total bookings: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Notify(ctx, res.booking.ID, dispatch.Notification{
		UserID:  res.booking.RequesterID,
		Title:   "Booking completed",
		Message: fmt.Sprintf("Your session with %s is complete. Leave a review!", res.provider.DisplayName),
	})
	s.dispatcher.Publish(ctx, domain.EventBookingCompleted, res.booking, actor.UserID, "")

	return models.FromDomainBooking(res.booking), nil
}

// Cancel pending|confirmed -> cancelled. Отменить могут заказчик, провайдер и администратор.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	reason := normalizeReason(req.Reason)
	if reason != nil && utf8.RuneCountInString(*reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	res, err := s.transition(ctx, bookingID, req.Actor, domain.ActionCancel, func(txCtx context.Context, b *domain.Booking, _ domain.BookingStatus) error {
		return s.bookingRepo.Cancel(txCtx, b.ID, reason, s.timeProvider.Now())
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Booking on %s at %s was cancelled", res.booking.BookingDate.Format(domain.DateFormat), res.booking.BookingTime)
	if reason != nil {
		message = fmt.Sprintf("%s: %s", message, *reason)
	}
	s.dispatcher.Notify(ctx, res.booking.ID,
		dispatch.Notification{UserID: res.booking.RequesterID, Title: "Booking cancelled", Message: message},
		dispatch.Notification{UserID: res.provider.UserID, Title: "Booking cancelled", Message: message},
	)
	s.dispatcher.Publish(ctx, domain.EventBookingCancelled, res.booking, req.Actor.UserID, ptrValue(reason))

	return models.FromDomainBooking(res.booking), nil
}

type transitionResult struct {
	booking  *domain.Booking
	provider *domain.Provider
}

// transition общий шаг смены статуса: блокировка строки бронирования, проверка прав
// и допустимости перехода, запись и перечитывание в одной сериализуемой транзакции
func (s *Service) transition(
	ctx context.Context,
	bookingID int64,
	actor domain.Actor,
	action domain.Action,
	apply func(txCtx context.Context, b *domain.Booking, next domain.BookingStatus) error,
) (*transitionResult, error) {
	op := opName(action)
	s.logger.Info("%s: booking id=%d by user %d", op, bookingID, actor.UserID)

	var res transitionResult
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, op, bookingID)
		if err != nil {
			return err
		}

		provider, err := s.getProvider(txCtx, op, booking.ProviderID)
		if err != nil {
			return err
		}

		next, err := domain.CanTransition(actor, booking, provider.UserID, action)
		if err != nil {
			s.logger.Warn("%s: booking id=%d status=%s: %v", op, bookingID, booking.Status, err)
			return err
		}

		if err := apply(txCtx, booking, next); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return domain.ErrBookingNotFound
			}
			if errors.Is(err, ErrInternal) {
				return err
			}
			return fmt.Errorf("%w: %s - update booking: %v", ErrInternal, op, err)
		}

		updated, err := s.getBooking(txCtx, op, bookingID)
		if err != nil {
			return err
		}

		res = transitionResult{booking: updated, provider: provider}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("%s: %v", op, err)
		}
		return nil, err
	}

	s.logger.Info("%s: booking id=%d is now %s", op, bookingID, res.booking.Status)
	s.metrics.IncTransition(string(action))

	return &res, nil
}

func (s *Service) getBooking(ctx context.Context, op string, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, domain.ErrBookingNotFound
		}
		s.logger.Error("%s: failed to get booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - get booking: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) getProvider(ctx context.Context, op string, providerID int64) (*domain.Provider, error) {
	provider, err := s.catalogRepo.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProviderNotFound) {
			s.logger.Warn("%s: provider id=%d not found", op, providerID)
			return nil, domain.ErrProviderNotFound
		}
		s.logger.Error("%s: failed to get provider id=%d: %v", op, providerID, err)
		return nil, fmt.Errorf("%w: %s - get provider: %v", ErrInternal, op, err)
	}
	return provider, nil
}

func (s *Service) newMeeting() (link, password *string) {
	l := fmt.Sprintf("%s/%s", s.meetingBaseURL, uuid.NewString())
	p := strings.ReplaceAll(uuid.NewString(), "-", "")[:meetingPasswordLength]
	return &l, &p
}

func opName(action domain.Action) string {
	name := string(action)
	return strings.ToUpper(name[:1]) + name[1:] + "Booking"
}

func normalizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func ptrValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
