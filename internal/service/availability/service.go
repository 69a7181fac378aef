package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/availability"
	catalogRepo "github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/availability/models"
)

// Service сервис окон доступности провайдеров
type Service struct {
	windowRepo  WindowRepository
	bookingRepo BookingRepository
	catalogRepo CatalogRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	windowRepo WindowRepository,
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		windowRepo:  windowRepo,
		bookingRepo: bookingRepo,
		catalogRepo: catalogRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetAvailability публичная доступность провайдера.
// С датой - сетка слотов с шагом 30 минут по окнам этого дня недели,
// без даты - активные недельные окна. Mode offline учитывает часовой буфер очного визита.
func (s *Service) GetAvailability(ctx context.Context, req *models.GetAvailabilityRequest) (*models.AvailabilityResponse, error) {
	if _, err := s.getProvider(ctx, "GetAvailability", req.ProviderID); err != nil {
		return nil, err
	}

	resp := &models.AvailabilityResponse{ProviderID: req.ProviderID}

	if req.Date == nil {
		windows, err := s.windowRepo.ListByProvider(ctx, req.ProviderID, true)
		if err != nil {
			s.logger.Error("GetAvailability: failed to list windows for provider %d: %v", req.ProviderID, err)
			return nil, fmt.Errorf("%w: GetAvailability - list windows: %v", ErrInternal, err)
		}
		resp.Windows = models.FromDomainWindows(windows)
		return resp, nil
	}

	date := domain.DateOnly(*req.Date)
	formatted := date.Format(domain.DateFormat)
	resp.Date = &formatted

	windows, err := s.windowRepo.ListActiveByProviderAndDay(ctx, req.ProviderID, domain.DayOfWeek(date))
	if err != nil {
		s.logger.Error("GetAvailability: failed to list windows for provider %d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetAvailability - list windows: %v", ErrInternal, err)
	}

	slots, err := generateSlots(windows, domain.SlotStepMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailability - generate slots: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.ListActiveByProviderAndDate(ctx, req.ProviderID, date)
	if err != nil {
		s.logger.Error("GetAvailability: failed to list bookings for provider %d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetAvailability - list bookings: %v", ErrInternal, err)
	}

	resp.Slots = models.FromDomainSlots(markBooked(slots, bookings, req.Mode))

	s.logger.Info("GetAvailability: provider %d has %d slots on %s", req.ProviderID, len(resp.Slots), formatted)
	return resp, nil
}

// ListWindows все окна провайдера, включая неактивные. Доступно владельцу и администратору.
func (s *Service) ListWindows(ctx context.Context, actor domain.Actor, providerID int64) (*models.WindowListResponse, error) {
	if err := s.authorize(ctx, "ListWindows", actor, providerID); err != nil {
		return nil, err
	}

	windows, err := s.windowRepo.ListByProvider(ctx, providerID, false)
	if err != nil {
		s.logger.Error("ListWindows: failed to list windows for provider %d: %v", providerID, err)
		return nil, fmt.Errorf("%w: ListWindows - repository: %v", ErrInternal, err)
	}

	return &models.WindowListResponse{Windows: models.FromDomainWindows(windows)}, nil
}

// CreateWindow создает окно. Активные окна одного дня не должны пересекаться.
func (s *Service) CreateWindow(ctx context.Context, req *models.CreateWindowRequest) (*models.WindowResponse, error) {
	s.logger.Info("CreateWindow: provider=%d, day=%d, %s-%s by user=%d",
		req.ProviderID, req.DayOfWeek, req.StartTime, req.EndTime, req.Actor.UserID)

	window, err := req.ToDomainWindow()
	if err != nil {
		s.logger.Warn("CreateWindow: validation failed: %v", err)
		return nil, err
	}

	if err := s.authorize(ctx, "CreateWindow", req.Actor, req.ProviderID); err != nil {
		return nil, err
	}

	var created *domain.AvailabilityWindow
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.ensureNoOverlap(txCtx, "CreateWindow", window); err != nil {
			return err
		}

		created, err = s.windowRepo.Create(txCtx, window)
		if err != nil {
			return fmt.Errorf("%w: CreateWindow - repository: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("CreateWindow", err)
	}

	s.logger.Info("CreateWindow: successfully created window id=%d", created.ID)
	return models.FromDomainWindow(created), nil
}

// UpdateWindow меняет день, границы или активность окна
func (s *Service) UpdateWindow(ctx context.Context, req *models.UpdateWindowRequest) (*models.WindowResponse, error) {
	s.logger.Info("UpdateWindow: window id=%d of provider=%d by user=%d", req.WindowID, req.ProviderID, req.Actor.UserID)

	if err := s.authorize(ctx, "UpdateWindow", req.Actor, req.ProviderID); err != nil {
		return nil, err
	}

	var updated *domain.AvailabilityWindow
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.getWindow(txCtx, "UpdateWindow", req.ProviderID, req.WindowID)
		if err != nil {
			return err
		}

		candidate := req.ApplyTo(*current)
		if err := candidate.Validate(); err != nil {
			return err
		}

		if err := s.ensureNoOverlap(txCtx, "UpdateWindow", candidate); err != nil {
			return err
		}

		if err := s.windowRepo.Update(txCtx, candidate); err != nil {
			return fmt.Errorf("%w: UpdateWindow - repository: %v", ErrInternal, err)
		}

		updated, err = s.getWindow(txCtx, "UpdateWindow", req.ProviderID, req.WindowID)
		return err
	})
	if err != nil {
		return nil, s.fail("UpdateWindow", err)
	}

	s.logger.Info("UpdateWindow: successfully updated window id=%d", updated.ID)
	return models.FromDomainWindow(updated), nil
}

// DeactivateWindow выключает окно. Существующие бронирования не затрагиваются.
// Повторный вызов ничего не меняет.
func (s *Service) DeactivateWindow(ctx context.Context, req *models.WindowRequest) (*models.WindowResponse, error) {
	inactive := false
	return s.UpdateWindow(ctx, &models.UpdateWindowRequest{
		Actor:      req.Actor,
		ProviderID: req.ProviderID,
		WindowID:   req.WindowID,
		IsActive:   &inactive,
	})
}

// DeleteWindow удаляет окно
func (s *Service) DeleteWindow(ctx context.Context, req *models.WindowRequest) error {
	s.logger.Info("DeleteWindow: window id=%d of provider=%d by user=%d", req.WindowID, req.ProviderID, req.Actor.UserID)

	if err := s.authorize(ctx, "DeleteWindow", req.Actor, req.ProviderID); err != nil {
		return err
	}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := s.getWindow(txCtx, "DeleteWindow", req.ProviderID, req.WindowID); err != nil {
			return err
		}
		if err := s.windowRepo.Delete(txCtx, req.WindowID); err != nil {
			if errors.Is(err, availabilityRepo.ErrWindowNotFound) {
				return ErrWindowNotFound
			}
			return fmt.Errorf("%w: DeleteWindow - repository: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return s.fail("DeleteWindow", err)
	}

	s.logger.Info("DeleteWindow: successfully deleted window id=%d", req.WindowID)
	return nil
}

// ensureNoOverlap блокирует провайдера и ищет пересечение с его активными окнами
func (s *Service) ensureNoOverlap(ctx context.Context, op string, candidate *domain.AvailabilityWindow) error {
	if _, err := s.catalogRepo.LockProvider(ctx, candidate.ProviderID); err != nil {
		return fmt.Errorf("%w: %s - lock provider: %v", ErrInternal, op, err)
	}

	existing, err := s.windowRepo.ListActiveByProviderAndDay(ctx, candidate.ProviderID, candidate.DayOfWeek)
	if err != nil {
		return fmt.Errorf("%w: %s - list windows: %v", ErrInternal, op, err)
	}

	if other := findOverlap(candidate, existing); other != nil {
		s.logger.Warn("%s: window %s-%s overlaps window id=%d %s-%s on day=%d",
			op, candidate.StartTime, candidate.EndTime, other.ID, other.StartTime, other.EndTime, other.DayOfWeek)
		return ErrWindowOverlap
	}
	return nil
}

// authorize управлять окнами может владелец провайдера или администратор
func (s *Service) authorize(ctx context.Context, op string, actor domain.Actor, providerID int64) error {
	provider, err := s.getProvider(ctx, op, providerID)
	if err != nil {
		return err
	}
	if actor.UserID != provider.UserID && !actor.IsAdmin() {
		s.logger.Warn("%s: user %d is not the owner of provider %d", op, actor.UserID, providerID)
		return domain.ErrAccessDenied
	}
	return nil
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

func (s *Service) getWindow(ctx context.Context, op string, providerID, windowID int64) (*domain.AvailabilityWindow, error) {
	window, err := s.windowRepo.GetByID(ctx, windowID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrWindowNotFound) {
			return nil, ErrWindowNotFound
		}
		return nil, fmt.Errorf("%w: %s - get window: %v", ErrInternal, op, err)
	}
	if window.ProviderID != providerID {
		s.logger.Warn("%s: window id=%d belongs to provider %d, not %d", op, windowID, window.ProviderID, providerID)
		return nil, ErrWindowNotFound
	}
	return window, nil
}

func (s *Service) fail(op string, err error) error {
	if errors.Is(err, ErrInternal) {
		s.logger.Error("%s: %v", op, err)
	} else {
		s.logger.Warn("%s: rejected: %v", op, err)
	}
	return err
}
