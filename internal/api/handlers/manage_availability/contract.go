package manage_availability

import (
	"context"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/availability/models"
)

type AvailabilityService interface {
	ListWindows(ctx context.Context, actor domain.Actor, providerID int64) (*models.WindowListResponse, error)
	CreateWindow(ctx context.Context, req *models.CreateWindowRequest) (*models.WindowResponse, error)
	UpdateWindow(ctx context.Context, req *models.UpdateWindowRequest) (*models.WindowResponse, error)
	DeactivateWindow(ctx context.Context, req *models.WindowRequest) (*models.WindowResponse, error)
	DeleteWindow(ctx context.Context, req *models.WindowRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
