package manage_availability

import (
	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/availability/models"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

// CreateWindowRequest HTTP request model
type CreateWindowRequest struct {
	DayOfWeek *int   `json:"dayOfWeek" validate:"required,min=0,max=6"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateWindowRequest) ToServiceRequest(actor domain.Actor, providerID int64) (*models.CreateWindowRequest, error) {
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.CreateWindowRequest{
		Actor:      actor,
		ProviderID: providerID,
		DayOfWeek:  *r.DayOfWeek,
		StartTime:  start,
		EndTime:    end,
	}, nil
}

// UpdateWindowRequest HTTP request model, все поля опциональны
type UpdateWindowRequest struct {
	DayOfWeek *int    `json:"dayOfWeek,omitempty" validate:"omitempty,min=0,max=6"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateWindowRequest) ToServiceRequest(actor domain.Actor, providerID, windowID int64) (*models.UpdateWindowRequest, error) {
	req := &models.UpdateWindowRequest{
		Actor:      actor,
		ProviderID: providerID,
		WindowID:   windowID,
		DayOfWeek:  r.DayOfWeek,
		IsActive:   r.IsActive,
	}

	if r.StartTime != nil {
		start, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &start
	}
	if r.EndTime != nil {
		end, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &end
	}

	return req, nil
}
