package models

import (
	"time"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

// Request модели

// CreateWindowRequest запрос на создание окна доступности
type CreateWindowRequest struct {
	Actor      domain.Actor
	ProviderID int64
	DayOfWeek  int              // 0 = воскресенье
	StartTime  types.TimeString // HH:MM, включительно
	EndTime    types.TimeString // HH:MM, не включительно
}

// ToDomainWindow конвертирует запрос в domain модель с проверкой инвариантов
func (r *CreateWindowRequest) ToDomainWindow() (*domain.AvailabilityWindow, error) {
	return domain.NewAvailabilityWindow(r.ProviderID, r.DayOfWeek, r.StartTime, r.EndTime)
}

// UpdateWindowRequest запрос на изменение окна. Пустые поля не меняются.
type UpdateWindowRequest struct {
	Actor      domain.Actor
	ProviderID int64
	WindowID   int64
	DayOfWeek  *int
	StartTime  *types.TimeString
	EndTime    *types.TimeString
	IsActive   *bool
}

// ApplyTo применяет изменения к копии окна
func (r *UpdateWindowRequest) ApplyTo(w domain.AvailabilityWindow) *domain.AvailabilityWindow {
	if r.DayOfWeek != nil {
		w.DayOfWeek = *r.DayOfWeek
	}
	if r.StartTime != nil {
		w.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		w.EndTime = *r.EndTime
	}
	if r.IsActive != nil {
		w.IsActive = *r.IsActive
	}
	return &w
}

// WindowRequest запрос, адресующий одно окно провайдера
type WindowRequest struct {
	Actor      domain.Actor
	ProviderID int64
	WindowID   int64
}

// GetAvailabilityRequest запрос публичной доступности провайдера
type GetAvailabilityRequest struct {
	ProviderID int64
	Date       *time.Time         // не задана - вернуть недельные окна
	Mode       domain.BookingMode // пустой - как online
}

// Response модели

// WindowResponse окно доступности
type WindowResponse struct {
	ID         int64     `json:"id"`
	ProviderID int64     `json:"providerId"`
	DayOfWeek  int       `json:"dayOfWeek"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// WindowListResponse список окон
type WindowListResponse struct {
	Windows []WindowResponse `json:"windows"`
}

// SlotResponse точка сетки на дату
type SlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// AvailabilityResponse доступность провайдера: слоты на дату или недельные окна
type AvailabilityResponse struct {
	ProviderID int64            `json:"providerId"`
	Date       *string          `json:"date,omitempty"`
	Slots      []SlotResponse   `json:"slots,omitempty"`
	Windows    []WindowResponse `json:"windows,omitempty"`
}

// Методы конвертации

// FromDomainWindow конвертирует domain модель в DTO
func FromDomainWindow(w *domain.AvailabilityWindow) *WindowResponse {
	if w == nil {
		return nil
	}
	return &WindowResponse{
		ID:         w.ID,
		ProviderID: w.ProviderID,
		DayOfWeek:  w.DayOfWeek,
		StartTime:  w.StartTime.String(),
		EndTime:    w.EndTime.String(),
		IsActive:   w.IsActive,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

// FromDomainWindows конвертирует список окон
func FromDomainWindows(windows []*domain.AvailabilityWindow) []WindowResponse {
	out := make([]WindowResponse, 0, len(windows))
	for _, w := range windows {
		out = append(out, *FromDomainWindow(w))
	}
	return out
}

// FromDomainSlots конвертирует сетку слотов
func FromDomainSlots(slots []domain.AvailabilitySlot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotResponse{Time: s.Time.String(), Available: s.Available})
	}
	return out
}
