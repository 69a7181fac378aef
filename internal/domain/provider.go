package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provider специалист, оказывающий услуги. Принадлежит пользователю UserID.
type Provider struct {
	ID            int64
	UserID        int64
	DisplayName   string
	HourlyRate    decimal.Decimal
	Rating        float64
	RatingSum     int64
	RatingCount   int64
	TotalBookings int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Service услуга провайдера
type Service struct {
	ID              int64
	ProviderID      int64
	Name            string
	BasePrice       decimal.Decimal
	DurationMinutes int
	IsVirtual       bool
	IsActive        bool
}
