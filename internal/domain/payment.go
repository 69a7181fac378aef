package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment запись о платеже по бронированию. Проведение платежа - забота платежного шлюза.
type Payment struct {
	ID             int64
	BookingID      int64
	Amount         decimal.Decimal
	Currency       string
	Status         PaymentStatus
	GatewayOrderID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
