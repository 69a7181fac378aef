package dispatch

import (
	"context"

	"github.com/shopspring/decimal"
)

// Notifier доставка уведомлений пользователям
type Notifier interface {
	Notify(ctx context.Context, userID int64, title, message string, bookingID int64) error
}

// EventPublisher публикация событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

// PaymentGateway внешний платежный шлюз
type PaymentGateway interface {
	CreateOrder(ctx context.Context, bookingID int64, amount decimal.Decimal, currency string) (string, error)
}

// PaymentRepository сохранение идентификатора заказа шлюза
type PaymentRepository interface {
	SetGatewayOrder(ctx context.Context, paymentID int64, orderID string) error
}

// Metrics счетчик проглоченных ошибок
type Metrics interface {
	IncSideEffectFailure(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
