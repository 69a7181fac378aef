package list_reviews

import (
	"context"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
)

// ReviewRepository интерфейс репозитория отзывов
type ReviewRepository interface {
	ListByProvider(ctx context.Context, providerID int64) ([]*domain.Review, error)
}

// CatalogRepository интерфейс каталога провайдеров
type CatalogRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
