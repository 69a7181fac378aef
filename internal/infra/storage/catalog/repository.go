package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RitualBookingService/pkg/psqlbuilder"
)

var providerColumns = []string{
	"id",
	"user_id",
	"display_name",
	"hourly_rate",
	"rating",
	"rating_sum",
	"rating_count",
	"total_bookings",
	"created_at",
	"updated_at",
}

var serviceColumns = []string{
	"id",
	"provider_id",
	"name",
	"base_price",
	"duration_minutes",
	"is_virtual",
	"is_active",
}

// Repository локальная копия каталога: провайдеры и их услуги.
// Счетчики провайдера меняются только атомарными UPDATE.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetProvider получает провайдера по ID
func (r *Repository) GetProvider(ctx context.Context, id int64) (*domain.Provider, error) {
	return r.getProvider(ctx, "GetProvider", squirrel.Eq{"id": id}, false)
}

// GetProviderByUserID получает провайдера, принадлежащего пользователю
func (r *Repository) GetProviderByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	return r.getProvider(ctx, "GetProviderByUserID", squirrel.Eq{"user_id": userID}, false)
}

// LockProvider получает провайдера с блокировкой строки до конца транзакции.
// Сериализует все записи расписания одного провайдера.
func (r *Repository) LockProvider(ctx context.Context, id int64) (*domain.Provider, error) {
	return r.getProvider(ctx, "LockProvider", squirrel.Eq{"id": id}, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getProvider(ctx context.Context, op string, where squirrel.Eq, forUpdate bool) (*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(providerColumns...).
		From("providers").
		Where(where)

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var p domain.Provider
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.UserID,
		&p.DisplayName,
		&p.HourlyRate,
		&p.Rating,
		&p.RatingSum,
		&p.RatingCount,
		&p.TotalBookings,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan provider: %v", ErrScanRow, op, err)
	}

	return &p, nil
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.ProviderID,
		&s.Name,
		&s.BasePrice,
		&s.DurationMinutes,
		&s.IsVirtual,
		&s.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return &s, nil
}

// IncrementTotalBookings атомарно увеличивает счетчик завершенных бронирований
func (r *Repository) IncrementTotalBookings(ctx context.Context, providerID int64) error {
	query, args, err := psqlbuilder.Update("providers").
		Set("total_bookings", squirrel.Expr("total_bookings + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": providerID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementTotalBookings - build update query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, "IncrementTotalBookings", query, args)
}

// ApplyRating учитывает новую оценку в текущей сумме и пересчитывает среднее одним UPDATE.
// Правая часть SET видит значения до обновления.
func (r *Repository) ApplyRating(ctx context.Context, providerID int64, rating int) error {
	query, args, err := psqlbuilder.Update("providers").
		Set("rating_sum", squirrel.Expr("rating_sum + ?", rating)).
		Set("rating_count", squirrel.Expr("rating_count + 1")).
		Set("rating", squirrel.Expr("(rating_sum + ?)::numeric / (rating_count + 1)", rating)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": providerID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ApplyRating - build update query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, "ApplyRating", query, args)
}

func (r *Repository) exec(ctx context.Context, op, query string, args []interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrProviderNotFound
	}

	return nil
}
