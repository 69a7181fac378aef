package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RitualBookingService/internal/domain"
	"github.com/m04kA/SMC-RitualBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RitualBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-RitualBookingService/pkg/types"
)

var columns = []string{
	"id",
	"requester_id",
	"provider_id",
	"service_id",
	"booking_date",
	"booking_time",
	"timezone",
	"mode",
	"address_id",
	"status",
	"duration_minutes",
	"total_amount",
	"payment_status",
	"meeting_link",
	"meeting_password",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"reschedule_reason",
	"completed_at",
	"rating",
	"review",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её.
// Нарушение bookings_active_slot_uidx возвращается как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"requester_id",
			"provider_id",
			"service_id",
			"booking_date",
			"booking_time",
			"timezone",
			"mode",
			"address_id",
			"status",
			"duration_minutes",
			"total_amount",
			"payment_status",
			"notes",
		).
		Values(
			booking.RequesterID,
			booking.ProviderID,
			booking.ServiceID,
			booking.BookingDate,
			booking.BookingTime,
			booking.Timezone,
			booking.Mode,
			booking.AddressID,
			booking.Status,
			booking.DurationMinutes,
			booking.TotalAmount,
			booking.PaymentStatus,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if isSlotConflict(err) {
		return nil, ErrSlotTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE) до фиксации перехода.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListActiveByProviderAndDate активные (pending, confirmed, in_progress) бронирования провайдера на дату
func (r *Repository) ListActiveByProviderAndDate(ctx context.Context, providerID int64, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{
			"provider_id":  providerID,
			"booking_date": domain.DateOnly(date),
			"status":       statusStrings(domain.ActiveStatuses),
		}).
		OrderBy("booking_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByProviderAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByProviderAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListByRequester история бронирований заказчика, опционально по статусу
func (r *Repository) ListByRequester(ctx context.Context, requesterID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"requester_id": requesterID}).
		OrderBy("booking_date DESC", "booking_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRequester - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRequester - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListByProvider бронирования провайдера с фильтрацией по периоду и статусу.
// Без Status и IncludeInactive возвращаются только активные бронирования.
func (r *Repository) ListByProvider(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"provider_id": filter.ProviderID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": domain.DateOnly(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": domain.DateOnly(*filter.EndDate)})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	// Для одной даты - по времени, для периода - сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("booking_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC", "booking_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus меняет статус (confirm)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.update(ctx, "UpdateStatus", id, map[string]interface{}{
		"status": status,
	})
}

// Start переводит бронирование в in_progress и сохраняет данные видеовстречи
func (r *Repository) Start(ctx context.Context, id int64, meetingLink, meetingPassword *string) error {
	return r.update(ctx, "Start", id, map[string]interface{}{
		"status":           domain.StatusInProgress,
		"meeting_link":     meetingLink,
		"meeting_password": meetingPassword,
	})
}

// Complete завершает бронирование
func (r *Repository) Complete(ctx context.Context, id int64, completedAt time.Time) error {
	return r.update(ctx, "Complete", id, map[string]interface{}{
		"status":       domain.StatusCompleted,
		"completed_at": completedAt,
	})
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error {
	return r.update(ctx, "Cancel", id, map[string]interface{}{
		"status":              domain.StatusCancelled,
		"cancellation_reason": reason,
		"cancelled_at":        cancelledAt,
	})
}

// Reschedule переносит бронирование и возвращает его в pending.
// Цена и длительность остаются снимком момента создания.
func (r *Repository) Reschedule(ctx context.Context, id int64, date time.Time, t types.TimeString, timezone string, reason *string) error {
	return r.update(ctx, "Reschedule", id, map[string]interface{}{
		"booking_date":      domain.DateOnly(date),
		"booking_time":      t,
		"timezone":          timezone,
		"status":            domain.StatusPending,
		"reschedule_reason": reason,
	})
}

// AttachReview денормализует отзыв на бронирование
func (r *Repository) AttachReview(ctx context.Context, id int64, rating int, review *string) error {
	return r.update(ctx, "AttachReview", id, map[string]interface{}{
		"rating": rating,
		"review": review,
	})
}

func (r *Repository) update(ctx context.Context, op string, id int64, values map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		SetMap(values).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if isSlotConflict(err) {
		return ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking

	err := row.Scan(
		&booking.ID,
		&booking.RequesterID,
		&booking.ProviderID,
		&booking.ServiceID,
		&booking.BookingDate,
		&booking.BookingTime,
		&booking.Timezone,
		&booking.Mode,
		&booking.AddressID,
		&booking.Status,
		&booking.DurationMinutes,
		&booking.TotalAmount,
		&booking.PaymentStatus,
		&booking.MeetingLink,
		&booking.MeetingPassword,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.RescheduleReason,
		&booking.CompletedAt,
		&booking.Rating,
		&booking.Review,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
