package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TutorBooking/pkg/psqlbuilder"
)

const (
	tableName = "bookings"

	// код PostgreSQL unique_violation
	pqUniqueViolation = "23505"
)

var bookingColumns = []string{
	"id",
	"provider_id",
	"claimant_id",
	"week_number",
	"slot_label",
	"mode",
	"status",
	"created_at",
	"updated_at",
	"cancelled_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create атомарно создает активное бронирование, если на слот еще нет активного.
//
// Гарантия "не более одного активного бронирования на слот" обеспечивается частичным
// уникальным индексом bookings_live_slot_uidx: INSERT ... ON CONFLICT DO NOTHING
// вставляет строку только если конкурентов нет. Если строка не вставлена, возвращает ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"id",
			"provider_id",
			"claimant_id",
			"week_number",
			"slot_label",
			"mode",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			booking.ID,
			booking.ProviderID,
			booking.ClaimantID,
			int64(booking.Week),
			string(booking.SlotLabel),
			string(booking.Mode),
			string(booking.Status),
			booking.CreatedAt,
			booking.UpdatedAt,
		).
		Suffix("ON CONFLICT DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var id uuid.UUID
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotTaken
	}
	if isUniqueViolation(err) {
		return nil, ErrSlotTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.ID = id
	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
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

// GetActiveBySlot получает активное бронирование слота
func (r *Repository) GetActiveBySlot(ctx context.Context, key domain.SlotKey) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(tableName).
		Where(squirrel.Eq{
			"provider_id": key.ProviderID,
			"week_number": int64(key.Week),
			"slot_label":  string(key.SlotLabel),
			"status":      string(domain.StatusActive),
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlot - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования с фильтрацией по провайдеру, студенту и диапазону недель
// По умолчанию возвращает только активные бронирования.
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableName).
		OrderBy("week_number ASC", "created_at ASC")

	if filter.ProviderID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"provider_id": *filter.ProviderID})
	}
	if filter.ClaimantID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"claimant_id": *filter.ClaimantID})
	}
	if filter.FromWeek != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"week_number": int64(*filter.FromWeek)})
	}
	if filter.ToWeek != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"week_number": int64(*filter.ToWeek)})
	}
	if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(domain.StatusActive)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// Cancel переводит активное бронирование в статус отмены
// Возвращает false, если бронирование уже не активно (отменено ранее или конкурентно).
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, status domain.BookingStatus, at time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", string(status)).
		Set("cancelled_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{
			"id":     id,
			"status": string(domain.StatusActive),
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b           domain.Booking
		cancelledAt sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.ProviderID,
		&b.ClaimantID,
		&b.Week,
		&b.SlotLabel,
		&b.Mode,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}

	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
