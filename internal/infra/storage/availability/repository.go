package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TutorBooking/pkg/psqlbuilder"
)

const (
	tableName = "availability_slots"

	upsertSuffix = "ON CONFLICT (provider_id, week_number, slot_label) " +
		"DO UPDATE SET mode = EXCLUDED.mode, updated_at = EXCLUDED.updated_at"
)

// Repository репозиторий доступности слотов
// Каждый слот хранится отдельной строкой (provider_id, week_number, slot_label),
// поэтому изменение одного слота никогда не затирает соседние слоты той же недели.
type Repository struct {
	db       DBExecutor
	lockRows bool
}

// Option настройка репозитория
type Option func(*Repository)

// WithoutRowLocks отключает FOR SHARE / FOR UPDATE (SQLite их не поддерживает)
func WithoutRowLocks() Option {
	return func(r *Repository) {
		r.lockRows = false
	}
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor, opts ...Option) *Repository {
	r := &Repository{db: db, lockRows: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Upsert атомарно записывает режим одного слота
func (r *Repository) Upsert(ctx context.Context, entry domain.AvailabilityEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("provider_id", "week_number", "slot_label", "mode", "updated_at").
		Values(entry.ProviderID, int64(entry.Week), string(entry.SlotLabel), string(entry.Mode), entry.UpdatedAt).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// UpsertWeek записывает набор слотов недели одним запросом
// Слоты недели, которых нет в slots, не затрагиваются.
// Возвращает количество записанных слотов.
func (r *Repository) UpsertWeek(
	ctx context.Context,
	providerID uuid.UUID,
	week domain.Week,
	slots domain.WeekAvailability,
	updatedAt time.Time,
) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert(tableName).
		Columns("provider_id", "week_number", "slot_label", "mode", "updated_at")
	for _, label := range slots.Labels() {
		insert = insert.Values(providerID, int64(week), string(label), string(slots[label]), updatedAt)
	}

	query, args, err := insert.Suffix(upsertSuffix).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: UpsertWeek - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("%w: UpsertWeek - execute insert: %v", ErrExecQuery, err)
	}

	return len(slots), nil
}

// GetMode возвращает режим слота; отсутствующий слот считается недоступным
// Внутри транзакции строка блокируется FOR SHARE: изменение режима слота
// будет ждать завершения транзакции бронирования и наоборот.
func (r *Repository) GetMode(ctx context.Context, key domain.SlotKey) (domain.Mode, error) {
	return r.getMode(ctx, key, "FOR SHARE")
}

// GetModeForUpdate то же, что GetMode, но с эксклюзивной блокировкой строки (для переключения режима)
func (r *Repository) GetModeForUpdate(ctx context.Context, key domain.SlotKey) (domain.Mode, error) {
	return r.getMode(ctx, key, "FOR UPDATE")
}

func (r *Repository) getMode(ctx context.Context, key domain.SlotKey, lockClause string) (domain.Mode, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("mode").
		From(tableName).
		Where(squirrel.Eq{
			"provider_id": key.ProviderID,
			"week_number": int64(key.Week),
			"slot_label":  string(key.SlotLabel),
		})

	if r.lockRows && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix(lockClause)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: GetMode - build select query: %v", ErrBuildQuery, err)
	}

	var mode domain.Mode
	err = executor.QueryRowContext(ctx, query, args...).Scan(&mode)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ModeUnavailable, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: GetMode - scan mode: %v", ErrScanRow, err)
	}

	return mode, nil
}

// GetWeek возвращает все сохраненные слоты недели провайдера
func (r *Repository) GetWeek(ctx context.Context, providerID uuid.UUID, week domain.Week) (domain.WeekAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_label", "mode").
		From(tableName).
		Where(squirrel.Eq{
			"provider_id": providerID,
			"week_number": int64(week),
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeek - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeek - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(domain.WeekAvailability)
	for rows.Next() {
		var (
			label domain.SlotLabel
			mode  domain.Mode
		)
		if err := rows.Scan(&label, &mode); err != nil {
			return nil, fmt.Errorf("%w: GetWeek - scan slot: %v", ErrScanRow, err)
		}
		result[label] = mode
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeek - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// ListBookable возвращает слоты в режиме onsite/remote в диапазоне недель
// Используется для поиска свободных слотов по одному или всем провайдерам.
func (r *Repository) ListBookable(ctx context.Context, filter domain.OpenSlotsFilter) ([]domain.AvailabilityEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	bookable := make([]string, len(domain.BookableModes))
	for i, m := range domain.BookableModes {
		bookable[i] = string(m)
	}

	selectBuilder := psqlbuilder.Select("provider_id", "week_number", "slot_label", "mode", "updated_at").
		From(tableName).
		Where(squirrel.Eq{"mode": bookable}).
		Where(squirrel.GtOrEq{"week_number": int64(filter.FromWeek)}).
		Where(squirrel.LtOrEq{"week_number": int64(filter.ToWeek)}).
		OrderBy("week_number ASC", "provider_id ASC")

	if filter.ProviderID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"provider_id": *filter.ProviderID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookable - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookable - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.AvailabilityEntry, 0)
	for rows.Next() {
		var e domain.AvailabilityEntry
		if err := rows.Scan(&e.ProviderID, &e.Week, &e.SlotLabel, &e.Mode, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListBookable - scan slot: %v", ErrScanRow, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBookable - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
