package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/pgerr"
	"github.com/m04kA/SMC-SalonScheduler/pkg/psqlbuilder"
)

const table = "slots"

var columns = []string{
	"id",
	"salon_id",
	"slot_date",
	"time_from",
	"time_to",
	"is_available",
	"appointment_id",
	"created_at",
}

// Repository хранилище слотов, единственный источник правды о занятости
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch вставляет слоты одним запросом
// Слоты с уже существующими границами (salon_id, slot_date, time_from, time_to) пропускаются,
// поэтому повторная генерация не создает дубликатов и не падает
// Возвращает количество реально вставленных строк
func (r *Repository) CreateBatch(ctx context.Context, slots []domain.Slot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(table).
		Columns("salon_id", "slot_date", "time_from", "time_to", "is_available")

	for _, s := range slots {
		insertBuilder = insertBuilder.Values(s.SalonID, s.Date, s.TimeFrom, s.TimeTo, true)
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (salon_id, slot_date, time_from, time_to) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CreateBatch - get rows affected: %v", ErrExecQuery, err)
	}

	return inserted, nil
}

// GetByIDs получает слоты по списку ID, отсутствующие ID просто не попадают в результат
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Slot, error) {
	if len(ids) == 0 {
		return []domain.Slot{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": ids}).
		OrderBy("slot_date ASC", "time_from ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetBySalonAndDate получает все слоты салона на дату, упорядоченные по времени
func (r *Repository) GetBySalonAndDate(ctx context.Context, salonID int64, date time.Time) ([]domain.Slot, error) {
	day := domain.DateOf(date)
	return r.List(ctx, domain.SlotFilter{SalonID: salonID, DateFrom: &day, DateTo: &day})
}

// List получает слоты салона с фильтрацией, сортировка (slot_date, time_from)
func (r *Repository) List(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"salon_id": filter.SalonID})

	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"slot_date": domain.DateOf(*filter.DateFrom)})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"slot_date": domain.DateOf(*filter.DateTo)})
	}
	if filter.AvailableOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_available": true})
	}

	query, args, err := selectBuilder.
		OrderBy("slot_date ASC", "time_from ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// Reserve помечает слоты занятыми условным UPDATE ... WHERE is_available = true
// Возвращает количество реально занятых строк. Если оно меньше len(slotIDs),
// часть слотов уже заняли, и вызывающий обязан откатить транзакцию
func (r *Repository) Reserve(ctx context.Context, salonID, appointmentID int64, slotIDs []int64) (int64, error) {
	if len(slotIDs) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("is_available", false).
		Set("appointment_id", appointmentID).
		Where(squirrel.Eq{
			"id":           slotIDs,
			"salon_id":     salonID,
			"is_available": true,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: Reserve - execute update: %v", execError(err), err)
	}

	reserved, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: Reserve - get rows affected: %v", ErrExecQuery, err)
	}

	return reserved, nil
}

// ReleaseByAppointment освобождает все слоты, принадлежащие записи
func (r *Repository) ReleaseByAppointment(ctx context.Context, appointmentID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("is_available", true).
		Set("appointment_id", nil).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByAppointment - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByAppointment - execute update: %v", execError(err), err)
	}

	released, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByAppointment - get rows affected: %v", ErrExecQuery, err)
	}

	return released, nil
}

// LockSalonDate берет транзакционную advisory-блокировку на (салон, дата)
// Генерация и бронирование одной даты салона сериализуются через эту блокировку
// Блокировка снимается при commit/rollback
func (r *Repository) LockSalonDate(ctx context.Context, salonID int64, date time.Time) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}

	key := fmt.Sprintf("slots:%d:%s", salonID, date.Format(domain.DateFormat))

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
		return fmt.Errorf("%w: LockSalonDate - acquire lock %s: %v", execError(err), key, err)
	}

	return nil
}

// execError выбирает sentinel для ошибки выполнения запроса
func execError(err error) error {
	if pgerr.IsSerializationFailure(err) {
		return ErrSerializationFailure
	}
	return ErrExecQuery
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]domain.Slot, error) {
	slots := make([]domain.Slot, 0)

	for rows.Next() {
		var (
			s             domain.Slot
			appointmentID sql.NullInt64
			createdAt     sql.NullTime
		)

		err := rows.Scan(
			&s.ID,
			&s.SalonID,
			&s.Date,
			&s.TimeFrom,
			&s.TimeTo,
			&s.IsAvailable,
			&appointmentID,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}

		if appointmentID.Valid {
			id := appointmentID.Int64
			s.AppointmentID = &id
		}
		s.Date = domain.DateOf(s.Date)
		s.CreatedAt = createdAt.Time

		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
