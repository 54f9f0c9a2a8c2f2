package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/psqlbuilder"
)

const (
	table         = "appointments"
	servicesTable = "appointment_services"
	slotsTable    = "appointment_slots"

	defaultListLimit = 100
)

var columns = []string{
	"id",
	"salon_id",
	"customer",
	"comment",
	"status",
	"total_amount",
	"appointment_date",
	"time_from",
	"time_to",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись (без услуг и слотов, см. LinkServices и LinkSlots)
// Вызывается внутри транзакции бронирования
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"salon_id",
			"customer",
			"comment",
			"status",
			"total_amount",
			"appointment_date",
			"time_from",
			"time_to",
		).
		Values(
			a.SalonID,
			a.Customer,
			a.Comment,
			string(a.Status),
			a.TotalAmount,
			domain.DateOf(a.Date),
			a.TimeFrom,
			a.TimeTo,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// LinkServices сохраняет снимок услуг записи в порядке запроса
func (r *Repository) LinkServices(ctx context.Context, appointmentID int64, services []domain.AppointmentService) error {
	if len(services) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(servicesTable).
		Columns("appointment_id", "position", "service_id", "title", "price", "duration_minutes")
	for i, s := range services {
		insertBuilder = insertBuilder.Values(appointmentID, i, s.ServiceID, s.Title, s.Price, s.DurationMinutes)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: LinkServices - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LinkServices - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// LinkSlots сохраняет связь записи со слотами
// Связь остается после отмены записи как история
func (r *Repository) LinkSlots(ctx context.Context, appointmentID int64, slotIDs []int64) error {
	if len(slotIDs) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(slotsTable).Columns("appointment_id", "slot_id")
	for _, slotID := range slotIDs {
		insertBuilder = insertBuilder.Values(appointmentID, slotID)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: LinkSlots - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LinkSlots - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает запись вместе с услугами и слотами
// Внутри транзакции строка записи блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	appointments := []*domain.Appointment{a}
	if err := r.attachDetails(ctx, appointments); err != nil {
		return nil, err
	}

	return a, nil
}

// List получает записи с фильтрацией, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(table)

	if filter.SalonID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"salon_id": *filter.SalonID})
	}
	if filter.Customer != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer": *filter.Customer})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": domain.DateOf(*filter.DateFrom)})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": domain.DateOf(*filter.DateTo)})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query, args, err := selectBuilder.
		OrderBy("appointment_date DESC", "time_from DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(max(filter.Offset, 0))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	if err := r.attachDetails(ctx, appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// UpdateStatus меняет статус, только если текущий статус входит в from
// Возвращает ErrStatusConflict, если ни одна строка не обновлена
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from []domain.AppointmentStatus, to domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	fromStrings := make([]string, len(from))
	for i, s := range from {
		fromStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": fromStrings}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// attachDetails подгружает услуги и слоты для списка записей двумя запросами
func (r *Repository) attachDetails(ctx context.Context, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	ids := make([]int64, len(appointments))
	byID := make(map[int64]*domain.Appointment, len(appointments))
	for i, a := range appointments {
		ids[i] = a.ID
		byID[a.ID] = a
		a.Services = make([]domain.AppointmentService, 0)
		a.Slots = make([]domain.Slot, 0)
	}

	if err := r.loadServices(ctx, ids, byID); err != nil {
		return err
	}
	return r.loadSlots(ctx, ids, byID)
}

func (r *Repository) loadServices(ctx context.Context, ids []int64, byID map[int64]*domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("appointment_id", "service_id", "title", "price", "duration_minutes").
		From(servicesTable).
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id ASC", "position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			appointmentID int64
			s             domain.AppointmentService
		)
		if err := rows.Scan(&appointmentID, &s.ServiceID, &s.Title, &s.Price, &s.DurationMinutes); err != nil {
			return fmt.Errorf("%w: loadServices - scan row: %v", ErrScanRow, err)
		}
		if a, ok := byID[appointmentID]; ok {
			a.Services = append(a.Services, s)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadServices - rows error: %v", ErrScanRow, err)
	}

	return nil
}

func (r *Repository) loadSlots(ctx context.Context, ids []int64, byID map[int64]*domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"aps.appointment_id",
		"s.id",
		"s.salon_id",
		"s.slot_date",
		"s.time_from",
		"s.time_to",
		"s.is_available",
		"s.appointment_id",
		"s.created_at",
	).
		From(slotsTable + " aps").
		Join("slots s ON s.id = aps.slot_id").
		Where(squirrel.Eq{"aps.appointment_id": ids}).
		OrderBy("aps.appointment_id ASC", "s.slot_date ASC", "s.time_from ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			appointmentID int64
			s             domain.Slot
			owner         sql.NullInt64
			createdAt     sql.NullTime
		)
		err := rows.Scan(
			&appointmentID,
			&s.ID,
			&s.SalonID,
			&s.Date,
			&s.TimeFrom,
			&s.TimeTo,
			&s.IsAvailable,
			&owner,
			&createdAt,
		)
		if err != nil {
			return fmt.Errorf("%w: loadSlots - scan row: %v", ErrScanRow, err)
		}

		if owner.Valid {
			id := owner.Int64
			s.AppointmentID = &id
		}
		s.Date = domain.DateOf(s.Date)
		s.CreatedAt = createdAt.Time

		if a, ok := byID[appointmentID]; ok {
			a.Slots = append(a.Slots, s)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadSlots - rows error: %v", ErrScanRow, err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row scanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		status               string
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.SalonID,
		&a.Customer,
		&a.Comment,
		&status,
		&a.TotalAmount,
		&a.Date,
		&a.TimeFrom,
		&a.TimeTo,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Status = domain.AppointmentStatus(status)
	a.Date = domain.DateOf(a.Date)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}
