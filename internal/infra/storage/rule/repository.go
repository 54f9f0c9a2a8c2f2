package rule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/pgerr"
	"github.com/m04kA/SMC-SalonScheduler/pkg/psqlbuilder"
)

const (
	table = "operating_rules"

	upsertUpdate = "DO UPDATE SET open_time = EXCLUDED.open_time, " +
		"close_time = EXCLUDED.close_time, " +
		"slot_length_minutes = EXCLUDED.slot_length_minutes, " +
		"updated_at = NOW() " +
		"RETURNING id, created_at, updated_at"

	fixedConflict     = "ON CONFLICT (salon_id, weekday) WHERE kind = 'fixed' "
	irregularConflict = "ON CONFLICT (salon_id, rule_date) WHERE kind = 'irregular' "
)

var columns = []string{
	"id",
	"salon_id",
	"kind",
	"weekday",
	"rule_date",
	"open_time",
	"close_time",
	"slot_length_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий правил работы салонов (постоянных по дням недели и разовых по датам)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает правило или заменяет существующее для того же (салон, область действия)
// Уже сгенерированные слоты не затрагиваются
func (r *Repository) Upsert(ctx context.Context, rule *domain.OperatingRule) (*domain.OperatingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var (
		weekday  interface{}
		ruleDate interface{}
		conflict string
	)

	switch rule.Scope.Kind {
	case domain.RuleKindFixed:
		weekday = int16(rule.Scope.Weekday)
		conflict = fixedConflict
	case domain.RuleKindIrregular:
		ruleDate = domain.DateOf(rule.Scope.Date)
		conflict = irregularConflict
	default:
		return nil, fmt.Errorf("%w: Upsert - unknown rule kind %q", ErrBuildQuery, rule.Scope.Kind)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"salon_id",
			"kind",
			"weekday",
			"rule_date",
			"open_time",
			"close_time",
			"slot_length_minutes",
		).
		Values(
			rule.SalonID,
			string(rule.Scope.Kind),
			weekday,
			ruleDate,
			rule.OpenTime,
			rule.CloseTime,
			rule.SlotLengthMinutes,
		).
		Suffix(conflict + upsertUpdate).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pgerr.IsCheckViolation(pqErr) {
			return nil, fmt.Errorf("%w: Upsert - %s", ErrConstraintViolation, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// GetByScope получает правило салона для конкретной области действия
func (r *Repository) GetByScope(ctx context.Context, salonID int64, scope domain.RuleScope) (*domain.OperatingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"salon_id": salonID, "kind": string(scope.Kind)})

	if scope.Kind == domain.RuleKindFixed {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"weekday": int16(scope.Weekday)})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"rule_date": domain.DateOf(scope.Date)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByScope - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByScope - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// ListForDate получает правила салона, которые могут действовать в указанную дату:
// постоянное правило для дня недели и разовое правило на эту дату
// Выбор действующего правила делает domain.EffectiveRule
func (r *Repository) ListForDate(ctx context.Context, salonID int64, date time.Time) ([]domain.OperatingRule, error) {
	return r.list(ctx, "ListForDate", squirrel.And{
		squirrel.Eq{"salon_id": salonID},
		squirrel.Or{
			squirrel.Eq{"kind": string(domain.RuleKindFixed), "weekday": int16(date.Weekday())},
			squirrel.Eq{"kind": string(domain.RuleKindIrregular), "rule_date": domain.DateOf(date)},
		},
	})
}

// ListBySalon получает все правила салона
// Постоянные правила идут первыми (по дню недели), затем разовые по дате
func (r *Repository) ListBySalon(ctx context.Context, salonID int64) ([]domain.OperatingRule, error) {
	return r.list(ctx, "ListBySalon", squirrel.Eq{"salon_id": salonID})
}

// ListSalonIDs возвращает ID всех салонов, у которых есть хотя бы одно правило
func (r *Repository) ListSalonIDs(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT salon_id").
		From(table).
		OrderBy("salon_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSalonIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSalonIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	salonIDs := make([]int64, 0)
	for rows.Next() {
		var salonID int64
		if err := rows.Scan(&salonID); err != nil {
			return nil, fmt.Errorf("%w: ListSalonIDs - scan salon_id: %v", ErrScanRow, err)
		}
		salonIDs = append(salonIDs, salonID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSalonIDs - rows error: %v", ErrScanRow, err)
	}

	return salonIDs, nil
}

// Delete удаляет правило салона, сгенерированные слоты остаются
func (r *Repository) Delete(ctx context.Context, salonID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id, "salon_id": salonID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, method string, where squirrel.Sqlizer) ([]domain.OperatingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		OrderBy("kind ASC", "weekday ASC NULLS LAST", "rule_date ASC NULLS LAST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	rules := make([]domain.OperatingRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		rules = append(rules, *rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return rules, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row scanner) (*domain.OperatingRule, error) {
	var (
		rule                 domain.OperatingRule
		kind                 string
		weekday              sql.NullInt16
		ruleDate             sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&rule.ID,
		&rule.SalonID,
		&kind,
		&weekday,
		&ruleDate,
		&rule.OpenTime,
		&rule.CloseTime,
		&rule.SlotLengthMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	switch domain.RuleKind(kind) {
	case domain.RuleKindFixed:
		rule.Scope = domain.FixedScope(time.Weekday(weekday.Int16))
	default:
		rule.Scope = domain.IrregularScope(ruleDate.Time)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}
