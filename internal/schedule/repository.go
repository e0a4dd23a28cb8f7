package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	ListWeek(ctx context.Context, barberID string) ([]*WeeklySchedule, error)
	GetDay(ctx context.Context, barberID string, day time.Weekday) (*WeeklySchedule, error)
	UpsertDay(ctx context.Context, ws *WeeklySchedule) error

	ListDaysOff(ctx context.Context, barberID string, filter DayOffFilter) ([]*DayOff, error)
	CreateDayOff(ctx context.Context, d *DayOff) error
	DeleteDayOff(ctx context.Context, barberID string, date time.Time) error
	HasDayOff(ctx context.Context, barberID string, date time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
	psql squirrel.StatementBuilderType
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{
		pool: pool,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var weeklyColumns = []string{"barber_id", "day_of_week", "start_time", "end_time", "available", "updated_at"}

func scanWeekly(row pgx.Row) (*WeeklySchedule, error) {
	var ws WeeklySchedule
	var day int16
	if err := row.Scan(&ws.BarberID, &day, &ws.StartTime, &ws.EndTime, &ws.Available, &ws.UpdatedAt); err != nil {
		return nil, err
	}
	ws.DayOfWeek = time.Weekday(day)
	return &ws, nil
}

func (r *pgxRepository) ListWeek(ctx context.Context, barberID string) ([]*WeeklySchedule, error) {
	query, args, err := r.psql.Select(weeklyColumns...).
		From("public.weekly_schedules").
		Where(squirrel.Eq{"barber_id": barberID}).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list week query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list week failed: %w", err)
	}
	defer rows.Close()

	var week []*WeeklySchedule
	for rows.Next() {
		ws, err := scanWeekly(rows)
		if err != nil {
			return nil, fmt.Errorf("scan weekly schedule failed: %w", err)
		}
		week = append(week, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly schedules failed: %w", err)
	}
	return week, nil
}

func (r *pgxRepository) GetDay(ctx context.Context, barberID string, day time.Weekday) (*WeeklySchedule, error) {
	query, args, err := r.psql.Select(weeklyColumns...).
		From("public.weekly_schedules").
		Where(squirrel.Eq{"barber_id": barberID, "day_of_week": int16(day)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get day query failed: %w", err)
	}

	ws, err := scanWeekly(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get day failed: %w", err)
	}
	return ws, nil
}

func (r *pgxRepository) UpsertDay(ctx context.Context, ws *WeeklySchedule) error {
	query, args, err := r.psql.Insert("public.weekly_schedules").
		Columns("barber_id", "day_of_week", "start_time", "end_time", "available").
		Values(ws.BarberID, int16(ws.DayOfWeek), ws.StartTime, ws.EndTime, ws.Available).
		Suffix(`ON CONFLICT (barber_id, day_of_week) DO UPDATE
			SET start_time = EXCLUDED.start_time,
				end_time = EXCLUDED.end_time,
				available = EXCLUDED.available,
				updated_at = now()
			RETURNING updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert day query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&ws.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrUnknownBarber
		}
		return fmt.Errorf("upsert day failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListDaysOff(ctx context.Context, barberID string, filter DayOffFilter) ([]*DayOff, error) {
	query := r.psql.Select("id", "barber_id", "day", "reason", "created_at").
		From("public.days_off").
		Where(squirrel.Eq{"barber_id": barberID})
	if !filter.From.IsZero() {
		query = query.Where(squirrel.GtOrEq{"day": filter.From})
	}
	if !filter.To.IsZero() {
		query = query.Where(squirrel.LtOrEq{"day": filter.To})
	}

	sql, args, err := query.OrderBy("day ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list days off query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list days off failed: %w", err)
	}
	defer rows.Close()

	var days []*DayOff
	for rows.Next() {
		var d DayOff
		if err := rows.Scan(&d.ID, &d.BarberID, &d.Date, &d.Reason, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan day off failed: %w", err)
		}
		days = append(days, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate days off failed: %w", err)
	}
	return days, nil
}

func (r *pgxRepository) CreateDayOff(ctx context.Context, d *DayOff) error {
	query, args, err := r.psql.Insert("public.days_off").
		Columns("barber_id", "day", "reason").
		Values(d.BarberID, d.Date, d.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create day off query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&d.ID, &d.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return ErrDayOffExists
			case pgerrcode.ForeignKeyViolation:
				return ErrUnknownBarber
			}
		}
		return fmt.Errorf("create day off failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) DeleteDayOff(ctx context.Context, barberID string, date time.Time) error {
	query, args, err := r.psql.Delete("public.days_off").
		Where(squirrel.Eq{"barber_id": barberID, "day": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete day off query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete day off failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrDayOffNotFound
	}
	return nil
}

func (r *pgxRepository) HasDayOff(ctx context.Context, barberID string, date time.Time) (bool, error) {
	query, args, err := r.psql.Select("1").
		From("public.days_off").
		Where(squirrel.Eq{"barber_id": barberID, "day": date}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build has day off query failed: %w", err)
	}

	var one int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("has day off failed: %w", err)
	}
	return true, nil
}
