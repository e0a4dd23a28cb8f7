package booking

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

	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
)

// VerifyFunc inspects the bookings that are active on the new booking's day,
// read under the day lock, and aborts the insert by returning an error.
type VerifyFunc func(active []availability.Occupancy) error

type Repository interface {
	// Create inserts b while holding a lock on the barber's day, so concurrent
	// creates for the same barber and date run one after another.
	Create(ctx context.Context, b *Booking, verify VerifyFunc) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, b *Booking) error

	// ActiveBookings lists the pending and confirmed bookings of a barber on a date.
	ActiveBookings(ctx context.Context, barberID string, date time.Time) ([]availability.Occupancy, error)
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
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

func activeStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}

func (r *pgxRepository) selectBookings() squirrel.SelectBuilder {
	return r.psql.Select(
		"b.id", "b.barber_id", "br.display_name", "b.user_id",
		"b.offering_id", "o.name", "o.duration_minutes",
		"b.booking_date", "b.start_time", "b.status", "b.notes", "b.created_at", "b.updated_at",
	).
		From("public.bookings b").
		Join("public.barbers br ON b.barber_id = br.id").
		Join("public.offerings o ON b.offering_id = o.id")
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := append([]any{
		&b.ID, &b.BarberID, &b.BarberName, &b.UserID,
		&b.OfferingID, &b.OfferingName, &b.DurationMinutes,
		&b.Date, &b.StartTime, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking, verify VerifyFunc) error {
	query, args, err := r.psql.Insert("public.bookings").
		Columns("barber_id", "user_id", "offering_id", "booking_date", "start_time", "status", "notes").
		Values(b.BarberID, b.UserID, b.OfferingID, b.Date, b.StartTime, b.Status, b.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Released on commit or rollback.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", dayLockKey(b.BarberID, b.Date)); err != nil {
		return fmt.Errorf("lock barber day failed: %w", err)
	}

	if verify != nil {
		active, err := r.activeBookings(ctx, tx, b.BarberID, b.Date)
		if err != nil {
			return err
		}
		if err := verify(active); err != nil {
			return err
		}
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrTimeConflict
		}
		return fmt.Errorf("create booking failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create booking failed: %w", err)
	}
	return nil
}

func dayLockKey(barberID string, date time.Time) string {
	return "booking:" + barberID + ":" + date.Format(availability.DateLayout)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := r.selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := r.selectBookings().Column("count(*) OVER() AS total_count")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.BarberID != "" {
		query = query.Where(squirrel.Eq{"b.barber_id": filter.BarberID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if !filter.From.IsZero() {
		query = query.Where(squirrel.GtOrEq{"b.booking_date": filter.From})
	}
	if !filter.To.IsZero() {
		query = query.Where(squirrel.LtOrEq{"b.booking_date": filter.To})
	}

	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy("b.booking_date "+orderDir, "b.created_at "+orderDir)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64((filter.Page - 1) * filter.PageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, b *Booking) error {
	query, args, err := r.psql.Update("public.bookings").
		Set("status", b.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update booking status failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ActiveBookings(ctx context.Context, barberID string, date time.Time) ([]availability.Occupancy, error) {
	return r.activeBookings(ctx, r.pool, barberID, date)
}

func (r *pgxRepository) activeBookings(ctx context.Context, q querier, barberID string, date time.Time) ([]availability.Occupancy, error) {
	query, args, err := r.psql.Select("b.id", "b.start_time", "o.duration_minutes").
		From("public.bookings b").
		Join("public.offerings o ON b.offering_id = o.id").
		Where(squirrel.Eq{
			"b.barber_id":    barberID,
			"b.booking_date": date,
			"b.status":       activeStatuses(),
		}).
		OrderBy("b.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active bookings query failed: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active bookings failed: %w", err)
	}
	defer rows.Close()

	var occupied []availability.Occupancy
	for rows.Next() {
		var o availability.Occupancy
		if err := rows.Scan(&o.BookingID, &o.StartTime, &o.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scan active booking failed: %w", err)
		}
		occupied = append(occupied, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active bookings failed: %w", err)
	}
	return occupied, nil
}
