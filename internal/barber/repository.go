package barber

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
)

type Repository interface {
	Create(ctx context.Context, b *Barber) error
	GetByID(ctx context.Context, id string) (*Barber, error)
	List(ctx context.Context, filter Filter) ([]*Barber, int, error)
	Update(ctx context.Context, b *Barber) error
	Delete(ctx context.Context, id string) error
	// SchedulingSettings returns the overrides of the barber's shop.
	SchedulingSettings(ctx context.Context, barberID string) (*availability.Settings, error)
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

var barberColumns = []string{"id", "shop_id", "user_id", "display_name", "bio", "is_active", "created_at"}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return ErrUserAlreadyLinked
	case pgerrcode.ForeignKeyViolation:
		if pgErr.ConstraintName == "barbers_user_id_fkey" {
			return ErrInvalidUser
		}
		return ErrInvalidShop
	}
	return nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Barber) error {
	query, args, err := r.psql.Insert("public.barbers").
		Columns("shop_id", "user_id", "display_name", "bio", "is_active").
		Values(b.ShopID, b.UserID, b.DisplayName, b.Bio, b.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create barber query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("create barber failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Barber, error) {
	query, args, err := r.psql.Select(barberColumns...).
		From("public.barbers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get barber query failed: %w", err)
	}

	var b Barber
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.ShopID, &b.UserID, &b.DisplayName, &b.Bio, &b.IsActive, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get barber failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Barber, int, error) {
	query := r.psql.Select(append(barberColumns, "count(*) OVER() AS total_count")...).
		From("public.barbers")

	if filter.ShopID != "" {
		query = query.Where(squirrel.Eq{"shop_id": filter.ShopID})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	orderDir := "ASC"
	if filter.SortOrder == "DESC" {
		orderDir = "DESC"
	}
	query = query.OrderBy("display_name " + orderDir)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64((filter.Page - 1) * filter.PageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list barbers query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list barbers failed: %w", err)
	}
	defer rows.Close()

	var barbers []*Barber
	var total int
	for rows.Next() {
		var b Barber
		if err := rows.Scan(
			&b.ID, &b.ShopID, &b.UserID, &b.DisplayName, &b.Bio, &b.IsActive, &b.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan barber failed: %w", err)
		}
		barbers = append(barbers, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate barbers failed: %w", err)
	}
	return barbers, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Barber) error {
	query, args, err := r.psql.Update("public.barbers").
		Set("display_name", b.DisplayName).
		Set("bio", b.Bio).
		Set("user_id", b.UserID).
		Set("is_active", b.IsActive).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update barber query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update barber failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deactivates the barber so historical bookings stay intact.
func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.psql.Update("public.barbers").
		Set("is_active", false).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete barber query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete barber failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SchedulingSettings(ctx context.Context, barberID string) (*availability.Settings, error) {
	query, args, err := r.psql.Select("b.shop_id", "s.buffer_minutes", "s.slot_step_minutes").
		From("public.barbers b").
		Join("public.shops s ON b.shop_id = s.id").
		Where(squirrel.Eq{"b.id": barberID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build scheduling settings query failed: %w", err)
	}

	var settings availability.Settings
	err = r.pool.QueryRow(ctx, query, args...).Scan(&settings.ShopID, &settings.BufferMinutes, &settings.SlotStepMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get scheduling settings failed: %w", err)
	}
	return &settings, nil
}
