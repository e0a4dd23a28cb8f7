package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines data access methods for shops.
type Repository interface {
	Create(ctx context.Context, s *Shop) error
	GetByID(ctx context.Context, id string) (*Shop, error)
	List(ctx context.Context, filter Filter) ([]*Shop, int, error)
	Update(ctx context.Context, s *Shop) error
	Deactivate(ctx context.Context, id string) error
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

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrNameTaken
		case pgerrcode.ForeignKeyViolation:
			return ErrOwnerRequired
		}
	}
	return err
}

func (r *pgxRepository) Create(ctx context.Context, s *Shop) error {
	query, args, err := r.psql.Insert("public.shops").
		Columns("name", "owner_id", "buffer_minutes", "slot_step_minutes", "is_active").
		Values(s.Name, s.OwnerID, s.BufferMinutes, s.SlotStepMinutes, s.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create shop query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create shop failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Shop, error) {
	query, args, err := r.psql.Select(
		"id", "name", "owner_id", "buffer_minutes", "slot_step_minutes", "is_active", "created_at",
	).
		From("public.shops").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get shop query failed: %w", err)
	}

	var s Shop
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.Name, &s.OwnerID, &s.BufferMinutes, &s.SlotStepMinutes, &s.IsActive, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get shop failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Shop, int, error) {
	query := r.psql.Select(
		"id", "name", "owner_id", "buffer_minutes", "slot_step_minutes", "is_active", "created_at",
		"count(*) OVER() AS total_count",
	).From("public.shops")

	if filter.Name != "" {
		query = query.Where(squirrel.ILike{"name": "%" + filter.Name + "%"})
	}
	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"owner_id": filter.OwnerID})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	orderBy := "created_at"
	if filter.SortBy == "name" {
		orderBy = "name"
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64((filter.Page - 1) * filter.PageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list shops query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list shops failed: %w", err)
	}
	defer rows.Close()

	var shops []*Shop
	var total int
	for rows.Next() {
		var s Shop
		if err := rows.Scan(
			&s.ID, &s.Name, &s.OwnerID, &s.BufferMinutes, &s.SlotStepMinutes, &s.IsActive, &s.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan shop failed: %w", err)
		}
		shops = append(shops, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate shops failed: %w", err)
	}
	return shops, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, s *Shop) error {
	query, args, err := r.psql.Update("public.shops").
		Set("name", s.Name).
		Set("owner_id", s.OwnerID).
		Set("buffer_minutes", s.BufferMinutes).
		Set("slot_step_minutes", s.SlotStepMinutes).
		Set("is_active", s.IsActive).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update shop query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update shop failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Deactivate(ctx context.Context, id string) error {
	query, args, err := r.psql.Update("public.shops").
		Set("is_active", false).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate shop query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate shop failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
