package catalog

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

type Repository interface {
	Create(ctx context.Context, o *Offering) error
	GetByID(ctx context.Context, id string) (*Offering, error)
	List(ctx context.Context, filter Filter) ([]*Offering, int, error)
	Update(ctx context.Context, o *Offering) error
	Delete(ctx context.Context, id string) error
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

var offeringColumns = []string{
	"id", "shop_id", "name", "description", "duration_minutes", "price_cents", "is_active", "created_at",
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return ErrNameTaken
	case pgerrcode.ForeignKeyViolation:
		return ErrInvalidShop
	case pgerrcode.CheckViolation:
		return ErrInvalidDuration
	}
	return nil
}

func (r *pgxRepository) Create(ctx context.Context, o *Offering) error {
	query, args, err := r.psql.Insert("public.offerings").
		Columns("shop_id", "name", "description", "duration_minutes", "price_cents", "is_active").
		Values(o.ShopID, o.Name, o.Description, o.DurationMinutes, o.PriceCents, o.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create offering query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("create offering failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Offering, error) {
	query, args, err := r.psql.Select(offeringColumns...).
		From("public.offerings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get offering query failed: %w", err)
	}

	var o Offering
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&o.ID, &o.ShopID, &o.Name, &o.Description, &o.DurationMinutes, &o.PriceCents, &o.IsActive, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get offering failed: %w", err)
	}
	return &o, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Offering, int, error) {
	query := r.psql.Select(append(offeringColumns, "count(*) OVER() AS total_count")...).
		From("public.offerings")

	if filter.ShopID != "" {
		query = query.Where(squirrel.Eq{"shop_id": filter.ShopID})
	}
	if filter.Name != "" {
		query = query.Where(squirrel.ILike{"name": "%" + filter.Name + "%"})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	orderBy := "name"
	switch filter.SortBy {
	case "duration_minutes", "price_cents", "created_at":
		orderBy = filter.SortBy
	}
	orderDir := "ASC"
	if filter.SortOrder == "DESC" {
		orderDir = "DESC"
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
		return nil, 0, fmt.Errorf("build list offerings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list offerings failed: %w", err)
	}
	defer rows.Close()

	var offerings []*Offering
	var total int
	for rows.Next() {
		var o Offering
		if err := rows.Scan(
			&o.ID, &o.ShopID, &o.Name, &o.Description, &o.DurationMinutes, &o.PriceCents, &o.IsActive, &o.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan offering failed: %w", err)
		}
		offerings = append(offerings, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate offerings failed: %w", err)
	}
	return offerings, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, o *Offering) error {
	query, args, err := r.psql.Update("public.offerings").
		Set("name", o.Name).
		Set("description", o.Description).
		Set("duration_minutes", o.DurationMinutes).
		Set("price_cents", o.PriceCents).
		Set("is_active", o.IsActive).
		Where(squirrel.Eq{"id": o.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update offering query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update offering failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete retires the offering; existing bookings keep their reference.
func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.psql.Update("public.offerings").
		Set("is_active", false).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete offering query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete offering failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
