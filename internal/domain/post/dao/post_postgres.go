package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/post/entity"
)

// PostPostgres implements PostRepository for PostgreSQL
type PostPostgres struct {
	pool *pgxpool.Pool
}

// NewPostPostgres creates a new PostgreSQL publish history repository
func NewPostPostgres(pool *pgxpool.Pool) *PostPostgres {
	return &PostPostgres{pool: pool}
}

// Create inserts a record and its target results in one transaction
func (r *PostPostgres) Create(ctx context.Context, rec *entity.Record, results []entity.TargetResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO posts (id, shop_id, caption, product_link, media_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		rec.ID,
		rec.ShopID,
		rec.Caption,
		rec.ProductLink,
		rec.MediaType,
		rec.Status,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}

	for _, res := range results {
		_, err = tx.Exec(ctx, `
			INSERT INTO post_target_results
				(id, post_id, platform, target_id, status, platform_post_id,
				 strategy_used, failure_reasons, warnings, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			res.ID,
			rec.ID,
			res.Platform,
			res.TargetID,
			res.Status,
			res.PlatformPostID,
			res.StrategyUsed,
			res.FailureReasons,
			res.Warnings,
			res.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting target result: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a record and its target results
func (r *PostPostgres) GetByID(ctx context.Context, id string) (*entity.Record, []entity.TargetResult, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, shop_id, caption, product_link, media_type, status, created_at
		FROM posts
		WHERE id = $1
	`, id)

	var rec entity.Record
	err := row.Scan(
		&rec.ID,
		&rec.ShopID,
		&rec.Caption,
		&rec.ProductLink,
		&rec.MediaType,
		&rec.Status,
		&rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, entity.ErrPostNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("scanning post: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, post_id, platform, target_id, status, platform_post_id,
		       strategy_used, failure_reasons, warnings, created_at
		FROM post_target_results
		WHERE post_id = $1
		ORDER BY created_at ASC
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("querying target results: %w", err)
	}
	defer rows.Close()

	var results []entity.TargetResult
	for rows.Next() {
		var res entity.TargetResult
		err := rows.Scan(
			&res.ID,
			&res.RecordID,
			&res.Platform,
			&res.TargetID,
			&res.Status,
			&res.PlatformPostID,
			&res.StrategyUsed,
			&res.FailureReasons,
			&res.Warnings,
			&res.CreatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning target result: %w", err)
		}
		results = append(results, res)
	}

	return &rec, results, nil
}

// List retrieves records with filtering and pagination
func (r *PostPostgres) List(ctx context.Context, filter Filter, opts ListOptions) ([]entity.Record, error) {
	query := `
		SELECT DISTINCT p.id, p.shop_id, p.caption, p.product_link, p.media_type, p.status, p.created_at
		FROM posts p
	`
	args := []interface{}{}
	argNum := 1

	if filter.Platform != "" {
		query += " JOIN post_target_results t ON t.post_id = p.id"
	}
	query += " WHERE 1=1"

	if filter.ShopID != "" {
		query += fmt.Sprintf(" AND p.shop_id = $%d", argNum)
		args = append(args, filter.ShopID)
		argNum++
	}
	if filter.Platform != "" {
		query += fmt.Sprintf(" AND t.platform = $%d", argNum)
		args = append(args, filter.Platform)
		argNum++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND p.status = $%d", argNum)
		args = append(args, *filter.Status)
		argNum++
	}

	order := "DESC"
	if !opts.Desc {
		order = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY p.created_at %s", order)

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, opts.Limit)
		argNum++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, opts.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	var records []entity.Record
	for rows.Next() {
		var rec entity.Record
		err := rows.Scan(
			&rec.ID,
			&rec.ShopID,
			&rec.Caption,
			&rec.ProductLink,
			&rec.MediaType,
			&rec.Status,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// Count returns the total count of records matching the filter
func (r *PostPostgres) Count(ctx context.Context, filter Filter) (int64, error) {
	query := "SELECT COUNT(DISTINCT p.id) FROM posts p"
	args := []interface{}{}
	argNum := 1

	if filter.Platform != "" {
		query += " JOIN post_target_results t ON t.post_id = p.id"
	}
	query += " WHERE 1=1"

	if filter.ShopID != "" {
		query += fmt.Sprintf(" AND p.shop_id = $%d", argNum)
		args = append(args, filter.ShopID)
		argNum++
	}
	if filter.Platform != "" {
		query += fmt.Sprintf(" AND t.platform = $%d", argNum)
		args = append(args, filter.Platform)
		argNum++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND p.status = $%d", argNum)
		args = append(args, *filter.Status)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting posts: %w", err)
	}
	return count, nil
}
