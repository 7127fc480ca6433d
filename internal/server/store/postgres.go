package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"asset-inventory/internal/models"
)

const uniqueViolation = "23505"

const assetColumns = "id, name, serial_no, assign_date, category"

// Postgres is a Store backed by the assets table (db/migrations)
type Postgres struct {
	Pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and verifies the connection
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgxpool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

func (p *Postgres) List(ctx context.Context) ([]models.Asset, error) {
	rows, err := p.Pool.Query(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return collectAssets(rows)
}

func (p *Postgres) Page(ctx context.Context, page, size int) ([]models.Asset, int, error) {
	total, err := p.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	if page < 0 || size <= 0 {
		return []models.Asset{}, total, nil
	}

	rows, err := p.Pool.Query(ctx,
		`SELECT `+assetColumns+` FROM assets ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		size, page*size)
	if err != nil {
		return nil, 0, err
	}
	assets, err := collectAssets(rows)
	return assets, total, err
}

func (p *Postgres) Get(ctx context.Context, id string) (models.Asset, error) {
	row := p.Pool.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
	a, err := scanAsset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Asset{}, ErrNotFound
	}
	return a, err
}

func (p *Postgres) Create(ctx context.Context, draft models.Asset) (models.Asset, error) {
	on, err := assignDate(draft)
	if err != nil {
		return models.Asset{}, err
	}

	row := p.Pool.QueryRow(ctx, `
		INSERT INTO assets (id, name, serial_no, assign_date, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+assetColumns,
		uuid.NewString(), draft.Name, draft.SerialNo, on, string(draft.Category))
	a, err := scanAsset(row)
	if isUniqueViolation(err) {
		return models.Asset{}, &DuplicateSerialError{SerialNo: draft.SerialNo}
	}
	return a, err
}

func (p *Postgres) Update(ctx context.Context, id string, draft models.Asset) (models.Asset, error) {
	on, err := assignDate(draft)
	if err != nil {
		return models.Asset{}, err
	}

	row := p.Pool.QueryRow(ctx, `
		UPDATE assets
		SET name = $2, serial_no = $3, assign_date = $4,
		    category = COALESCE(NULLIF($5, ''), category),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+assetColumns,
		id, draft.Name, draft.SerialNo, on, string(draft.Category))
	a, err := scanAsset(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return models.Asset{}, ErrNotFound
	case isUniqueViolation(err):
		return models.Asset{}, &DuplicateSerialError{SerialNo: draft.SerialNo}
	}
	return a, err
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.Pool.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	err := p.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM assets`).Scan(&n)
	return n, err
}

func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}

func collectAssets(rows pgx.Rows) ([]models.Asset, error) {
	defer rows.Close()
	assets := []models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func scanAsset(row pgx.Row) (models.Asset, error) {
	var (
		a        models.Asset
		on       time.Time
		category string
	)
	if err := row.Scan(&a.ID, &a.Name, &a.SerialNo, &on, &category); err != nil {
		return models.Asset{}, err
	}
	a.AssignDate = on.Format(models.DateLayout)
	a.Category = models.Category(category)
	return a, nil
}

func assignDate(draft models.Asset) (time.Time, error) {
	on, ok := draft.AssignedOn(time.UTC)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid assign date %q", draft.AssignDate)
	}
	return on, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
