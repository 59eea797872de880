package stock

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "ageing-reconciliation-service/pkg/errors"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS stock_items (
	id               TEXT PRIMARY KEY,
	code             TEXT NOT NULL,
	mrp              DOUBLE PRECISION NOT NULL DEFAULT 0,
	size             TEXT NOT NULL DEFAULT '',
	stock            INTEGER NOT NULL DEFAULT 0,
	image            TEXT NOT NULL DEFAULT '',
	original_desc    TEXT NOT NULL DEFAULT '',
	original_part_no TEXT NOT NULL DEFAULT '',
	brand            TEXT NOT NULL DEFAULT 'RE',
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store persists catalog items in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to the database and ensures the schema exists.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, apperrors.ConfigError("stock store",
			fmt.Errorf("DATABASE_URL is not set"))
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, apperrors.ConfigError("stock store", err)
	}

	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		pool.Close()
		return nil, apperrors.InternalError("schema setup", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// List returns every catalog item ordered by id.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, mrp, size, stock, image,
		       original_desc, original_part_no, brand, updated_at
		FROM stock_items
		ORDER BY id`)
	if err != nil {
		return nil, apperrors.InternalError("stock list", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.Code, &item.MRP, &item.Size, &item.Stock,
			&item.Image, &item.OriginalDesc, &item.OriginalPartNo,
			&item.Brand, &item.UpdatedAt,
		); err != nil {
			return nil, apperrors.InternalError("stock list", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.InternalError("stock list", err)
	}
	return items, nil
}

// ReplaceAll swaps the full catalog for the given items in one
// transaction. The desktop side owns the data, so sync is destructive by
// contract: anything absent from the payload is gone after commit.
func (s *Store) ReplaceAll(ctx context.Context, items []Item) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperrors.InternalError("stock sync", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM stock_items`); err != nil {
		return apperrors.InternalError("stock sync", err)
	}

	for _, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO stock_items
				(id, code, mrp, size, stock, image,
				 original_desc, original_part_no, brand, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`,
			item.ID, item.Code, item.MRP, item.Size, item.Stock,
			item.Image, item.OriginalDesc, item.OriginalPartNo, item.Brand)
		if err != nil {
			return apperrors.InternalError("stock sync", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.InternalError("stock sync", err)
	}
	return nil
}
