package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductColumns are the target table columns in CSV order.
var ProductColumns = []string{
	"id", "name", "description", "brand", "category", "price", "currency",
	"stock", "ean", "color", "size", "availability", "internal_id",
}

const productTableDDL = `CREATE TABLE IF NOT EXISTS %s (
	id           bigint,
	name         text,
	description  text,
	brand        text,
	category     text,
	price        numeric(12, 2),
	currency     text,
	stock        integer,
	ean          text,
	color        text,
	size         text,
	availability text,
	internal_id  bigint
)`

// PoolStore runs the loader's table operations against a pgx pool.
//
// Thread-Safety: Safe for concurrent use (pgxpool.Pool is thread-safe).
type PoolStore struct {
	pool *pgxpool.Pool
}

// NewPoolStore creates a PoolStore wrapping the given pool.
func NewPoolStore(pool *pgxpool.Pool) *PoolStore {
	return &PoolStore{pool: pool}
}

// QuoteTable sanitizes a possibly schema-qualified table name.
func QuoteTable(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

// CreateTable creates the product table when it does not exist.
func (s *PoolStore) CreateTable(ctx context.Context, table string) error {
	if _, err := s.pool.Exec(ctx, fmt.Sprintf(productTableDDL, QuoteTable(table))); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

// Truncate removes every row from the table.
func (s *PoolStore) Truncate(ctx context.Context, table string) error {
	if _, err := s.pool.Exec(ctx, "TRUNCATE TABLE "+QuoteTable(table)); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", table, err)
	}
	return nil
}

// InsertRows writes all rows with one multi-row INSERT inside its own transaction.
// Each row must hold len(ProductColumns) values.
func (s *PoolStore) InsertRows(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	query, args, err := buildInsert(table, rows)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert %d rows into %s: %w", len(rows), table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// Count returns the number of rows in the table.
func (s *PoolStore) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM "+QuoteTable(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return n, nil
}

// buildInsert renders INSERT INTO t (cols) VALUES ($1,...,$13),($14,...) and flattens the arguments.
func buildInsert(table string, rows [][]any) (string, []any, error) {
	width := len(ProductColumns)

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(QuoteTable(table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(ProductColumns, ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return "", nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), width)
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('(')
		for j := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "$%d", len(args)+j+1)
		}
		sb.WriteByte(')')
		args = append(args, row...)
	}

	return sb.String(), args, nil
}
