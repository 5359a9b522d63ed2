// Package store persists locations, goods, inventory numbers and transfers.
// Every function takes a Querier so callers can run it inside a transaction.
package store

import (
	"context"
	"database/sql"
	"strings"
)

// Querier is implemented by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// maxBatch bounds the IDs bound into one IN (...) list. SQLite rejects
// statements with more than 32766 variables.
const maxBatch = 500

// batches splits values into consecutive slices of at most size elements.
func batches(values []int64, size int) [][]int64 {
	var out [][]int64
	for len(values) > size {
		out = append(out, values[:size:size])
		values = values[size:]
	}
	if len(values) > 0 {
		out = append(out, values)
	}
	return out
}

func int64Args(values []int64) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
