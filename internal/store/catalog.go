package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/goodsledger/internal/model"
)

// CreateCategory creates a goods category.
func CreateCategory(ctx context.Context, q Querier, name string) (*model.Category, error) {
	result, err := q.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return &model.Category{ID: id, Name: name}, nil
}

// GetCategory returns a category by ID.
func GetCategory(ctx context.Context, q Querier, id int64) (*model.Category, error) {
	c := &model.Category{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// CreateUnit creates a unit of measure.
func CreateUnit(ctx context.Context, q Querier, key int, name, symbol string) (*model.Unit, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO units (key, name, symbol) VALUES (?, ?, ?)`,
		key, name, symbol,
	)
	if err != nil {
		return nil, fmt.Errorf("creating unit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting unit id: %w", err)
	}

	return &model.Unit{ID: id, Key: key, Name: name, Symbol: symbol}, nil
}

// GetUnit returns a unit of measure by ID.
func GetUnit(ctx context.Context, q Querier, id int64) (*model.Unit, error) {
	u := &model.Unit{}
	err := q.QueryRowContext(ctx,
		`SELECT id, key, name, symbol FROM units WHERE id = ?`, id,
	).Scan(&u.ID, &u.Key, &u.Name, &u.Symbol)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting unit: %w", err)
	}
	return u, nil
}
