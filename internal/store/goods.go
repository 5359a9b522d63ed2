package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/goodsledger/internal/model"
)

const goodsColumns = `id, name, location_id, category_id, unit_id, quantity, created_at`

func scanGoods(row interface{ Scan(...any) error }) (*model.GoodsLine, error) {
	g := &model.GoodsLine{}
	err := row.Scan(&g.ID, &g.Name, &g.LocationID, &g.CategoryID, &g.UnitID, &g.Quantity, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGoods returns a goods line by ID.
func GetGoods(ctx context.Context, q Querier, id int64) (*model.GoodsLine, error) {
	g, err := scanGoods(q.QueryRowContext(ctx,
		`SELECT `+goodsColumns+` FROM goods WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting goods: %w", err)
	}
	return g, nil
}

// FindGoods returns the goods line for a name at a location.
func FindGoods(ctx context.Context, q Querier, name string, locationID int64) (*model.GoodsLine, error) {
	g, err := scanGoods(q.QueryRowContext(ctx,
		`SELECT `+goodsColumns+` FROM goods WHERE name = ? AND location_id = ?`,
		name, locationID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding goods: %w", err)
	}
	return g, nil
}

// FindGoodsByName returns the oldest goods line with the given name at any
// location. All lines of one name share category and unit, so any of them
// is representative.
func FindGoodsByName(ctx context.Context, q Querier, name string) (*model.GoodsLine, error) {
	g, err := scanGoods(q.QueryRowContext(ctx,
		`SELECT `+goodsColumns+` FROM goods WHERE name = ? ORDER BY id LIMIT 1`, name,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding goods by name: %w", err)
	}
	return g, nil
}

// CreateGoods creates an empty goods line.
func CreateGoods(ctx context.Context, q Querier, name string, locationID, categoryID, unitID int64) (*model.GoodsLine, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO goods (name, location_id, category_id, unit_id, quantity) VALUES (?, ?, ?, ?, 0)`,
		name, locationID, categoryID, unitID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating goods: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting goods id: %w", err)
	}

	return GetGoods(ctx, q, id)
}

// GetOrCreateGoods returns the goods line for a name at a location, creating
// an empty one if none exists.
func GetOrCreateGoods(ctx context.Context, q Querier, name string, locationID, categoryID, unitID int64) (*model.GoodsLine, error) {
	g, err := FindGoods(ctx, q, name, locationID)
	if err != nil {
		return nil, err
	}
	if g != nil {
		return g, nil
	}
	return CreateGoods(ctx, q, name, locationID, categoryID, unitID)
}

// AdjustGoodsQuantity adds delta (which may be negative) to a goods line.
// The quantity never drops below zero.
func AdjustGoodsQuantity(ctx context.Context, q Querier, id int64, delta int) error {
	if delta == 0 {
		return fmt.Errorf("delta must be non-zero")
	}

	result, err := q.ExecContext(ctx,
		`UPDATE goods SET quantity = quantity + ? WHERE id = ? AND quantity + ? >= 0`,
		delta, id, delta,
	)
	if err != nil {
		return fmt.Errorf("adjusting goods quantity: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking adjusted goods: %w", err)
	}
	if n == 1 {
		return nil
	}

	g, err := GetGoods(ctx, q, id)
	if err != nil {
		return err
	}
	if g == nil {
		return model.NotFound(model.CodeGoodsNotFound, "goods %d not found", id)
	}
	return model.Validation(model.CodeInsufficientQuantity,
		"insufficient quantity at sender: have %d, need %d", g.Quantity, -delta)
}

// GetGoodsWithNumbers returns a goods line with the inventory numbers it
// currently carries.
func GetGoodsWithNumbers(ctx context.Context, q Querier, id int64) (*model.GoodsLine, error) {
	g, err := GetGoods(ctx, q, id)
	if err != nil || g == nil {
		return g, err
	}

	numbers, err := ListGoodsNumbers(ctx, q, id)
	if err != nil {
		return nil, err
	}
	g.InventoryNumbers = make([]int64, 0, len(numbers))
	for _, n := range numbers {
		g.InventoryNumbers = append(g.InventoryNumbers, n.Number)
	}
	return g, nil
}

// TotalGoodsQuantity returns the quantity of a goods name summed over all locations.
func TotalGoodsQuantity(ctx context.Context, q Querier, name string) (int, error) {
	var total int
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM goods WHERE name = ?`, name,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing goods quantity: %w", err)
	}
	return total, nil
}
