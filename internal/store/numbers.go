package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/erazemk/goodsledger/internal/model"
)

// MaxInventoryNumber returns the highest inventory number in use, or 0 if
// there are none.
func MaxInventoryNumber(ctx context.Context, q Querier) (int64, error) {
	var max int64
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number), 0) FROM inventory_numbers`,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("getting max inventory number: %w", err)
	}
	return max, nil
}

// CreateInventoryNumbers creates unattached inventory numbers.
func CreateInventoryNumbers(ctx context.Context, q Querier, numbers []int64) ([]model.InventoryNumber, error) {
	created := make([]model.InventoryNumber, 0, len(numbers))
	for _, n := range numbers {
		result, err := q.ExecContext(ctx,
			`INSERT INTO inventory_numbers (number) VALUES (?)`, n,
		)
		if err != nil {
			return nil, fmt.Errorf("creating inventory number %d: %w", n, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("getting inventory number id: %w", err)
		}
		created = append(created, model.InventoryNumber{ID: id, Number: n})
	}
	return created, nil
}

// FindInventoryNumbers returns the existing inventory numbers among the given
// values, ordered by number.
func FindInventoryNumbers(ctx context.Context, q Querier, numbers []int64) ([]model.InventoryNumber, error) {
	return queryInventoryNumbersIn(ctx, q, "number", numbers)
}

// GetInventoryNumbers returns inventory numbers by ID, ordered by number.
func GetInventoryNumbers(ctx context.Context, q Querier, ids []int64) ([]model.InventoryNumber, error) {
	return queryInventoryNumbersIn(ctx, q, "id", ids)
}

func queryInventoryNumbersIn(ctx context.Context, q Querier, column string, values []int64) ([]model.InventoryNumber, error) {
	var numbers []model.InventoryNumber
	for _, batch := range batches(values, maxBatch) {
		found, err := queryInventoryNumbers(ctx, q,
			`SELECT id, number, goods_id FROM inventory_numbers
			 WHERE `+column+` IN (`+placeholders(len(batch))+`)`,
			int64Args(batch)...,
		)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, found...)
	}
	slices.SortFunc(numbers, func(a, b model.InventoryNumber) int {
		return cmp.Compare(a.Number, b.Number)
	})
	return numbers, nil
}

// ListGoodsNumbers returns the inventory numbers currently supplying a goods line.
func ListGoodsNumbers(ctx context.Context, q Querier, goodsID int64) ([]model.InventoryNumber, error) {
	return queryInventoryNumbers(ctx, q,
		`SELECT id, number, goods_id FROM inventory_numbers
		 WHERE goods_id = ? ORDER BY number`, goodsID,
	)
}

func queryInventoryNumbers(ctx context.Context, q Querier, query string, args ...any) ([]model.InventoryNumber, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing inventory numbers: %w", err)
	}
	defer rows.Close()

	var numbers []model.InventoryNumber
	for rows.Next() {
		var n model.InventoryNumber
		if err := rows.Scan(&n.ID, &n.Number, &n.GoodsID); err != nil {
			return nil, fmt.Errorf("scanning inventory number: %w", err)
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

// DeleteInventoryNumbers removes inventory numbers by ID.
func DeleteInventoryNumbers(ctx context.Context, q Querier, ids []int64) error {
	for _, batch := range batches(ids, maxBatch) {
		_, err := q.ExecContext(ctx,
			`DELETE FROM inventory_numbers WHERE id IN (`+placeholders(len(batch))+`)`,
			int64Args(batch)...,
		)
		if err != nil {
			return fmt.Errorf("deleting inventory numbers: %w", err)
		}
	}
	return nil
}

// SupplyInventoryNumbers points inventory numbers at a goods line. A nil
// goodsID detaches them.
func SupplyInventoryNumbers(ctx context.Context, q Querier, ids []int64, goodsID *int64) error {
	for _, batch := range batches(ids, maxBatch) {
		args := append([]any{nullInt64(goodsID)}, int64Args(batch)...)
		_, err := q.ExecContext(ctx,
			`UPDATE inventory_numbers SET goods_id = ? WHERE id IN (`+placeholders(len(batch))+`)`,
			args...,
		)
		if err != nil {
			return fmt.Errorf("supplying inventory numbers: %w", err)
		}
	}
	return nil
}

// IsSerialized reports whether goods of this name carry, or have ever been
// moved with, inventory numbers.
func IsSerialized(ctx context.Context, q Querier, name string) (bool, error) {
	var serialized bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM inventory_numbers n
		     JOIN goods g ON g.id = n.goods_id
		     WHERE g.name = ?
		 ) OR EXISTS (
		     SELECT 1 FROM transfer_line_numbers tln
		     JOIN transfer_lines tl ON tl.id = tln.line_id
		     JOIN goods g ON g.id = COALESCE(tl.recipient_goods_id, tl.sender_goods_id)
		     WHERE g.name = ?
		 )`, name, name,
	).Scan(&serialized)
	if err != nil {
		return false, fmt.Errorf("checking serialized goods: %w", err)
	}
	return serialized, nil
}
