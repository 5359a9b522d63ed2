package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/goodsledger/internal/model"
)

// CreateTransfer creates a transfer header. The date is truncated to the day.
func CreateTransfer(ctx context.Context, q Querier, date time.Time, number *int, comment string) (*model.Transfer, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var nullNumber sql.NullInt64
	if number != nil {
		nullNumber = sql.NullInt64{Int64: int64(*number), Valid: true}
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO transfers (date, number, comment) VALUES (?, ?, ?)`,
		day, nullNumber, comment,
	)
	if err != nil {
		return nil, fmt.Errorf("creating transfer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting transfer id: %w", err)
	}

	return GetTransfer(ctx, q, id)
}

// GetTransfer returns a transfer header by ID.
func GetTransfer(ctx context.Context, q Querier, id int64) (*model.Transfer, error) {
	t := &model.Transfer{}
	var number sql.NullInt64
	err := q.QueryRowContext(ctx,
		`SELECT id, date, number, comment, created_at FROM transfers WHERE id = ?`, id,
	).Scan(&t.ID, &t.Date, &number, &t.Comment, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting transfer: %w", err)
	}
	if number.Valid {
		n := int(number.Int64)
		t.Number = &n
	}
	return t, nil
}

// CreateTransferLine records a transfer line and sets its ID. Inventory
// numbers are linked separately with LinkTransferLineNumbers.
func CreateTransferLine(ctx context.Context, q Querier, line *model.TransferLine) error {
	result, err := q.ExecContext(ctx,
		`INSERT INTO transfer_lines (transfer_id, sender_goods_id, recipient_goods_id, quantity, price)
		 VALUES (?, ?, ?, ?, ?)`,
		line.TransferID, nullInt64(line.SenderGoodsID), nullInt64(line.RecipientGoodsID),
		line.Quantity, line.Price,
	)
	if err != nil {
		return fmt.Errorf("recording transfer line: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting transfer line id: %w", err)
	}
	line.ID = id
	return nil
}

// LinkTransferLineNumbers attaches inventory numbers (by ID) to a transfer line.
func LinkTransferLineNumbers(ctx context.Context, q Querier, lineID int64, numberIDs []int64) error {
	for _, id := range numberIDs {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO transfer_line_numbers (line_id, number_id) VALUES (?, ?)`,
			lineID, id,
		); err != nil {
			return fmt.Errorf("linking inventory number to transfer line: %w", err)
		}
	}
	return nil
}

const transferLineQuery = `SELECT tl.id, tl.transfer_id, tl.sender_goods_id, tl.recipient_goods_id,
        tl.quantity, tl.price, tl.created_at, COALESCE(rg.name, sg.name) AS goods_name,
        u.symbol
 FROM transfer_lines tl
 LEFT JOIN goods sg ON sg.id = tl.sender_goods_id
 LEFT JOIN goods rg ON rg.id = tl.recipient_goods_id
 JOIN units u ON u.id = COALESCE(rg.unit_id, sg.unit_id)`

// GetTransferLine returns a transfer line with its inventory numbers and
// display description.
func GetTransferLine(ctx context.Context, q Querier, id int64) (*model.TransferLine, error) {
	lines, err := queryTransferLines(ctx, q, transferLineQuery+` WHERE tl.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return &lines[0], nil
}

// ListTransferLines returns the lines of a transfer in creation order.
func ListTransferLines(ctx context.Context, q Querier, transferID int64) ([]model.TransferLine, error) {
	return queryTransferLines(ctx, q, transferLineQuery+` WHERE tl.transfer_id = ? ORDER BY tl.id`, transferID)
}

func queryTransferLines(ctx context.Context, q Querier, query string, args ...any) ([]model.TransferLine, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transfer lines: %w", err)
	}

	var lines []model.TransferLine
	for rows.Next() {
		var l model.TransferLine
		var sender, recipient sql.NullInt64
		var symbol string
		if err := rows.Scan(&l.ID, &l.TransferID, &sender, &recipient,
			&l.Quantity, &l.Price, &l.CreatedAt, &l.GoodsName, &symbol); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning transfer line: %w", err)
		}
		l.SenderGoodsID = int64Ptr(sender)
		l.RecipientGoodsID = int64Ptr(recipient)
		l.Description = model.DescribeLine(l.Quantity, symbol, l.GoodsName)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range lines {
		numbers, err := transferLineNumbers(ctx, q, lines[i].ID)
		if err != nil {
			return nil, err
		}
		lines[i].InventoryNumbers = numbers
	}
	return lines, nil
}

func transferLineNumbers(ctx context.Context, q Querier, lineID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT n.number FROM transfer_line_numbers tln
		 JOIN inventory_numbers n ON n.id = tln.number_id
		 WHERE tln.line_id = ?
		 ORDER BY n.number`, lineID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing transfer line numbers: %w", err)
	}
	defer rows.Close()

	numbers := []int64{}
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning transfer line number: %w", err)
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

// GetTransferParticipants returns the sender and recipient locations of the
// first line of a transfer. ok is false when the transfer has no lines.
func GetTransferParticipants(ctx context.Context, q Querier, transferID int64) (sender, recipient *model.Location, ok bool, err error) {
	var senderID, recipientID sql.NullInt64
	err = q.QueryRowContext(ctx,
		`SELECT sg.location_id, rg.location_id
		 FROM transfer_lines tl
		 LEFT JOIN goods sg ON sg.id = tl.sender_goods_id
		 LEFT JOIN goods rg ON rg.id = tl.recipient_goods_id
		 WHERE tl.transfer_id = ?
		 ORDER BY tl.id LIMIT 1`, transferID,
	).Scan(&senderID, &recipientID)
	if err == sql.ErrNoRows {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("getting transfer participants: %w", err)
	}

	if senderID.Valid {
		if sender, err = ResolveLocation(ctx, q, senderID.Int64); err != nil {
			return nil, nil, false, err
		}
	}
	if recipientID.Valid {
		if recipient, err = ResolveLocation(ctx, q, recipientID.Int64); err != nil {
			return nil, nil, false, err
		}
	}
	return sender, recipient, true, nil
}
