// Package transfer creates transfer lines: it validates a proposed movement
// of goods, allocates inventory numbers and updates the goods ledger inside
// one database transaction.
package transfer

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erazemk/goodsledger/internal/model"
	"github.com/erazemk/goodsledger/internal/store"
)

// Config configures an Engine.
type Config struct {
	// InventoryNumberBase is the first generated serial on an empty ledger.
	InventoryNumberBase int64
}

// Engine creates transfers and transfer lines.
type Engine struct {
	db        *sql.DB
	allocator *Allocator
	logger    *zap.Logger

	// mu serializes write transactions within the process.
	mu sync.Mutex
}

// NewEngine returns an engine writing to db.
func NewEngine(db *sql.DB, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		db:        db,
		allocator: NewAllocator(cfg.InventoryNumberBase),
		logger:    logger,
	}
}

// LineRequest describes one goods movement. SenderID and RecipientID are
// location IDs. InventoryNumbers is an explicit list of serials,
// InventoryNumberRefs a set of existing inventory number IDs.
type LineRequest struct {
	TransferID int64
	GoodsName  string
	CategoryID int64
	UnitID     int64
	Quantity   int
	Price      decimal.Decimal

	SenderID    *int64
	RecipientID *int64

	InventoryNumbers         []int64
	InventoryNumberRefs      []int64
	GenerateInventoryNumbers bool

	// Simulate runs every check and returns a preview line without
	// changing anything.
	Simulate bool
}

// TransferInput is the header of a transfer created with CreateTransfer.
// A zero Date means today.
type TransferInput struct {
	Date    time.Time
	Number  *int
	Comment string
}

// TransferDetail is a transfer with its lines and classification. Summary
// is nil while the transfer has no lines.
type TransferDetail struct {
	Transfer *model.Transfer      `json:"transfer"`
	Lines    []model.TransferLine `json:"lines"`
	Summary  *model.Summary       `json:"summary,omitempty"`
	Title    string               `json:"title,omitempty"`
}

// CreateLine adds one line to an existing transfer. With req.Simulate set
// the line is validated and returned with ID 0, and nothing is persisted.
func (e *Engine) CreateLine(ctx context.Context, req LineRequest) (*model.TransferLine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	line, err := e.createLine(ctx, tx, req)
	if err != nil {
		e.logger.Info("transfer line rejected",
			zap.Int64("transfer_id", req.TransferID),
			zap.String("goods", req.GoodsName),
			zap.String("code", model.Code(err)),
			zap.Error(err),
		)
		return nil, err
	}
	if req.Simulate {
		return line, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transfer line: %w", err)
	}

	e.logger.Info("transfer line created",
		zap.Int64("transfer_id", line.TransferID),
		zap.Int64("line_id", line.ID),
		zap.String("goods", line.GoodsName),
		zap.Int("quantity", line.Quantity),
		zap.Int("numbers", len(line.InventoryNumbers)),
	)
	return line, nil
}

// OpenTransfer creates a transfer header without lines. Lines are added
// with CreateLine.
func (e *Engine) OpenTransfer(ctx context.Context, in TransferInput) (*model.Transfer, error) {
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	transfer, err := store.CreateTransfer(ctx, e.db, date, in.Number, in.Comment)
	if err != nil {
		return nil, err
	}
	e.logger.Info("transfer opened", zap.Int64("transfer_id", transfer.ID))
	return transfer, nil
}

// CreateTransfer creates a transfer header and all of its lines. Every line
// is simulated first; if any fails, nothing is persisted. Line failures are
// wrapped with their 1-based position and keep their kind.
func (e *Engine) CreateTransfer(ctx context.Context, in TransferInput, lines []LineRequest) (*TransferDetail, error) {
	if len(lines) == 0 {
		return nil, model.Validation(model.CodeNoLines, "transfer must have at least one line")
	}
	for i := 1; i < len(lines); i++ {
		if !sameID(lines[i].SenderID, lines[0].SenderID) || !sameID(lines[i].RecipientID, lines[0].RecipientID) {
			return nil, fmt.Errorf("line %d: %w", i+1, model.Validation(model.CodeMixedParticipants,
				"all lines of a transfer must share sender and recipient"))
		}
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	transfer, err := store.CreateTransfer(ctx, tx, date, in.Number, in.Comment)
	if err != nil {
		return nil, err
	}

	for i, req := range lines {
		req.TransferID = transfer.ID
		req.Simulate = true
		if err := e.simulateLine(ctx, tx, req); err != nil {
			e.logger.Info("transfer rejected",
				zap.Int("line", i+1),
				zap.String("goods", req.GoodsName),
				zap.String("code", model.Code(err)),
				zap.Error(err),
			)
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	created := make([]model.TransferLine, 0, len(lines))
	for i, req := range lines {
		req.TransferID = transfer.ID
		req.Simulate = false
		line, err := e.createLine(ctx, tx, req)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		created = append(created, *line)
	}

	detail, err := e.describe(ctx, tx, transfer)
	if err != nil {
		return nil, err
	}
	detail.Lines = created

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transfer: %w", err)
	}

	e.logger.Info("transfer created",
		zap.Int64("transfer_id", transfer.ID),
		zap.Int("lines", len(created)),
		zap.String("title", detail.Title),
	)
	return detail, nil
}

// simulateLine validates req inside a savepoint that is always rolled back.
func (e *Engine) simulateLine(ctx context.Context, tx *sql.Tx, req LineRequest) error {
	if _, err := tx.ExecContext(ctx, `SAVEPOINT simulate_line`); err != nil {
		return fmt.Errorf("creating savepoint: %w", err)
	}

	_, lineErr := e.createLine(ctx, tx, req)

	if _, err := tx.ExecContext(ctx, `ROLLBACK TO simulate_line`); err != nil {
		return fmt.Errorf("rolling back savepoint: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `RELEASE simulate_line`); err != nil {
		return fmt.Errorf("releasing savepoint: %w", err)
	}
	return lineErr
}

// createLine runs the whole line pipeline on tx. The caller owns the
// transaction and decides whether to commit.
func (e *Engine) createLine(ctx context.Context, tx *sql.Tx, req LineRequest) (*model.TransferLine, error) {
	if err := checkAmounts(req.Quantity, req.Price); err != nil {
		return nil, err
	}

	transfer, err := store.GetTransfer(ctx, tx, req.TransferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, model.NotFound(model.CodeTransferNotFound, "transfer %d not found", req.TransferID)
	}

	sender, recipient, err := resolveParticipants(ctx, tx, req.SenderID, req.RecipientID)
	if err != nil {
		return nil, err
	}
	if err := checkParticipants(sender, recipient); err != nil {
		return nil, err
	}
	if err := checkNumberMode(req.GenerateInventoryNumbers, req.InventoryNumbers, req.InventoryNumberRefs); err != nil {
		return nil, err
	}

	firstSender, firstRecipient, ok, err := store.GetTransferParticipants(ctx, tx, req.TransferID)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := checkSameParticipants(firstSender, firstRecipient, sender, recipient); err != nil {
			return nil, err
		}
	}

	// Recipient side.
	category, unit, err := resolveCatalog(ctx, tx, req.CategoryID, req.UnitID)
	if err != nil {
		return nil, err
	}
	existing, err := store.FindGoodsByName(ctx, tx, req.GoodsName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		wantCategory, err := store.GetCategory(ctx, tx, existing.CategoryID)
		if err != nil {
			return nil, err
		}
		wantUnit, err := store.GetUnit(ctx, tx, existing.UnitID)
		if err != nil {
			return nil, err
		}
		if err := checkAttributes(existing, category, unit, wantCategory, wantUnit); err != nil {
			return nil, err
		}
	}

	var recipientGoods *model.GoodsLine
	if recipient != nil {
		recipientGoods, err = store.GetOrCreateGoods(ctx, tx, req.GoodsName, recipient.ID, category.ID, unit.ID)
		if err != nil {
			return nil, err
		}
	}

	// Sender side.
	var senderGoods *model.GoodsLine
	if sender != nil {
		senderGoods, err = store.FindGoods(ctx, tx, req.GoodsName, sender.ID)
		if err != nil {
			return nil, err
		}
		if err := checkSender(senderGoods, req.Quantity, req.GenerateInventoryNumbers); err != nil {
			return nil, err
		}
	}

	serialized, err := store.IsSerialized(ctx, tx, req.GoodsName)
	if err != nil {
		return nil, err
	}

	alloc, err := e.allocator.Allocate(ctx, tx, AllocationRequest{
		Quantity: req.Quantity,
		Generate: req.GenerateInventoryNumbers,
		Numbers:  req.InventoryNumbers,
		Existing: req.InventoryNumberRefs,
	})
	if err != nil {
		return nil, err
	}

	check := numberCheck{
		Allocation: alloc,
		Generate:   req.GenerateInventoryNumbers,
		Quantity:   req.Quantity,
		Serialized: serialized,
	}
	if recipientGoods != nil {
		check.RecipientQuantity = recipientGoods.Quantity
	}
	if senderGoods != nil {
		check.SenderGoodsID = &senderGoods.ID
	}
	if err := check.validate(); err != nil {
		if rbErr := alloc.Rollback(ctx, tx); rbErr != nil {
			return nil, rbErr
		}
		return nil, err
	}

	line := &model.TransferLine{
		TransferID:       req.TransferID,
		Quantity:         req.Quantity,
		Price:            req.Price,
		InventoryNumbers: alloc.Values(),
		GoodsName:        req.GoodsName,
		Description:      model.DescribeLine(req.Quantity, unit.Symbol, req.GoodsName),
	}
	if senderGoods != nil {
		line.SenderGoodsID = &senderGoods.ID
	}
	if recipientGoods != nil {
		line.RecipientGoodsID = &recipientGoods.ID
	}

	if req.Simulate {
		if err := alloc.Rollback(ctx, tx); err != nil {
			return nil, err
		}
		return line, nil
	}

	if err := e.apply(ctx, tx, line, alloc); err != nil {
		return nil, err
	}
	return store.GetTransferLine(ctx, tx, line.ID)
}

// apply records the line and moves quantities and numbers.
func (e *Engine) apply(ctx context.Context, tx *sql.Tx, line *model.TransferLine, alloc *Allocation) error {
	if err := store.CreateTransferLine(ctx, tx, line); err != nil {
		return err
	}
	if line.SenderGoodsID != nil {
		if err := store.AdjustGoodsQuantity(ctx, tx, *line.SenderGoodsID, -line.Quantity); err != nil {
			return err
		}
	}
	if line.RecipientGoodsID != nil {
		if err := store.AdjustGoodsQuantity(ctx, tx, *line.RecipientGoodsID, line.Quantity); err != nil {
			return err
		}
	}

	ids := alloc.IDs()
	if err := store.SupplyInventoryNumbers(ctx, tx, ids, line.RecipientGoodsID); err != nil {
		return err
	}
	if err := store.LinkTransferLineNumbers(ctx, tx, line.ID, ids); err != nil {
		return err
	}

	e.logger.Debug("transfer line applied",
		zap.Int64("line_id", line.ID),
		zap.Int64s("numbers", line.InventoryNumbers),
	)
	return nil
}

// Describe classifies a transfer by its first line. It returns nil for a
// transfer without lines.
func (e *Engine) Describe(ctx context.Context, transferID int64) (*model.Summary, error) {
	sender, recipient, ok, err := store.GetTransferParticipants(ctx, e.db, transferID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	summary := model.Summarize(sender, recipient)
	return &summary, nil
}

// GetTransfer returns a transfer with its lines and classification.
func (e *Engine) GetTransfer(ctx context.Context, transferID int64) (*TransferDetail, error) {
	transfer, err := store.GetTransfer(ctx, e.db, transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, model.NotFound(model.CodeTransferNotFound, "transfer %d not found", transferID)
	}

	detail, err := e.describe(ctx, e.db, transfer)
	if err != nil {
		return nil, err
	}
	detail.Lines, err = store.ListTransferLines(ctx, e.db, transferID)
	if err != nil {
		return nil, err
	}
	if detail.Lines == nil {
		detail.Lines = []model.TransferLine{}
	}
	return detail, nil
}

func (e *Engine) describe(ctx context.Context, q store.Querier, transfer *model.Transfer) (*TransferDetail, error) {
	detail := &TransferDetail{Transfer: transfer}
	sender, recipient, ok, err := store.GetTransferParticipants(ctx, q, transfer.ID)
	if err != nil {
		return nil, err
	}
	if ok {
		summary := model.Summarize(sender, recipient)
		detail.Summary = &summary
		detail.Title = summary.Title(transfer)
	}
	return detail, nil
}

func resolveParticipants(ctx context.Context, q store.Querier, senderID, recipientID *int64) (sender, recipient *model.Location, err error) {
	if senderID != nil {
		if sender, err = store.ResolveLocation(ctx, q, *senderID); err != nil {
			return nil, nil, err
		}
	}
	if recipientID != nil {
		if recipient, err = store.ResolveLocation(ctx, q, *recipientID); err != nil {
			return nil, nil, err
		}
	}
	return sender, recipient, nil
}

func resolveCatalog(ctx context.Context, q store.Querier, categoryID, unitID int64) (*model.Category, *model.Unit, error) {
	category, err := store.GetCategory(ctx, q, categoryID)
	if err != nil {
		return nil, nil, err
	}
	if category == nil {
		return nil, nil, model.NotFound(model.CodeCategoryNotFound, "category %d not found", categoryID)
	}
	unit, err := store.GetUnit(ctx, q, unitID)
	if err != nil {
		return nil, nil, err
	}
	if unit == nil {
		return nil, nil, model.NotFound(model.CodeUnitNotFound, "unit %d not found", unitID)
	}
	return category, unit, nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
