package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erazemk/goodsledger/internal/model"
	"github.com/erazemk/goodsledger/internal/transfer"
)

// TransfersHandler handles transfer endpoints.
type TransfersHandler struct {
	Engine *transfer.Engine
}

type lineRequest struct {
	GoodsName  string          `json:"goods_name" validate:"required,max=255"`
	CategoryID int64           `json:"category_id" validate:"required,gt=0"`
	UnitID     int64           `json:"unit_id" validate:"required,gt=0"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`

	SenderID    *int64 `json:"sender_id" validate:"omitempty,gt=0"`
	RecipientID *int64 `json:"recipient_id" validate:"omitempty,gt=0"`

	InventoryNumbers         []int64 `json:"inventory_numbers"`
	InventoryNumberIDs       []int64 `json:"inventory_number_ids"`
	GenerateInventoryNumbers bool    `json:"generate_inventory_numbers"`
}

type createLineRequest struct {
	lineRequest
	Simulate bool `json:"simulate"`
}

type createTransferRequest struct {
	Date    string        `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Number  *int          `json:"number" validate:"omitempty,gt=0"`
	Comment string        `json:"comment" validate:"max=1000"`
	Lines   []lineRequest `json:"lines" validate:"dive"`
}

func (l lineRequest) toEngine(transferID int64) transfer.LineRequest {
	return transfer.LineRequest{
		TransferID:               transferID,
		GoodsName:                l.GoodsName,
		CategoryID:               l.CategoryID,
		UnitID:                   l.UnitID,
		Quantity:                 l.Quantity,
		Price:                    l.Price,
		SenderID:                 l.SenderID,
		RecipientID:              l.RecipientID,
		InventoryNumbers:         l.InventoryNumbers,
		InventoryNumberRefs:      l.InventoryNumberIDs,
		GenerateInventoryNumbers: l.GenerateInventoryNumbers,
	}
}

// Create handles POST /api/transfers.
func (h *TransfersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in := transfer.TransferInput{Number: req.Number, Comment: req.Comment}
	if req.Date != "" {
		date, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid date")
			return
		}
		in.Date = date
	}

	if len(req.Lines) == 0 {
		header, err := h.Engine.OpenTransfer(r.Context(), in)
		if err != nil {
			domainError(w, err, "create transfer")
			return
		}
		jsonResponse(w, http.StatusCreated, transfer.TransferDetail{Transfer: header, Lines: []model.TransferLine{}})
		return
	}

	lines := make([]transfer.LineRequest, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = l.toEngine(0)
	}

	detail, err := h.Engine.CreateTransfer(r.Context(), in, lines)
	if err != nil {
		domainError(w, err, "create transfer")
		return
	}

	jsonResponse(w, http.StatusCreated, detail)
}

// CreateLine handles POST /api/transfers/{id}/lines.
func (h *TransfersHandler) CreateLine(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	var req createLineRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lineReq := req.toEngine(id)
	lineReq.Simulate = req.Simulate

	line, err := h.Engine.CreateLine(r.Context(), lineReq)
	if err != nil {
		domainError(w, err, "create transfer line")
		return
	}

	if req.Simulate {
		jsonResponse(w, http.StatusOK, line)
		return
	}
	zap.L().Debug("transfer line stored", zap.Int64("transfer_id", id), zap.Int64("line_id", line.ID))
	jsonResponse(w, http.StatusCreated, line)
}

// Get handles GET /api/transfers/{id}.
func (h *TransfersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	detail, err := h.Engine.GetTransfer(r.Context(), id)
	if err != nil {
		domainError(w, err, "get transfer")
		return
	}

	jsonResponse(w, http.StatusOK, detail)
}
