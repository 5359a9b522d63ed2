package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/erazemk/goodsledger/internal/store"
)

// GoodsHandler handles goods line endpoints.
type GoodsHandler struct {
	DB *sql.DB
}

// Get handles GET /api/goods/{id}.
func (h *GoodsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid goods id")
		return
	}

	goods, err := store.GetGoodsWithNumbers(r.Context(), h.DB, id)
	if err != nil {
		zap.L().Error("failed to get goods", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to get goods")
		return
	}
	if goods == nil {
		jsonError(w, http.StatusNotFound, "goods not found")
		return
	}

	jsonResponse(w, http.StatusOK, goods)
}
