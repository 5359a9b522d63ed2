package api

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/goodsledger/internal/store"
)

// CatalogHandler handles category and unit endpoints.
type CatalogHandler struct {
	DB *sql.DB
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type createUnitRequest struct {
	Key    int    `json:"key" validate:"required,gt=0"`
	Name   string `json:"name" validate:"required,max=255"`
	Symbol string `json:"symbol" validate:"required,max=32"`
}

// CreateCategory handles POST /api/categories.
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, req.Name)
	if err != nil {
		jsonError(w, http.StatusConflict, "category already exists")
		return
	}

	zap.L().Info("category created", zap.String("category", category.Name))
	jsonResponse(w, http.StatusCreated, category)
}

// CreateUnit handles POST /api/units.
func (h *CatalogHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req createUnitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	unit, err := store.CreateUnit(r.Context(), h.DB, req.Key, req.Name, req.Symbol)
	if err != nil {
		jsonError(w, http.StatusConflict, "unit already exists")
		return
	}

	zap.L().Info("unit created", zap.String("unit", unit.Name), zap.String("symbol", unit.Symbol))
	jsonResponse(w, http.StatusCreated, unit)
}
