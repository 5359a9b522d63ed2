package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/erazemk/goodsledger/internal/store"
)

// LocationsHandler handles stock and staff endpoints.
type LocationsHandler struct {
	DB *sql.DB
}

type createStockRequest struct {
	Department string `json:"department" validate:"required,max=255"`
	Code       *int   `json:"code" validate:"omitempty,gt=0"`
}

type createStaffRequest struct {
	Surname    string `json:"surname" validate:"required,max=255"`
	Forename   string `json:"forename" validate:"required,max=255"`
	Patronymic string `json:"patronymic" validate:"max=255"`
}

// CreateStock handles POST /api/stocks.
func (h *LocationsHandler) CreateStock(w http.ResponseWriter, r *http.Request) {
	var req createStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stock, err := store.CreateStock(r.Context(), h.DB, req.Department, req.Code)
	if err != nil {
		jsonError(w, http.StatusConflict, "department or code already exists")
		return
	}

	zap.L().Info("stock created", zap.Int64("location_id", stock.ID), zap.String("department", req.Department))
	jsonResponse(w, http.StatusCreated, stock)
}

// CreateStaff handles POST /api/staff.
func (h *LocationsHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	staff, err := store.CreateStaff(r.Context(), h.DB, req.Surname, req.Forename, req.Patronymic)
	if err != nil {
		zap.L().Error("failed to create staff", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to create staff")
		return
	}

	zap.L().Info("staff created", zap.Int64("location_id", staff.ID), zap.String("name", staff.String()))
	jsonResponse(w, http.StatusCreated, staff)
}

// Get handles GET /api/locations/{id}.
func (h *LocationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	location, err := store.GetLocation(r.Context(), h.DB, id)
	if err != nil {
		zap.L().Error("failed to get location", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to get location")
		return
	}
	if location == nil {
		jsonError(w, http.StatusNotFound, "location not found")
		return
	}

	jsonResponse(w, http.StatusOK, location)
}
