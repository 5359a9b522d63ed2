// Package api exposes the goods ledger over JSON HTTP endpoints.
package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/goodsledger/internal/transfer"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, engine *transfer.Engine) http.Handler {
	mux := http.NewServeMux()

	locationsHandler := &LocationsHandler{DB: db}
	catalogHandler := &CatalogHandler{DB: db}
	goodsHandler := &GoodsHandler{DB: db}
	transfersHandler := &TransfersHandler{Engine: engine}

	// Locations.
	mux.HandleFunc("POST /api/stocks", locationsHandler.CreateStock)
	mux.HandleFunc("POST /api/staff", locationsHandler.CreateStaff)
	mux.HandleFunc("GET /api/locations/{id}", locationsHandler.Get)

	// Catalog.
	mux.HandleFunc("POST /api/categories", catalogHandler.CreateCategory)
	mux.HandleFunc("POST /api/units", catalogHandler.CreateUnit)

	// Goods.
	mux.HandleFunc("GET /api/goods/{id}", goodsHandler.Get)

	// Transfers.
	mux.HandleFunc("POST /api/transfers", transfersHandler.Create)
	mux.HandleFunc("GET /api/transfers/{id}", transfersHandler.Get)
	mux.HandleFunc("POST /api/transfers/{id}/lines", transfersHandler.CreateLine)

	return mux
}
