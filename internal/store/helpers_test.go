package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/goodsledger/internal/model"
)

type fixture struct {
	stock    *model.Location
	person   *model.Location
	category *model.Category
	unit     *model.Unit
}

func newFixture(t *testing.T, database *sql.DB) fixture {
	t.Helper()
	ctx := context.Background()

	stock, err := CreateStock(ctx, database, "Call Center", nil)
	require.NoError(t, err)
	person, err := CreateStaff(ctx, database, "Ivanov", "Ivan", "")
	require.NoError(t, err)
	category, err := CreateCategory(ctx, database, "IP phones")
	require.NoError(t, err)
	unit, err := CreateUnit(ctx, database, 796, "Piece", "pcs")
	require.NoError(t, err)

	return fixture{stock: stock, person: person, category: category, unit: unit}
}
