package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/goodsledger/internal/db"
	"github.com/erazemk/goodsledger/internal/model"
)

func TestCreateAndGetStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	code := 770
	stock, err := CreateStock(ctx, database, "Call Center", &code)
	require.NoError(t, err)
	assert.Equal(t, model.LocationStock, stock.Kind)
	require.NotNil(t, stock.Stock)
	assert.Nil(t, stock.Staff)
	assert.Equal(t, "Call Center", stock.Stock.Department)
	require.NotNil(t, stock.Stock.Code)
	assert.Equal(t, 770, *stock.Stock.Code)
	assert.Equal(t, "Call Center", stock.String())

	got, err := GetLocation(ctx, database, stock.ID)
	require.NoError(t, err)
	assert.Equal(t, stock.ID, got.ID)
	assert.False(t, got.IsStaff())
}

func TestCreateAndGetStaff(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	person, err := CreateStaff(ctx, database, "Ivanov", "Ivan", "Petrovich")
	require.NoError(t, err)
	assert.Equal(t, model.LocationStaff, person.Kind)
	require.NotNil(t, person.Staff)
	assert.Nil(t, person.Stock)
	assert.Equal(t, "Ivanov I.P.", person.String())

	noPatronymic, err := CreateStaff(ctx, database, "Smith", "John", "")
	require.NoError(t, err)
	assert.Empty(t, noPatronymic.Staff.Patronymic)
	assert.Equal(t, "Smith J.", noPatronymic.String())
}

func TestStockDepartmentIsUnique(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateStock(ctx, database, "IT", nil)
	require.NoError(t, err)

	_, err = CreateStock(ctx, database, "IT", nil)
	assert.Error(t, err)

	// The failed insert must not leave a dangling location row.
	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM locations`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestGetLocationNotFound(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	got, err := GetLocation(ctx, database, 42)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ResolveLocation(ctx, database, 42)
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}
