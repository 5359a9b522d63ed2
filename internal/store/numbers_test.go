package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/goodsledger/internal/db"
)

func TestInventoryNumbersLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	max, err := MaxInventoryNumber(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, int64(0), max)

	created, err := CreateInventoryNumbers(ctx, database, []int64{103, 101, 102})
	require.NoError(t, err)
	require.Len(t, created, 3)
	for _, n := range created {
		assert.False(t, n.Attached())
	}

	max, err = MaxInventoryNumber(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, int64(103), max)

	found, err := FindInventoryNumbers(ctx, database, []int64{102, 103, 500})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, int64(102), found[0].Number)
	assert.Equal(t, int64(103), found[1].Number)

	g, err := CreateGoods(ctx, database, "Widget", f.stock.ID, f.category.ID, f.unit.ID)
	require.NoError(t, err)

	ids := []int64{created[0].ID, created[1].ID}
	require.NoError(t, SupplyInventoryNumbers(ctx, database, ids, &g.ID))

	attached, err := ListGoodsNumbers(ctx, database, g.ID)
	require.NoError(t, err)
	require.Len(t, attached, 2)
	assert.Equal(t, int64(101), attached[0].Number)
	require.NotNil(t, attached[0].GoodsID)
	assert.Equal(t, g.ID, *attached[0].GoodsID)

	withNumbers, err := GetGoodsWithNumbers(ctx, database, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 103}, withNumbers.InventoryNumbers)

	// Detach.
	require.NoError(t, SupplyInventoryNumbers(ctx, database, ids, nil))
	attached, err = ListGoodsNumbers(ctx, database, g.ID)
	require.NoError(t, err)
	assert.Empty(t, attached)

	byID, err := GetInventoryNumbers(ctx, database, ids)
	require.NoError(t, err)
	require.Len(t, byID, 2)
	assert.Nil(t, byID[0].GoodsID)

	require.NoError(t, DeleteInventoryNumbers(ctx, database, ids))
	remaining, err := FindInventoryNumbers(ctx, database, []int64{101, 102, 103})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, int64(102), remaining[0].Number)
}

func TestInventoryNumbersAreUnique(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateInventoryNumbers(ctx, database, []int64{7})
	require.NoError(t, err)

	_, err = CreateInventoryNumbers(ctx, database, []int64{7})
	assert.Error(t, err)

	_, err = CreateInventoryNumbers(ctx, database, []int64{0})
	assert.Error(t, err)
}

func TestIsSerialized(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	serialized, err := IsSerialized(ctx, database, "Widget")
	require.NoError(t, err)
	assert.False(t, serialized)

	g, err := CreateGoods(ctx, database, "Widget", f.stock.ID, f.category.ID, f.unit.ID)
	require.NoError(t, err)
	numbers, err := CreateInventoryNumbers(ctx, database, []int64{1})
	require.NoError(t, err)

	// Unattached numbers do not serialize anything.
	serialized, err = IsSerialized(ctx, database, "Widget")
	require.NoError(t, err)
	assert.False(t, serialized)

	require.NoError(t, SupplyInventoryNumbers(ctx, database, []int64{numbers[0].ID}, &g.ID))
	serialized, err = IsSerialized(ctx, database, "Widget")
	require.NoError(t, err)
	assert.True(t, serialized)

	serialized, err = IsSerialized(ctx, database, "Gadget")
	require.NoError(t, err)
	assert.False(t, serialized)
}

func TestIsSerializedRemembersHistory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	g, err := CreateGoods(ctx, database, "Widget", f.stock.ID, f.category.ID, f.unit.ID)
	require.NoError(t, err)
	numbers, err := CreateInventoryNumbers(ctx, database, []int64{1})
	require.NoError(t, err)

	transfer, err := CreateTransfer(ctx, database, testDate, nil, "write-off")
	require.NoError(t, err)
	line := newLine(transfer.ID, &g.ID, nil, 1)
	require.NoError(t, CreateTransferLine(ctx, database, line))
	require.NoError(t, LinkTransferLineNumbers(ctx, database, line.ID, []int64{numbers[0].ID}))

	// The number was written off and supplies nothing, but the name stays serialized.
	serialized, err := IsSerialized(ctx, database, "Widget")
	require.NoError(t, err)
	assert.True(t, serialized)
}

func TestBatches(t *testing.T) {
	assert.Nil(t, batches(nil, 3))
	assert.Equal(t, [][]int64{{1, 2, 3}}, batches([]int64{1, 2, 3}, 3))
	assert.Equal(t, [][]int64{{1, 2}, {3, 4}, {5}}, batches([]int64{1, 2, 3, 4, 5}, 2))
}

func TestInventoryNumbersAcrossBatches(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := newFixture(t, database)

	values := make([]int64, 3*maxBatch+7)
	for i := range values {
		values[i] = int64(len(values) - i)
	}
	created, err := CreateInventoryNumbers(ctx, database, values)
	require.NoError(t, err)
	ids := make([]int64, len(created))
	for i, n := range created {
		ids[i] = n.ID
	}

	goods, err := CreateGoods(ctx, database, "Widget", f.stock.ID, f.category.ID, f.unit.ID)
	require.NoError(t, err)
	require.NoError(t, SupplyInventoryNumbers(ctx, database, ids, &goods.ID))

	supplied, err := ListGoodsNumbers(ctx, database, goods.ID)
	require.NoError(t, err)
	assert.Len(t, supplied, len(values))

	byID, err := GetInventoryNumbers(ctx, database, ids)
	require.NoError(t, err)
	require.Len(t, byID, len(values))
	assert.Equal(t, int64(1), byID[0].Number)
	assert.Equal(t, int64(len(values)), byID[len(byID)-1].Number)

	found, err := FindInventoryNumbers(ctx, database, values)
	require.NoError(t, err)
	assert.Len(t, found, len(values))

	require.NoError(t, DeleteInventoryNumbers(ctx, database, ids))
	max, err := MaxInventoryNumber(ctx, database)
	require.NoError(t, err)
	assert.Zero(t, max)
}
