package service

import (
	"context"
	"testing"
	"time"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCreate_OpeningStockGoesThroughLedger(t *testing.T) {
	f := newFixture()
	f.items.(*itemService).now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	resp, err := f.items.Create(context.Background(), dto.CreateItemRequest{Name: "Bolt", CurrentStock: dec("7")})
	require.NoError(t, err)
	assert.True(t, resp.CurrentStock.Equal(dec("7")))

	require.Len(t, f.store.ledger, 1)
	e := f.store.ledger[0]
	assert.Equal(t, model.MovementIn, e.MovementType)
	assert.Equal(t, "OPENING-"+resp.ID, e.MovementReference)
	assert.True(t, e.Quantity.Equal(dec("7")))
	assert.Equal(t, 1, f.cache.invalidations)

	rows, err := f.reports.StockReconciliation(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestItemCreate_ZeroStockHasNoLedgerEntry(t *testing.T) {
	f := newFixture()
	_, err := f.items.Create(context.Background(), dto.CreateItemRequest{Name: "Nut"})
	require.NoError(t, err)
	assert.Empty(t, f.store.ledger)
}

func TestItemCreate_NegativeStockRejected(t *testing.T) {
	f := newFixture()
	_, err := f.items.Create(context.Background(), dto.CreateItemRequest{Name: "Nut", CurrentStock: dec("-1")})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "current_stock")
	assert.Empty(t, f.store.items)
}

func TestItemCreate_StockPrecisionChecked(t *testing.T) {
	f := newFixture()
	for _, stock := range []string{"0.0005", "100000000000"} {
		_, err := f.items.Create(context.Background(), dto.CreateItemRequest{Name: "Nut", CurrentStock: dec(stock)})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, stock)
		assert.Contains(t, vErr.Fields, "current_stock")
	}
	assert.Empty(t, f.store.items)

	_, err := f.items.Create(context.Background(), dto.CreateItemRequest{Name: "Nut", CurrentStock: dec("2.125")})
	require.NoError(t, err)
}

func TestItemUpdate_KeepsStock(t *testing.T) {
	f := newFixture()
	it := f.store.addItem("Bolt", "4")

	resp, err := f.items.Update(context.Background(), it.ID, dto.UpdateItemRequest{Name: strPtr("Hex bolt"), UnitOfMeasure: strPtr("pcs")})
	require.NoError(t, err)
	assert.Equal(t, "Hex bolt", resp.Name)
	assert.Equal(t, "pcs", *resp.UnitOfMeasure)
	assert.True(t, f.store.stock(it.ID).Equal(dec("4")))

	_, err = f.items.Update(context.Background(), it.ID, dto.UpdateItemRequest{Name: strPtr("")})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestItemDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	unused := f.store.addItem("Unused", "0")
	used := f.store.addItem("Used", "0")
	sup := f.store.addSupplier("Acme", nil)
	_, err := f.ledger.PostPurchase(ctx, staff, purchaseReq(sup.ID, line(used.ID, "1", "1")))
	require.NoError(t, err)

	require.NoError(t, f.items.Delete(ctx, unused.ID))

	err = f.items.Delete(ctx, used.ID)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr, "items with ledger history stay")

	err = f.items.Delete(ctx, uuid.New())
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Item not found", nf.Error())
}

func TestItemList_Paginates(t *testing.T) {
	f := newFixture()
	for _, n := range []string{"c", "a", "b"} {
		f.store.addItem(n, "0")
	}
	list, err := f.items.List(context.Background(), dto.ListQuery{Skip: 1, Limit: 5})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Name)
	assert.Equal(t, "c", list[1].Name)
}
