package tests

import (
	"context"
	"regexp"
	"testing"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var materialSKUPattern = regexp.MustCompile(`^RM-[A-Z]{3}-\d{6}$`)

func TestCreateRawMaterialGeneratesSKU(t *testing.T) {
	f := newFixture()

	resp, err := f.rawMaterial.Create(context.Background(), f.tenantID, dto.CreateRawMaterialRequest{
		Name:      "Wheat Flour",
		Unit:      "kg",
		StockQty:  dec("25"),
		CostPrice: dec("3.5"),
	})
	require.NoError(t, err)

	assert.Regexp(t, materialSKUPattern, resp.SKU)
	assert.Equal(t, "RM-WHE", resp.SKU[:6], "prefix comes from the name")
	assert.True(t, resp.StockQty.Equal(dec("25")))
	assert.True(t, resp.Active)
}

func TestCreateRawMaterialShortNamePadsSKU(t *testing.T) {
	f := newFixture()

	resp, err := f.rawMaterial.Create(context.Background(), f.tenantID, dto.CreateRawMaterialRequest{
		Name: "Je",
		Unit: "l",
	})
	require.NoError(t, err)
	assert.Equal(t, "RM-JEX", resp.SKU[:6])
}

func TestCreateRawMaterialRejectsDuplicateName(t *testing.T) {
	f := newFixture()
	f.addMaterial("Flour", "10", "5")

	_, err := f.rawMaterial.Create(context.Background(), f.tenantID, dto.CreateRawMaterialRequest{
		Name: "Flour",
		Unit: "kg",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAdjustStockManualAdd(t *testing.T) {
	f := newFixture()
	flour := f.addMaterial("Flour", "10", "5")

	resp, err := f.rawMaterial.AdjustStock(context.Background(), f.tenantID, flour.ID, f.userID, dto.AdjustRawMaterialStockRequest{
		Quantity: dec("4.5"),
		Reason:   "supplier delivery",
	})
	require.NoError(t, err)
	assert.True(t, resp.StockQty.Equal(dec("14.5")), "stock %s", resp.StockQty)

	adjs := f.adjustments.byType(model.AdjustmentManualAdd)
	require.Len(t, adjs, 1)
	assert.True(t, adjs[0].QtyBefore.Equal(dec("10")))
	assert.True(t, adjs[0].QtyAfter.Equal(dec("14.5")))
	assert.True(t, adjs[0].QtyChanged.Equal(dec("4.5")))
	require.NotNil(t, adjs[0].UserID)
	assert.Equal(t, f.userID, *adjs[0].UserID)
}

func TestAdjustStockManualSubtract(t *testing.T) {
	f := newFixture()
	flour := f.addMaterial("Flour", "10", "5")

	resp, err := f.rawMaterial.AdjustStock(context.Background(), f.tenantID, flour.ID, f.userID, dto.AdjustRawMaterialStockRequest{
		Quantity: dec("-2"),
		Reason:   "spoilage",
	})
	require.NoError(t, err)
	assert.True(t, resp.StockQty.Equal(dec("8")))
	assert.Len(t, f.adjustments.byType(model.AdjustmentManualSubtract), 1)
}

func TestAdjustStockRejectsNegativeResult(t *testing.T) {
	f := newFixture()
	flour := f.addMaterial("Flour", "10", "5")

	_, err := f.rawMaterial.AdjustStock(context.Background(), f.tenantID, flour.ID, f.userID, dto.AdjustRawMaterialStockRequest{
		Quantity: dec("-10.5"),
		Reason:   "typo",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot go negative")
	assert.True(t, flour.StockQty.Equal(dec("10")), "stock untouched on rejection")
}

func TestAdjustStockRejectsZero(t *testing.T) {
	f := newFixture()
	flour := f.addMaterial("Flour", "10", "5")

	_, err := f.rawMaterial.AdjustStock(context.Background(), f.tenantID, flour.ID, f.userID, dto.AdjustRawMaterialStockRequest{
		Quantity: dec("0"),
		Reason:   "noop",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be zero")
}

func TestListAdjustmentsFiltersByMaterial(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	flour := f.addMaterial("Flour", "10", "5")
	sugar := f.addMaterial("Sugar", "10", "2")

	for _, m := range []uuid.UUID{flour.ID, sugar.ID, flour.ID} {
		_, err := f.rawMaterial.AdjustStock(ctx, f.tenantID, m, f.userID, dto.AdjustRawMaterialStockRequest{
			Quantity: dec("1"),
			Reason:   "restock shelf",
		})
		require.NoError(t, err)
	}

	adjs, total, err := f.rawMaterial.ListAdjustments(ctx, f.tenantID, flour.ID, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, adjs, 2)
}

func TestDeleteRawMaterialSoftDeletes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	flour := f.addMaterial("Flour", "10", "5")

	require.NoError(t, f.rawMaterial.Delete(ctx, f.tenantID, flour.ID))

	_, err := f.rawMaterial.Get(ctx, f.tenantID, flour.ID)
	assert.ErrorIs(t, err, service.ErrRawMaterialNotFound)
	assert.False(t, flour.Active)
}
