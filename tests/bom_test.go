package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/jmsleo/kreasiPOS/internal/apierror"
	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveBOMCreatesNewVersions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	flour := f.addMaterial("Flour", "100", "5")
	sugar := f.addMaterial("Sugar", "50", "2")
	cake := f.addProduct("Cake", "25.00")

	v1 := f.saveBOM(t, cake.ID, map[*model.RawMaterial]string{flour: "0.5"})
	assert.Equal(t, 1, v1.Version)
	assert.True(t, v1.Active)
	assert.True(t, v1.TotalCost.Equal(dec("2.5")), "cost %s", v1.TotalCost)

	v2 := f.saveBOM(t, cake.ID, map[*model.RawMaterial]string{flour: "0.5", sugar: "0.25"})
	assert.Equal(t, 2, v2.Version)
	assert.True(t, v2.Active)
	assert.True(t, v2.TotalCost.Equal(dec("3")), "cost %s", v2.TotalCost)

	versions, err := f.bom.ListVersions(ctx, f.tenantID, cake.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	activeCount := 0
	for _, v := range versions {
		if v.Active {
			activeCount++
			assert.Equal(t, 2, v.Version)
		}
	}
	assert.Equal(t, 1, activeCount, "exactly one version may be active")

	// Saving a recipe flags the product and refreshes its derived cost.
	assert.True(t, cake.HasBOM)
	assert.True(t, cake.BOMCost.Equal(dec("3")))
}

func TestSaveBOMRejectsDuplicateMaterial(t *testing.T) {
	f := newFixture()

	flour := f.addMaterial("Flour", "100", "5")
	cake := f.addProduct("Cake", "25.00")

	_, err := f.bom.SaveBOM(context.Background(), f.tenantID, cake.ID, dto.SaveBOMRequest{
		Items: []dto.BOMItemInput{
			{RawMaterialID: flour.ID.String(), Quantity: dec("0.5")},
			{RawMaterialID: flour.ID.String(), Quantity: dec("0.1")},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate raw material")
}

func TestSaveBOMRejectsUnknownMaterial(t *testing.T) {
	f := newFixture()
	cake := f.addProduct("Cake", "25.00")

	_, err := f.bom.SaveBOM(context.Background(), f.tenantID, cake.ID, dto.SaveBOMRequest{
		Items: []dto.BOMItemInput{
			{RawMaterialID: uuid.NewString(), Quantity: dec("0.5")},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestActivateVersionSwitchesActiveRecipe(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	flour := f.addMaterial("Flour", "100", "5")
	cake := f.addProduct("Cake", "25.00")

	v1 := f.saveBOM(t, cake.ID, map[*model.RawMaterial]string{flour: "0.5"})
	f.saveBOM(t, cake.ID, map[*model.RawMaterial]string{flour: "0.8"})

	v1ID, err := uuid.Parse(v1.ID)
	require.NoError(t, err)

	reactivated, err := f.bom.ActivateVersion(ctx, f.tenantID, cake.ID, v1ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reactivated.Version)
	assert.True(t, reactivated.Active)

	active, err := f.bom.GetActiveBOM(ctx, f.tenantID, cake.ID)
	require.NoError(t, err)
	assert.Equal(t, v1.ID, active.ID)
}

func TestActivateVersionRejectsForeignProduct(t *testing.T) {
	f := newFixture()

	flour := f.addMaterial("Flour", "100", "5")
	cake := f.addProduct("Cake", "25.00")
	pie := f.addProduct("Pie", "18.00")

	v1 := f.saveBOM(t, cake.ID, map[*model.RawMaterial]string{flour: "0.5"})
	v1ID, _ := uuid.Parse(v1.ID)

	_, err := f.bom.ActivateVersion(context.Background(), f.tenantID, pie.ID, v1ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")
}

func TestDeleteBOMDeactivatesButKeepsHistory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	flour := f.addMaterial("Flour", "100", "5")
	cake := f.addProduct("Cake", "25.00")
	f.saveBOM(t, cake.ID, map[*model.RawMaterial]string{flour: "0.5"})

	require.NoError(t, f.bom.DeleteBOM(ctx, f.tenantID, cake.ID))

	_, err := f.bom.GetActiveBOM(ctx, f.tenantID, cake.ID)
	assert.ErrorIs(t, err, service.ErrBOMNotFound)

	// Versions stay readable — refunds of earlier sales still need them.
	versions, err := f.bom.ListVersions(ctx, f.tenantID, cake.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
	assert.False(t, cake.HasBOM)
	assert.True(t, cake.BOMCost.IsZero())
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	flour := f.addMaterial("Flour", "10", "5")
	cake := f.addProduct("Cake", "25.00")
	f.saveBOM(t, cake.ID, map[*model.RawMaterial]string{flour: "2.5"})

	// 4 units × 2.5 kg = 10 kg, exactly what is on hand.
	resp, err := f.bom.CheckAvailability(ctx, f.tenantID, cake.ID, 4)
	require.NoError(t, err)
	assert.True(t, resp.CanProduce)
	require.Len(t, resp.Requirements, 1)
	assert.True(t, resp.Requirements[0].Required.Equal(dec("10")))
	assert.True(t, resp.Requirements[0].Shortage.IsZero())
	assert.Empty(t, resp.MissingItems)

	// One more unit tips it over.
	resp, err = f.bom.CheckAvailability(ctx, f.tenantID, cake.ID, 5)
	require.NoError(t, err)
	assert.False(t, resp.CanProduce)
	require.Len(t, resp.MissingItems, 1)
	assert.True(t, resp.MissingItems[0].Shortage.Equal(dec("2.5")),
		"shortage %s", resp.MissingItems[0].Shortage)
}

func TestCheckAvailabilityWithoutRecipe(t *testing.T) {
	f := newFixture()
	cake := f.addProduct("Cake", "25.00")

	_, err := f.bom.CheckAvailability(context.Background(), f.tenantID, cake.ID, 1)
	assert.ErrorIs(t, err, service.ErrBOMNotFound)
}

func TestDeductForSaleConsumesAndAudits(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	flour := f.addMaterial("Flour", "10", "5")
	sugar := f.addMaterial("Sugar", "4", "2")
	cake := f.addProduct("Cake", "25.00")
	f.saveBOM(t, cake.ID, map[*model.RawMaterial]string{flour: "0.5", sugar: "0.25"})

	header, err := f.boms.FindActiveByProductID(ctx, f.tenantID, cake.ID)
	require.NoError(t, err)

	err = f.bom.DeductForSaleTx(nil, f.tenantID, header, 4, "Sale RC-TEST", &f.userID)
	require.NoError(t, err)

	assert.True(t, flour.StockQty.Equal(dec("8")), "flour %s", flour.StockQty)
	assert.True(t, sugar.StockQty.Equal(dec("3")), "sugar %s", sugar.StockQty)

	saleAdjs := f.adjustments.byType(model.AdjustmentSale)
	require.Len(t, saleAdjs, 2)
	for _, adj := range saleAdjs {
		assert.True(t, adj.QtyChanged.IsNegative())
		assert.Equal(t, f.tenantID, adj.TenantID)
	}
}

func TestDeductForSaleReportsEveryShortage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	flour := f.addMaterial("Flour", "1", "5")
	sugar := f.addMaterial("Sugar", "0.1", "2")
	cake := f.addProduct("Cake", "25.00")
	f.saveBOM(t, cake.ID, map[*model.RawMaterial]string{flour: "0.5", sugar: "0.25"})

	header, err := f.boms.FindActiveByProductID(ctx, f.tenantID, cake.ID)
	require.NoError(t, err)

	err = f.bom.DeductForSaleTx(nil, f.tenantID, header, 4, "Sale RC-TEST", &f.userID)
	require.Error(t, err)

	var shortage *apierror.InsufficientMaterials
	require.True(t, errors.As(err, &shortage))
	assert.Len(t, shortage.Shortages, 2, "both deficits must be reported")

	// Nothing was deducted.
	assert.True(t, flour.StockQty.Equal(dec("1")))
	assert.True(t, sugar.StockQty.Equal(dec("0.1")))
	assert.Empty(t, f.adjustments.byType(model.AdjustmentSale))
}

func TestRestoreForRefundReturnsMaterials(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	flour := f.addMaterial("Flour", "8", "5")
	cake := f.addProduct("Cake", "25.00")
	f.saveBOM(t, cake.ID, map[*model.RawMaterial]string{flour: "0.5"})

	header, err := f.boms.FindActiveByProductID(ctx, f.tenantID, cake.ID)
	require.NoError(t, err)

	err = f.bom.RestoreForRefundTx(nil, f.tenantID, header, 2, "Refund RF-TEST", &f.userID)
	require.NoError(t, err)

	assert.True(t, flour.StockQty.Equal(dec("9")), "flour %s", flour.StockQty)

	refundAdjs := f.adjustments.byType(model.AdjustmentRefund)
	require.Len(t, refundAdjs, 1)
	assert.True(t, refundAdjs[0].QtyChanged.Equal(dec("1")))
}

func TestCalculateCost(t *testing.T) {
	f := newFixture()

	flour := f.addMaterial("Flour", "100", "5")
	sugar := f.addMaterial("Sugar", "50", "2")
	cake := f.addProduct("Cake", "10.00")
	f.saveBOM(t, cake.ID, map[*model.RawMaterial]string{flour: "0.5", sugar: "0.25"})

	resp, err := f.bom.CalculateCost(context.Background(), f.tenantID, cake.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.BOMVersion)
	assert.True(t, resp.TotalCost.Equal(dec("3")), "cost %s", resp.TotalCost)
	assert.True(t, resp.SalePrice.Equal(dec("10")))
	assert.True(t, resp.GrossMargin.Equal(dec("7")), "margin %s", resp.GrossMargin)
	assert.Len(t, resp.Items, 2)
}
