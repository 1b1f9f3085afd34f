package tests

import (
	"context"
	"strings"
	"testing"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sellCake registers a 3-unit sale of a recipe product (0.2 kg flour per
// unit) and returns the flour, the sale response, and the sale item id.
func sellCake(t *testing.T, f *fixture) (*model.RawMaterial, *dto.SaleResponse, string) {
	t.Helper()

	flour := f.addMaterial("Flour", "10", "5")
	cake := f.addProduct("Cake", "10.00")
	f.saveBOM(t, cake.ID, map[*model.RawMaterial]string{flour: "0.2"})

	resp, err := f.sale.RegisterSale(context.Background(), f.tenantID, f.userID, dto.CreateSaleRequest{
		Items:         []dto.CartItemInput{{ProductID: cake.ID.String(), Quantity: 3}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	return flour, resp, resp.Items[0].ID
}

func TestCreateRefundPending(t *testing.T) {
	f := newFixture()
	flour, sale, itemID := sellCake(t, f)

	refund, err := f.refund.CreateRefund(context.Background(), f.tenantID, f.userID, dto.CreateRefundRequest{
		SaleID: sale.ID,
		Reason: "customer returned goods",
		Items:  []dto.RefundItemInput{{SaleItemID: itemID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(refund.Number, "RF-"), "number %s", refund.Number)
	assert.Equal(t, model.RefundPending, refund.Status)
	assert.True(t, refund.Amount.Equal(dec("20")), "amount %s", refund.Amount)

	// Creation alone never touches inventory.
	assert.True(t, flour.StockQty.Equal(dec("9.4")), "flour %s", flour.StockQty)
}

func TestCreateRefundRejectsOverQuantity(t *testing.T) {
	f := newFixture()
	_, sale, itemID := sellCake(t, f)

	_, err := f.refund.CreateRefund(context.Background(), f.tenantID, f.userID, dto.CreateRefundRequest{
		SaleID: sale.ID,
		Reason: "customer returned goods",
		Items:  []dto.RefundItemInput{{SaleItemID: itemID, Quantity: 4}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only 3 refundable")
}

func TestPendingRefundsReserveQuantity(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, sale, itemID := sellCake(t, f)

	_, err := f.refund.CreateRefund(ctx, f.tenantID, f.userID, dto.CreateRefundRequest{
		SaleID: sale.ID,
		Reason: "customer returned goods",
		Items:  []dto.RefundItemInput{{SaleItemID: itemID, Quantity: 2}},
	})
	require.NoError(t, err)

	// 2 of 3 units are already reserved by the pending refund.
	_, err = f.refund.CreateRefund(ctx, f.tenantID, f.userID, dto.CreateRefundRequest{
		SaleID: sale.ID,
		Reason: "second return attempt",
		Items:  []dto.RefundItemInput{{SaleItemID: itemID, Quantity: 2}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only 1 refundable")
}

func TestProcessRefundRestoresThroughSnapshottedRecipe(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	flour, sale, itemID := sellCake(t, f)

	// Change the recipe after the sale: v2 uses 0.5 kg per unit. The refund
	// must still restore through v1, the version consumed at checkout.
	cakeID, err := uuid.Parse(sale.Items[0].ProductID)
	require.NoError(t, err)
	f.saveBOM(t, cakeID, map[*model.RawMaterial]string{flour: "0.5"})

	refund, err := f.refund.CreateRefund(ctx, f.tenantID, f.userID, dto.CreateRefundRequest{
		SaleID: sale.ID,
		Reason: "customer returned goods",
		Items:  []dto.RefundItemInput{{SaleItemID: itemID, Quantity: 2}},
	})
	require.NoError(t, err)
	refundID, _ := uuid.Parse(refund.ID)

	processed, err := f.refund.ProcessRefund(ctx, f.tenantID, f.userID, refundID)
	require.NoError(t, err)
	assert.Equal(t, model.RefundCompleted, processed.Status)
	assert.Equal(t, f.userID.String(), processed.ProcessedBy)

	// 9.4 + 2 × 0.2 (v1), not 2 × 0.5 (v2).
	assert.True(t, flour.StockQty.Equal(dec("9.8")), "flour %s", flour.StockQty)

	refundAdjs := f.adjustments.byType(model.AdjustmentRefund)
	require.Len(t, refundAdjs, 1)
	assert.True(t, refundAdjs[0].QtyChanged.Equal(dec("0.4")))

	// The refunded quantity is now booked against the sale item.
	saleID, _ := uuid.Parse(sale.ID)
	stored, err := f.sales.FindByID(ctx, f.tenantID, saleID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Items[0].RefundedQty)
}

func TestProcessRefundLegacyItemFallsBackToActiveRecipe(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	flour, sale, itemID := sellCake(t, f)

	// Sale rows from before header snapshotting carry no recipe reference.
	saleID, _ := uuid.Parse(sale.ID)
	f.sales.sales[saleID].Items[0].BOMHeaderID = nil

	refund, err := f.refund.CreateRefund(ctx, f.tenantID, f.userID, dto.CreateRefundRequest{
		SaleID: sale.ID,
		Reason: "customer returned goods",
		Items:  []dto.RefundItemInput{{SaleItemID: itemID, Quantity: 2}},
	})
	require.NoError(t, err)
	refundID, _ := uuid.Parse(refund.ID)

	_, err = f.refund.ProcessRefund(ctx, f.tenantID, f.userID, refundID)
	require.NoError(t, err)

	// Restored through the currently active recipe: 9.4 + 2 × 0.2.
	assert.True(t, flour.StockQty.Equal(dec("9.8")), "flour %s", flour.StockQty)
}

func TestProcessRefundRestoresFinishedStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	soda := f.addProduct("Soda", "3.00")
	soda.RequiresStockTracking = true
	soda.StockQty = 5

	sale, err := f.sale.RegisterSale(ctx, f.tenantID, f.userID, dto.CreateSaleRequest{
		Items:         []dto.CartItemInput{{ProductID: soda.ID.String(), Quantity: 2}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	require.Equal(t, 3, soda.StockQty)

	refund, err := f.refund.CreateRefund(ctx, f.tenantID, f.userID, dto.CreateRefundRequest{
		SaleID: sale.ID,
		Reason: "damaged packaging",
		Items:  []dto.RefundItemInput{{SaleItemID: sale.Items[0].ID, Quantity: 2}},
	})
	require.NoError(t, err)
	refundID, _ := uuid.Parse(refund.ID)

	_, err = f.refund.ProcessRefund(ctx, f.tenantID, f.userID, refundID)
	require.NoError(t, err)
	assert.Equal(t, 5, soda.StockQty)
}

func TestProcessRefundTwiceFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, sale, itemID := sellCake(t, f)

	refund, err := f.refund.CreateRefund(ctx, f.tenantID, f.userID, dto.CreateRefundRequest{
		SaleID: sale.ID,
		Reason: "customer returned goods",
		Items:  []dto.RefundItemInput{{SaleItemID: itemID, Quantity: 1}},
	})
	require.NoError(t, err)
	refundID, _ := uuid.Parse(refund.ID)

	_, err = f.refund.ProcessRefund(ctx, f.tenantID, f.userID, refundID)
	require.NoError(t, err)

	_, err = f.refund.ProcessRefund(ctx, f.tenantID, f.userID, refundID)
	assert.ErrorIs(t, err, service.ErrRefundNotPending)
}

func TestCancelRefundReleasesReservation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	flour, sale, itemID := sellCake(t, f)

	refund, err := f.refund.CreateRefund(ctx, f.tenantID, f.userID, dto.CreateRefundRequest{
		SaleID: sale.ID,
		Reason: "customer returned goods",
		Items:  []dto.RefundItemInput{{SaleItemID: itemID, Quantity: 2}},
	})
	require.NoError(t, err)
	refundID, _ := uuid.Parse(refund.ID)

	cancelled, err := f.refund.CancelRefund(ctx, f.tenantID, refundID)
	require.NoError(t, err)
	assert.Equal(t, model.RefundCancelled, cancelled.Status)
	assert.True(t, flour.StockQty.Equal(dec("9.4")), "cancel must not touch stock")

	// Cancelled refunds no longer reserve quantity.
	_, err = f.refund.CreateRefund(ctx, f.tenantID, f.userID, dto.CreateRefundRequest{
		SaleID: sale.ID,
		Reason: "retry",
		Items:  []dto.RefundItemInput{{SaleItemID: itemID, Quantity: 3}},
	})
	require.NoError(t, err)

	// And a cancelled refund cannot be processed.
	_, err = f.refund.ProcessRefund(ctx, f.tenantID, f.userID, refundID)
	assert.ErrorIs(t, err, service.ErrRefundNotPending)
}

func TestCreateRefundUnknownSaleItem(t *testing.T) {
	f := newFixture()
	_, sale, _ := sellCake(t, f)

	_, err := f.refund.CreateRefund(context.Background(), f.tenantID, f.userID, dto.CreateRefundRequest{
		SaleID: sale.ID,
		Reason: "customer returned goods",
		Items:  []dto.RefundItemInput{{SaleItemID: uuid.NewString(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")
}
