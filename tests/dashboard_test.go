package tests

import (
	"context"
	"testing"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registerSaleAt records a cash sale and backdates it, so reports can be
// tested against a known timeline.
func (f *fixture) registerSaleAt(t *testing.T, product *model.Product, qty int, at time.Time) {
	t.Helper()
	resp, err := f.sale.RegisterSale(context.Background(), f.tenantID, f.userID, dto.CreateSaleRequest{
		Items:         []dto.CartItemInput{{ProductID: product.ID.String(), Quantity: qty}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	f.sales.sales[id].CreatedAt = at
}

func TestDashboardSummarizesToday(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now()

	soda := f.addProduct("Soda", "3.00")
	f.addProduct("Cake", "10.00")

	f.registerSaleAt(t, soda, 2, now) // 6.00
	f.registerSaleAt(t, soda, 1, now) // 3.00
	f.registerSaleAt(t, soda, 4, now.AddDate(0, 0, -2))

	summary, err := f.report.Dashboard(ctx, f.tenantID)
	require.NoError(t, err)

	assert.True(t, summary.TodayRevenue.Equal(dec("9")), "revenue %s", summary.TodayRevenue)
	assert.Equal(t, 2, summary.TodayTransactions)
	assert.EqualValues(t, 2, summary.TotalProducts)
	// Recent sales span the whole history, newest first.
	require.Len(t, summary.RecentSales, 3)
	assert.True(t, summary.RecentSales[2].TotalAmount.Equal(dec("12")))
}

func TestDashboardCapsRecentSalesAtFive(t *testing.T) {
	f := newFixture()
	now := time.Now()

	soda := f.addProduct("Soda", "3.00")
	for i := 0; i < 7; i++ {
		f.registerSaleAt(t, soda, 1, now.Add(time.Duration(-i)*time.Minute))
	}

	summary, err := f.report.Dashboard(context.Background(), f.tenantID)
	require.NoError(t, err)
	assert.Len(t, summary.RecentSales, 5)
}

func TestDashboardCountsLowStockTrackedProducts(t *testing.T) {
	f := newFixture()

	low := f.addProduct("Soda", "3.00")
	low.RequiresStockTracking = true
	low.StockQty = 2
	low.StockAlert = 5

	healthy := f.addProduct("Water", "1.00")
	healthy.RequiresStockTracking = true
	healthy.StockQty = 50
	healthy.StockAlert = 5

	// Manufactured products draw on raw materials, not finished stock.
	flour := f.addMaterial("Flour", "10", "5")
	cake := f.addProduct("Cake", "10.00")
	f.saveBOM(t, cake.ID, map[*model.RawMaterial]string{flour: "0.2"})
	cake.RequiresStockTracking = true
	cake.StockQty = 0

	summary, err := f.report.Dashboard(context.Background(), f.tenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.LowStockProducts)
}

func TestSalesSeriesZeroFillsQuietDays(t *testing.T) {
	f := newFixture()
	now := time.Now()

	soda := f.addProduct("Soda", "3.00")
	f.registerSaleAt(t, soda, 2, now)                   // today: 6.00
	f.registerSaleAt(t, soda, 1, now.AddDate(0, 0, -2)) // two days ago: 3.00

	series, err := f.report.SalesSeries(context.Background(), f.tenantID, 3)
	require.NoError(t, err)
	require.Len(t, series.Points, 3)

	assert.True(t, series.Points[0].Revenue.Equal(dec("3")))
	assert.Equal(t, 1, series.Points[0].Transactions)

	// The quiet middle day still gets a point.
	assert.True(t, series.Points[1].Revenue.IsZero())
	assert.Zero(t, series.Points[1].Transactions)

	assert.True(t, series.Points[2].Revenue.Equal(dec("6")))
	assert.Equal(t, 1, series.Points[2].Transactions)
}

func TestSalesSeriesClampsWindow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	series, err := f.report.SalesSeries(ctx, f.tenantID, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, series.Days)
	assert.Len(t, series.Points, 7)

	series, err = f.report.SalesSeries(ctx, f.tenantID, 500)
	require.NoError(t, err)
	assert.Equal(t, 90, series.Days)
	assert.Len(t, series.Points, 90)
}
