package tests

import (
	"context"
	"testing"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fixture wires the inventory and checkout services over in-memory stubs.
// Repos expose a nil DB, so every transactional path runs with tx == nil.
type fixture struct {
	tenantID uuid.UUID
	userID   uuid.UUID

	tenants     *stubTenantRepo
	materials   *stubRawMaterialRepo
	products    *stubProductRepo
	boms        *stubBOMRepo
	adjustments *stubStockAdjustmentRepo
	sales       *stubSaleRepo
	refunds     *stubRefundRepo
	marketplace *stubMarketplaceRepo
	customers   *stubCustomerRepo

	bom         service.BOMService
	sale        service.SaleService
	refund      service.RefundService
	rawMaterial service.RawMaterialService
	market      service.MarketplaceService
	report      service.ReportService
	customer    service.CustomerService
	settings    service.SettingsService
}

func newFixture() *fixture {
	f := &fixture{
		tenantID:    uuid.New(),
		userID:      uuid.New(),
		tenants:     newStubTenantRepo(),
		materials:   newStubRawMaterialRepo(),
		products:    newStubProductRepo(),
		adjustments: newStubStockAdjustmentRepo(),
		sales:       newStubSaleRepo(),
		marketplace: newStubMarketplaceRepo(),
	}
	f.boms = newStubBOMRepo(f.materials)
	f.refunds = newStubRefundRepo(f.sales, f.products)
	f.customers = newStubCustomerRepo(f.sales)

	f.bom = service.NewBOMService(f.boms, f.materials, f.products, f.adjustments, nil)
	f.sale = service.NewSaleService(f.sales, f.products, f.boms, f.tenants, f.customers, f.bom, nil)
	f.refund = service.NewRefundService(f.refunds, f.sales, f.products, f.boms, f.bom)
	f.rawMaterial = service.NewRawMaterialService(f.materials, f.adjustments)
	f.market = service.NewMarketplaceService(f.marketplace, f.products, f.materials, f.adjustments)
	f.report = service.NewReportService(f.sales, f.refunds, f.boms, f.materials, f.products)
	f.customer = service.NewCustomerService(f.customers)
	f.settings = service.NewSettingsService(f.tenants)
	return f
}

func (f *fixture) addMaterial(name, stock, cost string) *model.RawMaterial {
	return f.materials.add(&model.RawMaterial{
		TenantID:  f.tenantID,
		Name:      name,
		SKU:       "RM-TST-" + uuid.NewString()[:6],
		Unit:      "kg",
		StockQty:  dec(stock),
		CostPrice: dec(cost),
		Active:    true,
	})
}

func (f *fixture) addProduct(name, price string) *model.Product {
	return f.products.add(&model.Product{
		TenantID: f.tenantID,
		Name:     name,
		SKU:      "P-" + uuid.NewString()[:8],
		Price:    dec(price),
		Unit:     "pcs",
		Active:   true,
	})
}

// saveBOM stores a recipe for the product and returns its response.
func (f *fixture) saveBOM(t *testing.T, productID uuid.UUID, lines map[*model.RawMaterial]string) *dto.BOMResponse {
	t.Helper()
	req := dto.SaveBOMRequest{}
	for mat, qty := range lines {
		req.Items = append(req.Items, dto.BOMItemInput{
			RawMaterialID: mat.ID.String(),
			Quantity:      dec(qty),
		})
	}
	resp, err := f.bom.SaveBOM(context.Background(), f.tenantID, productID, req)
	require.NoError(t, err)
	return resp
}
