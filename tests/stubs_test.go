package tests

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errNotFound = gorm.ErrRecordNotFound

// ── Raw material stub ─────────────────────────────────────────────────────────

// stubRawMaterialRepo is an in-memory RawMaterialRepository for testing.
type stubRawMaterialRepo struct {
	materials map[uuid.UUID]*model.RawMaterial
}

func newStubRawMaterialRepo() *stubRawMaterialRepo {
	return &stubRawMaterialRepo{materials: make(map[uuid.UUID]*model.RawMaterial)}
}

func (r *stubRawMaterialRepo) add(m *model.RawMaterial) *model.RawMaterial {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Active == false {
		m.Active = true
	}
	r.materials[m.ID] = m
	return m
}

func (r *stubRawMaterialRepo) Create(_ context.Context, m *model.RawMaterial) error {
	r.add(m)
	return nil
}

// Find methods hand out copies, the way a real query materializes rows —
// later stock writes must not retroactively change what a caller read.
func (r *stubRawMaterialRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.RawMaterial, error) {
	m, ok := r.materials[id]
	if !ok || m.TenantID != tenantID || !m.Active {
		return nil, errNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *stubRawMaterialRepo) FindBySKU(_ context.Context, tenantID uuid.UUID, sku string) (*model.RawMaterial, error) {
	for _, m := range r.materials {
		if m.TenantID == tenantID && m.SKU == sku {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *stubRawMaterialRepo) FindByName(_ context.Context, tenantID uuid.UUID, name string) (*model.RawMaterial, error) {
	for _, m := range r.materials {
		if m.TenantID == tenantID && m.Name == name && m.Active {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *stubRawMaterialRepo) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]model.RawMaterial, error) {
	var out []model.RawMaterial
	for _, id := range ids {
		if m, ok := r.materials[id]; ok && m.TenantID == tenantID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubRawMaterialRepo) List(_ context.Context, tenantID uuid.UUID, _ dto.RawMaterialFilter) ([]model.RawMaterial, int64, error) {
	var out []model.RawMaterial
	for _, m := range r.materials {
		if m.TenantID == tenantID && m.Active {
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubRawMaterialRepo) ListLowStock(_ context.Context, tenantID uuid.UUID) ([]model.RawMaterial, error) {
	var out []model.RawMaterial
	for _, m := range r.materials {
		if m.TenantID == tenantID && m.Active && m.LowStock() {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubRawMaterialRepo) Update(_ context.Context, m *model.RawMaterial) error {
	r.materials[m.ID] = m
	return nil
}

func (r *stubRawMaterialRepo) SoftDelete(_ context.Context, tenantID, id uuid.UUID) error {
	m, ok := r.materials[id]
	if !ok || m.TenantID != tenantID {
		return errNotFound
	}
	m.Active = false
	return nil
}

func (r *stubRawMaterialRepo) FindByIDsForUpdate(_ *gorm.DB, tenantID uuid.UUID, ids []uuid.UUID) ([]model.RawMaterial, error) {
	return r.FindByIDs(context.Background(), tenantID, ids)
}

func (r *stubRawMaterialRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, newQty interface{}) error {
	m, ok := r.materials[id]
	if !ok {
		return errNotFound
	}
	qty, ok := newQty.(decimal.Decimal)
	if !ok {
		return fmt.Errorf("unexpected stock type %T", newQty)
	}
	m.StockQty = qty
	return nil
}

func (r *stubRawMaterialRepo) DB() *gorm.DB { return nil }

var _ repository.RawMaterialRepository = (*stubRawMaterialRepo)(nil)

// ── Product stub ──────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.add(p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, tenantID uuid.UUID, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.TenantID == tenantID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, tenantID uuid.UUID, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.TenantID == tenantID && p.Barcode != nil && *p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *stubProductRepo) FindByName(_ context.Context, tenantID uuid.UUID, name string) (*model.Product, error) {
	for _, p := range r.products {
		if p.TenantID == tenantID && p.Name == name && p.Active {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *stubProductRepo) List(_ context.Context, tenantID uuid.UUID, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.TenantID == tenantID && p.Active {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) CountActive(_ context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range r.products {
		if p.TenantID == tenantID && p.Active {
			count++
		}
	}
	return count, nil
}

func (r *stubProductRepo) CountLowStock(_ context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range r.products {
		if p.TenantID == tenantID && p.Active && p.RequiresStockTracking && !p.HasBOM && p.StockQty <= p.StockAlert {
			count++
		}
	}
	return count, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, tenantID, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return errNotFound
	}
	p.Active = false
	return nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, tenantID, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), tenantID, id)
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.StockQty += delta
	return nil
}

func (r *stubProductRepo) DeductStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	if p.StockQty < qty {
		return repository.ErrInsufficientStock
	}
	p.StockQty -= qty
	return nil
}

func (r *stubProductRepo) SetBOMFlagsTx(_ *gorm.DB, id uuid.UUID, hasBOM bool, bomCost decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.HasBOM = hasBOM
	p.BOMCost = bomCost
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── BOM stub ──────────────────────────────────────────────────────────────────

// stubBOMRepo keeps headers in memory. Read methods attach RawMaterial rows
// from the material stub, mirroring the repository's Preload behavior.
type stubBOMRepo struct {
	headers   map[uuid.UUID]*model.BOMHeader
	materials *stubRawMaterialRepo
}

func newStubBOMRepo(materials *stubRawMaterialRepo) *stubBOMRepo {
	return &stubBOMRepo{
		headers:   make(map[uuid.UUID]*model.BOMHeader),
		materials: materials,
	}
}

func (r *stubBOMRepo) enrich(h *model.BOMHeader) *model.BOMHeader {
	for i := range h.Items {
		if m, ok := r.materials.materials[h.Items[i].RawMaterialID]; ok {
			h.Items[i].RawMaterial = m
		}
	}
	return h
}

func (r *stubBOMRepo) CreateHeaderTx(_ *gorm.DB, h *model.BOMHeader) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	r.headers[h.ID] = h
	return nil
}

func (r *stubBOMRepo) CreateItemsTx(_ *gorm.DB, items []model.BOMItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	if len(items) > 0 {
		if h, ok := r.headers[items[0].BOMHeaderID]; ok {
			h.Items = items
		}
	}
	return nil
}

func (r *stubBOMRepo) DeactivateAllTx(_ *gorm.DB, productID uuid.UUID) error {
	for _, h := range r.headers {
		if h.ProductID == productID {
			h.Active = false
		}
	}
	return nil
}

func (r *stubBOMRepo) ActivateTx(_ *gorm.DB, headerID uuid.UUID) error {
	h, ok := r.headers[headerID]
	if !ok {
		return errNotFound
	}
	h.Active = true
	return nil
}

func (r *stubBOMRepo) FindActiveByProductID(_ context.Context, tenantID, productID uuid.UUID) (*model.BOMHeader, error) {
	for _, h := range r.headers {
		if h.TenantID == tenantID && h.ProductID == productID && h.Active {
			return r.enrich(h), nil
		}
	}
	return nil, errNotFound
}

func (r *stubBOMRepo) FindByID(_ context.Context, tenantID, headerID uuid.UUID) (*model.BOMHeader, error) {
	h, ok := r.headers[headerID]
	if !ok || h.TenantID != tenantID {
		return nil, errNotFound
	}
	return r.enrich(h), nil
}

func (r *stubBOMRepo) FindByIDTx(_ *gorm.DB, headerID uuid.UUID) (*model.BOMHeader, error) {
	h, ok := r.headers[headerID]
	if !ok {
		return nil, errNotFound
	}
	return r.enrich(h), nil
}

func (r *stubBOMRepo) ListVersions(_ context.Context, tenantID, productID uuid.UUID) ([]model.BOMHeader, error) {
	var out []model.BOMHeader
	for _, h := range r.headers {
		if h.TenantID == tenantID && h.ProductID == productID {
			out = append(out, *r.enrich(h))
		}
	}
	return out, nil
}

func (r *stubBOMRepo) ListActiveByTenant(_ context.Context, tenantID uuid.UUID) ([]model.BOMHeader, error) {
	var out []model.BOMHeader
	for _, h := range r.headers {
		if h.TenantID == tenantID && h.Active {
			out = append(out, *r.enrich(h))
		}
	}
	return out, nil
}

func (r *stubBOMRepo) MaxVersion(_ context.Context, _ *gorm.DB, productID uuid.UUID) (int, error) {
	maxVersion := 0
	for _, h := range r.headers {
		if h.ProductID == productID && h.Version > maxVersion {
			maxVersion = h.Version
		}
	}
	return maxVersion, nil
}

func (r *stubBOMRepo) DB() *gorm.DB { return nil }

var _ repository.BOMRepository = (*stubBOMRepo)(nil)

// ── Stock adjustment stub ─────────────────────────────────────────────────────

type stubStockAdjustmentRepo struct {
	adjustments []model.StockAdjustment
}

func newStubStockAdjustmentRepo() *stubStockAdjustmentRepo {
	return &stubStockAdjustmentRepo{}
}

func (r *stubStockAdjustmentRepo) Create(_ context.Context, a *model.StockAdjustment) error {
	return r.CreateTx(nil, a)
}

func (r *stubStockAdjustmentRepo) CreateTx(_ *gorm.DB, a *model.StockAdjustment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	r.adjustments = append(r.adjustments, *a)
	return nil
}

func (r *stubStockAdjustmentRepo) List(_ context.Context, tenantID uuid.UUID, filter repository.StockAdjustmentFilter) ([]model.StockAdjustment, int64, error) {
	var out []model.StockAdjustment
	for _, a := range r.adjustments {
		if a.TenantID != tenantID {
			continue
		}
		if filter.RawMaterialID != nil && a.RawMaterialID != *filter.RawMaterialID {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *stubStockAdjustmentRepo) byType(t string) []model.StockAdjustment {
	var out []model.StockAdjustment
	for _, a := range r.adjustments {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

var _ repository.StockAdjustmentRepository = (*stubStockAdjustmentRepo)(nil)

// ── Sale stub ─────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok || s.TenantID != tenantID {
		return nil, errNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) FindByReceiptNumber(_ context.Context, tenantID uuid.UUID, number string) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.TenantID == tenantID && s.ReceiptNumber == number {
			return s, nil
		}
	}
	return nil, errNotFound
}

func (r *stubSaleRepo) List(_ context.Context, tenantID uuid.UUID, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) ListBetween(_ context.Context, tenantID uuid.UUID, from, to time.Time) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.TenantID == tenantID && !s.CreatedAt.Before(from) && s.CreatedAt.Before(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) ListRecent(_ context.Context, tenantID uuid.UUID, limit int) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubSaleRepo) FindByIDTx(_ *gorm.DB, tenantID, id uuid.UUID) (*model.Sale, error) {
	return r.FindByID(context.Background(), tenantID, id)
}

func (r *stubSaleRepo) UpdateItemRefundedQtyTx(_ *gorm.DB, saleItemID uuid.UUID, delta int) error {
	for _, s := range r.sales {
		for i := range s.Items {
			if s.Items[i].ID == saleItemID {
				s.Items[i].RefundedQty += delta
				return nil
			}
		}
	}
	return errNotFound
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Refund stub ───────────────────────────────────────────────────────────────

// stubRefundRepo links refund items back to their sale items on read, the way
// the real repository preloads Items.SaleItem.Product.
type stubRefundRepo struct {
	refunds  map[uuid.UUID]*model.Refund
	sales    *stubSaleRepo
	products *stubProductRepo
}

func newStubRefundRepo(sales *stubSaleRepo, products *stubProductRepo) *stubRefundRepo {
	return &stubRefundRepo{
		refunds:  make(map[uuid.UUID]*model.Refund),
		sales:    sales,
		products: products,
	}
}

func (r *stubRefundRepo) enrich(rf *model.Refund) *model.Refund {
	sale, ok := r.sales.sales[rf.SaleID]
	if !ok {
		return rf
	}
	rf.Sale = sale
	for i := range rf.Items {
		for j := range sale.Items {
			if sale.Items[j].ID == rf.Items[i].SaleItemID {
				item := sale.Items[j]
				if p, ok := r.products.products[item.ProductID]; ok {
					item.Product = p
				}
				rf.Items[i].SaleItem = &item
			}
		}
	}
	return rf
}

func (r *stubRefundRepo) Create(_ context.Context, _ *gorm.DB, rf *model.Refund) error {
	if rf.ID == uuid.Nil {
		rf.ID = uuid.New()
	}
	rf.CreatedAt = time.Now()
	for i := range rf.Items {
		if rf.Items[i].ID == uuid.Nil {
			rf.Items[i].ID = uuid.New()
		}
		rf.Items[i].RefundID = rf.ID
	}
	r.refunds[rf.ID] = rf
	return nil
}

func (r *stubRefundRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Refund, error) {
	rf, ok := r.refunds[id]
	if !ok || rf.TenantID != tenantID {
		return nil, errNotFound
	}
	return r.enrich(rf), nil
}

func (r *stubRefundRepo) FindByIDTx(_ *gorm.DB, tenantID, id uuid.UUID) (*model.Refund, error) {
	return r.FindByID(context.Background(), tenantID, id)
}

func (r *stubRefundRepo) List(_ context.Context, tenantID uuid.UUID, _ dto.RefundFilter) ([]model.Refund, int64, error) {
	var out []model.Refund
	for _, rf := range r.refunds {
		if rf.TenantID == tenantID {
			out = append(out, *r.enrich(rf))
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubRefundRepo) ListBySaleID(_ context.Context, tenantID, saleID uuid.UUID) ([]model.Refund, error) {
	var out []model.Refund
	for _, rf := range r.refunds {
		if rf.TenantID == tenantID && rf.SaleID == saleID {
			out = append(out, *rf)
		}
	}
	return out, nil
}

func (r *stubRefundRepo) ListCompletedBetween(_ context.Context, tenantID uuid.UUID, from, to time.Time) ([]model.Refund, error) {
	var out []model.Refund
	for _, rf := range r.refunds {
		if rf.TenantID == tenantID && rf.Status == model.RefundCompleted &&
			!rf.CreatedAt.Before(from) && rf.CreatedAt.Before(to) {
			out = append(out, *rf)
		}
	}
	return out, nil
}

func (r *stubRefundRepo) CountToday(_ context.Context, _ *gorm.DB, tenantID uuid.UUID) (int64, error) {
	var count int64
	for _, rf := range r.refunds {
		if rf.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (r *stubRefundRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string, processedBy uuid.UUID) error {
	rf, ok := r.refunds[id]
	if !ok {
		return errNotFound
	}
	now := time.Now()
	rf.Status = status
	rf.ProcessedBy = &processedBy
	rf.ProcessedAt = &now
	return nil
}

func (r *stubRefundRepo) CancelTx(_ *gorm.DB, id uuid.UUID) error {
	rf, ok := r.refunds[id]
	if !ok {
		return errNotFound
	}
	rf.Status = model.RefundCancelled
	return nil
}

func (r *stubRefundRepo) DB() *gorm.DB { return nil }

var _ repository.RefundRepository = (*stubRefundRepo)(nil)

// ── Customer stub ─────────────────────────────────────────────────────────────

// stubCustomerRepo computes purchase aggregates from the sale stub, the way
// the real repository aggregates over the sales table.
type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
	sales     *stubSaleRepo
}

func newStubCustomerRepo(sales *stubSaleRepo) *stubCustomerRepo {
	return &stubCustomerRepo{
		customers: make(map[uuid.UUID]*model.Customer),
		sales:     sales,
	}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.TenantID != tenantID {
		return nil, errNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCustomerRepo) List(_ context.Context, tenantID uuid.UUID, filter dto.CustomerFilter) ([]model.Customer, int64, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if c.TenantID != tenantID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return errNotFound
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	c, ok := r.customers[id]
	if !ok || c.TenantID != tenantID {
		return errNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) Stats(_ context.Context, tenantID, id uuid.UUID) (*repository.CustomerStats, error) {
	stats := &repository.CustomerStats{TotalSpent: decimal.Zero}
	for _, s := range r.sales.sales {
		if s.TenantID != tenantID || s.CustomerID == nil || *s.CustomerID != id {
			continue
		}
		stats.TotalSpent = stats.TotalSpent.Add(s.TotalAmount)
		stats.SalesCount++
		if stats.LastSaleAt == nil || s.CreatedAt.After(*stats.LastSaleAt) {
			created := s.CreatedAt
			stats.LastSaleAt = &created
		}
	}
	return stats, nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Tenant / user stubs ───────────────────────────────────────────────────────

type stubTenantRepo struct {
	tenants map[uuid.UUID]*model.Tenant
}

func newStubTenantRepo() *stubTenantRepo {
	return &stubTenantRepo{tenants: make(map[uuid.UUID]*model.Tenant)}
}

func (r *stubTenantRepo) Create(_ context.Context, _ *gorm.DB, t *model.Tenant) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tenants[t.ID] = t
	return nil
}

func (r *stubTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Tenant, error) {
	t, ok := r.tenants[id]
	if !ok {
		return nil, errNotFound
	}
	return t, nil
}

func (r *stubTenantRepo) FindBySubdomain(_ context.Context, subdomain string) (*model.Tenant, error) {
	for _, t := range r.tenants {
		if t.Subdomain != nil && *t.Subdomain == subdomain {
			return t, nil
		}
	}
	return nil, errNotFound
}

func (r *stubTenantRepo) FindByEmail(_ context.Context, email string) (*model.Tenant, error) {
	for _, t := range r.tenants {
		if t.Email == email {
			return t, nil
		}
	}
	return nil, errNotFound
}

func (r *stubTenantRepo) List(_ context.Context, _, _ int) ([]model.Tenant, int64, error) {
	var out []model.Tenant
	for _, t := range r.tenants {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTenantRepo) Update(_ context.Context, t *model.Tenant) error {
	r.tenants[t.ID] = t
	return nil
}

func (r *stubTenantRepo) DB() *gorm.DB { return nil }

var _ repository.TenantRepository = (*stubTenantRepo)(nil)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, _ *gorm.DB, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *stubUserRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.TenantID == tenantID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, tenantID, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok || u.TenantID != tenantID {
		return errNotFound
	}
	u.Active = false
	return nil
}

func (r *stubUserRepo) DB() *gorm.DB { return nil }

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Marketplace stub ──────────────────────────────────────────────────────────

type stubMarketplaceRepo struct {
	items   map[uuid.UUID]*model.MarketplaceItem
	orders  map[uuid.UUID]*model.RestockOrder
	methods map[uuid.UUID]*model.PaymentMethod
}

func newStubMarketplaceRepo() *stubMarketplaceRepo {
	return &stubMarketplaceRepo{
		items:   make(map[uuid.UUID]*model.MarketplaceItem),
		orders:  make(map[uuid.UUID]*model.RestockOrder),
		methods: make(map[uuid.UUID]*model.PaymentMethod),
	}
}

func (r *stubMarketplaceRepo) CreateItem(_ context.Context, item *model.MarketplaceItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *stubMarketplaceRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.MarketplaceItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, errNotFound
	}
	return item, nil
}

func (r *stubMarketplaceRepo) ListItems(_ context.Context, activeOnly bool) ([]model.MarketplaceItem, error) {
	var out []model.MarketplaceItem
	for _, item := range r.items {
		if activeOnly && !item.Active {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (r *stubMarketplaceRepo) UpdateItem(_ context.Context, item *model.MarketplaceItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *stubMarketplaceRepo) CreateOrder(_ context.Context, o *model.RestockOrder) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	r.orders[o.ID] = o
	return nil
}

func (r *stubMarketplaceRepo) FindOrderByID(_ context.Context, id uuid.UUID) (*model.RestockOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errNotFound
	}
	if item, ok := r.items[o.MarketplaceItemID]; ok {
		o.MarketplaceItem = item
	}
	return o, nil
}

func (r *stubMarketplaceRepo) FindOrderByIDTx(_ *gorm.DB, id uuid.UUID) (*model.RestockOrder, error) {
	return r.FindOrderByID(context.Background(), id)
}

func (r *stubMarketplaceRepo) ListOrders(_ context.Context, tenantID *uuid.UUID, _ dto.RestockOrderFilter) ([]model.RestockOrder, int64, error) {
	var out []model.RestockOrder
	for _, o := range r.orders {
		if tenantID != nil && o.TenantID != *tenantID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubMarketplaceRepo) UpdateOrderTx(_ *gorm.DB, o *model.RestockOrder) error {
	if _, ok := r.orders[o.ID]; !ok {
		return errNotFound
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubMarketplaceRepo) CreatePaymentMethod(_ context.Context, pm *model.PaymentMethod) error {
	if pm.ID == uuid.Nil {
		pm.ID = uuid.New()
	}
	r.methods[pm.ID] = pm
	return nil
}

func (r *stubMarketplaceRepo) ListPaymentMethods(_ context.Context, activeOnly bool) ([]model.PaymentMethod, error) {
	var out []model.PaymentMethod
	for _, pm := range r.methods {
		if activeOnly && !pm.Active {
			continue
		}
		out = append(out, *pm)
	}
	return out, nil
}

func (r *stubMarketplaceRepo) DeactivatePaymentMethod(_ context.Context, id uuid.UUID) error {
	pm, ok := r.methods[id]
	if !ok {
		return errNotFound
	}
	pm.Active = false
	return nil
}

func (r *stubMarketplaceRepo) DB() *gorm.DB { return nil }

var _ repository.MarketplaceRepository = (*stubMarketplaceRepo)(nil)
