package repository

import (
	"context"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarketplaceRepository covers both the global item catalog (managed by the
// platform superadmin, not tenant-scoped) and per-tenant restock orders.
type MarketplaceRepository interface {
	// Catalog
	CreateItem(ctx context.Context, item *model.MarketplaceItem) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.MarketplaceItem, error)
	ListItems(ctx context.Context, activeOnly bool) ([]model.MarketplaceItem, error)
	UpdateItem(ctx context.Context, item *model.MarketplaceItem) error

	// Restock orders
	CreateOrder(ctx context.Context, o *model.RestockOrder) error
	FindOrderByID(ctx context.Context, id uuid.UUID) (*model.RestockOrder, error)
	FindOrderByIDTx(tx *gorm.DB, id uuid.UUID) (*model.RestockOrder, error)
	ListOrders(ctx context.Context, tenantID *uuid.UUID, filter dto.RestockOrderFilter) ([]model.RestockOrder, int64, error)
	UpdateOrderTx(tx *gorm.DB, o *model.RestockOrder) error

	// Payment accounts tenants can pay restock orders into
	CreatePaymentMethod(ctx context.Context, pm *model.PaymentMethod) error
	ListPaymentMethods(ctx context.Context, activeOnly bool) ([]model.PaymentMethod, error)
	DeactivatePaymentMethod(ctx context.Context, id uuid.UUID) error

	DB() *gorm.DB
}

type marketplaceRepo struct{ db *gorm.DB }

func NewMarketplaceRepository(db *gorm.DB) MarketplaceRepository { return &marketplaceRepo{db: db} }

func (r *marketplaceRepo) DB() *gorm.DB { return r.db }

func (r *marketplaceRepo) CreateItem(ctx context.Context, item *model.MarketplaceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *marketplaceRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*model.MarketplaceItem, error) {
	var item model.MarketplaceItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	return &item, err
}

func (r *marketplaceRepo) ListItems(ctx context.Context, activeOnly bool) ([]model.MarketplaceItem, error) {
	var items []model.MarketplaceItem
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("active = true")
	}
	err := q.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *marketplaceRepo) UpdateItem(ctx context.Context, item *model.MarketplaceItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *marketplaceRepo) CreateOrder(ctx context.Context, o *model.RestockOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *marketplaceRepo) FindOrderByID(ctx context.Context, id uuid.UUID) (*model.RestockOrder, error) {
	var o model.RestockOrder
	err := r.db.WithContext(ctx).Preload("MarketplaceItem").First(&o, id).Error
	return &o, err
}

func (r *marketplaceRepo) FindOrderByIDTx(tx *gorm.DB, id uuid.UUID) (*model.RestockOrder, error) {
	var o model.RestockOrder
	err := tx.Preload("MarketplaceItem").First(&o, id).Error
	return &o, err
}

// ListOrders returns a tenant's own orders when tenantID is set, or the whole
// platform queue (superadmin view) when nil.
func (r *marketplaceRepo) ListOrders(ctx context.Context, tenantID *uuid.UUID, filter dto.RestockOrderFilter) ([]model.RestockOrder, int64, error) {
	var orders []model.RestockOrder
	var total int64

	q := r.db.WithContext(ctx).Model(&model.RestockOrder{})
	if tenantID != nil {
		q = q.Where("tenant_id = ?", *tenantID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := q.Preload("MarketplaceItem").
		Order("created_at DESC").
		Offset(offset).Limit(filter.PageSize).
		Find(&orders).Error
	return orders, total, err
}

func (r *marketplaceRepo) UpdateOrderTx(tx *gorm.DB, o *model.RestockOrder) error {
	return tx.Save(o).Error
}

func (r *marketplaceRepo) CreatePaymentMethod(ctx context.Context, pm *model.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(pm).Error
}

func (r *marketplaceRepo) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]model.PaymentMethod, error) {
	var methods []model.PaymentMethod
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("active = true")
	}
	err := q.Order("name ASC").Find(&methods).Error
	return methods, err
}

func (r *marketplaceRepo) DeactivatePaymentMethod(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.PaymentMethod{}).
		Where("id = ?", id).Update("active", false).Error
}
