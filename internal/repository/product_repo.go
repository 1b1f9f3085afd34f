package repository

import (
	"context"
	"errors"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned by DeductStockTx when the conditional
// decrement matches no row — the product no longer holds enough stock.
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*model.Product, error)
	FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*model.Product, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.Product, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error)
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountLowStock(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Update(ctx context.Context, p *model.Product) error
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Product, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error
	DeductStockTx(tx *gorm.DB, id uuid.UUID, qty int) error
	SetBOMFlagsTx(tx *gorm.DB, id uuid.UUID, hasBOM bool, bomCost decimal.Decimal) error

	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND tenant_id = ?", id, tenantID).First(&p).Error
	return &p, err
}

func (r *productRepo) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("sku = ? AND tenant_id = ?", sku, tenantID).First(&p).Error
	return &p, err
}

func (r *productRepo) FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("barcode = ? AND tenant_id = ? AND active = true", barcode, tenantID).First(&p).Error
	return &p, err
}

func (r *productRepo) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND LOWER(name) = LOWER(?)", tenantID, name).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("tenant_id = ?", tenantID)

	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	} else {
		q = q.Where("active = true")
	}
	if filter.Search != "" {
		q = q.Where("name ILIKE ? OR sku ILIKE ? OR barcode = ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%", filter.Search)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.HasBOM != nil {
		q = q.Where("has_bom = ?", *filter.HasBOM)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := q.Preload("Category").
		Order("name ASC").
		Offset(offset).Limit(filter.PageSize).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("tenant_id = ? AND active = true", tenantID).
		Count(&count).Error
	return count, err
}

// CountLowStock counts active tracked products at or below their alert level.
// Recipe products are excluded: their availability is governed by raw
// materials, which the low-stock report covers.
func (r *productRepo) CountLowStock(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("tenant_id = ? AND active = true AND requires_stock_tracking = true AND has_bom = false AND stock_qty <= stock_alert", tenantID).
		Count(&count).Error
	return count, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("active", false).Error
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.Where("id = ? AND tenant_id = ?", id, tenantID).First(&p).Error
	return &p, err
}

func (r *productRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("stock_qty", gorm.Expr("stock_qty + ?", delta)).Error
}

// DeductStockTx decrements finished-goods stock only when enough is on hand.
// The WHERE guard makes the decrement atomic, so concurrent sales over the
// same product cannot drive stock_qty negative.
func (r *productRepo) DeductStockTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock_qty >= ?", id, qty).
		Update("stock_qty", gorm.Expr("stock_qty - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *productRepo) SetBOMFlagsTx(tx *gorm.DB, id uuid.UUID, hasBOM bool, bomCost decimal.Decimal) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"has_bom":  hasBOM,
		"bom_cost": bomCost,
	}).Error
}
