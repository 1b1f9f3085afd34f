package repository

import (
	"context"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Sale, error)
	FindByReceiptNumber(ctx context.Context, tenantID uuid.UUID, number string) (*model.Sale, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error)
	ListBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]model.Sale, error)
	ListRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Sale, error)

	FindByIDTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Sale, error)
	UpdateItemRefundedQtyTx(tx *gorm.DB, saleItemID uuid.UUID, delta int) error

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&s).Error
	return &s, err
}

func (r *saleRepo) FindByReceiptNumber(ctx context.Context, tenantID uuid.UUID, number string) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("receipt_number = ? AND tenant_id = ?", number, tenantID).
		First(&s).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("tenant_id = ?", tenantID)

	if filter.PaymentMethod != "" {
		q = q.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.DateFrom != "" {
		q = q.Where("DATE(created_at) >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("DATE(created_at) <= ?", filter.DateTo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := q.Preload("Items.Product").
		Order("created_at DESC").
		Offset(offset).Limit(filter.PageSize).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) ListBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, from, to).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) ListRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByIDTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := tx.Preload("Items.Product").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&s).Error
	return &s, err
}

func (r *saleRepo) UpdateItemRefundedQtyTx(tx *gorm.DB, saleItemID uuid.UUID, delta int) error {
	return tx.Model(&model.SaleItem{}).Where("id = ?", saleItemID).
		Update("refunded_qty", gorm.Expr("refunded_qty + ?", delta)).Error
}
