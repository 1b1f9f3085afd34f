package repository

import (
	"context"

	"github.com/jmsleo/kreasiPOS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockAdjustmentFilter defines filters for the adjustment audit trail.
type StockAdjustmentFilter struct {
	RawMaterialID *uuid.UUID
	ProductID     *uuid.UUID
	Type          string
	Page          int
	Limit         int
}

type StockAdjustmentRepository interface {
	Create(ctx context.Context, a *model.StockAdjustment) error
	CreateTx(tx *gorm.DB, a *model.StockAdjustment) error
	List(ctx context.Context, tenantID uuid.UUID, filter StockAdjustmentFilter) ([]model.StockAdjustment, int64, error)
}

type stockAdjustmentRepo struct{ db *gorm.DB }

func NewStockAdjustmentRepository(db *gorm.DB) StockAdjustmentRepository {
	return &stockAdjustmentRepo{db: db}
}

func (r *stockAdjustmentRepo) Create(ctx context.Context, a *model.StockAdjustment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *stockAdjustmentRepo) CreateTx(tx *gorm.DB, a *model.StockAdjustment) error {
	return tx.Create(a).Error
}

func (r *stockAdjustmentRepo) List(ctx context.Context, tenantID uuid.UUID, filter StockAdjustmentFilter) ([]model.StockAdjustment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockAdjustment{}).Where("tenant_id = ?", tenantID)

	if filter.RawMaterialID != nil {
		q = q.Where("raw_material_id = ?", *filter.RawMaterialID)
	}
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var adjustments []model.StockAdjustment
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&adjustments).Error
	return adjustments, total, err
}
