package repository

import (
	"context"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefundRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rf *model.Refund) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Refund, error)
	FindByIDTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Refund, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.RefundFilter) ([]model.Refund, int64, error)
	ListBySaleID(ctx context.Context, tenantID, saleID uuid.UUID) ([]model.Refund, error)
	ListCompletedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]model.Refund, error)
	CountToday(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (int64, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string, processedBy uuid.UUID) error
	CancelTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type refundRepo struct{ db *gorm.DB }

func NewRefundRepository(db *gorm.DB) RefundRepository { return &refundRepo{db: db} }

func (r *refundRepo) DB() *gorm.DB { return r.db }

func (r *refundRepo) Create(ctx context.Context, tx *gorm.DB, rf *model.Refund) error {
	return tx.WithContext(ctx).Create(rf).Error
}

func (r *refundRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Refund, error) {
	var rf model.Refund
	err := r.db.WithContext(ctx).
		Preload("Items.SaleItem.Product").
		Preload("Sale").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&rf).Error
	return &rf, err
}

func (r *refundRepo) FindByIDTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Refund, error) {
	var rf model.Refund
	err := tx.Preload("Items.SaleItem.Product").
		Preload("Sale").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&rf).Error
	return &rf, err
}

func (r *refundRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.RefundFilter) ([]model.Refund, int64, error) {
	var refunds []model.Refund
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Refund{}).Where("tenant_id = ?", tenantID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
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
	err := q.Preload("Items.SaleItem.Product").
		Preload("Sale").
		Order("created_at DESC").
		Offset(offset).Limit(filter.PageSize).
		Find(&refunds).Error
	return refunds, total, err
}

func (r *refundRepo) ListBySaleID(ctx context.Context, tenantID, saleID uuid.UUID) ([]model.Refund, error) {
	var refunds []model.Refund
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND sale_id = ?", tenantID, saleID).
		Order("created_at ASC").
		Find(&refunds).Error
	return refunds, err
}

func (r *refundRepo) ListCompletedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]model.Refund, error) {
	var refunds []model.Refund
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			tenantID, model.RefundCompleted, from, to).
		Find(&refunds).Error
	return refunds, err
}

// CountToday backs refund number generation: RF-YYYYMMDD-NNNNNN where NNNNNN
// is today's per-tenant sequence.
func (r *refundRepo) CountToday(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (int64, error) {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	var count int64
	err := db.Model(&model.Refund{}).
		Where("tenant_id = ? AND DATE(created_at) = CURRENT_DATE", tenantID).
		Count(&count).Error
	return count, err
}

func (r *refundRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string, processedBy uuid.UUID) error {
	return tx.Model(&model.Refund{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       status,
		"processed_by": processedBy,
		"processed_at": time.Now(),
	}).Error
}

// CancelTx flips a refund to cancelled without touching processed_by.
func (r *refundRepo) CancelTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Refund{}).Where("id = ?", id).
		Update("status", model.RefundCancelled).Error
}
