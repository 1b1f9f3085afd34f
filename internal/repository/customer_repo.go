package repository

import (
	"context"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerStats aggregates a customer's purchase history from the sales table.
type CustomerStats struct {
	TotalSpent decimal.Decimal
	SalesCount int64
	LastSaleAt *time.Time
}

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.CustomerFilter) ([]model.Customer, int64, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Stats(ctx context.Context, tenantID, id uuid.UUID) (*CustomerStats, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).First(&c).Error
	return &c, err
}

func (r *customerRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.CustomerFilter) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Customer{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", like, like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := q.Order("name ASC").Offset(offset).Limit(filter.PageSize).Find(&customers).Error
	return customers, total, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&model.Customer{}).Error
}

func (r *customerRepo) Stats(ctx context.Context, tenantID, id uuid.UUID) (*CustomerStats, error) {
	var row struct {
		TotalSpent decimal.Decimal
		SalesCount int64
		LastSaleAt *time.Time
	}
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(total_amount), 0) AS total_spent, COUNT(*) AS sales_count, MAX(created_at) AS last_sale_at").
		Where("tenant_id = ? AND customer_id = ?", tenantID, id).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &CustomerStats{
		TotalSpent: row.TotalSpent,
		SalesCount: row.SalesCount,
		LastSaleAt: row.LastSaleAt,
	}, nil
}
