package repository

import (
	"context"

	"github.com/jmsleo/kreasiPOS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantRepository defines the data access contract for tenants.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via mocks.
type TenantRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error)
	FindByEmail(ctx context.Context, email string) (*model.Tenant, error)
	List(ctx context.Context, page, limit int) ([]model.Tenant, int64, error)
	Update(ctx context.Context, t *model.Tenant) error
	DB() *gorm.DB
}

type tenantRepo struct{ db *gorm.DB }

func NewTenantRepository(db *gorm.DB) TenantRepository { return &tenantRepo{db: db} }

func (r *tenantRepo) DB() *gorm.DB { return r.db }

func (r *tenantRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Tenant) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *tenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	var t model.Tenant
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *tenantRepo) FindBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	var t model.Tenant
	err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&t).Error
	return &t, err
}

func (r *tenantRepo) FindByEmail(ctx context.Context, email string) (*model.Tenant, error) {
	var t model.Tenant
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&t).Error
	return &t, err
}

func (r *tenantRepo) List(ctx context.Context, page, limit int) ([]model.Tenant, int64, error) {
	var tenants []model.Tenant
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Tenant{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tenants).Error
	return tenants, total, err
}

func (r *tenantRepo) Update(ctx context.Context, t *model.Tenant) error {
	return r.db.WithContext(ctx).Save(t).Error
}
