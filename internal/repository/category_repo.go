package repository

import (
	"context"

	"github.com/jmsleo/kreasiPOS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Category, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepo{db: db} }

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&c).Error
	return &c, err
}

func (r *categoryRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = true", tenantID).
		Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoryRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("active", false).Error
}
