package repository

import (
	"context"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RawMaterialRepository interface {
	Create(ctx context.Context, m *model.RawMaterial) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.RawMaterial, error)
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*model.RawMaterial, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.RawMaterial, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]model.RawMaterial, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.RawMaterialFilter) ([]model.RawMaterial, int64, error)
	ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]model.RawMaterial, error)
	Update(ctx context.Context, m *model.RawMaterial) error
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	// FindByIDsForUpdate takes row locks so concurrent deductions serialize.
	FindByIDsForUpdate(tx *gorm.DB, tenantID uuid.UUID, ids []uuid.UUID) ([]model.RawMaterial, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, newQty interface{}) error

	DB() *gorm.DB
}

type rawMaterialRepo struct{ db *gorm.DB }

func NewRawMaterialRepository(db *gorm.DB) RawMaterialRepository { return &rawMaterialRepo{db: db} }

func (r *rawMaterialRepo) DB() *gorm.DB { return r.db }

func (r *rawMaterialRepo) Create(ctx context.Context, m *model.RawMaterial) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *rawMaterialRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.RawMaterial, error) {
	var m model.RawMaterial
	err := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&m).Error
	return &m, err
}

func (r *rawMaterialRepo) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*model.RawMaterial, error) {
	var m model.RawMaterial
	err := r.db.WithContext(ctx).Where("sku = ? AND tenant_id = ?", sku, tenantID).First(&m).Error
	return &m, err
}

func (r *rawMaterialRepo) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.RawMaterial, error) {
	var m model.RawMaterial
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND LOWER(name) = LOWER(?)", tenantID, name).First(&m).Error
	return &m, err
}

func (r *rawMaterialRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]model.RawMaterial, error) {
	var materials []model.RawMaterial
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&materials).Error
	return materials, err
}

func (r *rawMaterialRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.RawMaterialFilter) ([]model.RawMaterial, int64, error) {
	var materials []model.RawMaterial
	var total int64

	q := r.db.WithContext(ctx).Model(&model.RawMaterial{}).Where("tenant_id = ?", tenantID)

	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	} else {
		q = q.Where("active = true")
	}
	if filter.Search != "" {
		q = q.Where("name ILIKE ? OR sku ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.LowStock != nil && *filter.LowStock {
		q = q.Where("stock_alert > 0 AND stock_qty <= stock_alert")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := q.Order("name ASC").Offset(offset).Limit(filter.PageSize).Find(&materials).Error
	return materials, total, err
}

func (r *rawMaterialRepo) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]model.RawMaterial, error) {
	var materials []model.RawMaterial
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = true AND stock_alert > 0 AND stock_qty <= stock_alert", tenantID).
		Order("name ASC").Find(&materials).Error
	return materials, err
}

func (r *rawMaterialRepo) Update(ctx context.Context, m *model.RawMaterial) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *rawMaterialRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.RawMaterial{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("active", false).Error
}

func (r *rawMaterialRepo) FindByIDsForUpdate(tx *gorm.DB, tenantID uuid.UUID, ids []uuid.UUID) ([]model.RawMaterial, error) {
	var materials []model.RawMaterial
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("id ASC"). // deterministic lock order avoids deadlocks
		Find(&materials).Error
	return materials, err
}

func (r *rawMaterialRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, newQty interface{}) error {
	return tx.Model(&model.RawMaterial{}).Where("id = ?", id).
		Update("stock_qty", newQty).Error
}
