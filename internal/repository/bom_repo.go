package repository

import (
	"context"

	"github.com/jmsleo/kreasiPOS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BOMRepository is the data access contract for recipe headers and items.
// The one-active-version-per-product invariant is enforced twice: here via
// DeactivateAllTx before activating, and in the database by a partial unique
// index on (product_id) WHERE active.
type BOMRepository interface {
	CreateHeaderTx(tx *gorm.DB, h *model.BOMHeader) error
	CreateItemsTx(tx *gorm.DB, items []model.BOMItem) error
	DeactivateAllTx(tx *gorm.DB, productID uuid.UUID) error
	ActivateTx(tx *gorm.DB, headerID uuid.UUID) error

	FindActiveByProductID(ctx context.Context, tenantID, productID uuid.UUID) (*model.BOMHeader, error)
	FindByID(ctx context.Context, tenantID, headerID uuid.UUID) (*model.BOMHeader, error)
	FindByIDTx(tx *gorm.DB, headerID uuid.UUID) (*model.BOMHeader, error)
	ListVersions(ctx context.Context, tenantID, productID uuid.UUID) ([]model.BOMHeader, error)
	ListActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.BOMHeader, error)
	MaxVersion(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (int, error)

	DB() *gorm.DB
}

type bomRepo struct{ db *gorm.DB }

func NewBOMRepository(db *gorm.DB) BOMRepository { return &bomRepo{db: db} }

func (r *bomRepo) DB() *gorm.DB { return r.db }

func (r *bomRepo) CreateHeaderTx(tx *gorm.DB, h *model.BOMHeader) error {
	return tx.Create(h).Error
}

func (r *bomRepo) CreateItemsTx(tx *gorm.DB, items []model.BOMItem) error {
	return tx.Create(&items).Error
}

func (r *bomRepo) DeactivateAllTx(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Model(&model.BOMHeader{}).
		Where("product_id = ? AND active = true", productID).
		Update("active", false).Error
}

func (r *bomRepo) ActivateTx(tx *gorm.DB, headerID uuid.UUID) error {
	return tx.Model(&model.BOMHeader{}).Where("id = ?", headerID).Update("active", true).Error
}

func (r *bomRepo) FindActiveByProductID(ctx context.Context, tenantID, productID uuid.UUID) (*model.BOMHeader, error) {
	var h model.BOMHeader
	err := r.db.WithContext(ctx).
		Preload("Items.RawMaterial").
		Where("tenant_id = ? AND product_id = ? AND active = true", tenantID, productID).
		First(&h).Error
	return &h, err
}

func (r *bomRepo) FindByID(ctx context.Context, tenantID, headerID uuid.UUID) (*model.BOMHeader, error) {
	var h model.BOMHeader
	err := r.db.WithContext(ctx).
		Preload("Items.RawMaterial").
		Where("id = ? AND tenant_id = ?", headerID, tenantID).
		First(&h).Error
	return &h, err
}

func (r *bomRepo) FindByIDTx(tx *gorm.DB, headerID uuid.UUID) (*model.BOMHeader, error) {
	var h model.BOMHeader
	err := tx.Preload("Items.RawMaterial").First(&h, headerID).Error
	return &h, err
}

func (r *bomRepo) ListVersions(ctx context.Context, tenantID, productID uuid.UUID) ([]model.BOMHeader, error) {
	var headers []model.BOMHeader
	err := r.db.WithContext(ctx).
		Preload("Items.RawMaterial").
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("version DESC").Find(&headers).Error
	return headers, err
}

func (r *bomRepo) ListActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.BOMHeader, error) {
	var headers []model.BOMHeader
	err := r.db.WithContext(ctx).
		Preload("Items.RawMaterial").
		Preload("Product").
		Where("tenant_id = ? AND active = true", tenantID).
		Find(&headers).Error
	return headers, err
}

func (r *bomRepo) MaxVersion(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (int, error) {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	var maxVersion int
	err := db.Model(&model.BOMHeader{}).
		Where("product_id = ?", productID).
		Select("COALESCE(MAX(version), 0)").Scan(&maxVersion).Error
	return maxVersion, err
}
