package infra

import (
	"fmt"

	"github.com/jmsleo/kreasiPOS/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches for the
// constraints GORM cannot express (partial unique indexes, check constraints).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the full schema. Also used by integration tests
// against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Category{},
		&model.Customer{},
		&model.Product{},
		&model.RawMaterial{},
		&model.BOMHeader{},
		&model.BOMItem{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Refund{},
		&model.RefundItem{},
		&model.StockAdjustment{},
		&model.MarketplaceItem{},
		&model.RestockOrder{},
		&model.PaymentMethod{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS / guarded DO blocks so re-running on an
// already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// One active BOM header per product, enforced at the DB level.
		{"unique active bom per product", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_bom_headers_one_active') THEN
    CREATE UNIQUE INDEX idx_bom_headers_one_active
        ON bom_headers (product_id)
        WHERE active = true;
  END IF;
END $$`},
		// Raw-material stock must never go negative, whatever the app does.
		{"non-negative raw material stock", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_raw_materials_stock_nonneg') THEN
    ALTER TABLE raw_materials
      ADD CONSTRAINT chk_raw_materials_stock_nonneg CHECK (stock_qty >= 0);
  END IF;
END $$`},
		// Finished-goods stock must never go negative either.
		{"non-negative product stock", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_stock_nonneg') THEN
    ALTER TABLE products
      ADD CONSTRAINT chk_products_stock_nonneg CHECK (stock_qty >= 0);
  END IF;
END $$`},
		// Refunded quantity can never exceed the sold quantity.
		{"refunded qty bounded by sold qty", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sale_items_refunded_qty') THEN
    ALTER TABLE sale_items
      ADD CONSTRAINT chk_sale_items_refunded_qty CHECK (refunded_qty >= 0 AND refunded_qty <= quantity);
  END IF;
END $$`},
		// Versions are unique per product — history stays unambiguous.
		{"unique bom version per product", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_bom_headers_product_version') THEN
    CREATE UNIQUE INDEX idx_bom_headers_product_version
        ON bom_headers (product_id, version);
  END IF;
END $$`},
		{"pending restock orders index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_restock_orders_pending') THEN
    CREATE INDEX idx_restock_orders_pending
        ON restock_orders (created_at)
        WHERE status = 'pending';
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
