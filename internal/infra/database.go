package infra

import (
	"fmt"
	"time"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx, registers the otelgorm
// tracing plugin and, when autoMigrate is set, creates or updates the schema.
func NewDatabase(dsn string, autoMigrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName("pos"))); err != nil {
		return nil, fmt.Errorf("otelgorm plugin: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if autoMigrate {
		if err := RunMigrations(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// RunMigrations creates every table and then applies the constraints GORM
// tags cannot express. Safe to run repeatedly.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.Customer{},
		&model.Item{},
		&model.Purchase{},
		&model.PurchaseLine{},
		&model.Sale{},
		&model.SaleLine{},
		&model.LedgerEntry{},
		&model.CashFlowEntry{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches adds CHECK constraints as a storage-level backstop for
// the ledger rules. Each statement is guarded so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ name, table, check string }{
		{"chk_items_stock_non_negative", "items", "current_stock >= 0"},
		{"chk_purchase_lines_qty_positive", "purchase_lines", "quantity > 0 AND rate >= 0"},
		{"chk_sale_lines_qty_positive", "sale_lines", "quantity > 0 AND rate >= 0"},
		{"chk_item_ledger_movement", "item_ledger", "movement_type IN ('IN','OUT') AND quantity > 0"},
		{"chk_cash_flow_entry", "cash_flow", "type IN ('IN','OUT') AND amount >= 0"},
	}
	for _, p := range patches {
		sql := fmt.Sprintf(`
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
    ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
  END IF;
END $$`, p.name, p.table, p.name, p.check)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.name, err)
		}
	}
	return nil
}
