package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MovementIn  = "IN"
	MovementOut = "OUT"
)

// LedgerEntry records one stock movement. Entries are append-only: nothing in
// the repository layer updates or deletes them.
type LedgerEntry struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	MovementDate      time.Time       `gorm:"type:date;not null;index"`
	MovementType      string          `gorm:"type:varchar(3);not null"` // "IN" | "OUT"
	Quantity          decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	MovementReference string          `gorm:"type:varchar(100);index"`
	CreatedAt         time.Time

	Item *Item `gorm:"foreignKey:ItemID"`
}

// TableName keeps the original table name (item_ledger) instead of ledger_entries.
func (LedgerEntry) TableName() string { return "item_ledger" }

// Signed returns the quantity with the sign of its direction.
func (e LedgerEntry) Signed() decimal.Decimal {
	if e.MovementType == MovementOut {
		return e.Quantity.Neg()
	}
	return e.Quantity
}
