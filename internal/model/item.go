package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a stocked article. CurrentStock is a cached balance of the item's
// ledger entries and is only written by the ledger engine.
type Item struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string          `gorm:"not null"`
	UnitOfMeasure *string         `gorm:"type:varchar(30)"`
	CurrentStock  decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	Image         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
