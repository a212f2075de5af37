package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashFlowEntry is a monetary movement. Postings create one per document;
// manual entries are created, edited and deleted through the API.
// Type: "IN" | "OUT"
type CashFlowEntry struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransactionDate time.Time       `gorm:"type:date;not null;index"`
	Type            string          `gorm:"type:varchar(3);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(19,5);not null"`
	Description     *string
	RefID           *string `gorm:"type:varchar(100);index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (CashFlowEntry) TableName() string { return "cash_flow" }
