package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is a posted purchase document. Lines are owned by the header and
// removed with it.
type Purchase struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseDate time.Time       `gorm:"type:date;not null;index"`
	SupplierID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(19,5);not null;default:0"`
	CreatedBy    string          `gorm:"type:varchar(100)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Supplier *Supplier     `gorm:"foreignKey:SupplierID"`
	Lines    []PurchaseLine `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

// PurchaseLine references its header by id only.
type PurchaseLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo     int             `gorm:"not null"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Rate       decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	Item *Item `gorm:"foreignKey:ItemID"`
}

// Sale is a posted sales document.
type Sale struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalesDate   time.Time       `gorm:"type:date;not null;index"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(19,5);not null;default:0"`
	CreatedBy   string          `gorm:"type:varchar(100)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
	Lines    []SaleLine `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

type SaleLine struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo   int             `gorm:"not null"`
	ItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Rate     decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	Item *Item `gorm:"foreignKey:ItemID"`
}
