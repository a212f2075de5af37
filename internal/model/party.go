package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Supplier is the counterparty of a purchase.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Contact   *string
	Email     *string
	Address   *string
	Status    string `gorm:"type:varchar(10);not null;default:'Active'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Customer is the counterparty of a sale.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Contact   *string
	Email     *string
	Address   *string
	Status    string `gorm:"type:varchar(10);not null;default:'Active'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
