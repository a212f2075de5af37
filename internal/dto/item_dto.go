package dto

import "github.com/shopspring/decimal"

type CreateItemRequest struct {
	Name          string          `json:"name"            validate:"required,min=1,max=200"`
	UnitOfMeasure *string         `json:"unit_of_measure" validate:"omitempty,max=30"`
	CurrentStock  decimal.Decimal `json:"current_stock"   validate:"min=0"`
	Image         *string         `json:"image"`
}

// UpdateItemRequest cannot touch current_stock; stock only moves through the ledger.
type UpdateItemRequest struct {
	Name          *string `json:"name"            validate:"omitempty,min=1,max=200"`
	UnitOfMeasure *string `json:"unit_of_measure" validate:"omitempty,max=30"`
	Image         *string `json:"image"`
}

// AdjustStockRequest carries a signed correction: positive adds, negative removes.
type AdjustStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Date     *string         `json:"date"     validate:"omitempty,datetime=2006-01-02"`
	Reason   *string         `json:"reason"   validate:"omitempty,max=200"`
}

type ItemResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	UnitOfMeasure *string         `json:"unit_of_measure"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	Image         *string         `json:"image"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}
