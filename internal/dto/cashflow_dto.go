package dto

import "github.com/shopspring/decimal"

type CreateCashFlowRequest struct {
	TransactionDate string          `json:"transaction_date" validate:"required,datetime=2006-01-02"`
	Type            string          `json:"type"             validate:"required,oneof=IN OUT"`
	Amount          decimal.Decimal `json:"amount"           validate:"min=0"`
	Description     *string         `json:"description"      validate:"omitempty,max=255"`
	RefID           *string         `json:"ref_id"           validate:"omitempty,max=100"`
}

type UpdateCashFlowRequest struct {
	TransactionDate *string          `json:"transaction_date" validate:"omitempty,datetime=2006-01-02"`
	Type            *string          `json:"type"             validate:"omitempty,oneof=IN OUT"`
	Amount          *decimal.Decimal `json:"amount"`
	Description     *string          `json:"description"      validate:"omitempty,max=255"`
	RefID           *string          `json:"ref_id"           validate:"omitempty,max=100"`
}

type CashFlowResponse struct {
	ID              string          `json:"id"`
	TransactionDate string          `json:"transaction_date"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     *string         `json:"description"`
	RefID           *string         `json:"ref_id"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}
