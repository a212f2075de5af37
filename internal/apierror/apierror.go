// Package apierror holds the JSON bodies written for 4xx and 5xx responses.
// Every body carries a human readable "detail"; nothing internal goes in it.
package apierror

import "github.com/shopspring/decimal"

// APIError is the plain {detail} body.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError adds per-field messages keyed by JSON path (lines[0].quantity).
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}

// StockError tells the client which item lacked stock and by how much.
type StockError struct {
	Detail    string          `json:"detail"`
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name,omitempty"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

func NewStock(msg, itemID, itemName string, requested, available decimal.Decimal) *StockError {
	return &StockError{
		Detail:    msg,
		ItemID:    itemID,
		ItemName:  itemName,
		Requested: requested,
		Available: available,
	}
}
