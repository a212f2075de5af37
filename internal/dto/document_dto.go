package dto

import "github.com/shopspring/decimal"

type DocumentLineRequest struct {
	ItemID   string          `json:"item_id"  validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity" validate:"required,gt=0"`
	Rate     decimal.Decimal `json:"rate"     validate:"min=0"`
}

type PostPurchaseRequest struct {
	PurchaseDate string                `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	SupplierID   string                `json:"supplier_id"   validate:"required,uuid"`
	Lines        []DocumentLineRequest `json:"lines"         validate:"required,min=1,dive"`
}

type PostSaleRequest struct {
	SalesDate  string                `json:"sales_date"  validate:"required,datetime=2006-01-02"`
	CustomerID string                `json:"customer_id" validate:"required,uuid"`
	Lines      []DocumentLineRequest `json:"lines"       validate:"required,min=1,dive"`
}

// DocumentResponse is the header of a purchase or a sale.
type DocumentResponse struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Date        string          `json:"date"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	CustomerID  string          `json:"customer_id,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   string          `json:"created_at"`
}

type DocumentLineResponse struct {
	ID         string          `json:"id"`
	DocumentID string          `json:"document_id"`
	LineNo     int             `json:"line_no"`
	ItemID     string          `json:"item_id"`
	ItemName   string          `json:"item_name,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Rate       decimal.Decimal `json:"rate"`
	Amount     decimal.Decimal `json:"amount"`
}

type DocumentDetailResponse struct {
	Header DocumentResponse       `json:"header"`
	Lines  []DocumentLineResponse `json:"lines"`
}
