package dto

import "github.com/shopspring/decimal"

type InventoryFilter struct {
	ItemID string `form:"item_id" validate:"omitempty,uuid"`
}

type LedgerEntryResponse struct {
	ID                string          `json:"id"`
	ItemID            string          `json:"item_id"`
	ItemName          string          `json:"item_name,omitempty"`
	MovementDate      string          `json:"movement_date"`
	MovementType      string          `json:"movement_type"`
	Quantity          decimal.Decimal `json:"quantity"`
	MovementReference string          `json:"movement_reference"`
	CreatedAt         string          `json:"created_at"`
}

type AmountPoint struct {
	ID     string          `json:"id"`
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type CashFlowPoint struct {
	ID     string          `json:"id"`
	Date   string          `json:"date"`
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

type DashboardResponse struct {
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalPurchases  decimal.Decimal `json:"total_purchases"`
	NetCashflow     decimal.Decimal `json:"net_cashflow"`
	TotalItems      int64           `json:"total_items"`
	RecentSales     []AmountPoint   `json:"recent_sales"`
	RecentPurchases []AmountPoint   `json:"recent_purchases"`
	RecentCashflow  []CashFlowPoint `json:"recent_cashflow"`
}

// ReconciliationRow is an item whose cached stock disagrees with its ledger.
type ReconciliationRow struct {
	ItemID        string          `json:"item_id"`
	ItemName      string          `json:"item_name"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	LedgerBalance decimal.Decimal `json:"ledger_balance"`
	Difference    decimal.Decimal `json:"difference"`
}
