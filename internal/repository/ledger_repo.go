package repository

import (
	"context"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerFilter narrows the inventory ledger listing.
type LedgerFilter struct {
	ItemID *uuid.UUID
}

// LedgerRepository is append-only: there is no Update or Delete.
type LedgerRepository interface {
	CreateTx(tx *gorm.DB, e *model.LedgerEntry) error
	List(ctx context.Context, filter LedgerFilter) ([]model.LedgerEntry, error)
	// BalanceByItem returns Σ IN − Σ OUT per item.
	BalanceByItem(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error)
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) CreateTx(tx *gorm.DB, e *model.LedgerEntry) error {
	return tx.Omit("Item").Create(e).Error
}

func (r *ledgerRepo) List(ctx context.Context, filter LedgerFilter) ([]model.LedgerEntry, error) {
	q := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).Preload("Item")
	if filter.ItemID != nil {
		q = q.Where("item_id = ?", *filter.ItemID)
	}
	var entries []model.LedgerEntry
	err := q.Order("movement_date DESC").Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) BalanceByItem(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []struct {
		ItemID  uuid.UUID
		Balance decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Select("item_id, COALESCE(SUM(CASE WHEN movement_type = ? THEN quantity ELSE -quantity END), 0) AS balance", model.MovementIn).
		Group("item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.ItemID] = row.Balance
	}
	return out, nil
}
