package repository

import (
	"context"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashFlowRepository interface {
	Create(ctx context.Context, e *model.CashFlowEntry) error
	CreateTx(tx *gorm.DB, e *model.CashFlowEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashFlowEntry, error)
	Update(ctx context.Context, e *model.CashFlowEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, skip, limit int) ([]model.CashFlowEntry, error)
	// SumByType returns the total IN and OUT amounts over every entry.
	SumByType(ctx context.Context) (in, out decimal.Decimal, err error)
}

type cashFlowRepo struct{ db *gorm.DB }

func NewCashFlowRepository(db *gorm.DB) CashFlowRepository { return &cashFlowRepo{db: db} }

func (r *cashFlowRepo) Create(ctx context.Context, e *model.CashFlowEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *cashFlowRepo) CreateTx(tx *gorm.DB, e *model.CashFlowEntry) error {
	return tx.Create(e).Error
}

func (r *cashFlowRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashFlowEntry, error) {
	var e model.CashFlowEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *cashFlowRepo) Update(ctx context.Context, e *model.CashFlowEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *cashFlowRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.CashFlowEntry{}, id)
}

func (r *cashFlowRepo) List(ctx context.Context, skip, limit int) ([]model.CashFlowEntry, error) {
	var out []model.CashFlowEntry
	err := r.db.WithContext(ctx).
		Order("transaction_date DESC").Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *cashFlowRepo) SumByType(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var rows []struct {
		Type  string
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.CashFlowEntry{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	in, out := decimal.Zero, decimal.Zero
	for _, row := range rows {
		switch row.Type {
		case model.MovementIn:
			in = row.Total
		case model.MovementOut:
			out = row.Total
		}
	}
	return in, out, nil
}
