package repository

import (
	"context"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository interface {
	// CreateTx inserts the header only; lines are persisted one by one with CreateLineTx.
	CreateTx(tx *gorm.DB, p *model.Purchase) error
	CreateLineTx(tx *gorm.DB, l *model.PurchaseLine) error
	UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error

	FindWithLines(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, skip, limit int) ([]model.Purchase, error)
	SumTotal(ctx context.Context) (decimal.Decimal, error)
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) CreateTx(tx *gorm.DB, p *model.Purchase) error {
	return tx.Omit(clause.Associations).Create(p).Error
}

func (r *purchaseRepo) CreateLineTx(tx *gorm.DB, l *model.PurchaseLine) error {
	return tx.Omit(clause.Associations).Create(l).Error
}

func (r *purchaseRepo) UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	return tx.Model(&model.Purchase{}).Where("id = ?", id).Update("total_amount", total).Error
}

func (r *purchaseRepo) FindWithLines(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Preload("Lines.Item").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepo) List(ctx context.Context, skip, limit int) ([]model.Purchase, error) {
	var out []model.Purchase
	err := r.db.WithContext(ctx).
		Order("purchase_date DESC").Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *purchaseRepo) SumTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}
