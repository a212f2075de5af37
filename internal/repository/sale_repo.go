package repository

import (
	"context"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	CreateLineTx(tx *gorm.DB, l *model.SaleLine) error
	UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error

	FindWithLines(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, skip, limit int) ([]model.Sale, error)
	SumTotal(ctx context.Context) (decimal.Decimal, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Omit(clause.Associations).Create(s).Error
}

func (r *saleRepo) CreateLineTx(tx *gorm.DB, l *model.SaleLine) error {
	return tx.Omit(clause.Associations).Create(l).Error
}

func (r *saleRepo) UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Update("total_amount", total).Error
}

func (r *saleRepo) FindWithLines(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Preload("Lines.Item").
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context, skip, limit int) ([]model.Sale, error) {
	var out []model.Sale
	err := r.db.WithContext(ctx).
		Order("sales_date DESC").Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *saleRepo) SumTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}
