package repository

import (
	"context"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository defines the data access contract for items.
// Services depend on this interface, not on the concrete GORM implementation.
type ItemRepository interface {
	CreateTx(tx *gorm.DB, it *model.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	List(ctx context.Context, skip, limit int) ([]model.Item, error)
	ListAll(ctx context.Context) ([]model.Item, error)
	Count(ctx context.Context) (int64, error)
	// Update writes descriptive fields only; current_stock is never touched here.
	Update(ctx context.Context, it *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Callers must pass the open tx.
	LockForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Item, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) CreateTx(tx *gorm.DB, it *model.Item) error {
	return tx.Create(it).Error
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) List(ctx context.Context, skip, limit int) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Order("name ASC").Offset(skip).Limit(limit).Find(&items).Error
	return items, err
}

func (r *itemRepo) ListAll(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).Count(&n).Error
	return n, err
}

func (r *itemRepo) Update(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Model(it).
		Select("Name", "UnitOfMeasure", "Image").
		Updates(it).Error
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.Item{}, id)
}

// LockForUpdateTx loads the given items with SELECT ... FOR UPDATE. Rows are
// locked in id order so two postings touching the same items cannot deadlock.
func (r *itemRepo) LockForUpdateTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Item{}).Where("id = ?", id).
		Update("current_stock", gorm.Expr("current_stock + ?", delta)).Error
}
