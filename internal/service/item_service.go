package service

import (
	"context"
	"time"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemService interface {
	Create(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error)
	List(ctx context.Context, q dto.ListQuery) ([]dto.ItemResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type itemService struct {
	uow    repository.UnitOfWork
	repo   repository.ItemRepository
	ledger repository.LedgerRepository
	cache  DashboardCache
	now    func() time.Time
}

func NewItemService(uow repository.UnitOfWork, repo repository.ItemRepository, ledger repository.LedgerRepository, cache DashboardCache) ItemService {
	return &itemService{uow: uow, repo: repo, ledger: ledger, cache: cacheOrNoop(cache), now: time.Now}
}

// Create stores the item. A positive initial stock is booked as an OPENING
// ledger entry in the same transaction so stock and ledger agree from the start.
func (s *itemService) Create(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if req.CurrentStock.IsNegative() {
		return nil, &ValidationError{Msg: "invalid current_stock", Fields: map[string]string{"current_stock": "must be 0 or greater"}}
	}
	if err := checkNumber("current_stock", req.CurrentStock, quantityScale, maxQuantity); err != nil {
		return nil, err
	}
	it := &model.Item{
		Name:          req.Name,
		UnitOfMeasure: req.UnitOfMeasure,
		CurrentStock:  req.CurrentStock,
		Image:         req.Image,
	}
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, it); err != nil {
			return err
		}
		if !it.CurrentStock.IsPositive() {
			return nil
		}
		return s.ledger.CreateTx(tx, &model.LedgerEntry{
			ItemID:            it.ID,
			MovementDate:      s.now(),
			MovementType:      model.MovementIn,
			Quantity:          it.CurrentStock,
			MovementReference: "OPENING-" + it.ID.String(),
		})
	})
	if err != nil {
		return nil, persistence("create item", err)
	}
	s.cache.Invalidate(ctx)
	resp := itemToResponse(it)
	return &resp, nil
}

func (s *itemService) Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error) {
	it, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("get item", "Item", id, err)
	}
	resp := itemToResponse(it)
	return &resp, nil
}

func (s *itemService) List(ctx context.Context, q dto.ListQuery) ([]dto.ItemResponse, error) {
	q = q.Normalize()
	items, err := s.repo.List(ctx, q.Skip, q.Limit)
	if err != nil {
		return nil, persistence("list items", err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, itemToResponse(&items[i]))
	}
	return out, nil
}

// Update changes descriptive fields only. Stock moves through postings and
// adjustments.
func (s *itemService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	it, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("update item", "Item", id, err)
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, &ValidationError{Msg: "invalid name", Fields: map[string]string{"name": "must not be empty"}}
		}
		it.Name = *req.Name
	}
	if req.UnitOfMeasure != nil {
		it.UnitOfMeasure = req.UnitOfMeasure
	}
	if req.Image != nil {
		it.Image = req.Image
	}
	if err := s.repo.Update(ctx, it); err != nil {
		return nil, persistence("update item", err)
	}
	resp := itemToResponse(it)
	return &resp, nil
}

func (s *itemService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteErr("delete item", "Item", id, err)
	}
	s.cache.Invalidate(ctx)
	return nil
}

func itemToResponse(it *model.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:            it.ID.String(),
		Name:          it.Name,
		UnitOfMeasure: it.UnitOfMeasure,
		CurrentStock:  it.CurrentStock,
		Image:         it.Image,
		CreatedAt:     formatTimestamp(it.CreatedAt),
		UpdatedAt:     formatTimestamp(it.UpdatedAt),
	}
}
