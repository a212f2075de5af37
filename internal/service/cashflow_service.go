package service

import (
	"context"
	"time"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashFlowService interface {
	// RecordTx appends one entry inside the caller's transaction.
	RecordTx(tx *gorm.DB, direction string, amount decimal.Decimal, date time.Time, description, reference string) (*model.CashFlowEntry, error)

	Create(ctx context.Context, req dto.CreateCashFlowRequest) (*dto.CashFlowResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CashFlowResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCashFlowRequest) (*dto.CashFlowResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q dto.ListQuery) ([]dto.CashFlowResponse, error)
}

type cashFlowService struct {
	repo  repository.CashFlowRepository
	cache DashboardCache
}

func NewCashFlowService(repo repository.CashFlowRepository, cache DashboardCache) CashFlowService {
	return &cashFlowService{repo: repo, cache: cacheOrNoop(cache)}
}

func (s *cashFlowService) RecordTx(tx *gorm.DB, direction string, amount decimal.Decimal, date time.Time, description, reference string) (*model.CashFlowEntry, error) {
	if err := checkDirection(direction); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, newValidation("cash flow amount must not be negative")
	}
	if err := checkNumber("amount", amount, amountScale, maxAmount); err != nil {
		return nil, err
	}
	e := &model.CashFlowEntry{
		TransactionDate: date,
		Type:            direction,
		Amount:          amount,
		Description:     &description,
		RefID:           &reference,
	}
	if err := s.repo.CreateTx(tx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *cashFlowService) Create(ctx context.Context, req dto.CreateCashFlowRequest) (*dto.CashFlowResponse, error) {
	date, err := parseDate("transaction_date", req.TransactionDate)
	if err != nil {
		return nil, err
	}
	if err := checkDirection(req.Type); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, newValidation("amount must not be negative")
	}
	if err := checkNumber("amount", req.Amount, cashScale, maxAmount); err != nil {
		return nil, err
	}
	e := &model.CashFlowEntry{
		TransactionDate: date,
		Type:            req.Type,
		Amount:          req.Amount,
		Description:     req.Description,
		RefID:           req.RefID,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, persistence("create cash flow entry", err)
	}
	s.cache.Invalidate(ctx)
	resp := cashFlowToResponse(e)
	return &resp, nil
}

func (s *cashFlowService) Get(ctx context.Context, id uuid.UUID) (*dto.CashFlowResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("get cash flow entry", "Cash flow entry", id, err)
	}
	resp := cashFlowToResponse(e)
	return &resp, nil
}

func (s *cashFlowService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCashFlowRequest) (*dto.CashFlowResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("update cash flow entry", "Cash flow entry", id, err)
	}
	if req.TransactionDate != nil {
		d, err := parseDate("transaction_date", *req.TransactionDate)
		if err != nil {
			return nil, err
		}
		e.TransactionDate = d
	}
	if req.Type != nil {
		if err := checkDirection(*req.Type); err != nil {
			return nil, err
		}
		e.Type = *req.Type
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, newValidation("amount must not be negative")
		}
		if err := checkNumber("amount", *req.Amount, cashScale, maxAmount); err != nil {
			return nil, err
		}
		e.Amount = *req.Amount
	}
	if req.Description != nil {
		e.Description = req.Description
	}
	if req.RefID != nil {
		e.RefID = req.RefID
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, persistence("update cash flow entry", err)
	}
	s.cache.Invalidate(ctx)
	resp := cashFlowToResponse(e)
	return &resp, nil
}

func (s *cashFlowService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupErr("delete cash flow entry", "Cash flow entry", id, err)
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *cashFlowService) List(ctx context.Context, q dto.ListQuery) ([]dto.CashFlowResponse, error) {
	q = q.Normalize()
	entries, err := s.repo.List(ctx, q.Skip, q.Limit)
	if err != nil {
		return nil, persistence("list cash flow", err)
	}
	out := make([]dto.CashFlowResponse, 0, len(entries))
	for i := range entries {
		out = append(out, cashFlowToResponse(&entries[i]))
	}
	return out, nil
}

func checkDirection(d string) error {
	if d != model.MovementIn && d != model.MovementOut {
		return &ValidationError{
			Msg:    "invalid cash flow type",
			Fields: map[string]string{"type": "must be IN or OUT"},
		}
	}
	return nil
}

func cashFlowToResponse(e *model.CashFlowEntry) dto.CashFlowResponse {
	return dto.CashFlowResponse{
		ID:              e.ID.String(),
		TransactionDate: formatDate(e.TransactionDate),
		Type:            e.Type,
		Amount:          e.Amount,
		Description:     e.Description,
		RefID:           e.RefID,
		CreatedAt:       formatTimestamp(e.CreatedAt),
		UpdatedAt:       formatTimestamp(e.UpdatedAt),
	}
}
