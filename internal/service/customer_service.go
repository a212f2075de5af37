package service

import (
	"context"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/repository"

	"github.com/google/uuid"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CreatePartyRequest) (*dto.PartyResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PartyResponse, error)
	List(ctx context.Context, q dto.ListQuery) ([]dto.PartyResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePartyRequest) (*dto.PartyResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreatePartyRequest) (*dto.PartyResponse, error) {
	status, err := partyStatus(req.Status)
	if err != nil {
		return nil, err
	}
	cust := &model.Customer{
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Address: req.Address,
		Status:  status,
	}
	if err := s.repo.Create(ctx, cust); err != nil {
		return nil, persistence("create customer", err)
	}
	resp := customerToResponse(cust)
	return &resp, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.PartyResponse, error) {
	cust, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("get customer", "Customer", id, err)
	}
	resp := customerToResponse(cust)
	return &resp, nil
}

func (s *customerService) List(ctx context.Context, q dto.ListQuery) ([]dto.PartyResponse, error) {
	q = q.Normalize()
	list, err := s.repo.List(ctx, q.Skip, q.Limit)
	if err != nil {
		return nil, persistence("list customers", err)
	}
	out := make([]dto.PartyResponse, 0, len(list))
	for i := range list {
		out = append(out, customerToResponse(&list[i]))
	}
	return out, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePartyRequest) (*dto.PartyResponse, error) {
	cust, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("update customer", "Customer", id, err)
	}
	if err := applyPartyUpdate(req, &cust.Name, &cust.Contact, &cust.Email, &cust.Address, &cust.Status); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, cust); err != nil {
		return nil, persistence("update customer", err)
	}
	resp := customerToResponse(cust)
	return &resp, nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteErr("delete customer", "Customer", id, err)
	}
	return nil
}

func customerToResponse(c *model.Customer) dto.PartyResponse {
	return dto.PartyResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Contact:   c.Contact,
		Email:     c.Email,
		Address:   c.Address,
		Status:    c.Status,
		CreatedAt: formatTimestamp(c.CreatedAt),
		UpdatedAt: formatTimestamp(c.UpdatedAt),
	}
}
