package service

import (
	"context"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/repository"

	"github.com/google/uuid"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.CreatePartyRequest) (*dto.PartyResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PartyResponse, error)
	List(ctx context.Context, q dto.ListQuery) ([]dto.PartyResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePartyRequest) (*dto.PartyResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, req dto.CreatePartyRequest) (*dto.PartyResponse, error) {
	status, err := partyStatus(req.Status)
	if err != nil {
		return nil, err
	}
	sup := &model.Supplier{
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Address: req.Address,
		Status:  status,
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, persistence("create supplier", err)
	}
	resp := supplierToResponse(sup)
	return &resp, nil
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*dto.PartyResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("get supplier", "Supplier", id, err)
	}
	resp := supplierToResponse(sup)
	return &resp, nil
}

func (s *supplierService) List(ctx context.Context, q dto.ListQuery) ([]dto.PartyResponse, error) {
	q = q.Normalize()
	list, err := s.repo.List(ctx, q.Skip, q.Limit)
	if err != nil {
		return nil, persistence("list suppliers", err)
	}
	out := make([]dto.PartyResponse, 0, len(list))
	for i := range list {
		out = append(out, supplierToResponse(&list[i]))
	}
	return out, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePartyRequest) (*dto.PartyResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("update supplier", "Supplier", id, err)
	}
	if err := applyPartyUpdate(req, &sup.Name, &sup.Contact, &sup.Email, &sup.Address, &sup.Status); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, persistence("update supplier", err)
	}
	resp := supplierToResponse(sup)
	return &resp, nil
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return deleteErr("delete supplier", "Supplier", id, err)
	}
	return nil
}

func supplierToResponse(s *model.Supplier) dto.PartyResponse {
	return dto.PartyResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Contact:   s.Contact,
		Email:     s.Email,
		Address:   s.Address,
		Status:    s.Status,
		CreatedAt: formatTimestamp(s.CreatedAt),
		UpdatedAt: formatTimestamp(s.UpdatedAt),
	}
}

// partyStatus defaults an empty status to Active.
func partyStatus(st string) (string, error) {
	switch st {
	case "":
		return model.StatusActive, nil
	case model.StatusActive, model.StatusInactive:
		return st, nil
	}
	return "", &ValidationError{Msg: "invalid status", Fields: map[string]string{"status": "must be Active or Inactive"}}
}

// applyPartyUpdate copies the supplied fields of req onto the target fields.
func applyPartyUpdate(req dto.UpdatePartyRequest, name *string, contact, email, address **string, status *string) error {
	if req.Status != nil {
		st, err := partyStatus(*req.Status)
		if err != nil {
			return err
		}
		*status = st
	}
	if req.Name != nil {
		if *req.Name == "" {
			return &ValidationError{Msg: "invalid name", Fields: map[string]string{"name": "must not be empty"}}
		}
		*name = *req.Name
	}
	if req.Contact != nil {
		*contact = req.Contact
	}
	if req.Email != nil {
		*email = req.Email
	}
	if req.Address != nil {
		*address = req.Address
	}
	return nil
}
