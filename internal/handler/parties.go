package handler

import (
	"context"
	"net/http"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// partyService is what SupplierService and CustomerService have in common.
type partyService interface {
	Create(ctx context.Context, req dto.CreatePartyRequest) (*dto.PartyResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PartyResponse, error)
	List(ctx context.Context, q dto.ListQuery) ([]dto.PartyResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePartyRequest) (*dto.PartyResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PartiesHandler serves /v1/suppliers and /v1/customers.
type PartiesHandler struct{ svc partyService }

func NewSuppliersHandler(svc partyService) *PartiesHandler { return &PartiesHandler{svc: svc} }
func NewCustomersHandler(svc partyService) *PartiesHandler { return &PartiesHandler{svc: svc} }

// Create godoc
// @Summary Create a supplier or customer
// @Tags parties
// @Accept json
// @Produce json
// @Param body body dto.CreatePartyRequest true "Party"
// @Success 201 {object} dto.PartyResponse
// @Failure 422 {object} apierror.ValidationError
// @Security BearerAuth
// @Router /v1/suppliers [post]
// @Router /v1/customers [post]
func (h *PartiesHandler) Create(c *gin.Context) {
	var req dto.CreatePartyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List GET /v1/{suppliers,customers}?skip=&limit=
func (h *PartiesHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get GET /v1/{suppliers,customers}/:id
func (h *PartiesHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update PUT /v1/{suppliers,customers}/:id
func (h *PartiesHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdatePartyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete DELETE /v1/{suppliers,customers}/:id
func (h *PartiesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
