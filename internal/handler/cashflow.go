package handler

import (
	"net/http"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/service"

	"github.com/gin-gonic/gin"
)

type CashFlowHandler struct{ svc service.CashFlowService }

func NewCashFlowHandler(svc service.CashFlowService) *CashFlowHandler {
	return &CashFlowHandler{svc: svc}
}

// Create godoc
// @Summary Record a manual cash flow entry
// @Tags cashflow
// @Accept json
// @Produce json
// @Param body body dto.CreateCashFlowRequest true "Entry"
// @Success 201 {object} dto.CashFlowResponse
// @Failure 422 {object} apierror.ValidationError
// @Security BearerAuth
// @Router /v1/cashflow [post]
func (h *CashFlowHandler) Create(c *gin.Context) {
	var req dto.CreateCashFlowRequest
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

// List GET /v1/cashflow?skip=&limit=
func (h *CashFlowHandler) List(c *gin.Context) {
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

// Get GET /v1/cashflow/:id
func (h *CashFlowHandler) Get(c *gin.Context) {
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

// Update PUT /v1/cashflow/:id
func (h *CashFlowHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateCashFlowRequest
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

// Delete DELETE /v1/cashflow/:id
func (h *CashFlowHandler) Delete(c *gin.Context) {
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
