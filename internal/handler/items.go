package handler

import (
	"net/http"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/middleware"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/service"

	"github.com/gin-gonic/gin"
)

type ItemsHandler struct {
	svc    service.ItemService
	ledger service.LedgerService
}

func NewItemsHandler(svc service.ItemService, ledger service.LedgerService) *ItemsHandler {
	return &ItemsHandler{svc: svc, ledger: ledger}
}

// Create godoc
// @Summary Create an item, optionally with opening stock
// @Tags items
// @Accept json
// @Produce json
// @Param body body dto.CreateItemRequest true "Item"
// @Success 201 {object} dto.ItemResponse
// @Failure 422 {object} apierror.ValidationError
// @Security BearerAuth
// @Router /v1/items [post]
func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
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

// List GET /v1/items?skip=&limit=
func (h *ItemsHandler) List(c *gin.Context) {
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

// Get GET /v1/items/:id
func (h *ItemsHandler) Get(c *gin.Context) {
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

// Update PUT /v1/items/:id
func (h *ItemsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
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

// Delete DELETE /v1/items/:id
func (h *ItemsHandler) Delete(c *gin.Context) {
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

// AdjustStock godoc
// @Summary Apply a signed stock correction
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param body body dto.AdjustStockRequest true "Adjustment"
// @Success 200 {object} dto.ItemResponse
// @Failure 409 {object} apierror.StockError
// @Security BearerAuth
// @Router /v1/items/{id}/stock [patch]
func (h *ItemsHandler) AdjustStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ledger.AdjustStock(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
