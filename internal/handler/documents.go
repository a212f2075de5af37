package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/infra"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/middleware"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/service"

	"github.com/gin-gonic/gin"
)

// DocumentsHandler serves /v1/purchases and /v1/sales.
type DocumentsHandler struct {
	ledger       service.LedgerService
	kind         string
	businessName string
}

func NewPurchasesHandler(ledger service.LedgerService, businessName string) *DocumentsHandler {
	return &DocumentsHandler{ledger: ledger, kind: service.KindPurchase, businessName: businessName}
}

func NewSalesHandler(ledger service.LedgerService, businessName string) *DocumentsHandler {
	return &DocumentsHandler{ledger: ledger, kind: service.KindSale, businessName: businessName}
}

// Post godoc
// @Summary Post a purchase or sale document
// @Description Persists the document and lines, moves stock, appends ledger
// @Description entries and one cash flow entry in a single transaction.
// @Tags documents
// @Accept json
// @Produce json
// @Param body body dto.PostSaleRequest true "Document (PostPurchaseRequest for /v1/purchases)"
// @Success 201 {object} dto.DocumentDetailResponse
// @Failure 409 {object} apierror.StockError
// @Failure 422 {object} apierror.ValidationError
// @Security BearerAuth
// @Router /v1/purchases [post]
// @Router /v1/sales [post]
func (h *DocumentsHandler) Post(c *gin.Context) {
	var (
		resp *dto.DocumentDetailResponse
		err  error
	)
	p := middleware.GetPrincipal(c)
	if h.kind == service.KindPurchase {
		var req dto.PostPurchaseRequest
		if !bindAndValidate(c, &req) {
			return
		}
		resp, err = h.ledger.PostPurchase(c.Request.Context(), p, req)
	} else {
		var req dto.PostSaleRequest
		if !bindAndValidate(c, &req) {
			return
		}
		resp, err = h.ledger.PostSale(c.Request.Context(), p, req)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List GET /v1/{purchases,sales}?skip=&limit=
func (h *DocumentsHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.ledger.ListDocuments(c.Request.Context(), h.kind, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get GET /v1/{purchases,sales}/:id
func (h *DocumentsHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.ledger.GetDocument(c.Request.Context(), h.kind, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF GET /v1/{purchases,sales}/:id/pdf
func (h *DocumentsHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	doc, err := h.ledger.GetDocument(c.Request.Context(), h.kind, id)
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := infra.RenderDocumentPDF(&buf, h.businessName, doc); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s-%s.pdf"`, h.kind, id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
