package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Inventory godoc
// @Summary Stock ledger entries, newest first
// @Tags reports
// @Produce json
// @Param item_id query string false "Only this item"
// @Success 200 {array} dto.LedgerEntryResponse
// @Security BearerAuth
// @Router /v1/reports/inventory [get]
func (h *ReportsHandler) Inventory(c *gin.Context) {
	itemID, ok := bindInventoryFilter(c)
	if !ok {
		return
	}
	resp, err := h.svc.InventoryReport(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Export GET /v1/reports/inventory/export[?item_id=]
func (h *ReportsHandler) Export(c *gin.Context) {
	itemID, ok := bindInventoryFilter(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.ExportInventoryXLSX(c.Request.Context(), itemID, &buf); err != nil {
		respondError(c, err)
		return
	}
	name := "inventory-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Dashboard godoc
// @Summary Totals and recent activity
// @Tags reports
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Security BearerAuth
// @Router /v1/reports/dashboard [get]
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.DashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reconciliation GET /v1/reports/reconciliation
func (h *ReportsHandler) Reconciliation(c *gin.Context) {
	resp, err := h.svc.StockReconciliation(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func bindInventoryFilter(c *gin.Context) (*uuid.UUID, bool) {
	var f dto.InventoryFilter
	if !bindQuery(c, &f) {
		return nil, false
	}
	if f.ItemID == "" {
		return nil, true
	}
	id, err := uuid.Parse(f.ItemID)
	if err != nil {
		respondError(c, &service.ValidationError{Msg: "invalid item_id", Fields: map[string]string{"item_id": "uuid"}})
		return nil, false
	}
	return &id, true
}
