package service

import (
	"context"
	"io"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/infra"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const recentLimit = 10

type ReportService interface {
	InventoryReport(ctx context.Context, itemID *uuid.UUID) ([]dto.LedgerEntryResponse, error)
	ExportInventoryXLSX(ctx context.Context, itemID *uuid.UUID, w io.Writer) error
	DashboardSummary(ctx context.Context) (*dto.DashboardResponse, error)
	StockReconciliation(ctx context.Context) ([]dto.ReconciliationRow, error)
}

type reportService struct {
	items     repository.ItemRepository
	ledger    repository.LedgerRepository
	purchases repository.PurchaseRepository
	sales     repository.SaleRepository
	cashflow  repository.CashFlowRepository
	cache     DashboardCache
}

func NewReportService(
	items repository.ItemRepository,
	ledger repository.LedgerRepository,
	purchases repository.PurchaseRepository,
	sales repository.SaleRepository,
	cashflow repository.CashFlowRepository,
	cache DashboardCache,
) ReportService {
	return &reportService{
		items:     items,
		ledger:    ledger,
		purchases: purchases,
		sales:     sales,
		cashflow:  cashflow,
		cache:     cacheOrNoop(cache),
	}
}

func (s *reportService) InventoryReport(ctx context.Context, itemID *uuid.UUID) ([]dto.LedgerEntryResponse, error) {
	entries, err := s.ledger.List(ctx, repository.LedgerFilter{ItemID: itemID})
	if err != nil {
		return nil, persistence("inventory report", err)
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		r := dto.LedgerEntryResponse{
			ID:                e.ID.String(),
			ItemID:            e.ItemID.String(),
			MovementDate:      formatDate(e.MovementDate),
			MovementType:      e.MovementType,
			Quantity:          e.Quantity,
			MovementReference: e.MovementReference,
			CreatedAt:         formatTimestamp(e.CreatedAt),
		}
		if e.Item != nil {
			r.ItemName = e.Item.Name
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *reportService) ExportInventoryXLSX(ctx context.Context, itemID *uuid.UUID, w io.Writer) error {
	rows, err := s.InventoryReport(ctx, itemID)
	if err != nil {
		return err
	}
	if err := infra.WriteInventoryXLSX(w, rows); err != nil {
		return persistence("export inventory xlsx", err)
	}
	return nil
}

// DashboardSummary serves the cached summary when present. On a miss the
// summary is rebuilt and stored by the holder of the rebuild lock, under the
// generation read before the rebuild queried anything.
func (s *reportService) DashboardSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	if v, _, ok := s.cache.Get(ctx); ok {
		return v, nil
	}
	release, locked := s.cache.Lock(ctx)
	defer release()

	gen := int64(-1)
	if locked {
		v, g, ok := s.cache.Get(ctx)
		if ok {
			return v, nil
		}
		gen = g
	}

	v, err := s.buildDashboard(ctx)
	if err != nil {
		return nil, err
	}
	if locked {
		s.cache.Set(ctx, gen, v)
	}
	return v, nil
}

func (s *reportService) buildDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	totalSales, err := s.sales.SumTotal(ctx)
	if err != nil {
		return nil, persistence("dashboard: sum sales", err)
	}
	totalPurchases, err := s.purchases.SumTotal(ctx)
	if err != nil {
		return nil, persistence("dashboard: sum purchases", err)
	}
	in, out, err := s.cashflow.SumByType(ctx)
	if err != nil {
		return nil, persistence("dashboard: sum cash flow", err)
	}
	totalItems, err := s.items.Count(ctx)
	if err != nil {
		return nil, persistence("dashboard: count items", err)
	}

	sales, err := s.sales.List(ctx, 0, recentLimit)
	if err != nil {
		return nil, persistence("dashboard: recent sales", err)
	}
	purchases, err := s.purchases.List(ctx, 0, recentLimit)
	if err != nil {
		return nil, persistence("dashboard: recent purchases", err)
	}
	flows, err := s.cashflow.List(ctx, 0, recentLimit)
	if err != nil {
		return nil, persistence("dashboard: recent cash flow", err)
	}

	resp := &dto.DashboardResponse{
		TotalSales:      totalSales,
		TotalPurchases:  totalPurchases,
		NetCashflow:     in.Sub(out),
		TotalItems:      totalItems,
		RecentSales:     make([]dto.AmountPoint, 0, len(sales)),
		RecentPurchases: make([]dto.AmountPoint, 0, len(purchases)),
		RecentCashflow:  make([]dto.CashFlowPoint, 0, len(flows)),
	}
	for _, sl := range sales {
		resp.RecentSales = append(resp.RecentSales, dto.AmountPoint{ID: sl.ID.String(), Date: formatDate(sl.SalesDate), Amount: sl.TotalAmount})
	}
	for _, p := range purchases {
		resp.RecentPurchases = append(resp.RecentPurchases, dto.AmountPoint{ID: p.ID.String(), Date: formatDate(p.PurchaseDate), Amount: p.TotalAmount})
	}
	for _, f := range flows {
		resp.RecentCashflow = append(resp.RecentCashflow, dto.CashFlowPoint{ID: f.ID.String(), Date: formatDate(f.TransactionDate), Type: f.Type, Amount: f.Amount})
	}
	return resp, nil
}

// StockReconciliation lists items whose cached stock differs from the balance
// of their ledger entries. The list is empty when every mutation went through
// the ledger.
func (s *reportService) StockReconciliation(ctx context.Context) ([]dto.ReconciliationRow, error) {
	items, err := s.items.ListAll(ctx)
	if err != nil {
		return nil, persistence("reconciliation: list items", err)
	}
	balances, err := s.ledger.BalanceByItem(ctx)
	if err != nil {
		return nil, persistence("reconciliation: ledger balances", err)
	}
	out := make([]dto.ReconciliationRow, 0)
	for _, it := range items {
		bal := balances[it.ID]
		if it.CurrentStock.Equal(bal) {
			continue
		}
		out = append(out, dto.ReconciliationRow{
			ItemID:        it.ID.String(),
			ItemName:      it.Name,
			CurrentStock:  it.CurrentStock,
			LedgerBalance: bal,
			Difference:    it.CurrentStock.Sub(bal),
		})
	}
	if len(out) > 0 {
		log.Warn().Int("items", len(out)).Msg("stock and ledger disagree")
	}
	return out, nil
}
