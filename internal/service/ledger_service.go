package service

import (
	"context"
	"fmt"
	"time"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const instrumentationName = "github.com/LaTashkhat17/Inventory-Management-System/internal/service"

// Document kinds.
const (
	KindPurchase = "purchase"
	KindSale     = "sale"
)

// ReceiptJob asks the background workers to e-mail a posted document to its
// counterparty.
type ReceiptJob struct {
	Kind       string `json:"kind"`
	DocumentID string `json:"document_id"`
	To         string `json:"to"`
	PartyName  string `json:"party_name"`
}

// ReceiptNotifier queues receipt e-mails. Enqueue failures never fail a posting.
type ReceiptNotifier interface {
	EnqueueReceipt(ctx context.Context, job ReceiptJob) error
}

// LedgerService posts purchase and sale documents. A posting persists the
// document and its lines, moves stock, appends ledger entries and records one
// cash flow entry inside a single transaction.
type LedgerService interface {
	PostPurchase(ctx context.Context, p *Principal, req dto.PostPurchaseRequest) (*dto.DocumentDetailResponse, error)
	PostSale(ctx context.Context, p *Principal, req dto.PostSaleRequest) (*dto.DocumentDetailResponse, error)
	GetDocument(ctx context.Context, kind string, id uuid.UUID) (*dto.DocumentDetailResponse, error)
	ListDocuments(ctx context.Context, kind string, q dto.ListQuery) ([]dto.DocumentResponse, error)
	AdjustStock(ctx context.Context, p *Principal, itemID uuid.UUID, req dto.AdjustStockRequest) (*dto.ItemResponse, error)
}

type ledgerService struct {
	uow       repository.UnitOfWork
	items     repository.ItemRepository
	purchases repository.PurchaseRepository
	sales     repository.SaleRepository
	ledger    repository.LedgerRepository
	suppliers repository.SupplierRepository
	customers repository.CustomerRepository
	cashflow  CashFlowService
	cache     DashboardCache
	notifier  ReceiptNotifier

	tracer   trace.Tracer
	postings metric.Int64Counter
	now      func() time.Time
}

func NewLedgerService(
	uow repository.UnitOfWork,
	items repository.ItemRepository,
	purchases repository.PurchaseRepository,
	sales repository.SaleRepository,
	ledger repository.LedgerRepository,
	suppliers repository.SupplierRepository,
	customers repository.CustomerRepository,
	cashflow CashFlowService,
	cache DashboardCache,
	notifier ReceiptNotifier,
) LedgerService {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"ledger.postings",
		metric.WithDescription("Posted documents by kind and outcome"),
	)
	if err != nil {
		log.Warn().Err(err).Msg("ledger.postings counter unavailable")
		counter = noop.Int64Counter{}
	}
	return &ledgerService{
		uow:       uow,
		items:     items,
		purchases: purchases,
		sales:     sales,
		ledger:    ledger,
		suppliers: suppliers,
		customers: customers,
		cashflow:  cashflow,
		cache:     cacheOrNoop(cache),
		notifier:  notifier,
		tracer:    otel.Tracer(instrumentationName),
		postings:  counter,
		now:       time.Now,
	}
}

type postingLine struct {
	itemID uuid.UUID
	qty    decimal.Decimal
	rate   decimal.Decimal
}

// ── PostPurchase ──────────────────────────────────────────────────────────────

func (s *ledgerService) PostPurchase(ctx context.Context, p *Principal, req dto.PostPurchaseRequest) (_ *dto.DocumentDetailResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "LedgerService.PostPurchase")
	defer func() { s.finish(ctx, span, KindPurchase, err) }()

	if p == nil {
		return nil, &AuthenticationError{Msg: "Not authenticated"}
	}
	date, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	supplierID, err := parseID("supplier_id", req.SupplierID)
	if err != nil {
		return nil, err
	}
	lines, err := parseLines(req.Lines)
	if err != nil {
		return nil, err
	}
	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newValidation("Supplier not found")
		}
		return nil, persistence("post purchase: load supplier", err)
	}

	var (
		doc   model.Purchase
		names map[uuid.UUID]string
	)
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		var stock map[uuid.UUID]decimal.Decimal
		var err error
		stock, names, err = s.lockItems(tx, "post purchase", lines)
		if err != nil {
			return err
		}

		doc = model.Purchase{
			PurchaseDate: date,
			SupplierID:   supplierID,
			TotalAmount:  decimal.Zero,
			CreatedBy:    p.Username,
		}
		if err := s.purchases.CreateTx(tx, &doc); err != nil {
			return persistence("post purchase: create header", err)
		}
		ref := "PURCHASE-" + doc.ID.String()

		total := decimal.Zero
		for i, l := range lines {
			if _, ok := stock[l.itemID]; !ok {
				return newValidation("Item %s not found", l.itemID)
			}
			line := model.PurchaseLine{
				PurchaseID: doc.ID,
				LineNo:     i + 1,
				ItemID:     l.itemID,
				Quantity:   l.qty,
				Rate:       l.rate,
			}
			if err := s.purchases.CreateLineTx(tx, &line); err != nil {
				return persistence("post purchase: create line", err)
			}
			doc.Lines = append(doc.Lines, line)
			total = total.Add(l.qty.Mul(l.rate))

			next := stock[l.itemID].Add(l.qty)
			if !next.LessThan(maxQuantity) {
				return &ValidationError{
					Msg:    fmt.Sprintf("Stock of item %s would exceed %s", names[l.itemID], maxQuantity),
					Fields: map[string]string{fmt.Sprintf("lines[%d].quantity", i): "resulting stock too large"},
				}
			}
			if err := s.moveStockTx(tx, l.itemID, l.qty, date, ref); err != nil {
				return persistence("post purchase: move stock", err)
			}
			stock[l.itemID] = next
		}

		if err := s.purchases.UpdateTotalTx(tx, doc.ID, total); err != nil {
			return persistence("post purchase: update total", err)
		}
		doc.TotalAmount = total

		desc := fmt.Sprintf("Purchase from Supplier - Purchase #%s", doc.ID)
		if _, err := s.cashflow.RecordTx(tx, model.MovementOut, total, date, desc, ref); err != nil {
			if passThrough(err) {
				return err
			}
			return persistence("post purchase: record cash flow", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.txErr("post purchase", err)
	}

	s.cache.Invalidate(ctx)
	if supplier.Email != nil {
		s.notify(ctx, ReceiptJob{Kind: KindPurchase, DocumentID: doc.ID.String(), To: *supplier.Email, PartyName: supplier.Name})
	}
	log.Info().Str("purchase_id", doc.ID.String()).Str("total", doc.TotalAmount.String()).
		Str("created_by", p.Username).Msg("purchase posted")

	resp := purchaseToDetail(&doc, names)
	return &resp, nil
}

// ── PostSale ──────────────────────────────────────────────────────────────────

func (s *ledgerService) PostSale(ctx context.Context, p *Principal, req dto.PostSaleRequest) (_ *dto.DocumentDetailResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "LedgerService.PostSale")
	defer func() { s.finish(ctx, span, KindSale, err) }()

	if p == nil {
		return nil, &AuthenticationError{Msg: "Not authenticated"}
	}
	date, err := parseDate("sales_date", req.SalesDate)
	if err != nil {
		return nil, err
	}
	customerID, err := parseID("customer_id", req.CustomerID)
	if err != nil {
		return nil, err
	}
	lines, err := parseLines(req.Lines)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newValidation("Customer not found")
		}
		return nil, persistence("post sale: load customer", err)
	}

	var (
		doc   model.Sale
		names map[uuid.UUID]string
	)
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		var stock map[uuid.UUID]decimal.Decimal
		var err error
		stock, names, err = s.lockItems(tx, "post sale", lines)
		if err != nil {
			return err
		}

		doc = model.Sale{
			SalesDate:   date,
			CustomerID:  customerID,
			TotalAmount: decimal.Zero,
			CreatedBy:   p.Username,
		}
		if err := s.sales.CreateTx(tx, &doc); err != nil {
			return persistence("post sale: create header", err)
		}
		ref := "SALES-" + doc.ID.String()

		total := decimal.Zero
		for i, l := range lines {
			available, ok := stock[l.itemID]
			if !ok {
				return newValidation("Item %s not found", l.itemID)
			}
			// stock already reflects earlier lines of this document
			if available.LessThan(l.qty) {
				return &InsufficientStockError{
					ItemID:    l.itemID,
					ItemName:  names[l.itemID],
					Requested: l.qty,
					Available: available,
				}
			}
			line := model.SaleLine{
				SaleID:   doc.ID,
				LineNo:   i + 1,
				ItemID:   l.itemID,
				Quantity: l.qty,
				Rate:     l.rate,
			}
			if err := s.sales.CreateLineTx(tx, &line); err != nil {
				return persistence("post sale: create line", err)
			}
			doc.Lines = append(doc.Lines, line)
			total = total.Add(l.qty.Mul(l.rate))

			if err := s.moveStockTx(tx, l.itemID, l.qty.Neg(), date, ref); err != nil {
				return persistence("post sale: move stock", err)
			}
			stock[l.itemID] = available.Sub(l.qty)
		}

		if err := s.sales.UpdateTotalTx(tx, doc.ID, total); err != nil {
			return persistence("post sale: update total", err)
		}
		doc.TotalAmount = total

		desc := fmt.Sprintf("Sale to Customer - Sales #%s", doc.ID)
		if _, err := s.cashflow.RecordTx(tx, model.MovementIn, total, date, desc, ref); err != nil {
			if passThrough(err) {
				return err
			}
			return persistence("post sale: record cash flow", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.txErr("post sale", err)
	}

	s.cache.Invalidate(ctx)
	if customer.Email != nil {
		s.notify(ctx, ReceiptJob{Kind: KindSale, DocumentID: doc.ID.String(), To: *customer.Email, PartyName: customer.Name})
	}
	log.Info().Str("sale_id", doc.ID.String()).Str("total", doc.TotalAmount.String()).
		Str("created_by", p.Username).Msg("sale posted")

	resp := saleToDetail(&doc, names)
	return &resp, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *ledgerService) GetDocument(ctx context.Context, kind string, id uuid.UUID) (*dto.DocumentDetailResponse, error) {
	switch kind {
	case KindPurchase:
		doc, err := s.purchases.FindWithLines(ctx, id)
		if err != nil {
			return nil, lookupErr("get purchase", "Purchase", id, err)
		}
		resp := purchaseToDetail(doc, nil)
		return &resp, nil
	case KindSale:
		doc, err := s.sales.FindWithLines(ctx, id)
		if err != nil {
			return nil, lookupErr("get sale", "Sale", id, err)
		}
		resp := saleToDetail(doc, nil)
		return &resp, nil
	}
	return nil, newValidation("unknown document kind %q", kind)
}

func (s *ledgerService) ListDocuments(ctx context.Context, kind string, q dto.ListQuery) ([]dto.DocumentResponse, error) {
	q = q.Normalize()
	switch kind {
	case KindPurchase:
		docs, err := s.purchases.List(ctx, q.Skip, q.Limit)
		if err != nil {
			return nil, persistence("list purchases", err)
		}
		out := make([]dto.DocumentResponse, 0, len(docs))
		for i := range docs {
			out = append(out, purchaseHeader(&docs[i]))
		}
		return out, nil
	case KindSale:
		docs, err := s.sales.List(ctx, q.Skip, q.Limit)
		if err != nil {
			return nil, persistence("list sales", err)
		}
		out := make([]dto.DocumentResponse, 0, len(docs))
		for i := range docs {
			out = append(out, saleHeader(&docs[i]))
		}
		return out, nil
	}
	return nil, newValidation("unknown document kind %q", kind)
}

// ── AdjustStock ───────────────────────────────────────────────────────────────

// AdjustStock applies a signed stock correction outside of any document. It
// writes an ADJUST ledger entry and no cash flow.
func (s *ledgerService) AdjustStock(ctx context.Context, p *Principal, itemID uuid.UUID, req dto.AdjustStockRequest) (_ *dto.ItemResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "LedgerService.AdjustStock")
	defer func() { s.finish(ctx, span, "adjustment", err) }()

	if p == nil {
		return nil, &AuthenticationError{Msg: "Not authenticated"}
	}
	if req.Quantity.IsZero() {
		return nil, &ValidationError{Msg: "invalid quantity", Fields: map[string]string{"quantity": "must not be zero"}}
	}
	if err := checkNumber("quantity", req.Quantity, quantityScale, maxQuantity); err != nil {
		return nil, err
	}
	date := s.now()
	if req.Date != nil {
		if date, err = parseDate("date", *req.Date); err != nil {
			return nil, err
		}
	}

	var item model.Item
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		locked, err := s.items.LockForUpdateTx(tx, []uuid.UUID{itemID})
		if err != nil {
			return persistence("adjust stock: lock item", err)
		}
		if len(locked) == 0 {
			return &NotFoundError{Entity: "Item", ID: itemID.String()}
		}
		item = locked[0]

		next := item.CurrentStock.Add(req.Quantity)
		if !next.LessThan(maxQuantity) {
			return &ValidationError{Msg: "invalid quantity", Fields: map[string]string{"quantity": "resulting stock too large"}}
		}
		if next.IsNegative() {
			return &InsufficientStockError{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Requested: req.Quantity.Abs(),
				Available: item.CurrentStock,
			}
		}
		if err := s.moveStockTx(tx, item.ID, req.Quantity, date, "ADJUST-"+item.ID.String()); err != nil {
			return persistence("adjust stock: move stock", err)
		}
		item.CurrentStock = next
		return nil
	})
	if err != nil {
		return nil, s.txErr("adjust stock", err)
	}

	ev := log.Info().Str("item_id", item.ID.String()).Str("quantity", req.Quantity.String()).Str("by", p.Username)
	if req.Reason != nil {
		ev = ev.Str("reason", *req.Reason)
	}
	ev.Msg("stock adjusted")

	resp := itemToResponse(&item)
	return &resp, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// lockItems locks every item referenced by lines and returns their current
// stock and names. Items that do not exist are simply absent from the maps.
func (s *ledgerService) lockItems(tx *gorm.DB, op string, lines []postingLine) (map[uuid.UUID]decimal.Decimal, map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, l := range lines {
		if !seen[l.itemID] {
			seen[l.itemID] = true
			ids = append(ids, l.itemID)
		}
	}
	items, err := s.items.LockForUpdateTx(tx, ids)
	if err != nil {
		return nil, nil, persistence(op+": lock items", err)
	}
	stock := make(map[uuid.UUID]decimal.Decimal, len(items))
	names := make(map[uuid.UUID]string, len(items))
	for _, it := range items {
		stock[it.ID] = it.CurrentStock
		names[it.ID] = it.Name
	}
	return stock, names, nil
}

// moveStockTx changes current_stock by delta and appends the matching ledger entry.
func (s *ledgerService) moveStockTx(tx *gorm.DB, itemID uuid.UUID, delta decimal.Decimal, date time.Time, ref string) error {
	if err := s.items.UpdateStockTx(tx, itemID, delta); err != nil {
		return err
	}
	entry := &model.LedgerEntry{
		ItemID:            itemID,
		MovementDate:      date,
		MovementType:      model.MovementIn,
		Quantity:          delta,
		MovementReference: ref,
	}
	if delta.IsNegative() {
		entry.MovementType = model.MovementOut
		entry.Quantity = delta.Abs()
	}
	return s.ledger.CreateTx(tx, entry)
}

// txErr keeps typed errors raised inside the transaction and wraps anything
// else (commit failures included) as a persistence error.
func (s *ledgerService) txErr(op string, err error) error {
	if passThrough(err) {
		return err
	}
	return persistence(op, err)
}

func (s *ledgerService) notify(ctx context.Context, job ReceiptJob) {
	if s.notifier == nil || job.To == "" {
		return
	}
	if err := s.notifier.EnqueueReceipt(ctx, job); err != nil {
		log.Warn().Err(err).Str("kind", job.Kind).Str("document_id", job.DocumentID).
			Msg("receipt e-mail not queued")
	}
}

func (s *ledgerService) finish(ctx context.Context, span trace.Span, kind string, err error) {
	outcome := "committed"
	if err != nil {
		outcome = "failed"
		if !isPersistence(err) {
			outcome = "rejected"
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.postings.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
	span.End()
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, &ValidationError{
			Msg:    "invalid " + field,
			Fields: map[string]string{field: "must be a valid UUID"},
		}
	}
	return id, nil
}

func parseLines(in []dto.DocumentLineRequest) ([]postingLine, error) {
	if len(in) == 0 {
		return nil, &ValidationError{Msg: "document has no lines", Fields: map[string]string{"lines": "at least one line is required"}}
	}
	out := make([]postingLine, 0, len(in))
	total := decimal.Zero
	for i, l := range in {
		id, err := parseID(fmt.Sprintf("lines[%d].item_id", i), l.ItemID)
		if err != nil {
			return nil, err
		}
		if !l.Quantity.IsPositive() {
			return nil, &ValidationError{
				Msg:    "quantity must be positive",
				Fields: map[string]string{fmt.Sprintf("lines[%d].quantity", i): "must be greater than 0"},
			}
		}
		if l.Rate.IsNegative() {
			return nil, &ValidationError{
				Msg:    "rate must not be negative",
				Fields: map[string]string{fmt.Sprintf("lines[%d].rate", i): "must be 0 or greater"},
			}
		}
		if err := checkNumber(fmt.Sprintf("lines[%d].quantity", i), l.Quantity, quantityScale, maxQuantity); err != nil {
			return nil, err
		}
		if err := checkNumber(fmt.Sprintf("lines[%d].rate", i), l.Rate, rateScale, maxRate); err != nil {
			return nil, err
		}
		total = total.Add(l.Quantity.Mul(l.Rate))
		out = append(out, postingLine{itemID: id, qty: l.Quantity, rate: l.Rate})
	}
	if !total.LessThan(maxAmount) {
		return nil, &ValidationError{
			Msg:    "document total too large",
			Fields: map[string]string{"lines": "total must be less than " + maxAmount.String()},
		}
	}
	return out, nil
}

func purchaseHeader(p *model.Purchase) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:          p.ID.String(),
		Kind:        KindPurchase,
		Date:        formatDate(p.PurchaseDate),
		SupplierID:  p.SupplierID.String(),
		TotalAmount: p.TotalAmount,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   formatTimestamp(p.CreatedAt),
	}
}

func saleHeader(s *model.Sale) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:          s.ID.String(),
		Kind:        KindSale,
		Date:        formatDate(s.SalesDate),
		CustomerID:  s.CustomerID.String(),
		TotalAmount: s.TotalAmount,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   formatTimestamp(s.CreatedAt),
	}
}

// purchaseToDetail builds the response; names fills item names when the lines
// were not loaded with their items.
func purchaseToDetail(p *model.Purchase, names map[uuid.UUID]string) dto.DocumentDetailResponse {
	out := dto.DocumentDetailResponse{Header: purchaseHeader(p), Lines: make([]dto.DocumentLineResponse, 0, len(p.Lines))}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, lineResponse(l.ID, p.ID, l.LineNo, l.ItemID, itemName(l.Item, names, l.ItemID), l.Quantity, l.Rate))
	}
	return out
}

func saleToDetail(s *model.Sale, names map[uuid.UUID]string) dto.DocumentDetailResponse {
	out := dto.DocumentDetailResponse{Header: saleHeader(s), Lines: make([]dto.DocumentLineResponse, 0, len(s.Lines))}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, lineResponse(l.ID, s.ID, l.LineNo, l.ItemID, itemName(l.Item, names, l.ItemID), l.Quantity, l.Rate))
	}
	return out
}

func lineResponse(id, docID uuid.UUID, no int, itemID uuid.UUID, name string, qty, rate decimal.Decimal) dto.DocumentLineResponse {
	return dto.DocumentLineResponse{
		ID:         id.String(),
		DocumentID: docID.String(),
		LineNo:     no,
		ItemID:     itemID.String(),
		ItemName:   name,
		Quantity:   qty,
		Rate:       rate,
		Amount:     qty.Mul(rate),
	}
}

func itemName(it *model.Item, names map[uuid.UUID]string, id uuid.UUID) string {
	if it != nil {
		return it.Name
	}
	return names[id]
}
