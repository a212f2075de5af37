package service

import (
	"context"
	"sort"
	"time"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory store ───────────────────────────────────────────────────────────

// numeric rounds d the way Postgres stores it in a numeric column of the
// given scale.
func numeric(d decimal.Decimal, scale int32) decimal.Decimal { return d.Round(scale) }

// memStore backs every stub repository. stubUoW snapshots it before a
// transaction and restores it when the callback fails, which is what a
// rollback looks like from the service's point of view.
type memStore struct {
	items         map[uuid.UUID]model.Item
	ledger        []model.LedgerEntry
	purchases     map[uuid.UUID]model.Purchase
	purchaseLines []model.PurchaseLine
	sales         map[uuid.UUID]model.Sale
	saleLines     []model.SaleLine
	cash          []model.CashFlowEntry
	suppliers     map[uuid.UUID]model.Supplier
	customers     map[uuid.UUID]model.Customer
	users         map[string]model.User
}

func newMemStore() *memStore {
	return &memStore{
		items:     make(map[uuid.UUID]model.Item),
		purchases: make(map[uuid.UUID]model.Purchase),
		sales:     make(map[uuid.UUID]model.Sale),
		suppliers: make(map[uuid.UUID]model.Supplier),
		customers: make(map[uuid.UUID]model.Customer),
		users:     make(map[string]model.User),
	}
}

func (m *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range m.items {
		c.items[k] = v
	}
	for k, v := range m.purchases {
		c.purchases[k] = v
	}
	for k, v := range m.sales {
		c.sales[k] = v
	}
	for k, v := range m.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range m.customers {
		c.customers[k] = v
	}
	for k, v := range m.users {
		c.users[k] = v
	}
	c.ledger = append([]model.LedgerEntry(nil), m.ledger...)
	c.purchaseLines = append([]model.PurchaseLine(nil), m.purchaseLines...)
	c.saleLines = append([]model.SaleLine(nil), m.saleLines...)
	c.cash = append([]model.CashFlowEntry(nil), m.cash...)
	return c
}

func (m *memStore) restore(from *memStore) { *m = *from }

func (m *memStore) addItem(name string, stock string) model.Item {
	it := model.Item{ID: uuid.New(), Name: name, CurrentStock: decimal.RequireFromString(stock)}
	m.items[it.ID] = it
	return it
}

func (m *memStore) addSupplier(name string, email *string) model.Supplier {
	s := model.Supplier{ID: uuid.New(), Name: name, Email: email, Status: model.StatusActive}
	m.suppliers[s.ID] = s
	return s
}

func (m *memStore) addCustomer(name string, email *string) model.Customer {
	c := model.Customer{ID: uuid.New(), Name: name, Email: email, Status: model.StatusActive}
	m.customers[c.ID] = c
	return c
}

func (m *memStore) stock(id uuid.UUID) decimal.Decimal { return m.items[id].CurrentStock }

// ── UnitOfWork ────────────────────────────────────────────────────────────────

type stubUoW struct {
	store     *memStore
	commitErr error
}

func (u *stubUoW) Do(_ context.Context, fn func(tx *gorm.DB) error) error {
	snap := u.store.snapshot()
	err := fn(nil)
	if err == nil {
		err = u.commitErr
	}
	if err != nil {
		u.store.restore(snap)
	}
	return err
}

var _ repository.UnitOfWork = (*stubUoW)(nil)

// ── Items ─────────────────────────────────────────────────────────────────────

type stubItemRepo struct{ s *memStore }

func (r *stubItemRepo) CreateTx(_ *gorm.DB, it *model.Item) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	r.s.items[it.ID] = *it
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &it, nil
}

func (r *stubItemRepo) sorted() []model.Item {
	out := make([]model.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *stubItemRepo) List(_ context.Context, skip, limit int) ([]model.Item, error) {
	return page(r.sorted(), skip, limit), nil
}

func (r *stubItemRepo) ListAll(_ context.Context) ([]model.Item, error) { return r.sorted(), nil }

func (r *stubItemRepo) Count(_ context.Context) (int64, error) { return int64(len(r.s.items)), nil }

func (r *stubItemRepo) Update(_ context.Context, it *model.Item) error {
	cur, ok := r.s.items[it.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.Name, cur.UnitOfMeasure, cur.Image = it.Name, it.UnitOfMeasure, it.Image
	r.s.items[it.ID] = cur
	return nil
}

func (r *stubItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, e := range r.s.ledger {
		if e.ItemID == id {
			return &pgconn.PgError{Code: "23503"}
		}
	}
	delete(r.s.items, id)
	return nil
}

func (r *stubItemRepo) LockForUpdateTx(_ *gorm.DB, ids []uuid.UUID) ([]model.Item, error) {
	var out []model.Item
	for _, id := range ids {
		if it, ok := r.s.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *stubItemRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	it, ok := r.s.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	it.CurrentStock = it.CurrentStock.Add(delta)
	r.s.items[id] = it
	return nil
}

var _ repository.ItemRepository = (*stubItemRepo)(nil)

// ── Ledger ────────────────────────────────────────────────────────────────────

type stubLedgerRepo struct{ s *memStore }

func (r *stubLedgerRepo) CreateTx(_ *gorm.DB, e *model.LedgerEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.s.ledger = append(r.s.ledger, *e)
	return nil
}

func (r *stubLedgerRepo) List(_ context.Context, f repository.LedgerFilter) ([]model.LedgerEntry, error) {
	var out []model.LedgerEntry
	for _, e := range r.s.ledger {
		if f.ItemID != nil && e.ItemID != *f.ItemID {
			continue
		}
		if it, ok := r.s.items[e.ItemID]; ok {
			e.Item = &it
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *stubLedgerRepo) BalanceByItem(_ context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, e := range r.s.ledger {
		out[e.ItemID] = out[e.ItemID].Add(e.Signed())
	}
	return out, nil
}

var _ repository.LedgerRepository = (*stubLedgerRepo)(nil)

// ── Purchases / Sales ─────────────────────────────────────────────────────────

type stubPurchaseRepo struct{ s *memStore }

func (r *stubPurchaseRepo) CreateTx(_ *gorm.DB, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	h := *p
	h.Lines = nil
	r.s.purchases[p.ID] = h
	return nil
}

func (r *stubPurchaseRepo) CreateLineTx(_ *gorm.DB, l *model.PurchaseLine) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	stored := *l
	stored.Quantity = numeric(l.Quantity, 3)
	stored.Rate = numeric(l.Rate, 2)
	r.s.purchaseLines = append(r.s.purchaseLines, stored)
	return nil
}

func (r *stubPurchaseRepo) UpdateTotalTx(_ *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	p := r.s.purchases[id]
	p.TotalAmount = numeric(total, 5)
	r.s.purchases[id] = p
	return nil
}

func (r *stubPurchaseRepo) FindWithLines(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	p, ok := r.s.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, l := range r.s.purchaseLines {
		if l.PurchaseID == id {
			if it, ok := r.s.items[l.ItemID]; ok {
				l.Item = &it
			}
			p.Lines = append(p.Lines, l)
		}
	}
	return &p, nil
}

func (r *stubPurchaseRepo) List(_ context.Context, skip, limit int) ([]model.Purchase, error) {
	out := make([]model.Purchase, 0, len(r.s.purchases))
	for _, p := range r.s.purchases {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchaseDate.After(out[j].PurchaseDate) })
	return page(out, skip, limit), nil
}

func (r *stubPurchaseRepo) SumTotal(_ context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.s.purchases {
		sum = sum.Add(p.TotalAmount)
	}
	return sum, nil
}

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

type stubSaleRepo struct{ s *memStore }

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, sl *model.Sale) error {
	if sl.ID == uuid.Nil {
		sl.ID = uuid.New()
	}
	h := *sl
	h.Lines = nil
	r.s.sales[sl.ID] = h
	return nil
}

func (r *stubSaleRepo) CreateLineTx(_ *gorm.DB, l *model.SaleLine) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	stored := *l
	stored.Quantity = numeric(l.Quantity, 3)
	stored.Rate = numeric(l.Rate, 2)
	r.s.saleLines = append(r.s.saleLines, stored)
	return nil
}

func (r *stubSaleRepo) UpdateTotalTx(_ *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	sl := r.s.sales[id]
	sl.TotalAmount = numeric(total, 5)
	r.s.sales[id] = sl
	return nil
}

func (r *stubSaleRepo) FindWithLines(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	sl, ok := r.s.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, l := range r.s.saleLines {
		if l.SaleID == id {
			if it, ok := r.s.items[l.ItemID]; ok {
				l.Item = &it
			}
			sl.Lines = append(sl.Lines, l)
		}
	}
	return &sl, nil
}

func (r *stubSaleRepo) List(_ context.Context, skip, limit int) ([]model.Sale, error) {
	out := make([]model.Sale, 0, len(r.s.sales))
	for _, sl := range r.s.sales {
		out = append(out, sl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SalesDate.After(out[j].SalesDate) })
	return page(out, skip, limit), nil
}

func (r *stubSaleRepo) SumTotal(_ context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, sl := range r.s.sales {
		sum = sum.Add(sl.TotalAmount)
	}
	return sum, nil
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Counterparties ────────────────────────────────────────────────────────────

type stubSupplierRepo struct{ s *memStore }

func (r *stubSupplierRepo) Create(_ context.Context, sp *model.Supplier) error {
	if sp.ID == uuid.Nil {
		sp.ID = uuid.New()
	}
	r.s.suppliers[sp.ID] = *sp
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	sp, ok := r.s.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &sp, nil
}

func (r *stubSupplierRepo) List(_ context.Context, skip, limit int) ([]model.Supplier, error) {
	out := make([]model.Supplier, 0, len(r.s.suppliers))
	for _, sp := range r.s.suppliers {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, skip, limit), nil
}

func (r *stubSupplierRepo) Update(_ context.Context, sp *model.Supplier) error {
	if _, ok := r.s.suppliers[sp.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.suppliers[sp.ID] = *sp
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.suppliers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, p := range r.s.purchases {
		if p.SupplierID == id {
			return &pgconn.PgError{Code: "23503"}
		}
	}
	delete(r.s.suppliers, id)
	return nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

type stubCustomerRepo struct{ s *memStore }

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubCustomerRepo) List(_ context.Context, skip, limit int) ([]model.Customer, error) {
	out := make([]model.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, skip, limit), nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	if _, ok := r.s.customers[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.customers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.customers, id)
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Cash flow ─────────────────────────────────────────────────────────────────

type stubCashFlowRepo struct {
	s         *memStore
	createErr error
}

func (r *stubCashFlowRepo) Create(_ context.Context, e *model.CashFlowEntry) error {
	return r.CreateTx(nil, e)
}

func (r *stubCashFlowRepo) CreateTx(_ *gorm.DB, e *model.CashFlowEntry) error {
	if r.createErr != nil {
		return r.createErr
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	stored := *e
	stored.Amount = numeric(e.Amount, 5)
	r.s.cash = append(r.s.cash, stored)
	return nil
}

func (r *stubCashFlowRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashFlowEntry, error) {
	for _, e := range r.s.cash {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCashFlowRepo) Update(_ context.Context, e *model.CashFlowEntry) error {
	for i := range r.s.cash {
		if r.s.cash[i].ID == e.ID {
			r.s.cash[i] = *e
			r.s.cash[i].Amount = numeric(e.Amount, 5)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubCashFlowRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.s.cash {
		if r.s.cash[i].ID == id {
			r.s.cash = append(r.s.cash[:i], r.s.cash[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubCashFlowRepo) List(_ context.Context, skip, limit int) ([]model.CashFlowEntry, error) {
	out := append([]model.CashFlowEntry(nil), r.s.cash...)
	return page(out, skip, limit), nil
}

func (r *stubCashFlowRepo) SumByType(_ context.Context) (decimal.Decimal, decimal.Decimal, error) {
	in, out := decimal.Zero, decimal.Zero
	for _, e := range r.s.cash {
		if e.Type == model.MovementIn {
			in = in.Add(e.Amount)
		} else {
			out = out.Add(e.Amount)
		}
	}
	return in, out, nil
}

var _ repository.CashFlowRepository = (*stubCashFlowRepo)(nil)

// ── Users ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct{ s *memStore }

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if _, ok := r.s.users[u.Username]; ok {
		return &pgconn.PgError{Code: "23505"}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.s.users[u.Username] = *u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := r.s.users[username]
	if !ok || !u.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Cache / notifier ──────────────────────────────────────────────────────────

// stubCache keys entries by generation the way the Redis cache does.
type stubCache struct {
	gen           int64
	entries       map[int64]*dto.DashboardResponse
	sets          int
	invalidations int
	lockHeld      bool
}

func (c *stubCache) current() *dto.DashboardResponse { return c.entries[c.gen] }

func (c *stubCache) put(v *dto.DashboardResponse) {
	if c.entries == nil {
		c.entries = map[int64]*dto.DashboardResponse{}
	}
	c.entries[c.gen] = v
}

func (c *stubCache) Get(context.Context) (*dto.DashboardResponse, int64, bool) {
	v := c.entries[c.gen]
	return v, c.gen, v != nil
}

func (c *stubCache) Set(_ context.Context, gen int64, v *dto.DashboardResponse) {
	if c.entries == nil {
		c.entries = map[int64]*dto.DashboardResponse{}
	}
	c.entries[gen] = v
	c.sets++
}

func (c *stubCache) Invalidate(context.Context)          { c.gen++; c.invalidations++ }
func (c *stubCache) Lock(context.Context) (func(), bool) { return func() {}, !c.lockHeld }

var _ DashboardCache = (*stubCache)(nil)

type stubNotifier struct {
	jobs []ReceiptJob
	err  error
}

func (n *stubNotifier) EnqueueReceipt(_ context.Context, job ReceiptJob) error {
	if n.err != nil {
		return n.err
	}
	n.jobs = append(n.jobs, job)
	return nil
}

var _ ReceiptNotifier = (*stubNotifier)(nil)

// ── helpers ───────────────────────────────────────────────────────────────────

func page[T any](in []T, skip, limit int) []T {
	if skip >= len(in) {
		return []T{}
	}
	in = in[skip:]
	if limit < len(in) {
		in = in[:limit]
	}
	return in
}

// fixture wires every service to one memStore.
type fixture struct {
	store     *memStore
	uow       *stubUoW
	cashRepo  *stubCashFlowRepo
	cache     *stubCache
	notifier  *stubNotifier
	ledger    LedgerService
	items     ItemService
	cashflow  CashFlowService
	reports   ReportService
	suppliers SupplierService
	customers CustomerService
}

func newFixture() *fixture {
	st := newMemStore()
	f := &fixture{
		store:    st,
		uow:      &stubUoW{store: st},
		cashRepo: &stubCashFlowRepo{s: st},
		cache:    &stubCache{},
		notifier: &stubNotifier{},
	}
	itemRepo := &stubItemRepo{s: st}
	ledgerRepo := &stubLedgerRepo{s: st}
	purchaseRepo := &stubPurchaseRepo{s: st}
	saleRepo := &stubSaleRepo{s: st}
	supplierRepo := &stubSupplierRepo{s: st}
	customerRepo := &stubCustomerRepo{s: st}

	f.cashflow = NewCashFlowService(f.cashRepo, f.cache)
	f.ledger = NewLedgerService(f.uow, itemRepo, purchaseRepo, saleRepo, ledgerRepo,
		supplierRepo, customerRepo, f.cashflow, f.cache, f.notifier)
	f.items = NewItemService(f.uow, itemRepo, ledgerRepo, f.cache)
	f.reports = NewReportService(itemRepo, ledgerRepo, purchaseRepo, saleRepo, f.cashRepo, f.cache)
	f.suppliers = NewSupplierService(supplierRepo)
	f.customers = NewCustomerService(customerRepo)
	return f
}

var staff = &Principal{Username: "clerk", Role: model.RoleStaff}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func ptrDec(s string) *decimal.Decimal { d := dec(s); return &d }

func testDate() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
