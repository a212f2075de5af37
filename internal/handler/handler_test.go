package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/middleware"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ── Mocks ─────────────────────────────────────────────────────────────────────

type mockLedger struct{ mock.Mock }

func (m *mockLedger) PostPurchase(ctx context.Context, p *service.Principal, req dto.PostPurchaseRequest) (*dto.DocumentDetailResponse, error) {
	args := m.Called(ctx, p, req)
	r, _ := args.Get(0).(*dto.DocumentDetailResponse)
	return r, args.Error(1)
}

func (m *mockLedger) PostSale(ctx context.Context, p *service.Principal, req dto.PostSaleRequest) (*dto.DocumentDetailResponse, error) {
	args := m.Called(ctx, p, req)
	r, _ := args.Get(0).(*dto.DocumentDetailResponse)
	return r, args.Error(1)
}

func (m *mockLedger) GetDocument(ctx context.Context, kind string, id uuid.UUID) (*dto.DocumentDetailResponse, error) {
	args := m.Called(ctx, kind, id)
	r, _ := args.Get(0).(*dto.DocumentDetailResponse)
	return r, args.Error(1)
}

func (m *mockLedger) ListDocuments(ctx context.Context, kind string, q dto.ListQuery) ([]dto.DocumentResponse, error) {
	args := m.Called(ctx, kind, q)
	r, _ := args.Get(0).([]dto.DocumentResponse)
	return r, args.Error(1)
}

func (m *mockLedger) AdjustStock(ctx context.Context, p *service.Principal, itemID uuid.UUID, req dto.AdjustStockRequest) (*dto.ItemResponse, error) {
	args := m.Called(ctx, p, itemID, req)
	r, _ := args.Get(0).(*dto.ItemResponse)
	return r, args.Error(1)
}

var _ service.LedgerService = (*mockLedger)(nil)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*dto.LoginResponse)
	return r, args.Error(1)
}
func (m *mockAuth) Authenticate(token string) (*service.Principal, error) {
	args := m.Called(token)
	p, _ := args.Get(0).(*service.Principal)
	return p, args.Error(1)
}
func (m *mockAuth) VerifyRole(p *service.Principal, roles ...string) error {
	return m.Called(p, roles).Error(0)
}
func (m *mockAuth) EnsureDefaultAdmin(ctx context.Context, u, p string) error {
	return m.Called(ctx, u, p).Error(0)
}
func (m *mockAuth) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*dto.UserResponse)
	return r, args.Error(1)
}
func (m *mockAuth) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]dto.UserResponse)
	return r, args.Error(1)
}

var _ service.AuthService = (*mockAuth)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

var clerk = &service.Principal{Username: "clerk", Role: "staff"}

func init() { gin.SetMode(gin.TestMode) }

func newDocumentsRouter(ledger service.LedgerService) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middleware.PrincipalKey, clerk); c.Next() })
	sales := NewSalesHandler(ledger, "Corner Shop")
	purchases := NewPurchasesHandler(ledger, "Corner Shop")
	items := NewItemsHandler(nil, ledger)
	r.POST("/sales", sales.Post)
	r.GET("/sales", sales.List)
	r.GET("/sales/:id", sales.Get)
	r.GET("/sales/:id/pdf", sales.PDF)
	r.POST("/purchases", purchases.Post)
	r.PATCH("/items/:id/stock", items.AdjustStock)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// ── Documents ─────────────────────────────────────────────────────────────────

func TestPostSale_Created(t *testing.T) {
	ledger := new(mockLedger)
	itemID := uuid.New()
	customerID := uuid.New()
	want := dto.PostSaleRequest{
		SalesDate:  "2024-03-02",
		CustomerID: customerID.String(),
		Lines:      []dto.DocumentLineRequest{{ItemID: itemID.String(), Quantity: decimal.NewFromInt(2), Rate: decimal.RequireFromString("3.5")}},
	}
	ledger.On("PostSale", mock.Anything, clerk, mock.MatchedBy(func(req dto.PostSaleRequest) bool {
		return req.CustomerID == want.CustomerID && len(req.Lines) == 1 && req.Lines[0].Quantity.Equal(decimal.NewFromInt(2))
	})).Return(&dto.DocumentDetailResponse{Header: dto.DocumentResponse{ID: "doc-1", TotalAmount: decimal.NewFromInt(7)}}, nil)

	body := `{"sales_date":"2024-03-02","customer_id":"` + customerID.String() + `","lines":[{"item_id":"` + itemID.String() + `","quantity":2,"rate":"3.5"}]}`
	w := doJSON(newDocumentsRouter(ledger), http.MethodPost, "/sales", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "doc-1", decodeBody(t, w)["header"].(map[string]interface{})["id"])
	ledger.AssertExpectations(t)
}

func TestPostSale_InsufficientStockIs409(t *testing.T) {
	ledger := new(mockLedger)
	itemID := uuid.New()
	ledger.On("PostSale", mock.Anything, clerk, mock.Anything).Return(nil, &service.InsufficientStockError{
		ItemID: itemID, ItemName: "Widget", Requested: decimal.NewFromInt(20), Available: decimal.NewFromInt(15),
	})

	body := `{"sales_date":"2024-03-02","customer_id":"` + uuid.NewString() + `","lines":[{"item_id":"` + itemID.String() + `","quantity":20,"rate":3}]}`
	w := doJSON(newDocumentsRouter(ledger), http.MethodPost, "/sales", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "Insufficient stock for item Widget. Available: 15, requested: 20", got["detail"])
	assert.Equal(t, itemID.String(), got["item_id"])
	assert.Equal(t, "Widget", got["item_name"])
}

func TestPostPurchase_RequestValidation(t *testing.T) {
	ledger := new(mockLedger)
	r := newDocumentsRouter(ledger)

	cases := map[string]struct {
		body  string
		field string
	}{
		"no lines":      {`{"purchase_date":"2024-03-01","supplier_id":"` + uuid.NewString() + `","lines":[]}`, "lines"},
		"bad date":      {`{"purchase_date":"March 1","supplier_id":"` + uuid.NewString() + `","lines":[{"item_id":"` + uuid.NewString() + `","quantity":1,"rate":1}]}`, "purchase_date"},
		"zero quantity": {`{"purchase_date":"2024-03-01","supplier_id":"` + uuid.NewString() + `","lines":[{"item_id":"` + uuid.NewString() + `","quantity":0,"rate":1}]}`, "lines[0].quantity"},
		"negative rate": {`{"purchase_date":"2024-03-01","supplier_id":"` + uuid.NewString() + `","lines":[{"item_id":"` + uuid.NewString() + `","quantity":1,"rate":-1}]}`, "lines[0].rate"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/purchases", tc.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			fields, _ := decodeBody(t, w)["fields"].(map[string]interface{})
			assert.Contains(t, fields, tc.field)
		})
	}

	w := doJSON(r, http.MethodPost, "/purchases", `{"purchase_date":`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	ledger.AssertNotCalled(t, "PostPurchase", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostPurchase_ServiceValidationIs422(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("PostPurchase", mock.Anything, clerk, mock.Anything).Return(nil, &service.ValidationError{Msg: "Supplier not found"})

	body := `{"purchase_date":"2024-03-01","supplier_id":"` + uuid.NewString() + `","lines":[{"item_id":"` + uuid.NewString() + `","quantity":1,"rate":1}]}`
	w := doJSON(newDocumentsRouter(ledger), http.MethodPost, "/purchases", body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"detail":"Supplier not found"}`, w.Body.String())
}

func TestPostPurchase_ExactDecimalsReachService(t *testing.T) {
	ledger := new(mockLedger)
	exact := mock.MatchedBy(func(req dto.PostPurchaseRequest) bool {
		return len(req.Lines) == 1 && req.Lines[0].Quantity.String() == "0.0001" && req.Lines[0].Rate.String() == "1.005"
	})
	ledger.On("PostPurchase", mock.Anything, clerk, exact).Return(nil, &service.ValidationError{
		Msg:    "invalid lines[0].quantity",
		Fields: map[string]string{"lines[0].quantity": "must have at most 3 decimal places"},
	})

	body := `{"purchase_date":"2024-03-01","supplier_id":"` + uuid.NewString() + `","lines":[{"item_id":"` + uuid.NewString() + `","quantity":0.0001,"rate":1.005}]}`
	w := doJSON(newDocumentsRouter(ledger), http.MethodPost, "/purchases", body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"detail":"invalid lines[0].quantity","fields":{"lines[0].quantity":"must have at most 3 decimal places"}}`, w.Body.String())
	ledger.AssertExpectations(t)
}

func TestGetSale(t *testing.T) {
	id := uuid.New()

	t.Run("not found", func(t *testing.T) {
		ledger := new(mockLedger)
		ledger.On("GetDocument", mock.Anything, service.KindSale, id).Return(nil, &service.NotFoundError{Entity: "Sale", ID: id.String()})
		w := doJSON(newDocumentsRouter(ledger), http.MethodGet, "/sales/"+id.String(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"detail":"Sale not found"}`, w.Body.String())
	})

	t.Run("bad id", func(t *testing.T) {
		w := doJSON(newDocumentsRouter(new(mockLedger)), http.MethodGet, "/sales/42", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("storage failure hides detail", func(t *testing.T) {
		ledger := new(mockLedger)
		ledger.On("GetDocument", mock.Anything, service.KindSale, id).Return(nil, &service.PersistenceError{Op: "get sale", Err: errors.New("pq: password authentication failed")})
		w := doJSON(newDocumentsRouter(ledger), http.MethodGet, "/sales/"+id.String(), "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"detail":"Internal server error"}`, w.Body.String())
	})

	t.Run("pdf", func(t *testing.T) {
		ledger := new(mockLedger)
		ledger.On("GetDocument", mock.Anything, service.KindSale, id).Return(&dto.DocumentDetailResponse{
			Header: dto.DocumentResponse{ID: id.String(), Kind: service.KindSale, Date: "2024-03-02"},
		}, nil)
		w := doJSON(newDocumentsRouter(ledger), http.MethodGet, "/sales/"+id.String()+"/pdf", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	})
}

func TestListSales_PassesPaging(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("ListDocuments", mock.Anything, service.KindSale, dto.ListQuery{Skip: 5, Limit: 10}).Return([]dto.DocumentResponse{}, nil)

	w := doJSON(newDocumentsRouter(ledger), http.MethodGet, "/sales?skip=5&limit=10", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doJSON(newDocumentsRouter(ledger), http.MethodGet, "/sales?limit=9999", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	ledger.AssertExpectations(t)
}

func TestAdjustStock_Handler(t *testing.T) {
	id := uuid.New()
	ledger := new(mockLedger)
	ledger.On("AdjustStock", mock.Anything, clerk, id, mock.MatchedBy(func(req dto.AdjustStockRequest) bool {
		return req.Quantity.Equal(decimal.NewFromInt(-3))
	})).Return(&dto.ItemResponse{ID: id.String(), CurrentStock: decimal.NewFromInt(7)}, nil)

	w := doJSON(newDocumentsRouter(ledger), http.MethodPatch, "/items/"+id.String()+"/stock", `{"quantity":-3,"reason":"broken"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(newDocumentsRouter(ledger), http.MethodPatch, "/items/"+id.String()+"/stock", `{"quantity":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	ledger.AssertExpectations(t)
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func TestLoginHandler(t *testing.T) {
	auth := new(mockAuth)
	auth.On("Login", mock.Anything, dto.LoginRequest{Username: "admin", Password: "admin123", Role: "admin"}).
		Return(&dto.LoginResponse{AccessToken: "tok", TokenType: "bearer", Role: "admin", ExpiresIn: 28800}, nil)
	auth.On("Login", mock.Anything, dto.LoginRequest{Username: "admin", Password: "nope", Role: "admin"}).
		Return(nil, &service.AuthenticationError{Msg: "Invalid username or password"})
	auth.On("Login", mock.Anything, dto.LoginRequest{Username: "admin", Password: "admin123", Role: "staff"}).
		Return(nil, &service.AuthorizationError{Msg: "Invalid role"})

	r := gin.New()
	r.POST("/login", NewAuthHandler(auth).Login)

	w := doJSON(r, http.MethodPost, "/login", `{"username":"admin","password":"admin123","role":"admin"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok", decodeBody(t, w)["access_token"])

	w = doJSON(r, http.MethodPost, "/login", `{"username":"admin","password":"nope","role":"admin"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid username or password"}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/login", `{"username":"admin","password":"admin123","role":"staff"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid role"}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/login", `{"username":"admin","password":"admin123","role":"owner"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	auth.AssertExpectations(t)
}

func TestReplayReceipts_WithoutRedis(t *testing.T) {
	r := gin.New()
	r.POST("/replay", ReplayReceipts(nil))
	w := doJSON(r, http.MethodPost, "/replay", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
