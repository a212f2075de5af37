package router

import (
	"time"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/config"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/handler"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/infra"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/middleware"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/repository"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"
)

// Services is the business layer, built once and shared by the HTTP router
// and the background workers.
type Services struct {
	Auth      service.AuthService
	Suppliers service.SupplierService
	Customers service.CustomerService
	Items     service.ItemService
	Ledger    service.LedgerService
	CashFlow  service.CashFlowService
	Reports   service.ReportService
}

// NewServices wires repositories into services. notifier may be nil when
// receipt e-mails are disabled.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func NewServices(cfg *config.Config, db *gorm.DB, rdb *redis.Client, notifier service.ReceiptNotifier) *Services {
	// ── Infrastructure ───────────────────────────────────────────────────────
	cache := infra.NewDashboardCache(rdb, time.Duration(cfg.ReportCacheTTLSeconds)*time.Second)
	uow := repository.NewUnitOfWork(db)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	itemRepo := repository.NewItemRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	cashFlowRepo := repository.NewCashFlowRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	cashFlowSvc := service.NewCashFlowService(cashFlowRepo, cache)
	return &Services{
		Auth:      service.NewAuthService(userRepo, cfg),
		Suppliers: service.NewSupplierService(supplierRepo),
		Customers: service.NewCustomerService(customerRepo),
		Items:     service.NewItemService(uow, itemRepo, ledgerRepo, cache),
		Ledger: service.NewLedgerService(uow, itemRepo, purchaseRepo, saleRepo, ledgerRepo,
			supplierRepo, customerRepo, cashFlowSvc, cache, notifier),
		CashFlow: cashFlowSvc,
		Reports:  service.NewReportService(itemRepo, ledgerRepo, purchaseRepo, saleRepo, cashFlowRepo, cache),
	}
}

// New returns the configured Gin engine.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svc *Services) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, "api", 1000, time.Minute))

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svc.Auth)
	usersH := handler.NewUsersHandler(svc.Auth)
	suppliersH := handler.NewSuppliersHandler(svc.Suppliers)
	customersH := handler.NewCustomersHandler(svc.Customers)
	itemsH := handler.NewItemsHandler(svc.Items, svc.Ledger)
	purchasesH := handler.NewPurchasesHandler(svc.Ledger, cfg.BusinessName)
	salesH := handler.NewSalesHandler(svc.Ledger, cfg.BusinessName)
	cashFlowH := handler.NewCashFlowHandler(svc.CashFlow)
	reportsH := handler.NewReportsHandler(svc.Reports)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.RateLimiter(rdb, "login", 20, time.Minute), authH.Login)
	}

	gate := svc.Auth
	anyRole := middleware.RequireRole(gate, model.RoleAdmin, model.RoleStaff)
	adminOnly := middleware.RequireRole(gate, model.RoleAdmin)

	v1 := r.Group("/v1", middleware.JWTAuth(gate))
	{
		parties := map[string]*handler.PartiesHandler{"/suppliers": suppliersH, "/customers": customersH}
		for path, h := range parties {
			g := v1.Group(path)
			g.GET("", anyRole, h.List)
			g.POST("", anyRole, h.Create)
			g.GET("/:id", anyRole, h.Get)
			g.PUT("/:id", anyRole, h.Update)
			g.DELETE("/:id", adminOnly, h.Delete)
		}

		items := v1.Group("/items")
		{
			items.GET("", anyRole, itemsH.List)
			items.POST("", anyRole, itemsH.Create)
			items.GET("/:id", anyRole, itemsH.Get)
			items.PUT("/:id", anyRole, itemsH.Update)
			items.DELETE("/:id", adminOnly, itemsH.Delete)
			items.PATCH("/:id/stock", adminOnly, itemsH.AdjustStock)
		}

		docs := map[string]*handler.DocumentsHandler{"/purchases": purchasesH, "/sales": salesH}
		for path, h := range docs {
			g := v1.Group(path, anyRole)
			g.GET("", h.List)
			g.POST("", h.Post)
			g.GET("/:id", h.Get)
			g.GET("/:id/pdf", h.PDF)
		}

		cash := v1.Group("/cashflow")
		{
			cash.GET("", anyRole, cashFlowH.List)
			cash.POST("", anyRole, cashFlowH.Create)
			cash.GET("/:id", anyRole, cashFlowH.Get)
			cash.PUT("/:id", anyRole, cashFlowH.Update)
			cash.DELETE("/:id", adminOnly, cashFlowH.Delete)
		}

		reports := v1.Group("/reports", anyRole)
		{
			reports.GET("/inventory", reportsH.Inventory)
			reports.GET("/inventory/export", reportsH.Export)
			reports.GET("/dashboard", reportsH.Dashboard)
			reports.GET("/reconciliation", reportsH.Reconciliation)
		}

		users := v1.Group("/users", adminOnly)
		{
			users.GET("", usersH.List)
			users.POST("", usersH.Create)
		}

		v1.POST("/admin/receipts/replay", adminOnly, handler.ReplayReceipts(rdb))
	}

	// Swagger UI outside production only.
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
