package router

import (
	"time"

	"github.com/jmsleo/kreasiPOS/internal/config"
	"github.com/jmsleo/kreasiPOS/internal/handler"
	"github.com/jmsleo/kreasiPOS/internal/middleware"
	"github.com/jmsleo/kreasiPOS/internal/repository"
	"github.com/jmsleo/kreasiPOS/internal/service"
	"github.com/jmsleo/kreasiPOS/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	materialRepo := repository.NewRawMaterialRepository(db)
	bomRepo := repository.NewBOMRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	adjRepo := repository.NewStockAdjustmentRepository(db)
	marketplaceRepo := repository.NewMarketplaceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, tenantRepo, cfg)
	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo)
	materialSvc := service.NewRawMaterialService(materialRepo, adjRepo)
	bomSvc := service.NewBOMService(bomRepo, materialRepo, productRepo, adjRepo, rdb)
	saleSvc := service.NewSaleService(saleRepo, productRepo, bomRepo, tenantRepo, customerRepo, bomSvc, dispatcher)
	refundSvc := service.NewRefundService(refundRepo, saleRepo, productRepo, bomRepo, bomSvc)
	marketplaceSvc := service.NewMarketplaceService(marketplaceRepo, productRepo, materialRepo, adjRepo)
	reportSvc := service.NewReportService(saleRepo, refundRepo, bomRepo, materialRepo, productRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	settingsSvc := service.NewSettingsService(tenantRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	productsH := handler.NewProductsHandler(productSvc)
	materialsH := handler.NewRawMaterialsHandler(materialSvc)
	bomH := handler.NewBOMHandler(bomSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	refundsH := handler.NewRefundsHandler(refundSvc)
	marketplaceH := handler.NewMarketplaceHandler(marketplaceSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", authH.RegisterTenant)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.PUT("/auth/password", authH.ChangePassword)

		// Staff management — admin only
		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.DELETE("/:id", authH.DeactivateUser)
		}

		// Categories — everyone reads, admin/manager write
		v1.GET("/categories", middleware.RequireRole("cashier", "manager", "admin"), categoriesH.List)
		categories := v1.Group("/categories", middleware.RequireRole("manager", "admin"))
		{
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
		}

		// Products — everyone reads (POS catalog), admin/manager write
		v1.GET("/products", middleware.RequireRole("cashier", "manager", "admin"), productsH.List)
		v1.GET("/products/:id", middleware.RequireRole("cashier", "manager", "admin"), productsH.Get)
		v1.GET("/products/barcode/:code", middleware.RequireRole("cashier", "manager", "admin"), productsH.GetByBarcode)
		products := v1.Group("/products", middleware.RequireRole("manager", "admin"))
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		// Recipes — reads for anyone selling, writes for manager/admin
		v1.GET("/products/:id/bom", middleware.RequireRole("cashier", "manager", "admin"), bomH.GetActive)
		v1.POST("/products/:id/bom/availability", middleware.RequireRole("cashier", "manager", "admin"), bomH.CheckAvailability)
		bom := v1.Group("/products/:id/bom", middleware.RequireRole("manager", "admin"))
		{
			bom.PUT("", bomH.Save)
			bom.DELETE("", bomH.Delete)
			bom.GET("/versions", bomH.ListVersions)
			bom.POST("/versions/:versionId/activate", bomH.ActivateVersion)
			bom.GET("/cost", bomH.Cost)
		}

		// Raw materials — manager/admin territory
		materials := v1.Group("/raw-materials", middleware.RequireRole("manager", "admin"))
		{
			materials.POST("", materialsH.Create)
			materials.GET("", materialsH.List)
			materials.GET("/:id", materialsH.Get)
			materials.PUT("/:id", materialsH.Update)
			materials.DELETE("/:id", materialsH.Delete)
			materials.POST("/:id/adjust", materialsH.AdjustStock)
			materials.GET("/:id/adjustments", materialsH.ListAdjustments)
		}

		// Customers — cashiers look them up at the register, manager/admin curate
		v1.GET("/customers", middleware.RequireRole("cashier", "manager", "admin"), customersH.List)
		v1.GET("/customers/:id", middleware.RequireRole("cashier", "manager", "admin"), customersH.Get)
		customers := v1.Group("/customers", middleware.RequireRole("manager", "admin"))
		{
			customers.POST("", customersH.Create)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Delete)
		}

		// Store settings — admin only
		settings := v1.Group("/settings", middleware.RequireRole("admin"))
		{
			settings.GET("", settingsH.Get)
			settings.PUT("", settingsH.Update)
		}

		// Sales — every role sells
		v1.POST("/sales", middleware.RequireRole("cashier", "manager", "admin"), salesH.Register)
		v1.POST("/sales/validate-cart", middleware.RequireRole("cashier", "manager", "admin"), salesH.ValidateCart)
		v1.GET("/sales", middleware.RequireRole("cashier", "manager", "admin"), salesH.List)
		v1.GET("/sales/:id", middleware.RequireRole("cashier", "manager", "admin"), salesH.Get)
		v1.GET("/sales/:id/receipt.pdf", middleware.RequireRole("cashier", "manager", "admin"), salesH.Receipt)

		// Refunds — cashiers request, manager/admin approve
		v1.POST("/refunds", middleware.RequireRole("cashier", "manager", "admin"), refundsH.Create)
		v1.GET("/refunds", middleware.RequireRole("cashier", "manager", "admin"), refundsH.List)
		v1.GET("/refunds/:id", middleware.RequireRole("cashier", "manager", "admin"), refundsH.Get)
		v1.POST("/refunds/:id/process", middleware.RequireRole("manager", "admin"), refundsH.Process)
		v1.POST("/refunds/:id/cancel", middleware.RequireRole("manager", "admin"), refundsH.Cancel)

		// Marketplace — tenants browse and order, superadmin curates and verifies
		v1.GET("/marketplace/items", marketplaceH.ListItems)
		v1.GET("/marketplace/payment-methods", marketplaceH.ListPaymentMethods)
		v1.POST("/marketplace/orders", middleware.RequireRole("admin"), marketplaceH.CreateOrder)
		v1.GET("/marketplace/orders", marketplaceH.ListOrders)
		platform := v1.Group("/marketplace", middleware.RequireSuperadmin())
		{
			platform.POST("/items", marketplaceH.CreateItem)
			platform.PUT("/items/:id", marketplaceH.UpdateItem)
			platform.POST("/payment-methods", marketplaceH.CreatePaymentMethod)
			platform.DELETE("/payment-methods/:id", marketplaceH.DeactivatePaymentMethod)
			platform.POST("/orders/:id/verify", marketplaceH.VerifyOrder)
			platform.POST("/orders/:id/reject", marketplaceH.RejectOrder)
		}

		// Reports — manager/admin
		reports := v1.Group("/reports", middleware.RequireRole("manager", "admin"))
		{
			reports.GET("/dashboard", reportsH.Dashboard)
			reports.GET("/dashboard/sales-series", reportsH.SalesSeries)
			reports.GET("/daily-sales", reportsH.DailySales)
			reports.GET("/bom-costs", reportsH.BOMCosts)
			reports.GET("/low-stock", reportsH.LowStock)
			reports.GET("/sales/export", reportsH.ExportSales)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
