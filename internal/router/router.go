package router

import (
	"context"
	"time"

	"barpos/internal/config"
	"barpos/internal/drawer"
	"barpos/internal/handler"
	"barpos/internal/middleware"
	"barpos/internal/model"
	"barpos/internal/repository"
	"barpos/internal/service"
	"barpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, d *drawer.Service) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	payrollRepo := repository.NewPayrollRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	drawerLogRepo := repository.NewDrawerLogRepository(db)
	appConfigRepo := repository.NewAppConfigRepository(db)

	// Drawer events flow into the audit log; hardware errors raise an alert.
	wireDrawerLog(d, drawerLogRepo, alertRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, rdb)
	shiftSvc := service.NewShiftService(sessionRepo, productRepo, creditRepo, alertRepo, appConfigRepo, dispatcher)
	creditSvc := service.NewCreditService(creditRepo)
	accountingSvc := service.NewAccountingService(expenseRepo, purchaseRepo, payrollRepo, sessionRepo, userRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, shiftSvc, d)
	configSvc := service.NewConfigService(appConfigRepo, d)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductHandler(productSvc)
	sessionsH := handler.NewSessionHandler(shiftSvc)
	creditH := handler.NewCreditHandler(creditSvc)
	accountingH := handler.NewAccountingHandler(accountingSvc)
	posH := handler.NewPOSHandler(saleSvc)
	drawerH := handler.NewDrawerHandler(d, drawerLogRepo)
	alertsH := handler.NewAlertHandler(alertRepo)
	configH := handler.NewConfigHandler(configSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, d))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleEmployee, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Catalog — all authenticated can read, only administrador writes
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
		}

		// Shift sessions
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", anyRole, sessionsH.Open)
			sessions.GET("/active", anyRole, sessionsH.Active)
			sessions.GET("", anyRole, sessionsH.List)
			sessions.GET("/:id", anyRole, sessionsH.Get)
			sessions.POST("/:id/close", anyRole, sessionsH.Close)
			sessions.POST("/:id/approve", adminOnly, sessionsH.Approve)
			sessions.POST("/:id/reopen", adminOnly, sessionsH.Reopen)
		}

		// Fiao credit ledger
		credit := v1.Group("/credit", anyRole)
		{
			credit.POST("/customers", creditH.CreateCustomer)
			credit.GET("/customers", creditH.ListCustomers)
			credit.GET("/customers/:id", creditH.GetCustomer)
			credit.PUT("/customers/:id", creditH.UpdateCustomer)
			credit.GET("/customers/:id/transactions", creditH.History)
			credit.POST("/customers/:id/transactions", creditH.RegisterTransaction)
		}

		// POS sales
		v1.POST("/pos/sales", anyRole, posH.RegisterSale)
		v1.GET("/pos/sales", anyRole, posH.ListSales)

		// Cash drawer
		v1.POST("/drawer/open", anyRole, drawerH.Open)
		v1.GET("/drawer/status", anyRole, drawerH.Status)
		v1.GET("/drawer/logs", adminOnly, drawerH.Logs)

		// Accounting — administrador only, except employees can file expenses
		v1.POST("/accounting/expenses", anyRole, accountingH.CreateExpense)
		acct := v1.Group("/accounting", adminOnly)
		{
			acct.GET("/expenses", accountingH.ListExpenses)
			acct.DELETE("/expenses/:id", accountingH.DeleteExpense)
			acct.POST("/purchases", accountingH.CreatePurchase)
			acct.GET("/purchases", accountingH.ListPurchases)
			acct.POST("/payroll", accountingH.CreatePayroll)
			acct.GET("/payroll", accountingH.ListPayroll)
			acct.POST("/payroll/:id/approve", accountingH.ApprovePayroll)
			acct.POST("/payroll/:id/reject", accountingH.RejectPayroll)
			acct.GET("/summary", accountingH.Summary)
		}

		// Alerts
		v1.GET("/alerts", anyRole, alertsH.List)
		v1.POST("/alerts/:id/ack", adminOnly, alertsH.Acknowledge)

		// Runtime configuration
		cfgGroup := v1.Group("/config", adminOnly)
		{
			cfgGroup.GET("", configH.Get)
			cfgGroup.PATCH("", configH.Patch)
		}

		// User management
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// wireDrawerLog persists every drawer event and raises a back-office alert
// when the reconnection loop gives up. Runs on the drawer's emit goroutine,
// so persistence happens with a short detached context.
func wireDrawerLog(d *drawer.Service, logs repository.DrawerLogRepository, alerts repository.AlertRepository) {
	d.Subscribe(func(ev drawer.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		entry := &model.DrawerLog{
			Event: ev.Type,
			Port:  ev.Port,
			Mode:  d.Mode(),
		}
		if ev.Data != "" {
			data := ev.Data
			entry.Detail = &data
		}
		if ev.Error != "" {
			errMsg := ev.Error
			entry.Detail = &errMsg
		}
		if err := logs.Create(ctx, entry); err != nil {
			log.Error().Err(err).Str("event", ev.Type).Msg("drawer log persist failed")
		}

		var alert *model.Alert
		switch {
		case ev.Type == drawer.EventError:
			alert = &model.Alert{
				Source:   model.AlertSourceDrawer,
				Severity: model.AlertCritical,
				Message:  "Cajón de dinero sin conexión: " + ev.Error,
			}
		case ev.Type == drawer.EventOpened && ev.Data == "sensor":
			// Sensor saw the drawer open outside a pulse command.
			alert = &model.Alert{
				Source:   model.AlertSourceDrawer,
				Severity: model.AlertWarning,
				Message:  "Cajón de dinero abierto manualmente",
			}
		}
		if alert != nil {
			if err := alerts.Create(ctx, alert); err != nil {
				log.Error().Err(err).Msg("drawer alert persist failed")
			}
		}
	})
}
