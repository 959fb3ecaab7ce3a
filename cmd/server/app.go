package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	catalogapp "github.com/tunerp/backend/internal/application/catalog"
	financeapp "github.com/tunerp/backend/internal/application/finance"
	hrapp "github.com/tunerp/backend/internal/application/hr"
	identityapp "github.com/tunerp/backend/internal/application/identity"
	inventoryapp "github.com/tunerp/backend/internal/application/inventory"
	notificationapp "github.com/tunerp/backend/internal/application/notification"
	ocrapp "github.com/tunerp/backend/internal/application/ocr"
	partnerapp "github.com/tunerp/backend/internal/application/partner"
	reportapp "github.com/tunerp/backend/internal/application/report"
	tradeapp "github.com/tunerp/backend/internal/application/trade"
	domainocr "github.com/tunerp/backend/internal/domain/ocr"
	"github.com/tunerp/backend/internal/infrastructure/auth"
	"github.com/tunerp/backend/internal/infrastructure/cache"
	"github.com/tunerp/backend/internal/infrastructure/config"
	"github.com/tunerp/backend/internal/infrastructure/event"
	"github.com/tunerp/backend/internal/infrastructure/lock"
	"github.com/tunerp/backend/internal/infrastructure/logger"
	"github.com/tunerp/backend/internal/infrastructure/ocr"
	"github.com/tunerp/backend/internal/infrastructure/persistence"
	"github.com/tunerp/backend/internal/infrastructure/printing"
	"github.com/tunerp/backend/internal/infrastructure/storage"
	"github.com/tunerp/backend/internal/infrastructure/telemetry"
	"github.com/tunerp/backend/internal/interfaces/http/handler"
	"github.com/tunerp/backend/internal/interfaces/http/middleware"
	"github.com/tunerp/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// login attempts allowed per client IP
const (
	loginAttempts = 10
	loginWindow   = 15 * time.Minute
)

// application holds the long-lived dependencies of the HTTP server
type application struct {
	cfg       *config.Config
	log       *zap.Logger
	providers *telemetry.Providers

	db       *persistence.Database
	redis    *redis.Client
	renderer *printing.ChromeRenderer
	jwt      *auth.JWTService

	authService *identityapp.AuthService
	handlers    router.Handlers

	apiLimiter   middleware.LimitStore
	loginLimiter middleware.LimitStore
	closers      []func()
}

func newApplication(ctx context.Context, cfg *config.Config, log *zap.Logger, providers *telemetry.Providers) (*application, error) {
	app := &application{cfg: cfg, log: log, providers: providers}

	gormLogger := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLogger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	})
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}

	var (
		revocations auth.RevocationStore
		locker      lock.Locker
	)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.redis = client
		app.closers = append(app.closers, func() { _ = client.Close() })
		revocations = auth.NewRedisRevocationStore(client)
		locker = lock.NewRedisLocker(client, cfg.Lock)
		app.apiLimiter = middleware.NewRedisRateLimiter(client, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, "ratelimit:api:")
		app.loginLimiter = middleware.NewRedisRateLimiter(client, loginAttempts, loginWindow, "ratelimit:login:")
	} else {
		log.Warn("Redis disabled, sessions, locks and rate limits are kept in process memory")
		revocations = auth.NewMemoryRevocationStore()
		locker = lock.NewMemoryLocker()
		apiLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		loginLimiter := middleware.NewRateLimiter(loginAttempts, loginWindow)
		app.apiLimiter, app.loginLimiter = apiLimiter, loginLimiter
		app.closers = append(app.closers, apiLimiter.Close, loginLimiter.Close)
	}

	objectStorage, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	app.renderer = printing.NewChromeRenderer(cfg.Printing, log)
	app.closers = append(app.closers, func() { _ = app.renderer.Close() })
	printer := printing.NewInvoicePrinter(app.renderer)

	var recognizer domainocr.Recognizer
	ocrClient, err := ocr.NewClient(cfg.OCR)
	switch {
	case errors.Is(err, ocr.ErrMissingAPIKey):
		log.Warn("OCR API key not set, invoice analysis disabled")
	case err != nil:
		return nil, fmt.Errorf("init ocr client: %w", err)
	default:
		recognizer = ocrClient
	}

	gdb := db.DB
	productRepo := persistence.NewGormProductRepository(gdb)
	clientRepo := persistence.NewGormClientRepository(gdb)
	supplierRepo := persistence.NewGormSupplierRepository(gdb)
	movementRepo := persistence.NewGormStockMovementRepository(gdb)
	saleRepo := persistence.NewGormSaleRepository(gdb)
	purchaseRepo := persistence.NewGormPurchaseRepository(gdb)
	salePaymentRepo := persistence.NewGormSalePaymentRepository(gdb)
	purchasePaymentRepo := persistence.NewGormPurchasePaymentRepository(gdb)
	chargeRepo := persistence.NewGormChargeRepository(gdb)
	quoteRepo := persistence.NewGormQuoteRepository(gdb)
	deliveryRepo := persistence.NewGormDeliveryRepository(gdb)
	returnRepo := persistence.NewGormSaleReturnRepository(gdb)
	employeeRepo := persistence.NewGormEmployeeRepository(gdb)
	notificationRepo := persistence.NewGormNotificationRepository(gdb)
	userRepo := persistence.NewGormUserRepository(gdb)
	companyRepo := persistence.NewGormCompanyRepository(gdb)
	reportRepo := persistence.NewGormReportRepository(gdb)

	bus := event.NewInMemoryEventBus(log)
	stockAlerts := notificationapp.NewStockAlertHandler(notificationRepo, log)
	bus.Subscribe(stockAlerts)

	app.jwt = auth.NewJWTService(cfg.JWT)
	userService := identityapp.NewUserService(userRepo, revocations, cfg.JWT.RefreshTokenExpiration)
	companyService := identityapp.NewCompanyService(companyRepo, userRepo, userService, objectStorage)
	app.authService = identityapp.NewAuthService(userRepo, companyRepo, app.jwt, revocations, log)

	productService := catalogapp.NewProductService(productRepo, supplierRepo, movementRepo, locker)
	productService.SetEventPublisher(bus)
	ledger := inventoryapp.NewLedger(productRepo, movementRepo)
	ledger.SetEventPublisher(bus)
	inventoryService := inventoryapp.NewService(productRepo, movementRepo, ledger, locker)

	saleService := tradeapp.NewSaleService(saleRepo, clientRepo, productRepo, salePaymentRepo, ledger, locker)
	saleService.SetPrinter(printer, companyRepo)
	purchaseService := tradeapp.NewPurchaseService(purchaseRepo, supplierRepo, productRepo, purchasePaymentRepo, ledger, locker)
	purchaseService.SetPrinter(printer, companyRepo)

	salePaymentService := financeapp.NewSalePaymentService(salePaymentRepo, clientRepo)
	ocrService := ocrapp.NewService(companyRepo, recognizer)

	if providers.MetricsEnabled() {
		bm, err := telemetry.NewBusinessMetrics(providers.Meter("tunerp.business"))
		if err != nil {
			log.Warn("Business metrics disabled", zap.Error(err))
		} else {
			saleService.SetBusinessMetrics(bm)
			purchaseService.SetBusinessMetrics(bm)
			salePaymentService.SetBusinessMetrics(bm)
			stockAlerts.SetBusinessMetrics(bm)
			ocrService.SetBusinessMetrics(bm)
		}
	}

	if cfg.Bootstrap.AdminEmail != "" {
		created, err := companyService.BootstrapSystemAdmin(ctx, cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("bootstrap system admin: %w", err)
		}
		if created {
			log.Info("System administrator created", zap.String("email", cfg.Bootstrap.AdminEmail))
		}
	}

	app.handlers = router.Handlers{
		Auth:         handler.NewAuthHandler(app.authService),
		Company:      handler.NewCompanyHandler(companyService),
		User:         handler.NewUserHandler(userService),
		Admin:        handler.NewAdminHandler(companyService),
		Client:       handler.NewClientHandler(partnerapp.NewClientService(clientRepo, saleRepo)),
		Supplier:     handler.NewSupplierHandler(partnerapp.NewSupplierService(supplierRepo)),
		Product:      handler.NewProductHandler(productService),
		Stock:        handler.NewStockHandler(inventoryService),
		Sale:         handler.NewSaleHandler(saleService),
		Purchase:     handler.NewPurchaseHandler(purchaseService),
		Payment:      handler.NewPaymentHandler(salePaymentService, financeapp.NewPurchasePaymentService(purchasePaymentRepo)),
		Notification: handler.NewNotificationHandler(notificationapp.NewService(notificationRepo)),
		Charge:       handler.NewChargeHandler(financeapp.NewChargeService(chargeRepo, objectStorage)),
		Quote:        handler.NewQuoteHandler(tradeapp.NewQuoteService(quoteRepo, saleService)),
		Delivery:     handler.NewDeliveryHandler(tradeapp.NewDeliveryService(deliveryRepo)),
		Return:       handler.NewReturnHandler(tradeapp.NewReturnService(returnRepo, saleRepo, ledger, locker)),
		Employee:     handler.NewEmployeeHandler(hrapp.NewEmployeeService(employeeRepo)),
		Report: handler.NewReportHandler(
			reportapp.NewAccountingService(reportRepo, chargeRepo),
			reportapp.NewDashboardService(reportRepo),
			reportapp.NewReportService(reportRepo),
		),
		OCR: handler.NewOCRHandler(ocrService),
	}

	middleware.SetupValidator()
	return app, nil
}

// routes installs the global middleware chain, the health check and the API
func (a *application) routes(engine *gin.Engine) {
	cfg := a.cfg
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(a.log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
			SkipPaths:   []string{"/health"},
		}),
		logger.GinMiddleware(a.log),
		middleware.Secure(),
		middleware.CORS(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		}),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize, cfg.Storage.MaxUploadSize),
	)
	if a.providers.MetricsEnabled() {
		engine.Use(middleware.HTTPMetrics(a.providers.Meter("tunerp.http"), a.log))
	}

	checks := map[string]handler.HealthCheck{"database": a.db.Ping}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}
	engine.GET("/health", handler.NewHealthHandler(version, checks).Health)

	jwtCfg := middleware.DefaultJWTConfig(a.jwt)
	jwtCfg.Revocations = a.authService
	jwtCfg.Logger = a.log

	api := []gin.HandlerFunc{
		middleware.JWTAuthMiddlewareWithConfig(jwtCfg),
		middleware.SpanAttributes(),
		middleware.Profiling(cfg.Telemetry.ProfilingEnabled),
	}
	if cfg.HTTP.RateLimitEnabled {
		api = append(api, middleware.RateLimit(a.apiLimiter))
	}

	r := router.NewRouter(engine, router.WithMiddleware(api...)).
		Register(router.APIGroups(a.handlers, router.RouteOptions{
			LoginLimiter: middleware.LoginRateLimit(a.loginLimiter),
		})...)
	r.Setup()

	perArea := make(map[string]int)
	endpoints := r.Endpoints()
	for _, e := range endpoints {
		perArea[e.Area]++
	}
	a.log.Info("API routes mounted",
		zap.String("prefix", router.APIPrefix),
		zap.Int("routes", len(endpoints)),
		zap.Any("per_area", perArea),
	)
}

// close releases resources in reverse acquisition order
func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
