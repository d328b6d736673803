package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aluvasquez/schoolledger/internal/clock"
	"github.com/aluvasquez/schoolledger/internal/config"
	"github.com/aluvasquez/schoolledger/internal/handler"
	"github.com/aluvasquez/schoolledger/internal/middleware"
	"github.com/aluvasquez/schoolledger/internal/repository/postgres"
	"github.com/aluvasquez/schoolledger/internal/service"
	"github.com/aluvasquez/schoolledger/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	log.Info().Msg("connected to database")

	clk := clock.Real{}
	hub := websocket.NewHub()

	// Repositories.
	gradeLevelRepo := postgres.NewGradeLevelRepository(pool)
	chargeConceptRepo := postgres.NewChargeConceptRepository(pool)
	exchangeRateRepo := postgres.NewExchangeRateRepository(pool)
	schoolConfigRepo := postgres.NewSchoolConfigurationRepository(pool)
	representativeRepo := postgres.NewRepresentativeRepository(pool)
	studentRepo := postgres.NewStudentRepository(pool)
	appliedChargeRepo := postgres.NewAppliedChargeRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	creditNoteRepo := postgres.NewCreditNoteRepository(pool)
	departmentRepo := postgres.NewDepartmentRepository(pool)
	positionRepo := postgres.NewPositionRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	salaryComponentDefRepo := postgres.NewSalaryComponentDefinitionRepository(pool)
	employeeSalaryComponentRepo := postgres.NewEmployeeSalaryComponentRepository(pool)
	payrollRunRepo := postgres.NewPayrollRunRepository(pool)
	employeePayableItemRepo := postgres.NewEmployeePayableItemRepository(pool)
	employeeBalanceAdjustmentRepo := postgres.NewEmployeeBalanceAdjustmentRepository(pool)
	employeePaymentRepo := postgres.NewEmployeePaymentRepository(pool)
	payslipRepo := postgres.NewPayslipRepository(pool)
	expenseCategoryRepo := postgres.NewExpenseCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	// Services, in dependency order.
	currencyService := service.NewCurrencyService(exchangeRateRepo, clk)
	authService := service.NewAuthService(userRepo, cfg.SecretKey, cfg.JWTAlgorithm, cfg.AccessTokenExpireMinutes)
	gradeLevelService := service.NewGradeLevelService(gradeLevelRepo)
	chargeConceptService := service.NewChargeConceptService(chargeConceptRepo)
	schoolConfigService := service.NewSchoolConfigurationService(schoolConfigRepo)
	representativeService := service.NewRepresentativeService(representativeRepo)
	studentService := service.NewStudentService(studentRepo, representativeRepo, gradeLevelRepo)

	appliedChargeService := service.NewAppliedChargeService(appliedChargeRepo, studentRepo, chargeConceptRepo, currencyService, clk)
	appliedChargeService.SetEventPublisher(hub)

	creditService := service.NewCreditService(paymentRepo, appliedChargeRepo)

	billingService := service.NewBillingService(appliedChargeRepo, studentRepo, chargeConceptRepo, schoolConfigRepo, appliedChargeService, creditService)
	billingService.SetEventPublisher(hub)

	paymentService := service.NewPaymentService(paymentRepo, appliedChargeRepo, studentRepo, currencyService, clk)
	paymentService.SetEventPublisher(hub)

	invoiceService := service.NewInvoiceService(invoiceRepo, creditNoteRepo, appliedChargeRepo, chargeConceptRepo, representativeRepo, schoolConfigRepo)
	invoiceService.SetEventPublisher(hub)

	departmentService := service.NewDepartmentService(departmentRepo)
	positionService := service.NewPositionService(positionRepo, departmentRepo)
	employeeService := service.NewEmployeeService(employeeRepo, departmentRepo, positionRepo)
	salaryComponentService := service.NewSalaryComponentService(salaryComponentDefRepo, employeeSalaryComponentRepo)

	payrollService := service.NewPayrollService(
		payrollRunRepo, employeeRepo, salaryComponentDefRepo, employeeSalaryComponentRepo,
		employeePayableItemRepo, employeeBalanceAdjustmentRepo, employeePaymentRepo, payslipRepo, currencyService,
	)
	payrollService.SetEventPublisher(hub)

	expenseCategoryService := service.NewExpenseCategoryService(expenseCategoryRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	expenseService := service.NewExpenseService(expenseRepo, expenseCategoryRepo, supplierRepo, currencyService)

	reportingService := service.NewReportingService(appliedChargeRepo, paymentRepo, representativeRepo, expenseRepo, clk)

	// Bootstrap the first administrative account if none exists yet.
	if err := authService.BootstrapFirstSuperuser(cfg.FirstSuperuserEmail, cfg.FirstSuperuserPassword, cfg.FirstSuperuserFullName); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap first superuser")
	}

	// Handlers.
	handlers := handler.Handlers{
		Auth:           handler.NewAuthHandler(authService),
		Representative: handler.NewRepresentativeHandler(representativeService, studentService),
		Catalog:        handler.NewCatalogHandler(gradeLevelService, chargeConceptService, schoolConfigService, currencyService),
		Ledger:         handler.NewLedgerHandler(appliedChargeService, paymentService, creditService),
		Invoice:        handler.NewInvoiceHandler(invoiceService),
		Billing:        handler.NewBillingHandler(billingService, clock.Caracas),
		Personnel:      handler.NewPersonnelHandler(employeeService, departmentService, positionService, salaryComponentService),
		Payroll:        handler.NewPayrollHandler(payrollService),
		Expense:        handler.NewExpenseHandler(expenseService, expenseCategoryService, supplierService),
		Reporting:      handler.NewReportingHandler(reportingService),
		WebSocket:      handler.NewWebSocketHandler(hub, authService),
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimiter()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestID())

	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	e.Use(zerologMiddleware())
	e.Use(echomiddleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	handler.RegisterRoutes(e, handlers, authMiddleware, rateLimiter)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
