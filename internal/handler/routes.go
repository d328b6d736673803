package handler

import (
	"github.com/aluvasquez/schoolledger/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers bundles every HTTP handler the API exposes, so RegisterRoutes
// takes one argument instead of a dozen.
type Handlers struct {
	Auth           *AuthHandler
	Representative *RepresentativeHandler
	Catalog        *CatalogHandler
	Ledger         *LedgerHandler
	Invoice        *InvoiceHandler
	Billing        *BillingHandler
	Personnel      *PersonnelHandler
	Payroll        *PayrollHandler
	Expense        *ExpenseHandler
	Reporting      *ReportingHandler
	WebSocket      *WebSocketHandler
}

// RegisterRoutes wires every API route under /api/v1, guarded by the
// bearer-token auth middleware and per-user rate limiting.
func RegisterRoutes(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) {
	api := e.Group("/api/v1")

	// Public routes.
	api.POST("/auth/login", h.Auth.Login)

	// The WebSocket handshake authenticates via a query-string token because
	// browsers cannot set the Authorization header on the upgrade request.
	api.GET("/ws/:channel", h.WebSocket.Subscribe)

	protected := api.Group("")
	protected.Use(authMiddleware.Authenticate())
	protected.Use(middleware.RateLimitMiddleware(rateLimiter))

	protected.GET("/auth/me", h.Auth.Me)

	superuser := protected.Group("")
	superuser.Use(authMiddleware.RequireSuperuser())
	superuser.POST("/users", h.Auth.CreateUser)
	superuser.PUT("/users/:id/status", h.Auth.UpdateUserStatus)

	// Representatives and students.
	protected.POST("/representatives", h.Representative.Create)
	protected.GET("/representatives", h.Representative.List)
	protected.GET("/representatives/:id", h.Representative.Get)
	protected.PUT("/representatives/:id", h.Representative.Update)
	protected.POST("/students", h.Representative.CreateStudent)
	protected.GET("/students", h.Representative.ListStudents)
	protected.GET("/students/:id", h.Representative.GetStudent)
	protected.PUT("/students/:id", h.Representative.UpdateStudent)

	// Academic/financial catalog.
	protected.POST("/grade-levels", h.Catalog.CreateGradeLevel)
	protected.GET("/grade-levels", h.Catalog.ListGradeLevels)
	protected.PUT("/grade-levels/:id", h.Catalog.UpdateGradeLevel)
	protected.DELETE("/grade-levels/:id", h.Catalog.DeactivateGradeLevel)
	protected.POST("/charge-concepts", h.Catalog.CreateChargeConcept)
	protected.GET("/charge-concepts", h.Catalog.ListChargeConcepts)
	protected.GET("/charge-concepts/:id", h.Catalog.GetChargeConcept)
	protected.PUT("/charge-concepts/:id", h.Catalog.UpdateChargeConcept)
	protected.DELETE("/charge-concepts/:id", h.Catalog.DeactivateChargeConcept)
	protected.GET("/config", h.Catalog.GetConfig)
	protected.PUT("/config", h.Catalog.UpdateConfig)
	protected.PUT("/exchange-rates", h.Catalog.PutExchangeRate)
	protected.PATCH("/exchange-rates/:id", h.Catalog.UpdateExchangeRate)
	protected.GET("/exchange-rates/daily-status", h.Catalog.ExchangeRateDailyStatus)

	// Ledger: charges, payments, credit.
	protected.POST("/charges", h.Ledger.IssueCharge)
	protected.PUT("/charges/:id", h.Ledger.UpdateCharge)
	protected.DELETE("/charges/:id", h.Ledger.CancelCharge)
	protected.POST("/payments", h.Ledger.RecordPayment)
	protected.POST("/representatives/:representativeId/apply-credit", h.Ledger.ApplyCredit)

	// Invoicing.
	protected.POST("/invoices", h.Invoice.Create)
	protected.POST("/invoices/:id/annul", h.Invoice.Annul)
	protected.POST("/credit-notes", h.Invoice.CreateCreditNote)

	// Batch billing.
	protected.POST("/billing/recurring-charges", h.Billing.GenerateRecurringCharges)
	protected.POST("/billing/global-charges", h.Billing.ApplyGlobalCharge)

	// Personnel and payroll.
	protected.POST("/employees", h.Personnel.CreateEmployee)
	protected.GET("/employees", h.Personnel.ListEmployees)
	protected.GET("/employees/:id", h.Personnel.GetEmployee)
	protected.PUT("/employees/:id", h.Personnel.UpdateEmployee)
	protected.POST("/departments", h.Personnel.CreateDepartment)
	protected.GET("/departments", h.Personnel.ListDepartments)
	protected.PUT("/departments/:id", h.Personnel.UpdateDepartment)
	protected.POST("/positions", h.Personnel.CreatePosition)
	protected.GET("/departments/:departmentId/positions", h.Personnel.ListPositionsByDepartment)
	protected.PUT("/positions/:id", h.Personnel.UpdatePosition)
	protected.POST("/salary-components", h.Personnel.CreateSalaryComponentDefinition)
	protected.GET("/salary-components", h.Personnel.ListSalaryComponentDefinitions)
	protected.POST("/salary-components/assignments", h.Personnel.AssignSalaryComponent)
	protected.GET("/employees/:employeeId/salary-components", h.Personnel.ListEmployeeSalaryComponents)
	protected.DELETE("/salary-components/assignments/:id", h.Personnel.RemoveSalaryComponentAssignment)

	protected.POST("/payroll-runs", h.Payroll.CreateDraft)
	protected.DELETE("/payroll-runs/:id", h.Payroll.DeleteDraft)
	protected.PUT("/payroll-runs/:id/status", h.Payroll.UpdateStatus)
	protected.POST("/payroll-runs/:id/confirm", h.Payroll.ConfirmRun)
	protected.POST("/payroll-adjustments", h.Payroll.RecordAdjustment)
	protected.POST("/employee-payments", h.Payroll.RecordEmployeePayment)
	protected.GET("/payslips/:id", h.Payroll.GetPayslip)
	protected.GET("/employees/:employeeId/payslips", h.Payroll.ListEmployeePayslips)

	// Operational expenses.
	protected.POST("/expenses", h.Expense.Create)
	protected.GET("/expenses", h.Expense.List)
	protected.GET("/expenses/:id", h.Expense.Get)
	protected.POST("/expenses/:id/payments", h.Expense.RecordPayment)
	protected.POST("/expense-categories", h.Expense.CreateCategory)
	protected.GET("/expense-categories", h.Expense.ListCategories)
	protected.POST("/suppliers", h.Expense.CreateSupplier)
	protected.GET("/suppliers", h.Expense.ListSuppliers)

	// Reporting.
	protected.GET("/reports/dashboard", h.Reporting.Dashboard)
	protected.GET("/reports/delinquency", h.Reporting.Delinquency)
	protected.GET("/reports/representatives/:representativeId/statement", h.Reporting.AccountStatement)
	protected.GET("/reports/billing-payment-trend", h.Reporting.BillingPaymentTrend)
	protected.GET("/reports/expenses-by-category", h.Reporting.ExpensesByCategory)
	protected.GET("/reports/expenses-by-supplier", h.Reporting.ExpensesBySupplier)
	protected.GET("/reports/expense-trend", h.Reporting.ExpenseTrend)
}
