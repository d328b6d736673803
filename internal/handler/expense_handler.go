package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/middleware"
	"github.com/aluvasquez/schoolledger/internal/service"
	"github.com/labstack/echo/v4"
)

// ExpenseHandler exposes operational expenses, categories, and suppliers.
type ExpenseHandler struct {
	expenses   *service.ExpenseService
	categories *service.ExpenseCategoryService
	suppliers  *service.SupplierService
}

func NewExpenseHandler(expenses *service.ExpenseService, categories *service.ExpenseCategoryService, suppliers *service.SupplierService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, categories: categories, suppliers: suppliers}
}

func (h *ExpenseHandler) Create(c echo.Context) error {
	var expense domain.Expense
	if err := c.Bind(&expense); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	expense.RecordedByUserID = middleware.UserID(c)
	created, err := h.expenses.RecordExpense(&expense)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *ExpenseHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	expense, err := h.expenses.Get(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) List(c echo.Context) error {
	filter := domain.ExpenseFilter{ExcludeSalaries: c.QueryParam("exclude_salaries") == "true"}
	if catID, err := strconv.ParseInt(c.QueryParam("category_id"), 10, 32); err == nil {
		id := int32(catID)
		filter.CategoryID = &id
	}
	expenses, err := h.expenses.List(filter)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, expenses)
}

type recordExpensePaymentRequest struct {
	PaymentDate string               `json:"paymentDate"`
	AmountVES   string               `json:"amountVes"`
	Method      domain.PaymentMethod `json:"method"`
	Notes       *string              `json:"notes"`
}

func (h *ExpenseHandler) RecordPayment(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	var req recordExpensePaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return NewValidationError(c, "paymentDate must be in YYYY-MM-DD format", nil)
	}
	amountVES, err := decimalFromString(req.AmountVES)
	if err != nil {
		return NewValidationError(c, "amountVes is not a valid decimal", nil)
	}
	payment, err := h.expenses.RecordPayment(int32(id), paymentDate, amountVES, req.Method, req.Notes)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, payment)
}

func (h *ExpenseHandler) CreateCategory(c echo.Context) error {
	var category domain.ExpenseCategory
	if err := c.Bind(&category); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	created, err := h.categories.Create(&category)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *ExpenseHandler) ListCategories(c echo.Context) error {
	categories, err := h.categories.List()
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *ExpenseHandler) CreateSupplier(c echo.Context) error {
	var supplier domain.Supplier
	if err := c.Bind(&supplier); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	created, err := h.suppliers.Create(&supplier)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *ExpenseHandler) ListSuppliers(c echo.Context) error {
	suppliers, err := h.suppliers.List()
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, suppliers)
}
