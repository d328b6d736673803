package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/middleware"
	"github.com/aluvasquez/schoolledger/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PayrollHandler exposes payroll run drafting/confirmation, manual balance
// adjustments, and employee payments.
type PayrollHandler struct {
	payroll *service.PayrollService
}

func NewPayrollHandler(payroll *service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payroll: payroll}
}

func (h *PayrollHandler) CreateDraft(c echo.Context) error {
	var run domain.PayrollRun
	if err := c.Bind(&run); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	created, err := h.payroll.CreateDraft(&run)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *PayrollHandler) DeleteDraft(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	if err := h.payroll.DeleteDraft(int32(id)); err != nil {
		return HandleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type updatePayrollStatusRequest struct {
	Status domain.PayrollRunStatus `json:"status"`
}

func (h *PayrollHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	var req updatePayrollStatusRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	run, err := h.payroll.UpdateStatus(int32(id), req.Status)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, run)
}

type confirmRunRequest struct {
	HoursByEmployee map[string]string `json:"hoursByEmployee"`
}

func (h *PayrollHandler) ConfirmRun(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	var req confirmRunRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}

	hoursByEmployee := make(map[int32]decimal.Decimal, len(req.HoursByEmployee))
	for empIDStr, hoursStr := range req.HoursByEmployee {
		empID, err := strconv.ParseInt(empIDStr, 10, 32)
		if err != nil {
			return NewValidationError(c, "hoursByEmployee keys must be employee ids", nil)
		}
		hours, err := decimalFromString(hoursStr)
		if err != nil {
			return NewValidationError(c, "hoursByEmployee values must be valid decimals", nil)
		}
		hoursByEmployee[int32(empID)] = hours
	}

	result, err := h.payroll.ConfirmRun(domain.ConfirmRunInput{
		PayrollRunID:     int32(id),
		ConfirmingUserID: middleware.UserID(c),
		HoursByEmployee:  hoursByEmployee,
	})
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

type recordAdjustmentRequest struct {
	EmployeeID          int32                 `json:"employeeId"`
	Type                domain.AdjustmentType `json:"type"`
	Description         string                `json:"description"`
	AmountOriginal      string                `json:"amountOriginal"`
	CurrencyOriginal    domain.Currency       `json:"currencyOriginal"`
	TargetPayableItemID *int32                `json:"targetPayableItemId"`
	OnDate              string                `json:"onDate"`
}

func (h *PayrollHandler) RecordAdjustment(c echo.Context) error {
	var req recordAdjustmentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	amount, err := decimalFromString(req.AmountOriginal)
	if err != nil {
		return NewValidationError(c, "amountOriginal is not a valid decimal", nil)
	}
	onDate, err := time.Parse("2006-01-02", req.OnDate)
	if err != nil {
		return NewValidationError(c, "onDate must be in YYYY-MM-DD format", nil)
	}

	adj := &domain.EmployeeBalanceAdjustment{
		EmployeeID:          req.EmployeeID,
		Type:                req.Type,
		Description:         req.Description,
		AmountOriginal:      amount,
		CurrencyOriginal:    req.CurrencyOriginal,
		TargetPayableItemID: req.TargetPayableItemID,
	}
	created, err := h.payroll.RecordAdjustment(adj, onDate)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

type recordEmployeePaymentRequest struct {
	EmployeeID  int32                   `json:"employeeId"`
	PaymentDate string                  `json:"paymentDate"`
	Amount      string                  `json:"amount"`
	Currency    domain.Currency         `json:"currency"`
	Allocations []allocationRequestBody `json:"allocations"`
	Method      domain.PaymentMethod    `json:"method"`
}

func (h *PayrollHandler) RecordEmployeePayment(c echo.Context) error {
	var req recordEmployeePaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return NewValidationError(c, "paymentDate must be in YYYY-MM-DD format", nil)
	}
	amount, err := decimalFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "amount is not a valid decimal", nil)
	}

	allocations := make([]domain.AllocationRequest, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		qty, err := decimalFromString(a.AmountToAllocate)
		if err != nil {
			return NewValidationError(c, "amountToAllocate is not a valid decimal", nil)
		}
		allocations = append(allocations, domain.AllocationRequest{
			AppliedChargeID:  a.AppliedChargeID,
			AmountToAllocate: qty,
		})
	}

	result, err := h.payroll.RecordEmployeePayment(domain.RecordEmployeePaymentInput{
		EmployeeID:  req.EmployeeID,
		PaymentDate: paymentDate,
		Amount:      amount,
		Currency:    req.Currency,
		Allocations: allocations,
		Method:      req.Method,
	})
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *PayrollHandler) GetPayslip(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	slip, err := h.payroll.GetPayslip(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, slip)
}

func (h *PayrollHandler) ListEmployeePayslips(c echo.Context) error {
	employeeID, err := strconv.ParseInt(c.Param("employeeId"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid employee id", nil)
	}
	slips, err := h.payroll.ListPayslips(int32(employeeID))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, slips)
}
