package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/service"
	"github.com/labstack/echo/v4"
)

// LedgerHandler exposes the obligation ledger, the payment/allocation
// engine, and credit reapplication.
type LedgerHandler struct {
	charges  *service.AppliedChargeService
	payments *service.PaymentService
	credit   *service.CreditService
}

func NewLedgerHandler(charges *service.AppliedChargeService, payments *service.PaymentService, credit *service.CreditService) *LedgerHandler {
	return &LedgerHandler{charges: charges, payments: payments, credit: credit}
}

type issueChargeRequest struct {
	StudentID   int32  `json:"studentId"`
	ConceptID   int32  `json:"conceptId"`
	Description string `json:"description"`
	IssueDate   string `json:"issueDate"`
	DueDate     string `json:"dueDate"`
}

func (h *LedgerHandler) IssueCharge(c echo.Context) error {
	var req issueChargeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	issueDate, err := time.Parse("2006-01-02", req.IssueDate)
	if err != nil {
		return NewValidationError(c, "issueDate must be in YYYY-MM-DD format", nil)
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return NewValidationError(c, "dueDate must be in YYYY-MM-DD format", nil)
	}
	charge, err := h.charges.IssueCharge(req.StudentID, req.ConceptID, req.Description, issueDate, dueDate)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, charge)
}

type updateChargeRequest struct {
	Description *string                      `json:"description"`
	DueDate     *string                      `json:"dueDate"`
	Status      *domain.AppliedChargeStatus `json:"status"`
}

func (h *LedgerHandler) UpdateCharge(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	var req updateChargeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return NewValidationError(c, "dueDate must be in YYYY-MM-DD format", nil)
		}
		dueDate = &parsed
	}
	charge, err := h.charges.UpdateCharge(int32(id), req.Description, dueDate, req.Status)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, charge)
}

func (h *LedgerHandler) CancelCharge(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	charge, err := h.charges.CancelCharge(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, charge)
}

type recordPaymentRequest struct {
	RepresentativeID int32                       `json:"representativeId"`
	PaymentDate      string                      `json:"paymentDate"`
	Amount           string                      `json:"amount"`
	Currency         domain.Currency             `json:"currency"`
	Allocations      []allocationRequestBody     `json:"allocations"`
	Method           domain.PaymentMethod        `json:"method"`
	Reference        *string                     `json:"reference"`
	Notes            *string                     `json:"notes"`
}

type allocationRequestBody struct {
	AppliedChargeID  int32  `json:"appliedChargeId"`
	AmountToAllocate string `json:"amountToAllocate"`
}

func (h *LedgerHandler) RecordPayment(c echo.Context) error {
	var req recordPaymentRequest
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

	result, err := h.payments.RecordPayment(domain.RecordPaymentInput{
		RepresentativeID: req.RepresentativeID,
		PaymentDate:      paymentDate,
		Amount:           amount,
		Currency:         req.Currency,
		Allocations:      allocations,
		Method:           req.Method,
		Reference:        req.Reference,
		Notes:            req.Notes,
	})
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *LedgerHandler) ApplyCredit(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("representativeId"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid representative id", nil)
	}
	result, err := h.credit.ApplyRepresentativeCredit(int32(id))
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
