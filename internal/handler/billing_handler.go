package handler

import (
	"net/http"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/service"
	"github.com/labstack/echo/v4"
)

// BillingHandler exposes the batch billing engine: recurring monthly
// generation and global one-shot concept application.
type BillingHandler struct {
	billing *service.BillingService
	loc     *time.Location
}

func NewBillingHandler(billing *service.BillingService, loc *time.Location) *BillingHandler {
	return &BillingHandler{billing: billing, loc: loc}
}

type generateRecurringChargesRequest struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	IssueDate  *string `json:"issueDate"`
	DueDate    *string `json:"dueDate"`
	ConceptIDs []int32 `json:"conceptIds"`
}

func (h *BillingHandler) GenerateRecurringCharges(c echo.Context) error {
	var req generateRecurringChargesRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	if req.Year == 0 || req.Month < 1 || req.Month > 12 {
		return NewValidationError(c, "year and month (1-12) are required", nil)
	}

	input := service.GenerateRecurringChargesInput{
		Year:       req.Year,
		Month:      req.Month,
		ConceptIDs: req.ConceptIDs,
	}
	if req.IssueDate != nil {
		d, err := time.ParseInLocation("2006-01-02", *req.IssueDate, h.loc)
		if err != nil {
			return NewValidationError(c, "issueDate must be in YYYY-MM-DD format", nil)
		}
		input.IssueDate = &d
	}
	if req.DueDate != nil {
		d, err := time.ParseInLocation("2006-01-02", *req.DueDate, h.loc)
		if err != nil {
			return NewValidationError(c, "dueDate must be in YYYY-MM-DD format", nil)
		}
		input.DueDate = &d
	}

	summary, err := h.billing.GenerateRecurringCharges(input, h.loc)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

type applyGlobalChargeRequest struct {
	ConceptID        int32                                  `json:"conceptId"`
	IssueDate        string                                 `json:"issueDate"`
	DueDate          string                                 `json:"dueDate"`
	Target           service.ApplyGlobalChargeTarget        `json:"target"`
	OverrideAmount   *string                                `json:"overrideAmount"`
	OverrideCurrency *domain.Currency                       `json:"overrideCurrency"`
	Description      string                                 `json:"description"`
}

func (h *BillingHandler) ApplyGlobalCharge(c echo.Context) error {
	var req applyGlobalChargeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	issueDate, err := time.ParseInLocation("2006-01-02", req.IssueDate, h.loc)
	if err != nil {
		return NewValidationError(c, "issueDate must be in YYYY-MM-DD format", nil)
	}
	dueDate, err := time.ParseInLocation("2006-01-02", req.DueDate, h.loc)
	if err != nil {
		return NewValidationError(c, "dueDate must be in YYYY-MM-DD format", nil)
	}

	input := service.ApplyGlobalChargeInput{
		ConceptID:        req.ConceptID,
		IssueDate:        issueDate,
		DueDate:          dueDate,
		Target:           req.Target,
		OverrideCurrency: req.OverrideCurrency,
		Description:      req.Description,
	}
	if req.OverrideAmount != nil {
		amount, err := decimalFromString(*req.OverrideAmount)
		if err != nil {
			return NewValidationError(c, "overrideAmount is not a valid decimal", nil)
		}
		input.OverrideAmount = &amount
	}

	summary, err := h.billing.ApplyGlobalCharge(input)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
