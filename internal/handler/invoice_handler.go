package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/service"
	"github.com/labstack/echo/v4"
)

// InvoiceHandler exposes invoice emission/annulment and credit notes.
type InvoiceHandler struct {
	invoices *service.InvoiceService
}

func NewInvoiceHandler(invoices *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type createInvoiceRequest struct {
	RepresentativeID      int32                `json:"representativeId"`
	AppliedChargeIDs      []int32              `json:"appliedChargeIds"`
	EmissionType          domain.EmissionType  `json:"emissionType"`
	IssueDate             string               `json:"issueDate"`
	ManualControlNumber   *string              `json:"manualControlNumber"`
	BillToAddressOverride *string              `json:"billToAddressOverride"`
}

func (h *InvoiceHandler) Create(c echo.Context) error {
	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	issueDate, err := time.Parse("2006-01-02", req.IssueDate)
	if err != nil {
		return NewValidationError(c, "issueDate must be in YYYY-MM-DD format", nil)
	}
	invoice, err := h.invoices.CreateInvoice(domain.CreateInvoiceInput{
		RepresentativeID:      req.RepresentativeID,
		AppliedChargeIDs:      req.AppliedChargeIDs,
		EmissionType:          req.EmissionType,
		IssueDate:             issueDate,
		ManualControlNumber:   req.ManualControlNumber,
		BillToAddressOverride: req.BillToAddressOverride,
	})
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, invoice)
}

type annulInvoiceRequest struct {
	Reason string `json:"reason"`
}

func (h *InvoiceHandler) Annul(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "invalid id", nil)
	}
	var req annulInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	invoice, err := h.invoices.AnnulInvoice(int32(id), req.Reason)
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

type createCreditNoteRequest struct {
	InvoiceID int32  `json:"invoiceId"`
	IssueDate string `json:"issueDate"`
	Reason    string `json:"reason"`
}

func (h *InvoiceHandler) CreateCreditNote(c echo.Context) error {
	var req createCreditNoteRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "invalid request body", nil)
	}
	issueDate, err := time.Parse("2006-01-02", req.IssueDate)
	if err != nil {
		return NewValidationError(c, "issueDate must be in YYYY-MM-DD format", nil)
	}
	note, err := h.invoices.CreateCreditNote(domain.CreateCreditNoteInput{
		InvoiceID: req.InvoiceID,
		IssueDate: issueDate,
		Reason:    req.Reason,
	})
	if err != nil {
		return HandleError(c, err)
	}
	return c.JSON(http.StatusCreated, note)
}
