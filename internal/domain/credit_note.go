package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditNote is one-to-one with an Invoice; creating one annuls the
// original invoice and grows the representative's available credit.
type CreditNote struct {
	ID              int32  `json:"id"`
	CreditNoteNumber string `json:"creditNoteNumber"`
	InvoiceID       int32  `json:"invoiceId"`
	Reason          string `json:"reason"`

	Items []CreditNoteItem `json:"items"`

	TotalCreditedVES decimal.Decimal `json:"totalCreditedVes"`
	IssueDate        time.Time       `json:"issueDate"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// CreditNoteItem mirrors the financial lines of the invoice it annuls.
type CreditNoteItem struct {
	ID               int32           `json:"id"`
	CreditNoteID     int32           `json:"creditNoteId"`
	Description      string          `json:"description"`
	ItemSubtotalVES  decimal.Decimal `json:"itemSubtotalVes"`
	ItemIVAVES       decimal.Decimal `json:"itemIvaVes"`
	ItemTotalVES     decimal.Decimal `json:"itemTotalVes"`
}

type CreateCreditNoteInput struct {
	InvoiceID int32
	IssueDate time.Time
	Reason    string
}

type CreditNoteRepository interface {
	GetByID(id int32) (*CreditNote, error)
	GetByInvoiceID(invoiceID int32) (*CreditNote, error)
	// CreateAtomic draws the next correlative, annuls the source invoice,
	// persists the credit note and its items, and increments the
	// representative's available credit, all in one transaction.
	CreateAtomic(note *CreditNote, items []CreditNoteItem, representativeID int32, creditDelta decimal.Decimal) (*CreditNote, error)
}
