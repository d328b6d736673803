package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmissionType string

const (
	EmissionFiscalPrinter EmissionType = "fiscal_printer"
	EmissionDigital       EmissionType = "digital"
	EmissionFormaLibre    EmissionType = "forma_libre"
)

type InvoiceStatus string

const (
	InvoiceStatusPendingEmission InvoiceStatus = "pending_emission"
	InvoiceStatusEmitted         InvoiceStatus = "emitted"
	InvoiceStatusAnnulled        InvoiceStatus = "annulled"
)

// Invoice is an immutable fiscal snapshot of a set of applied charges, drawn
// against a monotonic correlative from SchoolConfiguration.
type Invoice struct {
	ID            int32  `json:"id"`
	InvoiceNumber string `json:"invoiceNumber"`

	RepresentativeID int32 `json:"representativeId"`

	// Snapshots, immutable after creation.
	SchoolNameSnapshot          string `json:"schoolNameSnapshot"`
	SchoolRIFSnapshot           string `json:"schoolRifSnapshot"`
	SchoolAddressSnapshot       string `json:"schoolAddressSnapshot"`
	RepresentativeNameSnapshot  string `json:"representativeNameSnapshot"`
	RepresentativeRIFSnapshot   string `json:"representativeRifSnapshot,omitempty"`
	BillToAddressSnapshot       string `json:"billToAddressSnapshot"`

	Items []InvoiceItem `json:"items"`

	SubtotalVES   decimal.Decimal `json:"subtotalVes"`
	TotalIVAVES   decimal.Decimal `json:"totalIvaVes"`
	TotalAmountVES decimal.Decimal `json:"totalAmountVes"`

	EmissionType EmissionType  `json:"emissionType"`
	Status       InvoiceStatus `json:"status"`

	FiscalInvoiceNumber *string `json:"fiscalInvoiceNumber,omitempty"`
	FiscalControlNumber *string `json:"fiscalControlNumber,omitempty"`
	ManualControlNumber *string `json:"manualControlNumber,omitempty"`
	FiscalURL           *string `json:"fiscalUrl,omitempty"`

	IssueDate time.Time `json:"issueDate"`
	Notes     string    `json:"notes,omitempty"`

	CreditNoteID *int32 `json:"creditNoteId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InvoiceItem is a single line derived from an applied charge at emission
// time; quantity is always 1 in the current scope.
type InvoiceItem struct {
	ID               int32           `json:"id"`
	InvoiceID        int32           `json:"invoiceId"`
	AppliedChargeID  int32           `json:"appliedChargeId"`
	Description      string          `json:"description"`
	Quantity         int32           `json:"quantity"`
	UnitPriceVES     decimal.Decimal `json:"unitPriceVes"`
	IVAPercentage    decimal.Decimal `json:"ivaPercentage"`
	ItemSubtotalVES  decimal.Decimal `json:"itemSubtotalVes"`
	ItemIVAVES       decimal.Decimal `json:"itemIvaVes"`
	ItemTotalVES     decimal.Decimal `json:"itemTotalVes"`
}

// NewInvoiceItem derives totals for a single applied charge line.
func NewInvoiceItem(charge *AppliedCharge, concept *ChargeConcept) InvoiceItem {
	unitPrice := charge.AmountDueVESAtEmission
	subtotal := Round2(unitPrice)
	iva := Round2(subtotal.Mul(concept.IVAPercentage))
	total := Round2(subtotal.Add(iva))
	return InvoiceItem{
		AppliedChargeID: charge.ID,
		Description:     concept.Name,
		Quantity:        1,
		UnitPriceVES:    unitPrice,
		IVAPercentage:   concept.IVAPercentage,
		ItemSubtotalVES: subtotal,
		ItemIVAVES:      iva,
		ItemTotalVES:    total,
	}
}

func (inv *Invoice) IsAnnulled() bool {
	return inv.Status == InvoiceStatusAnnulled
}

type CreateInvoiceInput struct {
	RepresentativeID     int32
	AppliedChargeIDs     []int32
	EmissionType         EmissionType
	IssueDate            time.Time
	ManualControlNumber  *string
	BillToAddressOverride *string
}

type InvoiceFilter struct {
	RepresentativeID *int32
	Status           *InvoiceStatus
	DateFrom         *time.Time
	DateTo           *time.Time
}

type InvoiceRepository interface {
	GetByID(id int32) (*Invoice, error)
	GetByInvoiceNumber(invoiceNumber string) (*Invoice, error)
	List(filter InvoiceFilter) ([]*Invoice, error)
	ManualControlNumberExists(number string) (bool, error)
	// CreateAtomic persists the invoice, its items, links the applied
	// charges, and bumps SchoolConfiguration.next_internal_invoice_reference
	// in one transaction.
	CreateAtomic(invoice *Invoice, items []InvoiceItem, chargeIDs []int32) (*Invoice, error)
	// AnnulAtomic clears the applied charges' invoice links and marks the
	// invoice annulled, prepending the reason to its notes.
	AnnulAtomic(invoiceID int32, reasonNote string) (*Invoice, error)
}
