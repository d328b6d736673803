package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// SchoolConfiguration is the single-row configuration entity holding emitter
// identity and the document correlatives. It is loaded within the same
// transaction that draws a correlative, and its increment is committed
// alongside the document it numbers.
type SchoolConfiguration struct {
	ID int32 `json:"id"`

	SchoolName    string `json:"schoolName"`
	SchoolRIF     string `json:"schoolRif"`
	SchoolAddress string `json:"schoolAddress"`

	InvoicePrefix              string `json:"invoicePrefix"`
	NextInternalInvoiceReference int32 `json:"nextInternalInvoiceReference"`

	CreditNotePrefix         string `json:"creditNotePrefix"`
	NextCreditNoteReference  int32  `json:"nextCreditNoteReference"`

	DefaultIVAPercentage decimal.Decimal `json:"defaultIvaPercentage"`
	PaymentDueDay        *int32          `json:"paymentDueDay,omitempty"`
}

// FormatInvoiceNumber composes the human-visible invoice number from the
// prefix and the current counter, without incrementing it.
func (c *SchoolConfiguration) FormatInvoiceNumber() string {
	return formatCorrelative(c.InvoicePrefix, c.NextInternalInvoiceReference)
}

func (c *SchoolConfiguration) FormatCreditNoteNumber() string {
	return formatCorrelative(c.CreditNotePrefix, c.NextCreditNoteReference)
}

func formatCorrelative(prefix string, counter int32) string {
	return prefix + strconv.FormatInt(int64(counter), 10)
}

type SchoolConfigurationRepository interface {
	Get() (*SchoolConfiguration, error)
	Update(cfg *SchoolConfiguration) (*SchoolConfiguration, error)
}
