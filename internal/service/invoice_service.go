package service

import (
	"fmt"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/websocket"
	"github.com/shopspring/decimal"
)

// InvoiceService is the Invoice / Credit-Note Engine (C7).
type InvoiceService struct {
	invoiceRepo    domain.InvoiceRepository
	creditNoteRepo domain.CreditNoteRepository
	chargeRepo     domain.AppliedChargeRepository
	conceptRepo    domain.ChargeConceptRepository
	repRepo        domain.RepresentativeRepository
	configRepo     domain.SchoolConfigurationRepository
	events         websocket.EventPublisher
}

func NewInvoiceService(
	invoiceRepo domain.InvoiceRepository,
	creditNoteRepo domain.CreditNoteRepository,
	chargeRepo domain.AppliedChargeRepository,
	conceptRepo domain.ChargeConceptRepository,
	repRepo domain.RepresentativeRepository,
	configRepo domain.SchoolConfigurationRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		creditNoteRepo: creditNoteRepo,
		chargeRepo:     chargeRepo,
		conceptRepo:    conceptRepo,
		repRepo:        repRepo,
		configRepo:     configRepo,
		events:         &websocket.NoOpPublisher{},
	}
}

func (s *InvoiceService) SetEventPublisher(pub websocket.EventPublisher) {
	s.events = pub
}

// CreateInvoice implements §4.7's create_invoice.
func (s *InvoiceService) CreateInvoice(input domain.CreateInvoiceInput) (*domain.Invoice, error) {
	if len(input.AppliedChargeIDs) == 0 {
		return nil, domain.NewBusinessRuleViolation("invoice_no_charges", "at least one applied charge is required")
	}

	rep, err := s.repRepo.GetByID(input.RepresentativeID)
	if err != nil {
		return nil, err
	}

	billToAddress := rep.Address
	if input.BillToAddressOverride != nil {
		billToAddress = *input.BillToAddressOverride
	}
	if billToAddress == "" {
		return nil, domain.NewBusinessRuleViolation("invoice_address_required", "bill-to address is mandatory")
	}

	charges := make([]*domain.AppliedCharge, 0, len(input.AppliedChargeIDs))
	items := make([]domain.InvoiceItem, 0, len(input.AppliedChargeIDs))

	for _, id := range input.AppliedChargeIDs {
		charge, err := s.chargeRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if charge.InvoiceID != nil {
			return nil, domain.NewBusinessRuleViolation("invoice_charge_already_invoiced", "applied charge %d is already on an invoice", charge.ID)
		}
		if charge.Status == domain.ChargeStatusCancelled {
			return nil, domain.NewBusinessRuleViolation("invoice_charge_cancelled", "applied charge %d is cancelled", charge.ID)
		}
		concept, err := s.conceptRepo.GetByID(charge.ConceptID)
		if err != nil {
			return nil, err
		}
		charges = append(charges, charge)
		items = append(items, domain.NewInvoiceItem(charge, concept))
	}

	cfg, err := s.configRepo.Get()
	if err != nil {
		return nil, err
	}

	switch input.EmissionType {
	case domain.EmissionFormaLibre:
		if input.ManualControlNumber == nil || *input.ManualControlNumber == "" {
			return nil, domain.NewBusinessRuleViolation("invoice_manual_control_required", "manual_control_number is required for forma_libre emission")
		}
	case domain.EmissionDigital, domain.EmissionFiscalPrinter:
	default:
		return nil, domain.NewBusinessRuleViolation("invoice_emission_type_invalid", "unrecognised emission_type %q", input.EmissionType)
	}

	subtotal, totalIVA, total := sumInvoiceTotals(items)

	// InvoiceNumber and the fiscal_*/manual_control_number fields are left
	// unset here: CreateAtomic draws the correlative under a row lock on
	// school_configuration and fills them in inside that same transaction,
	// so two concurrent emissions can never compute the same number (§5).
	invoice := &domain.Invoice{
		RepresentativeID:           input.RepresentativeID,
		SchoolNameSnapshot:         cfg.SchoolName,
		SchoolRIFSnapshot:          cfg.SchoolRIF,
		SchoolAddressSnapshot:      cfg.SchoolAddress,
		RepresentativeNameSnapshot: rep.FullName(),
		BillToAddressSnapshot:      billToAddress,
		Items:                      items,
		SubtotalVES:                subtotal,
		TotalIVAVES:                totalIVA,
		TotalAmountVES:             total,
		EmissionType:               input.EmissionType,
		Status:                     domain.InvoiceStatusEmitted,
		ManualControlNumber:        input.ManualControlNumber,
		IssueDate:                  input.IssueDate,
	}
	if rep.RIF != nil {
		invoice.RepresentativeRIFSnapshot = *rep.RIF
	}

	chargeIDs := make([]int32, len(charges))
	for i, c := range charges {
		chargeIDs[i] = c.ID
	}

	created, err := s.invoiceRepo.CreateAtomic(invoice, items, chargeIDs)
	if err != nil {
		switch err.(type) {
		case domain.ErrBusinessRuleViolation:
			return nil, err
		}
		if err == domain.ErrAlreadyExists {
			return nil, err
		}
		return nil, domain.ErrInternalError
	}

	s.events.Publish(websocket.ChannelAdmin, websocket.InvoiceEmitted(created))
	return created, nil
}

func sumInvoiceTotals(items []domain.InvoiceItem) (subtotal, totalIVA, total decimal.Decimal) {
	for _, item := range items {
		subtotal = subtotal.Add(item.ItemSubtotalVES)
		totalIVA = totalIVA.Add(item.ItemIVAVES)
		total = total.Add(item.ItemTotalVES)
	}
	return domain.Round2(subtotal), domain.Round2(totalIVA), domain.Round2(total)
}

// AnnulInvoice implements §4.7's annul_invoice; idempotent-safe via conflict
// on a second call.
func (s *InvoiceService) AnnulInvoice(invoiceID int32, reason string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.IsAnnulled() {
		return nil, domain.ErrInvoiceAlreadyAnnulled
	}

	note := reason
	if note == "" {
		note = "annulled"
	}
	reasonLine := fmt.Sprintf("[%s] %s", time.Now().UTC().Format("2006-01-02"), note)

	updated, err := s.invoiceRepo.AnnulAtomic(invoiceID, reasonLine)
	if err != nil {
		return nil, domain.ErrInternalError
	}
	s.events.Publish(websocket.ChannelAdmin, websocket.InvoiceAnnulled(updated))
	return updated, nil
}

// CreateCreditNote implements §4.7's create_credit_note.
func (s *InvoiceService) CreateCreditNote(input domain.CreateCreditNoteInput) (*domain.CreditNote, error) {
	invoice, err := s.invoiceRepo.GetByID(input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.IsAnnulled() {
		return nil, domain.NewBusinessRuleViolation("credit_note_invoice_annulled", "invoice is already annulled")
	}
	existing, err := s.creditNoteRepo.GetByInvoiceID(input.InvoiceID)
	if err != nil && err != domain.ErrCreditNoteNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewBusinessRuleViolation("credit_note_already_linked", "invoice already has a credit note")
	}

	items := make([]domain.CreditNoteItem, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		items = append(items, domain.CreditNoteItem{
			Description:     item.Description,
			ItemSubtotalVES: item.ItemSubtotalVES,
			ItemIVAVES:      item.ItemIVAVES,
			ItemTotalVES:    item.ItemTotalVES,
		})
	}

	// CreditNoteNumber is left unset: CreateAtomic draws it under the same
	// school_configuration row lock invoices use (§5).
	note := &domain.CreditNote{
		InvoiceID:        input.InvoiceID,
		Reason:           input.Reason,
		Items:            items,
		TotalCreditedVES: invoice.TotalAmountVES,
		IssueDate:        input.IssueDate,
	}

	created, err := s.creditNoteRepo.CreateAtomic(note, items, invoice.RepresentativeID, invoice.TotalAmountVES)
	if err != nil {
		return nil, domain.ErrInternalError
	}

	s.events.Publish(websocket.ChannelAdmin, websocket.CreditNoteCreated(created))
	s.events.Publish(websocket.ChannelAdmin, websocket.InvoiceAnnulled(invoice))
	return created, nil
}
