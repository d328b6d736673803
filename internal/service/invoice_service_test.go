package service

import (
	"testing"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/testutil"
	"github.com/shopspring/decimal"
)

func newInvoiceServiceFixture(t *testing.T) (*InvoiceService, *testutil.MockAppliedChargeRepository, *testutil.MockChargeConceptRepository, *testutil.MockRepresentativeRepository) {
	t.Helper()
	chargeRepo := testutil.NewMockAppliedChargeRepository()
	conceptRepo := testutil.NewMockChargeConceptRepository()
	repRepo := testutil.NewMockRepresentativeRepository()
	configRepo := testutil.NewMockSchoolConfigurationRepository()
	invoiceRepo := testutil.NewMockInvoiceRepository(chargeRepo, configRepo)
	creditNoteRepo := testutil.NewMockCreditNoteRepository(invoiceRepo, repRepo)

	svc := NewInvoiceService(invoiceRepo, creditNoteRepo, chargeRepo, conceptRepo, repRepo, configRepo)
	return svc, chargeRepo, conceptRepo, repRepo
}

func seedInvoiceable(t *testing.T, chargeRepo *testutil.MockAppliedChargeRepository, conceptRepo *testutil.MockChargeConceptRepository, repRepo *testutil.MockRepresentativeRepository) (*domain.Representative, *domain.AppliedCharge) {
	t.Helper()
	rep, err := repRepo.Create(&domain.Representative{
		FirstName: "Maria", LastName: "Lopez", IdentificationType: "V", IdentificationNumber: "12345678",
		Email: "maria@example.com", Address: "Av Principal",
	})
	if err != nil {
		t.Fatalf("unexpected error creating representative: %v", err)
	}
	concept, _ := conceptRepo.Create(&domain.ChargeConcept{
		Name: "Tuition", DefaultAmount: decimal.NewFromFloat(100), DefaultAmountCurrency: domain.VES,
		DefaultFrequency: domain.FrequencyMonthly, IVAPercentage: decimal.NewFromFloat(0.16), IsActive: true,
	})
	charge, _ := chargeRepo.Create(&domain.AppliedCharge{
		StudentID:                 1,
		ConceptID:                 concept.ID,
		AmountDueOriginalCurrency: decimal.NewFromFloat(100),
		AmountDueVESAtEmission:    decimal.NewFromFloat(100),
		IssueDate:                 time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:                   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:                    domain.ChargeStatusPending,
	})
	return rep, charge
}

func TestInvoiceService_CreateInvoice_Success(t *testing.T) {
	svc, chargeRepo, conceptRepo, repRepo := newInvoiceServiceFixture(t)
	rep, charge := seedInvoiceable(t, chargeRepo, conceptRepo, repRepo)

	invoice, err := svc.CreateInvoice(domain.CreateInvoiceInput{
		RepresentativeID: rep.ID,
		AppliedChargeIDs: []int32{charge.ID},
		EmissionType:     domain.EmissionDigital,
		IssueDate:        time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if invoice.Status != domain.InvoiceStatusEmitted {
		t.Errorf("expected emitted status, got %s", invoice.Status)
	}
	if !invoice.TotalAmountVES.Equal(decimal.NewFromFloat(116)) {
		t.Errorf("expected total of 116 VES (100 + 16%% IVA), got %s", invoice.TotalAmountVES.String())
	}

	refetched, err := chargeRepo.GetByID(charge.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refetched.InvoiceID == nil || *refetched.InvoiceID != invoice.ID {
		t.Error("expected the applied charge to be linked to the new invoice")
	}
}

func TestInvoiceService_CreateInvoice_RejectsAlreadyInvoicedCharge(t *testing.T) {
	svc, chargeRepo, conceptRepo, repRepo := newInvoiceServiceFixture(t)
	rep, charge := seedInvoiceable(t, chargeRepo, conceptRepo, repRepo)

	if _, err := svc.CreateInvoice(domain.CreateInvoiceInput{
		RepresentativeID: rep.ID,
		AppliedChargeIDs: []int32{charge.ID},
		EmissionType:     domain.EmissionDigital,
		IssueDate:        time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("unexpected error on first invoice: %v", err)
	}

	if _, err := svc.CreateInvoice(domain.CreateInvoiceInput{
		RepresentativeID: rep.ID,
		AppliedChargeIDs: []int32{charge.ID},
		EmissionType:     domain.EmissionDigital,
		IssueDate:        time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC),
	}); err == nil {
		t.Fatal("expected an error re-invoicing a charge that is already on an invoice")
	}
}

func TestInvoiceService_CreateCreditNote_AnnulsInvoiceAndGrantsCredit(t *testing.T) {
	svc, chargeRepo, conceptRepo, repRepo := newInvoiceServiceFixture(t)
	rep, charge := seedInvoiceable(t, chargeRepo, conceptRepo, repRepo)

	invoice, err := svc.CreateInvoice(domain.CreateInvoiceInput{
		RepresentativeID: rep.ID,
		AppliedChargeIDs: []int32{charge.ID},
		EmissionType:     domain.EmissionDigital,
		IssueDate:        time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error creating invoice: %v", err)
	}

	note, err := svc.CreateCreditNote(domain.CreateCreditNoteInput{
		InvoiceID: invoice.ID,
		IssueDate: time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC),
		Reason:    "billing error",
	})
	if err != nil {
		t.Fatalf("expected no error creating the first credit note for this invoice, got %v", err)
	}
	if !note.TotalCreditedVES.Equal(invoice.TotalAmountVES) {
		t.Errorf("expected the credit note to credit the full invoice total, got %s", note.TotalCreditedVES.String())
	}

	refetchedInvoice, err := svc.invoiceRepo.GetByID(invoice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !refetchedInvoice.IsAnnulled() {
		t.Error("expected the original invoice to be annulled after the credit note was issued")
	}

	refetchedRep, err := repRepo.GetByID(rep.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !refetchedRep.AvailableCreditVES.Equal(invoice.TotalAmountVES) {
		t.Errorf("expected the representative's available credit to grow by the credit note total, got %s", refetchedRep.AvailableCreditVES.String())
	}

	// A second credit note against the same (now-annulled) invoice must be
	// rejected rather than silently succeeding via the not-found bug path.
	if _, err := svc.CreateCreditNote(domain.CreateCreditNoteInput{
		InvoiceID: invoice.ID,
		IssueDate: time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC),
		Reason:    "duplicate attempt",
	}); err == nil {
		t.Fatal("expected an error issuing a second credit note against an already-annulled invoice")
	}
}
