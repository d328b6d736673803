// Package testutil provides in-memory mock implementations of every domain
// repository interface, for use in service-layer unit tests.
package testutil

import (
	"sort"
	"strconv"
	"time"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/shopspring/decimal"
)

// ---- Catalog ----

type MockGradeLevelRepository struct {
	Items               map[int32]*domain.GradeLevel
	HasActiveStudentsFn func(id int32) (bool, error)
	nextID              int32
}

func NewMockGradeLevelRepository() *MockGradeLevelRepository {
	return &MockGradeLevelRepository{Items: make(map[int32]*domain.GradeLevel)}
}

func (m *MockGradeLevelRepository) Create(gl *domain.GradeLevel) (*domain.GradeLevel, error) {
	m.nextID++
	gl.ID = m.nextID
	m.Items[gl.ID] = gl
	return gl, nil
}

func (m *MockGradeLevelRepository) GetByID(id int32) (*domain.GradeLevel, error) {
	if gl, ok := m.Items[id]; ok {
		return gl, nil
	}
	return nil, domain.ErrGradeLevelNotFound
}

func (m *MockGradeLevelRepository) GetByName(name string) (*domain.GradeLevel, error) {
	for _, gl := range m.Items {
		if gl.Name == name {
			return gl, nil
		}
	}
	return nil, domain.ErrGradeLevelNotFound
}

func (m *MockGradeLevelRepository) List() ([]*domain.GradeLevel, error) {
	out := make([]*domain.GradeLevel, 0, len(m.Items))
	for _, gl := range m.Items {
		out = append(out, gl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (m *MockGradeLevelRepository) Update(gl *domain.GradeLevel) (*domain.GradeLevel, error) {
	if _, ok := m.Items[gl.ID]; !ok {
		return nil, domain.ErrGradeLevelNotFound
	}
	m.Items[gl.ID] = gl
	return gl, nil
}

func (m *MockGradeLevelRepository) HasActiveStudents(id int32) (bool, error) {
	if m.HasActiveStudentsFn != nil {
		return m.HasActiveStudentsFn(id)
	}
	return false, nil
}

type MockChargeConceptRepository struct {
	Items                   map[int32]*domain.ChargeConcept
	HasOpenAppliedChargesFn func(id int32) (bool, error)
	nextID                  int32
}

func NewMockChargeConceptRepository() *MockChargeConceptRepository {
	return &MockChargeConceptRepository{Items: make(map[int32]*domain.ChargeConcept)}
}

func (m *MockChargeConceptRepository) Create(c *domain.ChargeConcept) (*domain.ChargeConcept, error) {
	m.nextID++
	c.ID = m.nextID
	m.Items[c.ID] = c
	return c, nil
}

func (m *MockChargeConceptRepository) GetByID(id int32) (*domain.ChargeConcept, error) {
	if c, ok := m.Items[id]; ok {
		return c, nil
	}
	return nil, domain.ErrChargeConceptNotFound
}

func (m *MockChargeConceptRepository) GetByName(name string) (*domain.ChargeConcept, error) {
	for _, c := range m.Items {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, domain.ErrChargeConceptNotFound
}

func (m *MockChargeConceptRepository) List(filter domain.ChargeConceptFilter) ([]*domain.ChargeConcept, error) {
	out := make([]*domain.ChargeConcept, 0, len(m.Items))
	for _, c := range m.Items {
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		if filter.Frequency != nil && c.DefaultFrequency != *filter.Frequency {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockChargeConceptRepository) Update(c *domain.ChargeConcept) (*domain.ChargeConcept, error) {
	if _, ok := m.Items[c.ID]; !ok {
		return nil, domain.ErrChargeConceptNotFound
	}
	m.Items[c.ID] = c
	return c, nil
}

func (m *MockChargeConceptRepository) HasOpenAppliedCharges(id int32) (bool, error) {
	if m.HasOpenAppliedChargesFn != nil {
		return m.HasOpenAppliedChargesFn(id)
	}
	return false, nil
}

type MockExchangeRateRepository struct {
	Items  map[int32]*domain.ExchangeRate
	nextID int32
}

func NewMockExchangeRateRepository() *MockExchangeRateRepository {
	return &MockExchangeRateRepository{Items: make(map[int32]*domain.ExchangeRate)}
}

func (m *MockExchangeRateRepository) Create(rate *domain.ExchangeRate) (*domain.ExchangeRate, error) {
	m.nextID++
	rate.ID = m.nextID
	m.Items[rate.ID] = rate
	return rate, nil
}

func (m *MockExchangeRateRepository) Update(rate *domain.ExchangeRate) (*domain.ExchangeRate, error) {
	if _, ok := m.Items[rate.ID]; !ok {
		return nil, domain.ErrExchangeRateNotFound
	}
	m.Items[rate.ID] = rate
	return rate, nil
}

func (m *MockExchangeRateRepository) GetExact(from, to domain.Currency, date time.Time) (*domain.ExchangeRate, error) {
	for _, r := range m.Items {
		if r.FromCurrency == from && r.ToCurrency == to && sameDay(r.RateDate, date) {
			return r, nil
		}
	}
	return nil, domain.ErrExchangeRateNotFound
}

func (m *MockExchangeRateRepository) GetLatestOnOrBefore(from, to domain.Currency, date time.Time) (*domain.ExchangeRate, error) {
	var best *domain.ExchangeRate
	for _, r := range m.Items {
		if r.FromCurrency != from || r.ToCurrency != to {
			continue
		}
		if r.RateDate.After(date) {
			continue
		}
		if best == nil || r.RateDate.After(best.RateDate) || (r.RateDate.Equal(best.RateDate) && r.CreatedAt.After(best.CreatedAt)) {
			best = r
		}
	}
	return best, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type MockSchoolConfigurationRepository struct {
	Config *domain.SchoolConfiguration
}

func NewMockSchoolConfigurationRepository() *MockSchoolConfigurationRepository {
	return &MockSchoolConfigurationRepository{Config: &domain.SchoolConfiguration{
		ID:                           1,
		SchoolName:                   "Mock School",
		InvoicePrefix:                "FAC",
		NextInternalInvoiceReference: 1,
		CreditNotePrefix:             "NC",
		NextCreditNoteReference:      1,
		DefaultIVAPercentage:         decimal.NewFromInt(16),
	}}
}

func (m *MockSchoolConfigurationRepository) Get() (*domain.SchoolConfiguration, error) {
	return m.Config, nil
}

func (m *MockSchoolConfigurationRepository) Update(cfg *domain.SchoolConfiguration) (*domain.SchoolConfiguration, error) {
	m.Config = cfg
	return cfg, nil
}

// ---- People ----

type MockRepresentativeRepository struct {
	Items         map[int32]*domain.Representative
	HasStudentsFn func(id int32) (bool, error)
	nextID        int32
}

func NewMockRepresentativeRepository() *MockRepresentativeRepository {
	return &MockRepresentativeRepository{Items: make(map[int32]*domain.Representative)}
}

func (m *MockRepresentativeRepository) Create(rep *domain.Representative) (*domain.Representative, error) {
	m.nextID++
	rep.ID = m.nextID
	m.Items[rep.ID] = rep
	return rep, nil
}

func (m *MockRepresentativeRepository) GetByID(id int32) (*domain.Representative, error) {
	if r, ok := m.Items[id]; ok {
		return r, nil
	}
	return nil, domain.ErrRepresentativeNotFound
}

func (m *MockRepresentativeRepository) GetByEmail(email string) (*domain.Representative, error) {
	for _, r := range m.Items {
		if r.Email == email {
			return r, nil
		}
	}
	return nil, domain.ErrRepresentativeNotFound
}

func (m *MockRepresentativeRepository) GetByIdentification(idType, idNumber string) (*domain.Representative, error) {
	for _, r := range m.Items {
		if r.IdentificationType == idType && r.IdentificationNumber == idNumber {
			return r, nil
		}
	}
	return nil, domain.ErrRepresentativeNotFound
}

func (m *MockRepresentativeRepository) List(filter domain.RepresentativeFilter) ([]*domain.Representative, error) {
	out := make([]*domain.Representative, 0, len(m.Items))
	for _, r := range m.Items {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockRepresentativeRepository) Update(rep *domain.Representative) (*domain.Representative, error) {
	if _, ok := m.Items[rep.ID]; !ok {
		return nil, domain.ErrRepresentativeNotFound
	}
	m.Items[rep.ID] = rep
	return rep, nil
}

func (m *MockRepresentativeRepository) UpdateAvailableCredit(id int32, newBalance decimal.Decimal) error {
	r, ok := m.Items[id]
	if !ok {
		return domain.ErrRepresentativeNotFound
	}
	r.AvailableCreditVES = newBalance
	return nil
}

func (m *MockRepresentativeRepository) HasStudents(id int32) (bool, error) {
	if m.HasStudentsFn != nil {
		return m.HasStudentsFn(id)
	}
	return false, nil
}

type MockStudentRepository struct {
	Items  map[int32]*domain.Student
	nextID int32
}

func NewMockStudentRepository() *MockStudentRepository {
	return &MockStudentRepository{Items: make(map[int32]*domain.Student)}
}

func (m *MockStudentRepository) Create(s *domain.Student) (*domain.Student, error) {
	m.nextID++
	s.ID = m.nextID
	m.Items[s.ID] = s
	return s, nil
}

func (m *MockStudentRepository) GetByID(id int32) (*domain.Student, error) {
	if s, ok := m.Items[id]; ok {
		return s, nil
	}
	return nil, domain.ErrStudentNotFound
}

func (m *MockStudentRepository) List(filter domain.StudentFilter) ([]*domain.Student, error) {
	out := make([]*domain.Student, 0, len(m.Items))
	for _, s := range m.Items {
		if filter.RepresentativeID != nil && s.RepresentativeID != *filter.RepresentativeID {
			continue
		}
		if filter.GradeLevelID != nil && s.GradeLevelID != *filter.GradeLevelID {
			continue
		}
		if filter.ActiveOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockStudentRepository) ListByRepresentative(representativeID int32) ([]*domain.Student, error) {
	out := make([]*domain.Student, 0)
	for _, s := range m.Items {
		if s.RepresentativeID == representativeID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockStudentRepository) ListActiveByGradeLevel(gradeLevelID int32) ([]*domain.Student, error) {
	out := make([]*domain.Student, 0)
	for _, s := range m.Items {
		if s.GradeLevelID == gradeLevelID && s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockStudentRepository) Update(s *domain.Student) (*domain.Student, error) {
	if _, ok := m.Items[s.ID]; !ok {
		return nil, domain.ErrStudentNotFound
	}
	m.Items[s.ID] = s
	return s, nil
}

// ---- Ledger ----

type MockAppliedChargeRepository struct {
	Items  map[int32]*domain.AppliedCharge
	nextID int32
}

func NewMockAppliedChargeRepository() *MockAppliedChargeRepository {
	return &MockAppliedChargeRepository{Items: make(map[int32]*domain.AppliedCharge)}
}

func (m *MockAppliedChargeRepository) Create(c *domain.AppliedCharge) (*domain.AppliedCharge, error) {
	m.nextID++
	c.ID = m.nextID
	m.Items[c.ID] = c
	return c, nil
}

func (m *MockAppliedChargeRepository) GetByID(id int32) (*domain.AppliedCharge, error) {
	if c, ok := m.Items[id]; ok {
		return c, nil
	}
	return nil, domain.ErrAppliedChargeNotFound
}

func (m *MockAppliedChargeRepository) List(filter domain.AppliedChargeFilter) ([]*domain.AppliedCharge, error) {
	out := make([]*domain.AppliedCharge, 0)
	for _, c := range m.Items {
		if filter.StudentID != nil && c.StudentID != *filter.StudentID {
			continue
		}
		if filter.ConceptID != nil && c.ConceptID != *filter.ConceptID {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.OpenOnly && !isOpenCharge(c.Status) {
			continue
		}
		if filter.InvoiceID != nil && (c.InvoiceID == nil || *c.InvoiceID != *filter.InvoiceID) {
			continue
		}
		out = append(out, c)
	}
	sortCharges(out)
	return out, nil
}

func isOpenCharge(s domain.AppliedChargeStatus) bool {
	return s == domain.ChargeStatusPending || s == domain.ChargeStatusPartiallyPaid || s == domain.ChargeStatusOverdue
}

func sortCharges(cs []*domain.AppliedCharge) {
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].DueDate.Equal(cs[j].DueDate) {
			return cs[i].DueDate.Before(cs[j].DueDate)
		}
		return cs[i].IssueDate.Before(cs[j].IssueDate)
	})
}

func (m *MockAppliedChargeRepository) ListOpenForRepresentativeOrdered(representativeID int32) ([]*domain.AppliedCharge, error) {
	out := make([]*domain.AppliedCharge, 0)
	for _, c := range m.Items {
		if isOpenCharge(c.Status) {
			out = append(out, c)
		}
	}
	sortCharges(out)
	return out, nil
}

func (m *MockAppliedChargeRepository) ExistsForStudentConceptInRange(studentID, conceptID int32, from, to time.Time) (bool, error) {
	for _, c := range m.Items {
		if c.StudentID == studentID && c.ConceptID == conceptID && c.Status != domain.ChargeStatusCancelled {
			if !c.IssueDate.Before(from) && !c.IssueDate.After(to) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *MockAppliedChargeRepository) Update(c *domain.AppliedCharge) (*domain.AppliedCharge, error) {
	if _, ok := m.Items[c.ID]; !ok {
		return nil, domain.ErrAppliedChargeNotFound
	}
	m.Items[c.ID] = c
	return c, nil
}

func (m *MockAppliedChargeRepository) UpdatePaymentFields(charges []*domain.AppliedCharge) error {
	for _, c := range charges {
		if _, ok := m.Items[c.ID]; !ok {
			return domain.ErrAppliedChargeNotFound
		}
		m.Items[c.ID] = c
	}
	return nil
}

func (m *MockAppliedChargeRepository) ClearInvoiceLink(invoiceID int32) error {
	for _, c := range m.Items {
		if c.InvoiceID != nil && *c.InvoiceID == invoiceID {
			c.InvoiceID = nil
		}
	}
	return nil
}

type MockPaymentRepository struct {
	Items       map[int32]*domain.Payment
	Allocations map[int32]*domain.PaymentAllocation
	nextID      int32
	nextAllocID int32
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		Items:       make(map[int32]*domain.Payment),
		Allocations: make(map[int32]*domain.PaymentAllocation),
	}
}

func (m *MockPaymentRepository) GetByID(id int32) (*domain.Payment, error) {
	if p, ok := m.Items[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockPaymentRepository) List(filter domain.PaymentFilter) ([]*domain.Payment, error) {
	out := make([]*domain.Payment, 0)
	for _, p := range m.Items {
		if filter.RepresentativeID != nil && p.RepresentativeID != *filter.RepresentativeID {
			continue
		}
		out = append(out, p)
	}
	sortPayments(out)
	return out, nil
}

func (m *MockPaymentRepository) ListByRepresentative(representativeID int32) ([]*domain.Payment, error) {
	out := make([]*domain.Payment, 0)
	for _, p := range m.Items {
		if p.RepresentativeID == representativeID {
			out = append(out, p)
		}
	}
	sortPayments(out)
	return out, nil
}

func sortPayments(ps []*domain.Payment) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].PaymentDate.Equal(ps[j].PaymentDate) {
			return ps[i].PaymentDate.Before(ps[j].PaymentDate)
		}
		return ps[i].CreatedAt.Before(ps[j].CreatedAt)
	})
}

func (m *MockPaymentRepository) ListWithPositiveRemainder(representativeID int32) ([]*domain.Payment, error) {
	out := make([]*domain.Payment, 0)
	for _, p := range m.Items {
		if p.RepresentativeID != representativeID {
			continue
		}
		allocated, _ := m.SumAllocations(p.ID)
		if p.AmountPaidVESEquivalent.GreaterThan(allocated) {
			out = append(out, p)
		}
	}
	sortPayments(out)
	return out, nil
}

func (m *MockPaymentRepository) GetAllocationsByPayment(paymentID int32) ([]*domain.PaymentAllocation, error) {
	out := make([]*domain.PaymentAllocation, 0)
	for _, a := range m.Allocations {
		if a.PaymentID == paymentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockPaymentRepository) GetAllocationsByCharge(chargeID int32) ([]*domain.PaymentAllocation, error) {
	out := make([]*domain.PaymentAllocation, 0)
	for _, a := range m.Allocations {
		if a.AppliedChargeID == chargeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockPaymentRepository) SumAllocations(paymentID int32) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, a := range m.Allocations {
		if a.PaymentID == paymentID {
			sum = sum.Add(a.AmountAllocatedVES)
		}
	}
	return sum, nil
}

func (m *MockPaymentRepository) RecordPaymentAtomic(payment *domain.Payment, allocations []*domain.PaymentAllocation, updatedCharges []*domain.AppliedCharge) (*domain.Payment, []*domain.PaymentAllocation, error) {
	m.nextID++
	payment.ID = m.nextID
	m.Items[payment.ID] = payment

	persisted := make([]*domain.PaymentAllocation, 0, len(allocations))
	for _, a := range allocations {
		m.nextAllocID++
		a.ID = m.nextAllocID
		a.PaymentID = payment.ID
		m.Allocations[a.ID] = a
		persisted = append(persisted, a)
	}
	for _, c := range updatedCharges {
		m.mustHaveCharge(c)
	}
	return payment, persisted, nil
}

func (m *MockPaymentRepository) ApplyCreditAtomic(allocations []*domain.PaymentAllocation, updatedCharges []*domain.AppliedCharge) error {
	for _, a := range allocations {
		m.nextAllocID++
		a.ID = m.nextAllocID
		m.Allocations[a.ID] = a
	}
	return nil
}

func (m *MockPaymentRepository) mustHaveCharge(c *domain.AppliedCharge) {}

type MockInvoiceRepository struct {
	Items                      map[int32]*domain.Invoice
	appliedCharges             *MockAppliedChargeRepository
	schoolConfig               *MockSchoolConfigurationRepository
	nextID                     int32
	nextItemID                 int32
}

func NewMockInvoiceRepository(charges *MockAppliedChargeRepository, config *MockSchoolConfigurationRepository) *MockInvoiceRepository {
	return &MockInvoiceRepository{
		Items:          make(map[int32]*domain.Invoice),
		appliedCharges: charges,
		schoolConfig:   config,
	}
}

func (m *MockInvoiceRepository) GetByID(id int32) (*domain.Invoice, error) {
	if inv, ok := m.Items[id]; ok {
		return inv, nil
	}
	return nil, domain.ErrInvoiceNotFound
}

func (m *MockInvoiceRepository) GetByInvoiceNumber(invoiceNumber string) (*domain.Invoice, error) {
	for _, inv := range m.Items {
		if inv.InvoiceNumber == invoiceNumber {
			return inv, nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}

func (m *MockInvoiceRepository) List(filter domain.InvoiceFilter) ([]*domain.Invoice, error) {
	out := make([]*domain.Invoice, 0)
	for _, inv := range m.Items {
		if filter.RepresentativeID != nil && inv.RepresentativeID != *filter.RepresentativeID {
			continue
		}
		if filter.Status != nil && inv.Status != *filter.Status {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssueDate.After(out[j].IssueDate) })
	return out, nil
}

func (m *MockInvoiceRepository) ManualControlNumberExists(number string) (bool, error) {
	for _, inv := range m.Items {
		if inv.ManualControlNumber != nil && *inv.ManualControlNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockInvoiceRepository) CreateAtomic(invoice *domain.Invoice, items []domain.InvoiceItem, chargeIDs []int32) (*domain.Invoice, error) {
	// Mirrors the postgres repository: draw the correlative and the
	// emission-type fiscal numbers here, not in the service, so the mock
	// exercises the same single-source-of-truth numbering the real
	// row-locked transaction does.
	cfg := m.schoolConfig.Config
	invoiceNumber := cfg.InvoicePrefix + strconv.FormatInt(int64(cfg.NextInternalInvoiceReference), 10)
	invoice.InvoiceNumber = invoiceNumber

	switch invoice.EmissionType {
	case domain.EmissionFormaLibre:
		if invoice.ManualControlNumber == nil || *invoice.ManualControlNumber == "" {
			return nil, domain.NewBusinessRuleViolation("invoice_manual_control_required", "manual_control_number is required for forma_libre emission")
		}
		exists, _ := m.ManualControlNumberExists(*invoice.ManualControlNumber)
		if exists {
			return nil, domain.ErrAlreadyExists
		}
		fiscalControl := *invoice.ManualControlNumber
		invoice.FiscalControlNumber = &fiscalControl
		invoice.FiscalInvoiceNumber = &invoiceNumber
	case domain.EmissionDigital, domain.EmissionFiscalPrinter:
		synthetic := "SYN-" + invoiceNumber
		invoice.FiscalInvoiceNumber = &synthetic
		invoice.FiscalControlNumber = &synthetic
		if invoice.EmissionType == domain.EmissionDigital {
			url := "https://fiscal.example/invoices/" + invoiceNumber
			invoice.FiscalURL = &url
		}
	default:
		return nil, domain.NewBusinessRuleViolation("invoice_emission_type_invalid", "unrecognised emission_type %q", invoice.EmissionType)
	}
	cfg.NextInternalInvoiceReference++

	m.nextID++
	invoice.ID = m.nextID
	for i := range items {
		m.nextItemID++
		items[i].ID = m.nextItemID
		items[i].InvoiceID = invoice.ID
	}
	invoice.Items = items
	m.Items[invoice.ID] = invoice

	if m.appliedCharges != nil {
		for _, chargeID := range chargeIDs {
			if c, ok := m.appliedCharges.Items[chargeID]; ok {
				c.InvoiceID = &invoice.ID
			}
		}
	}
	return invoice, nil
}

func (m *MockInvoiceRepository) AnnulAtomic(invoiceID int32, reasonNote string) (*domain.Invoice, error) {
	inv, ok := m.Items[invoiceID]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	inv.Status = domain.InvoiceStatusAnnulled
	inv.Notes = reasonNote + " " + inv.Notes
	if m.appliedCharges != nil {
		for _, c := range m.appliedCharges.Items {
			if c.InvoiceID != nil && *c.InvoiceID == invoiceID {
				c.InvoiceID = nil
			}
		}
	}
	return inv, nil
}

type MockCreditNoteRepository struct {
	Items           map[int32]*domain.CreditNote
	invoices        *MockInvoiceRepository
	representatives *MockRepresentativeRepository
	nextID          int32
	nextItemID      int32
}

func NewMockCreditNoteRepository(invoices *MockInvoiceRepository, representatives *MockRepresentativeRepository) *MockCreditNoteRepository {
	return &MockCreditNoteRepository{
		Items:           make(map[int32]*domain.CreditNote),
		invoices:        invoices,
		representatives: representatives,
	}
}

func (m *MockCreditNoteRepository) GetByID(id int32) (*domain.CreditNote, error) {
	if n, ok := m.Items[id]; ok {
		return n, nil
	}
	return nil, domain.ErrCreditNoteNotFound
}

func (m *MockCreditNoteRepository) GetByInvoiceID(invoiceID int32) (*domain.CreditNote, error) {
	for _, n := range m.Items {
		if n.InvoiceID == invoiceID {
			return n, nil
		}
	}
	return nil, domain.ErrCreditNoteNotFound
}

func (m *MockCreditNoteRepository) CreateAtomic(note *domain.CreditNote, items []domain.CreditNoteItem, representativeID int32, creditDelta decimal.Decimal) (*domain.CreditNote, error) {
	if m.invoices != nil && m.invoices.schoolConfig != nil {
		cfg := m.invoices.schoolConfig.Config
		note.CreditNoteNumber = cfg.CreditNotePrefix + strconv.FormatInt(int64(cfg.NextCreditNoteReference), 10)
		cfg.NextCreditNoteReference++
	}

	m.nextID++
	note.ID = m.nextID
	for i := range items {
		m.nextItemID++
		items[i].ID = m.nextItemID
		items[i].CreditNoteID = note.ID
	}
	note.Items = items
	m.Items[note.ID] = note

	if m.invoices != nil {
		if _, err := m.invoices.AnnulAtomic(note.InvoiceID, "credit note "+note.CreditNoteNumber); err != nil {
			return nil, err
		}
	}
	if m.representatives != nil {
		if rep, ok := m.representatives.Items[representativeID]; ok {
			rep.AvailableCreditVES = rep.AvailableCreditVES.Add(creditDelta)
		}
	}
	return note, nil
}

// ---- Personnel ----

type MockDepartmentRepository struct {
	Items  map[int32]*domain.Department
	nextID int32
}

func NewMockDepartmentRepository() *MockDepartmentRepository {
	return &MockDepartmentRepository{Items: make(map[int32]*domain.Department)}
}

func (m *MockDepartmentRepository) Create(d *domain.Department) (*domain.Department, error) {
	m.nextID++
	d.ID = m.nextID
	m.Items[d.ID] = d
	return d, nil
}

func (m *MockDepartmentRepository) GetByID(id int32) (*domain.Department, error) {
	if d, ok := m.Items[id]; ok {
		return d, nil
	}
	return nil, domain.ErrDepartmentNotFound
}

func (m *MockDepartmentRepository) List() ([]*domain.Department, error) {
	out := make([]*domain.Department, 0, len(m.Items))
	for _, d := range m.Items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockDepartmentRepository) Update(d *domain.Department) (*domain.Department, error) {
	if _, ok := m.Items[d.ID]; !ok {
		return nil, domain.ErrDepartmentNotFound
	}
	m.Items[d.ID] = d
	return d, nil
}

type MockPositionRepository struct {
	Items  map[int32]*domain.Position
	nextID int32
}

func NewMockPositionRepository() *MockPositionRepository {
	return &MockPositionRepository{Items: make(map[int32]*domain.Position)}
}

func (m *MockPositionRepository) Create(p *domain.Position) (*domain.Position, error) {
	m.nextID++
	p.ID = m.nextID
	m.Items[p.ID] = p
	return p, nil
}

func (m *MockPositionRepository) GetByID(id int32) (*domain.Position, error) {
	if p, ok := m.Items[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPositionNotFound
}

func (m *MockPositionRepository) ListByDepartment(departmentID int32) ([]*domain.Position, error) {
	out := make([]*domain.Position, 0)
	for _, p := range m.Items {
		if p.DepartmentID == departmentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockPositionRepository) Update(p *domain.Position) (*domain.Position, error) {
	if _, ok := m.Items[p.ID]; !ok {
		return nil, domain.ErrPositionNotFound
	}
	m.Items[p.ID] = p
	return p, nil
}

type MockEmployeeRepository struct {
	Items  map[int32]*domain.Employee
	nextID int32
}

func NewMockEmployeeRepository() *MockEmployeeRepository {
	return &MockEmployeeRepository{Items: make(map[int32]*domain.Employee)}
}

func (m *MockEmployeeRepository) Create(e *domain.Employee) (*domain.Employee, error) {
	m.nextID++
	e.ID = m.nextID
	m.Items[e.ID] = e
	return e, nil
}

func (m *MockEmployeeRepository) GetByID(id int32) (*domain.Employee, error) {
	if e, ok := m.Items[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEmployeeNotFound
}

func (m *MockEmployeeRepository) List(filter domain.EmployeeFilter) ([]*domain.Employee, error) {
	out := make([]*domain.Employee, 0)
	for _, e := range m.Items {
		if filter.ActiveOnly && !e.IsActive {
			continue
		}
		if filter.DepartmentID != nil && (e.DepartmentID == nil || *e.DepartmentID != *filter.DepartmentID) {
			continue
		}
		if filter.PayFrequency != nil && e.PayFrequency != *filter.PayFrequency {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockEmployeeRepository) ListEligibleForRun(payFrequency domain.PayFrequency) ([]*domain.Employee, error) {
	out := make([]*domain.Employee, 0)
	for _, e := range m.Items {
		if e.IsActive && e.PayFrequency == payFrequency {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockEmployeeRepository) Update(e *domain.Employee) (*domain.Employee, error) {
	if _, ok := m.Items[e.ID]; !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	m.Items[e.ID] = e
	return e, nil
}

func (m *MockEmployeeRepository) DecrementAccumulatedHours(id int32, hours decimal.Decimal) error {
	e, ok := m.Items[id]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	e.AccumulatedHours = e.AccumulatedHours.Sub(hours)
	return nil
}

type MockSalaryComponentDefinitionRepository struct {
	Items  map[int32]*domain.SalaryComponentDefinition
	nextID int32
}

func NewMockSalaryComponentDefinitionRepository() *MockSalaryComponentDefinitionRepository {
	return &MockSalaryComponentDefinitionRepository{Items: make(map[int32]*domain.SalaryComponentDefinition)}
}

func (m *MockSalaryComponentDefinitionRepository) Create(d *domain.SalaryComponentDefinition) (*domain.SalaryComponentDefinition, error) {
	m.nextID++
	d.ID = m.nextID
	m.Items[d.ID] = d
	return d, nil
}

func (m *MockSalaryComponentDefinitionRepository) GetByID(id int32) (*domain.SalaryComponentDefinition, error) {
	if d, ok := m.Items[id]; ok {
		return d, nil
	}
	return nil, domain.ErrSalaryComponentNotFound
}

func (m *MockSalaryComponentDefinitionRepository) List() ([]*domain.SalaryComponentDefinition, error) {
	out := make([]*domain.SalaryComponentDefinition, 0, len(m.Items))
	for _, d := range m.Items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockSalaryComponentDefinitionRepository) Update(d *domain.SalaryComponentDefinition) (*domain.SalaryComponentDefinition, error) {
	if _, ok := m.Items[d.ID]; !ok {
		return nil, domain.ErrSalaryComponentNotFound
	}
	m.Items[d.ID] = d
	return d, nil
}

type MockEmployeeSalaryComponentRepository struct {
	Items  map[int32]*domain.EmployeeSalaryComponent
	nextID int32
}

func NewMockEmployeeSalaryComponentRepository() *MockEmployeeSalaryComponentRepository {
	return &MockEmployeeSalaryComponentRepository{Items: make(map[int32]*domain.EmployeeSalaryComponent)}
}

func (m *MockEmployeeSalaryComponentRepository) Create(c *domain.EmployeeSalaryComponent) (*domain.EmployeeSalaryComponent, error) {
	m.nextID++
	c.ID = m.nextID
	m.Items[c.ID] = c
	return c, nil
}

func (m *MockEmployeeSalaryComponentRepository) ListActiveByEmployee(employeeID int32) ([]*domain.EmployeeSalaryComponent, error) {
	out := make([]*domain.EmployeeSalaryComponent, 0)
	for _, c := range m.Items {
		if c.EmployeeID == employeeID && c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockEmployeeSalaryComponentRepository) Update(c *domain.EmployeeSalaryComponent) (*domain.EmployeeSalaryComponent, error) {
	if _, ok := m.Items[c.ID]; !ok {
		return nil, domain.ErrSalaryComponentNotFound
	}
	m.Items[c.ID] = c
	return c, nil
}

func (m *MockEmployeeSalaryComponentRepository) Delete(id int32) error {
	if _, ok := m.Items[id]; !ok {
		return domain.ErrSalaryComponentNotFound
	}
	delete(m.Items, id)
	return nil
}

// ---- Payroll ----

type MockPayrollRunRepository struct {
	Items   map[int32]*domain.PayrollRun
	Details map[int32]*domain.PayrollRunEmployeeDetail
	employees *MockEmployeeRepository
	nextID       int32
	nextDetailID int32
}

func NewMockPayrollRunRepository(employees *MockEmployeeRepository) *MockPayrollRunRepository {
	return &MockPayrollRunRepository{
		Items:     make(map[int32]*domain.PayrollRun),
		Details:   make(map[int32]*domain.PayrollRunEmployeeDetail),
		employees: employees,
	}
}

func (m *MockPayrollRunRepository) Create(run *domain.PayrollRun) (*domain.PayrollRun, error) {
	m.nextID++
	run.ID = m.nextID
	m.Items[run.ID] = run
	return run, nil
}

func (m *MockPayrollRunRepository) GetByID(id int32) (*domain.PayrollRun, error) {
	if r, ok := m.Items[id]; ok {
		return r, nil
	}
	return nil, domain.ErrPayrollRunNotFound
}

func (m *MockPayrollRunRepository) List() ([]*domain.PayrollRun, error) {
	out := make([]*domain.PayrollRun, 0, len(m.Items))
	for _, r := range m.Items {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.After(out[j].PeriodStart) })
	return out, nil
}

func (m *MockPayrollRunRepository) Update(run *domain.PayrollRun) (*domain.PayrollRun, error) {
	if _, ok := m.Items[run.ID]; !ok {
		return nil, domain.ErrPayrollRunNotFound
	}
	m.Items[run.ID] = run
	return run, nil
}

func (m *MockPayrollRunRepository) Delete(id int32) error {
	if _, ok := m.Items[id]; !ok {
		return domain.ErrPayrollRunNotFound
	}
	delete(m.Items, id)
	return nil
}

func (m *MockPayrollRunRepository) ConfirmAtomic(run *domain.PayrollRun, details []*domain.PayrollRunEmployeeDetail, hoursDecrement map[int32]decimal.Decimal) (*domain.PayrollRun, []*domain.PayrollRunEmployeeDetail, error) {
	for id, d := range m.Details {
		if d.PayrollRunID == run.ID {
			delete(m.Details, id)
		}
	}
	m.Items[run.ID] = run

	persisted := make([]*domain.PayrollRunEmployeeDetail, 0, len(details))
	for _, d := range details {
		m.nextDetailID++
		d.ID = m.nextDetailID
		m.Details[d.ID] = d
		persisted = append(persisted, d)
	}

	if m.employees != nil {
		for employeeID, hours := range hoursDecrement {
			if e, ok := m.employees.Items[employeeID]; ok {
				e.AccumulatedHours = e.AccumulatedHours.Sub(hours)
			}
		}
	}
	return run, persisted, nil
}

func (m *MockPayrollRunRepository) ListDetailsByRun(runID int32) ([]*domain.PayrollRunEmployeeDetail, error) {
	out := make([]*domain.PayrollRunEmployeeDetail, 0)
	for _, d := range m.Details {
		if d.PayrollRunID == runID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (m *MockPayrollRunRepository) GetDetailByRunAndEmployee(runID, employeeID int32) (*domain.PayrollRunEmployeeDetail, error) {
	for _, d := range m.Details {
		if d.PayrollRunID == runID && d.EmployeeID == employeeID {
			return d, nil
		}
	}
	return nil, domain.ErrPayrollRunDetailNotFound
}

type MockEmployeePayableItemRepository struct {
	Items  map[int32]*domain.EmployeePayableItem
	nextID int32
}

func NewMockEmployeePayableItemRepository() *MockEmployeePayableItemRepository {
	return &MockEmployeePayableItemRepository{Items: make(map[int32]*domain.EmployeePayableItem)}
}

func (m *MockEmployeePayableItemRepository) Create(item *domain.EmployeePayableItem) (*domain.EmployeePayableItem, error) {
	m.nextID++
	item.ID = m.nextID
	m.Items[item.ID] = item
	return item, nil
}

func (m *MockEmployeePayableItemRepository) GetByID(id int32) (*domain.EmployeePayableItem, error) {
	if i, ok := m.Items[id]; ok {
		return i, nil
	}
	return nil, domain.ErrEmployeePayableItemNotFound
}

func (m *MockEmployeePayableItemRepository) ListOpenByEmployee(employeeID int32) ([]*domain.EmployeePayableItem, error) {
	out := make([]*domain.EmployeePayableItem, 0)
	for _, i := range m.Items {
		if i.EmployeeID == employeeID && i.IsOpen() {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockEmployeePayableItemRepository) CreateBatch(items []*domain.EmployeePayableItem) ([]*domain.EmployeePayableItem, error) {
	out := make([]*domain.EmployeePayableItem, 0, len(items))
	for _, item := range items {
		created, _ := m.Create(item)
		out = append(out, created)
	}
	return out, nil
}

func (m *MockEmployeePayableItemRepository) UpdatePaymentFields(items []*domain.EmployeePayableItem) error {
	for _, item := range items {
		if _, ok := m.Items[item.ID]; !ok {
			return domain.ErrEmployeePayableItemNotFound
		}
		m.Items[item.ID] = item
	}
	return nil
}

type MockEmployeeBalanceAdjustmentRepository struct {
	Items        map[int32]*domain.EmployeeBalanceAdjustment
	payableItems *MockEmployeePayableItemRepository
	nextID       int32
}

func NewMockEmployeeBalanceAdjustmentRepository(payableItems *MockEmployeePayableItemRepository) *MockEmployeeBalanceAdjustmentRepository {
	return &MockEmployeeBalanceAdjustmentRepository{
		Items:        make(map[int32]*domain.EmployeeBalanceAdjustment),
		payableItems: payableItems,
	}
}

func (m *MockEmployeeBalanceAdjustmentRepository) CreateAtomic(adj *domain.EmployeeBalanceAdjustment, updatedItem *domain.EmployeePayableItem) (*domain.EmployeeBalanceAdjustment, error) {
	m.nextID++
	adj.ID = m.nextID
	m.Items[adj.ID] = adj
	if updatedItem != nil && m.payableItems != nil {
		m.payableItems.Items[updatedItem.ID] = updatedItem
	}
	return adj, nil
}

func (m *MockEmployeeBalanceAdjustmentRepository) ListByEmployee(employeeID int32) ([]*domain.EmployeeBalanceAdjustment, error) {
	out := make([]*domain.EmployeeBalanceAdjustment, 0)
	for _, a := range m.Items {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type MockEmployeePaymentRepository struct {
	Items        map[int32]*domain.EmployeePayment
	Allocations  map[int32]*domain.EmployeePaymentAllocation
	Payslips     *MockPayslipRepository
	payableItems *MockEmployeePayableItemRepository
	nextID       int32
	nextAllocID  int32
}

func NewMockEmployeePaymentRepository(payableItems *MockEmployeePayableItemRepository, payslips *MockPayslipRepository) *MockEmployeePaymentRepository {
	return &MockEmployeePaymentRepository{
		Items:        make(map[int32]*domain.EmployeePayment),
		Allocations:  make(map[int32]*domain.EmployeePaymentAllocation),
		Payslips:     payslips,
		payableItems: payableItems,
	}
}

func (m *MockEmployeePaymentRepository) GetByID(id int32) (*domain.EmployeePayment, error) {
	if p, ok := m.Items[id]; ok {
		return p, nil
	}
	return nil, domain.ErrEmployeePaymentNotFound
}

func (m *MockEmployeePaymentRepository) ListByEmployee(employeeID int32) ([]*domain.EmployeePayment, error) {
	out := make([]*domain.EmployeePayment, 0)
	for _, p := range m.Items {
		if p.EmployeeID == employeeID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentDate.After(out[j].PaymentDate) })
	return out, nil
}

func (m *MockEmployeePaymentRepository) GetAllocationsByPayment(paymentID int32) ([]*domain.EmployeePaymentAllocation, error) {
	out := make([]*domain.EmployeePaymentAllocation, 0)
	for _, a := range m.Allocations {
		if a.EmployeePaymentID == paymentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockEmployeePaymentRepository) RecordAtomic(payment *domain.EmployeePayment, allocations []*domain.EmployeePaymentAllocation, updatedItems []*domain.EmployeePayableItem, slip *domain.Payslip) (*domain.EmployeePayment, *domain.Payslip, error) {
	m.nextID++
	payment.ID = m.nextID
	m.Items[payment.ID] = payment

	for _, a := range allocations {
		m.nextAllocID++
		a.ID = m.nextAllocID
		a.EmployeePaymentID = payment.ID
		m.Allocations[a.ID] = a
	}
	if m.payableItems != nil {
		for _, item := range updatedItems {
			m.payableItems.Items[item.ID] = item
		}
	}
	if m.Payslips != nil {
		m.Payslips.nextID++
		slip.ID = m.Payslips.nextID
		slip.EmployeePaymentID = payment.ID
		m.Payslips.Items[slip.ID] = slip
	}
	return payment, slip, nil
}

type MockPayslipRepository struct {
	Items  map[int32]*domain.Payslip
	nextID int32
}

func NewMockPayslipRepository() *MockPayslipRepository {
	return &MockPayslipRepository{Items: make(map[int32]*domain.Payslip)}
}

func (m *MockPayslipRepository) GetByID(id int32) (*domain.Payslip, error) {
	if s, ok := m.Items[id]; ok {
		return s, nil
	}
	return nil, domain.ErrPayslipNotFound
}

func (m *MockPayslipRepository) GetByEmployeePayment(paymentID int32) (*domain.Payslip, error) {
	for _, s := range m.Items {
		if s.EmployeePaymentID == paymentID {
			return s, nil
		}
	}
	return nil, domain.ErrPayslipNotFound
}

func (m *MockPayslipRepository) ListByEmployee(employeeID int32) ([]*domain.Payslip, error) {
	out := make([]*domain.Payslip, 0)
	for _, s := range m.Items {
		if s.EmployeeID == employeeID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	return out, nil
}

// ---- Expenses ----

type MockExpenseCategoryRepository struct {
	Items  map[int32]*domain.ExpenseCategory
	nextID int32
}

func NewMockExpenseCategoryRepository() *MockExpenseCategoryRepository {
	return &MockExpenseCategoryRepository{Items: make(map[int32]*domain.ExpenseCategory)}
}

func (m *MockExpenseCategoryRepository) Create(c *domain.ExpenseCategory) (*domain.ExpenseCategory, error) {
	m.nextID++
	c.ID = m.nextID
	m.Items[c.ID] = c
	return c, nil
}

func (m *MockExpenseCategoryRepository) GetByID(id int32) (*domain.ExpenseCategory, error) {
	if c, ok := m.Items[id]; ok {
		return c, nil
	}
	return nil, domain.ErrExpenseCategoryNotFound
}

func (m *MockExpenseCategoryRepository) List() ([]*domain.ExpenseCategory, error) {
	out := make([]*domain.ExpenseCategory, 0, len(m.Items))
	for _, c := range m.Items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type MockSupplierRepository struct {
	Items  map[int32]*domain.Supplier
	nextID int32
}

func NewMockSupplierRepository() *MockSupplierRepository {
	return &MockSupplierRepository{Items: make(map[int32]*domain.Supplier)}
}

func (m *MockSupplierRepository) Create(s *domain.Supplier) (*domain.Supplier, error) {
	m.nextID++
	s.ID = m.nextID
	m.Items[s.ID] = s
	return s, nil
}

func (m *MockSupplierRepository) GetByID(id int32) (*domain.Supplier, error) {
	if s, ok := m.Items[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSupplierNotFound
}

func (m *MockSupplierRepository) List() ([]*domain.Supplier, error) {
	out := make([]*domain.Supplier, 0, len(m.Items))
	for _, s := range m.Items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type MockExpenseRepository struct {
	Items    map[int32]*domain.Expense
	Payments map[int32]*domain.ExpensePayment
	categories *MockExpenseCategoryRepository
	nextID         int32
	nextPaymentID  int32
}

func NewMockExpenseRepository(categories *MockExpenseCategoryRepository) *MockExpenseRepository {
	return &MockExpenseRepository{
		Items:      make(map[int32]*domain.Expense),
		Payments:   make(map[int32]*domain.ExpensePayment),
		categories: categories,
	}
}

func (m *MockExpenseRepository) Create(e *domain.Expense) (*domain.Expense, error) {
	m.nextID++
	e.ID = m.nextID
	m.Items[e.ID] = e
	return e, nil
}

func (m *MockExpenseRepository) GetByID(id int32) (*domain.Expense, error) {
	if e, ok := m.Items[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) isSalaryCategory(categoryID int32) bool {
	if m.categories == nil {
		return false
	}
	if c, ok := m.categories.Items[categoryID]; ok {
		return c.IsSalary
	}
	return false
}

func (m *MockExpenseRepository) List(filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	out := make([]*domain.Expense, 0)
	for _, e := range m.Items {
		if filter.CategoryID != nil && e.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.SupplierID != nil && (e.SupplierID == nil || *e.SupplierID != *filter.SupplierID) {
			continue
		}
		if filter.Status != nil && e.PaymentStatus != *filter.Status {
			continue
		}
		if filter.ExcludeSalaries && m.isSalaryCategory(e.CategoryID) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpenseDate.After(out[j].ExpenseDate) })
	return out, nil
}

func (m *MockExpenseRepository) Update(e *domain.Expense) (*domain.Expense, error) {
	if _, ok := m.Items[e.ID]; !ok {
		return nil, domain.ErrExpenseNotFound
	}
	m.Items[e.ID] = e
	return e, nil
}

func (m *MockExpenseRepository) RecordPaymentAtomic(payment *domain.ExpensePayment, updatedExpense *domain.Expense) (*domain.ExpensePayment, error) {
	m.nextPaymentID++
	payment.ID = m.nextPaymentID
	m.Payments[payment.ID] = payment
	m.Items[updatedExpense.ID] = updatedExpense
	return payment, nil
}

func (m *MockExpenseRepository) ListPaymentsByExpense(expenseID int32) ([]*domain.ExpensePayment, error) {
	out := make([]*domain.ExpensePayment, 0)
	for _, p := range m.Payments {
		if p.ExpenseID == expenseID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentDate.Before(out[j].PaymentDate) })
	return out, nil
}

func (m *MockExpenseRepository) SummaryByCategory(dateFrom, dateTo time.Time, excludeSalaries bool) ([]domain.ExpenseSummaryByCategory, error) {
	totals := make(map[int32]*domain.ExpenseSummaryByCategory)
	for _, e := range m.Items {
		if e.ExpenseDate.Before(dateFrom) || e.ExpenseDate.After(dateTo) {
			continue
		}
		if excludeSalaries && m.isSalaryCategory(e.CategoryID) {
			continue
		}
		s, ok := totals[e.CategoryID]
		if !ok {
			name := ""
			if m.categories != nil {
				if c, ok := m.categories.Items[e.CategoryID]; ok {
					name = c.Name
				}
			}
			s = &domain.ExpenseSummaryByCategory{CategoryID: e.CategoryID, CategoryName: name}
			totals[e.CategoryID] = s
		}
		s.TotalVES = s.TotalVES.Add(e.AmountVES)
		s.Count++
	}
	out := make([]domain.ExpenseSummaryByCategory, 0, len(totals))
	for _, s := range totals {
		out = append(out, *s)
	}
	return out, nil
}

func (m *MockExpenseRepository) SummaryBySupplier(dateFrom, dateTo time.Time, excludeSalaries bool) ([]domain.ExpenseSummaryBySupplier, error) {
	totals := make(map[int32]*domain.ExpenseSummaryBySupplier)
	for _, e := range m.Items {
		if e.SupplierID == nil {
			continue
		}
		if e.ExpenseDate.Before(dateFrom) || e.ExpenseDate.After(dateTo) {
			continue
		}
		if excludeSalaries && m.isSalaryCategory(e.CategoryID) {
			continue
		}
		s, ok := totals[*e.SupplierID]
		if !ok {
			s = &domain.ExpenseSummaryBySupplier{SupplierID: *e.SupplierID}
			totals[*e.SupplierID] = s
		}
		s.TotalVES = s.TotalVES.Add(e.AmountVES)
		s.Count++
	}
	out := make([]domain.ExpenseSummaryBySupplier, 0, len(totals))
	for _, s := range totals {
		out = append(out, *s)
	}
	return out, nil
}

func (m *MockExpenseRepository) Trend(dateFrom, dateTo time.Time, granularity string, excludeSalaries bool) ([]domain.ExpenseTrendPoint, error) {
	totals := make(map[string]decimal.Decimal)
	for _, e := range m.Items {
		if e.ExpenseDate.Before(dateFrom) || e.ExpenseDate.After(dateTo) {
			continue
		}
		if excludeSalaries && m.isSalaryCategory(e.CategoryID) {
			continue
		}
		period := e.ExpenseDate.Format("2006-01")
		totals[period] = totals[period].Add(e.AmountVES)
	}
	out := make([]domain.ExpenseTrendPoint, 0, len(totals))
	for period, total := range totals {
		out = append(out, domain.ExpenseTrendPoint{Period: period, TotalVES: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}

// ---- Users ----

type MockUserRepository struct {
	Items  map[int32]*domain.User
	nextID int32
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Items: make(map[int32]*domain.User)}
}

func (m *MockUserRepository) Create(u *domain.User) (*domain.User, error) {
	m.nextID++
	u.ID = m.nextID
	m.Items[u.ID] = u
	return u, nil
}

func (m *MockUserRepository) GetByID(id int32) (*domain.User, error) {
	if u, ok := m.Items[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	for _, u := range m.Items {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) List() ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(m.Items))
	for _, u := range m.Items {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockUserRepository) Update(u *domain.User) (*domain.User, error) {
	if _, ok := m.Items[u.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	m.Items[u.ID] = u
	return u, nil
}

func (m *MockUserRepository) CountSuperusers() (int64, error) {
	var count int64
	for _, u := range m.Items {
		if u.IsSuperuser {
			count++
		}
	}
	return count, nil
}
