package postgres

import (
	"context"

	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InvoiceRepository implements domain.InvoiceRepository.
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

const invoiceColumns = `id, invoice_number, representative_id, school_name_snapshot, school_rif_snapshot, school_address_snapshot,
	representative_name_snapshot, representative_rif_snapshot, bill_to_address_snapshot, subtotal_ves, total_iva_ves, total_amount_ves,
	emission_type, status, fiscal_invoice_number, fiscal_control_number, manual_control_number, fiscal_url, issue_date, notes,
	credit_note_id, created_at, updated_at`

func (r *InvoiceRepository) GetByID(id int32) (*domain.Invoice, error) {
	inv, err := r.getBy(context.Background(), "id", id)
	if err != nil {
		return nil, err
	}
	items, err := r.listItems(context.Background(), inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (r *InvoiceRepository) GetByInvoiceNumber(invoiceNumber string) (*domain.Invoice, error) {
	inv, err := r.getBy(context.Background(), "invoice_number", invoiceNumber)
	if err != nil {
		return nil, err
	}
	items, err := r.listItems(context.Background(), inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (r *InvoiceRepository) getBy(ctx context.Context, column string, value interface{}) (*domain.Invoice, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE `+column+` = $1`, value)
	inv, err := scanInvoice(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrInvoiceNotFound
	}
	return inv, err
}

func (r *InvoiceRepository) listItems(ctx context.Context, invoiceID int32) ([]domain.InvoiceItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_id, applied_charge_id, description, quantity, unit_price_ves, iva_percentage, item_subtotal_ves, item_iva_ves, item_total_ves
		 FROM invoice_items WHERE invoice_id = $1 ORDER BY id ASC`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.InvoiceItem
	for rows.Next() {
		item, err := scanInvoiceItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}

func (r *InvoiceRepository) List(filter domain.InvoiceFilter) ([]*domain.Invoice, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+invoiceColumns+` FROM invoices
		 WHERE ($1::int IS NULL OR representative_id = $1)
		   AND ($2::text IS NULL OR status = $2)
		   AND ($3::date IS NULL OR issue_date >= $3)
		   AND ($4::date IS NULL OR issue_date <= $4)
		 ORDER BY issue_date DESC, id DESC`,
		filter.RepresentativeID, status, filter.DateFrom, filter.DateTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *InvoiceRepository) ManualControlNumberExists(number string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM invoices WHERE manual_control_number = $1)`, number).Scan(&exists)
	return exists, err
}

// CreateAtomic draws the next invoice correlative under a row lock on
// school_configuration and persists the invoice in the same transaction, so
// two concurrent emissions can never observe the same counter value (§5).
func (r *InvoiceRepository) CreateAtomic(invoice *domain.Invoice, items []domain.InvoiceItem, chargeIDs []int32) (*domain.Invoice, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var prefix string
	var counter int32
	if err := tx.QueryRow(ctx,
		`SELECT invoice_prefix, next_internal_invoice_reference FROM school_configuration FOR UPDATE`,
	).Scan(&prefix, &counter); err != nil {
		return nil, err
	}
	invoiceNumber := formatCorrelativeNumber(prefix, counter)
	invoice.InvoiceNumber = invoiceNumber

	switch invoice.EmissionType {
	case domain.EmissionFormaLibre:
		if invoice.ManualControlNumber == nil || *invoice.ManualControlNumber == "" {
			return nil, domain.NewBusinessRuleViolation("invoice_manual_control_required", "manual_control_number is required for forma_libre emission")
		}
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM invoices WHERE manual_control_number = $1)`, *invoice.ManualControlNumber).Scan(&exists); err != nil {
			return nil, err
		}
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

	if _, err := tx.Exec(ctx, `UPDATE school_configuration SET next_internal_invoice_reference = $1`, counter+1); err != nil {
		return nil, err
	}

	subtotal, err := decimalToPgNumeric(invoice.SubtotalVES)
	if err != nil {
		return nil, err
	}
	totalIVA, err := decimalToPgNumeric(invoice.TotalIVAVES)
	if err != nil {
		return nil, err
	}
	totalAmount, err := decimalToPgNumeric(invoice.TotalAmountVES)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO invoices (invoice_number, representative_id, school_name_snapshot, school_rif_snapshot, school_address_snapshot,
		   representative_name_snapshot, representative_rif_snapshot, bill_to_address_snapshot, subtotal_ves, total_iva_ves, total_amount_ves,
		   emission_type, status, fiscal_invoice_number, fiscal_control_number, manual_control_number, fiscal_url, issue_date, notes,
		   credit_note_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, now(), now())
		 RETURNING `+invoiceColumns,
		invoice.InvoiceNumber, invoice.RepresentativeID, invoice.SchoolNameSnapshot, invoice.SchoolRIFSnapshot, invoice.SchoolAddressSnapshot,
		invoice.RepresentativeNameSnapshot, invoice.RepresentativeRIFSnapshot, invoice.BillToAddressSnapshot, subtotal, totalIVA, totalAmount,
		string(invoice.EmissionType), string(invoice.Status), pgText(invoice.FiscalInvoiceNumber), pgText(invoice.FiscalControlNumber),
		pgText(invoice.ManualControlNumber), pgText(invoice.FiscalURL), invoice.IssueDate, invoice.Notes, pgInt4(invoice.CreditNoteID))
	created, err := scanInvoice(row)
	if err != nil {
		return nil, err
	}

	persistedItems := make([]domain.InvoiceItem, 0, len(items))
	for _, item := range items {
		unitPrice, err := decimalToPgNumeric(item.UnitPriceVES)
		if err != nil {
			return nil, err
		}
		iva, err := decimalToPgNumeric(item.IVAPercentage)
		if err != nil {
			return nil, err
		}
		itemSubtotal, err := decimalToPgNumeric(item.ItemSubtotalVES)
		if err != nil {
			return nil, err
		}
		itemIVA, err := decimalToPgNumeric(item.ItemIVAVES)
		if err != nil {
			return nil, err
		}
		itemTotal, err := decimalToPgNumeric(item.ItemTotalVES)
		if err != nil {
			return nil, err
		}
		itemRow := tx.QueryRow(ctx,
			`INSERT INTO invoice_items (invoice_id, applied_charge_id, description, quantity, unit_price_ves, iva_percentage, item_subtotal_ves, item_iva_ves, item_total_ves)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id, invoice_id, applied_charge_id, description, quantity, unit_price_ves, iva_percentage, item_subtotal_ves, item_iva_ves, item_total_ves`,
			created.ID, item.AppliedChargeID, item.Description, item.Quantity, unitPrice, iva, itemSubtotal, itemIVA, itemTotal)
		persisted, err := scanInvoiceItem(itemRow)
		if err != nil {
			return nil, err
		}
		persistedItems = append(persistedItems, *persisted)
	}

	if len(chargeIDs) > 0 {
		if _, err := tx.Exec(ctx, `UPDATE applied_charges SET invoice_id = $1, updated_at = now() WHERE id = ANY($2)`, created.ID, chargeIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	created.Items = persistedItems
	return created, nil
}

func (r *InvoiceRepository) AnnulAtomic(invoiceID int32, reasonNote string) (*domain.Invoice, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE applied_charges SET invoice_id = NULL, updated_at = now() WHERE invoice_id = $1`, invoiceID); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx,
		`UPDATE invoices SET status = 'annulled', notes = $2 || notes, updated_at = now() WHERE id = $1
		 RETURNING `+invoiceColumns, invoiceID, reasonNote)
	updated, err := scanInvoice(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	items, err := r.listItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	updated.Items = items
	return updated, nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	var subtotal, totalIVA, totalAmount pgtype.Numeric
	var repRIF pgtype.Text
	var emissionType, status string
	var fiscalInvoiceNumber, fiscalControlNumber, manualControlNumber, fiscalURL pgtype.Text
	var creditNoteID pgtype.Int4
	if err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.RepresentativeID, &inv.SchoolNameSnapshot, &inv.SchoolRIFSnapshot,
		&inv.SchoolAddressSnapshot, &inv.RepresentativeNameSnapshot, &repRIF, &inv.BillToAddressSnapshot, &subtotal, &totalIVA,
		&totalAmount, &emissionType, &status, &fiscalInvoiceNumber, &fiscalControlNumber, &manualControlNumber, &fiscalURL,
		&inv.IssueDate, &inv.Notes, &creditNoteID, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	if repRIF.Valid {
		inv.RepresentativeRIFSnapshot = repRIF.String
	}
	inv.SubtotalVES = pgNumericToDecimal(subtotal)
	inv.TotalIVAVES = pgNumericToDecimal(totalIVA)
	inv.TotalAmountVES = pgNumericToDecimal(totalAmount)
	inv.EmissionType = domain.EmissionType(emissionType)
	inv.Status = domain.InvoiceStatus(status)
	inv.FiscalInvoiceNumber = textPtr(fiscalInvoiceNumber)
	inv.FiscalControlNumber = textPtr(fiscalControlNumber)
	inv.ManualControlNumber = textPtr(manualControlNumber)
	inv.FiscalURL = textPtr(fiscalURL)
	inv.CreditNoteID = int4Ptr(creditNoteID)
	return &inv, nil
}

func scanInvoiceItem(row pgx.Row) (*domain.InvoiceItem, error) {
	var item domain.InvoiceItem
	var unitPrice, iva, subtotal, ivaAmount, total pgtype.Numeric
	if err := row.Scan(&item.ID, &item.InvoiceID, &item.AppliedChargeID, &item.Description, &item.Quantity,
		&unitPrice, &iva, &subtotal, &ivaAmount, &total); err != nil {
		return nil, err
	}
	item.UnitPriceVES = pgNumericToDecimal(unitPrice)
	item.IVAPercentage = pgNumericToDecimal(iva)
	item.ItemSubtotalVES = pgNumericToDecimal(subtotal)
	item.ItemIVAVES = pgNumericToDecimal(ivaAmount)
	item.ItemTotalVES = pgNumericToDecimal(total)
	return &item, nil
}

// CreditNoteRepository implements domain.CreditNoteRepository.
type CreditNoteRepository struct {
	pool *pgxpool.Pool
}

func NewCreditNoteRepository(pool *pgxpool.Pool) *CreditNoteRepository {
	return &CreditNoteRepository{pool: pool}
}

func (r *CreditNoteRepository) GetByID(id int32) (*domain.CreditNote, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, credit_note_number, invoice_id, reason, total_credited_ves, issue_date, created_at FROM credit_notes WHERE id = $1`, id)
	note, err := scanCreditNote(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrCreditNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := r.listItems(context.Background(), note.ID)
	if err != nil {
		return nil, err
	}
	note.Items = items
	return note, nil
}

func (r *CreditNoteRepository) GetByInvoiceID(invoiceID int32) (*domain.CreditNote, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, credit_note_number, invoice_id, reason, total_credited_ves, issue_date, created_at FROM credit_notes WHERE invoice_id = $1`, invoiceID)
	note, err := scanCreditNote(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrCreditNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := r.listItems(context.Background(), note.ID)
	if err != nil {
		return nil, err
	}
	note.Items = items
	return note, nil
}

func (r *CreditNoteRepository) listItems(ctx context.Context, creditNoteID int32) ([]domain.CreditNoteItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, credit_note_id, description, item_subtotal_ves, item_iva_ves, item_total_ves FROM credit_note_items WHERE credit_note_id = $1 ORDER BY id ASC`,
		creditNoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.CreditNoteItem
	for rows.Next() {
		var item domain.CreditNoteItem
		var subtotal, iva, total pgtype.Numeric
		if err := rows.Scan(&item.ID, &item.CreditNoteID, &item.Description, &subtotal, &iva, &total); err != nil {
			return nil, err
		}
		item.ItemSubtotalVES = pgNumericToDecimal(subtotal)
		item.ItemIVAVES = pgNumericToDecimal(iva)
		item.ItemTotalVES = pgNumericToDecimal(total)
		out = append(out, item)
	}
	return out, rows.Err()
}

// CreateAtomic draws the next credit-note correlative under the same
// school_configuration row lock invoices use, so the two correlatives can be
// drawn by concurrent requests without either duplicating a number (§5).
func (r *CreditNoteRepository) CreateAtomic(note *domain.CreditNote, items []domain.CreditNoteItem, representativeID int32, creditDelta decimal.Decimal) (*domain.CreditNote, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var prefix string
	var counter int32
	if err := tx.QueryRow(ctx,
		`SELECT credit_note_prefix, next_credit_note_reference FROM school_configuration FOR UPDATE`,
	).Scan(&prefix, &counter); err != nil {
		return nil, err
	}
	note.CreditNoteNumber = formatCorrelativeNumber(prefix, counter)
	if _, err := tx.Exec(ctx, `UPDATE school_configuration SET next_credit_note_reference = $1`, counter+1); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE invoices SET status = 'annulled', updated_at = now() WHERE id = $1`, note.InvoiceID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE applied_charges SET invoice_id = NULL, updated_at = now() WHERE invoice_id = $1`, note.InvoiceID); err != nil {
		return nil, err
	}

	total, err := decimalToPgNumeric(note.TotalCreditedVES)
	if err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx,
		`INSERT INTO credit_notes (credit_note_number, invoice_id, reason, total_credited_ves, issue_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 RETURNING id, credit_note_number, invoice_id, reason, total_credited_ves, issue_date, created_at`,
		note.CreditNoteNumber, note.InvoiceID, note.Reason, total, note.IssueDate)
	created, err := scanCreditNote(row)
	if err != nil {
		return nil, err
	}

	persistedItems := make([]domain.CreditNoteItem, 0, len(items))
	for _, item := range items {
		subtotal, err := decimalToPgNumeric(item.ItemSubtotalVES)
		if err != nil {
			return nil, err
		}
		iva, err := decimalToPgNumeric(item.ItemIVAVES)
		if err != nil {
			return nil, err
		}
		itemTotal, err := decimalToPgNumeric(item.ItemTotalVES)
		if err != nil {
			return nil, err
		}
		itemRow := tx.QueryRow(ctx,
			`INSERT INTO credit_note_items (credit_note_id, description, item_subtotal_ves, item_iva_ves, item_total_ves)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, credit_note_id, description, item_subtotal_ves, item_iva_ves, item_total_ves`,
			created.ID, item.Description, subtotal, iva, itemTotal)
		var persisted domain.CreditNoteItem
		var s, i, t pgtype.Numeric
		if err := itemRow.Scan(&persisted.ID, &persisted.CreditNoteID, &persisted.Description, &s, &i, &t); err != nil {
			return nil, err
		}
		persisted.ItemSubtotalVES = pgNumericToDecimal(s)
		persisted.ItemIVAVES = pgNumericToDecimal(i)
		persisted.ItemTotalVES = pgNumericToDecimal(t)
		persistedItems = append(persistedItems, persisted)
	}

	delta, err := decimalToPgNumeric(creditDelta)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE representatives SET available_credit_ves = available_credit_ves + $2, updated_at = now() WHERE id = $1`,
		representativeID, delta); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	created.Items = persistedItems
	return created, nil
}

func scanCreditNote(row pgx.Row) (*domain.CreditNote, error) {
	var note domain.CreditNote
	var total pgtype.Numeric
	if err := row.Scan(&note.ID, &note.CreditNoteNumber, &note.InvoiceID, &note.Reason, &total, &note.IssueDate, &note.CreatedAt); err != nil {
		return nil, err
	}
	note.TotalCreditedVES = pgNumericToDecimal(total)
	return &note, nil
}
