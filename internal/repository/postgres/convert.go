// Package postgres implements every domain repository interface against a
// PostgreSQL database reached through pgx. Each repository issues hand
// written SQL rather than sqlc-generated code: sqlc requires a code
// generation step this repository's build process never runs, so queries
// are written directly against pgx's Query/QueryRow/Exec.
package postgres

import (
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// formatCorrelativeNumber composes a human-visible document number from a
// correlative prefix and counter, matching domain.SchoolConfiguration's own
// (unexported) formatting so the locked-counter path and the read-only
// preview path never drift.
func formatCorrelativeNumber(prefix string, counter int32) string {
	return prefix + strconv.FormatInt(int64(counter), 10)
}

// decimalToPgNumeric converts a decimal.Decimal to the pgtype.Numeric the
// pgx driver expects for a NUMERIC column.
func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

// pgNumericToDecimal converts a scanned pgtype.Numeric back to decimal.Decimal.
func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

// pgText converts a nullable string pointer to pgtype.Text.
func pgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// textPtr converts a pgtype.Text back to a nullable string pointer.
func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}

// optionalPgNumeric converts a nullable *decimal.Decimal to pgtype.Numeric.
func optionalPgNumeric(d *decimal.Decimal) (pgtype.Numeric, error) {
	if d == nil {
		return pgtype.Numeric{}, nil
	}
	return decimalToPgNumeric(*d)
}

// optionalDecimal converts a scanned pgtype.Numeric back to a nullable
// *decimal.Decimal, preserving NULL.
func optionalDecimal(n pgtype.Numeric) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	v := pgNumericToDecimal(n)
	return &v
}

// pgInt4 converts a nullable int32 pointer to pgtype.Int4.
func pgInt4(i *int32) pgtype.Int4 {
	if i == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *i, Valid: true}
}

// int4Ptr converts a pgtype.Int4 back to a nullable int32 pointer.
func int4Ptr(i pgtype.Int4) *int32 {
	if !i.Valid {
		return nil
	}
	v := i.Int32
	return &v
}
