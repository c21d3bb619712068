package port

import (
	"context"

	"invosync/internal/domain"
)

// SheetSink abstracts a tabular spreadsheet with named sheets and 1-indexed
// rows, exposing whole-sheet reads and range-addressed row writes.
type SheetSink interface {
	// Rows returns every populated row of the named sheet.
	Rows(ctx context.Context, sheet string) ([][]string, error)
	// UpdateRow writes values into the given 1-indexed row, one cell per
	// value starting at column A.
	UpdateRow(ctx context.Context, sheet string, row int, values []any) error
}

// InvoiceMirror projects stored invoices into the spreadsheet sink. The
// mirror is derived and non-authoritative; appends are best-effort.
type InvoiceMirror interface {
	Append(ctx context.Context, userEmail string, rec *domain.InvoiceRecord) error
}
