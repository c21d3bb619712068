package sheet

import (
	"context"
	"fmt"
	"time"

	"invosync/internal/config"
	"invosync/internal/domain"
	"invosync/internal/port"
)

// Mirror projects stored invoices into two parallel sheets: a summary row
// per invoice and one item row per line item, joined by the summary row's
// zero-padded sequence number (by value, not by reference).
//
// Sequence numbers derive from the current row count read immediately before
// each batch of writes; they are not reserved, so concurrent writers can
// race and duplicate them. That gap is inherent to the non-transactional
// sink and deliberately left open.
type Mirror struct {
	sink    port.SheetSink
	summary string
	items   string
}

// NewMirror creates a Mirror writing to the configured summary and items sheets.
func NewMirror(sink port.SheetSink, cfg *config.SheetConfig) *Mirror {
	return &Mirror{sink: sink, summary: cfg.SummarySheet, items: cfg.ItemsSheet}
}

// Append writes the record's summary row, then one row per line item.
// Any failure leaves the sheets in whatever state the writes reached;
// the caller reports the projection as stale.
func (m *Mirror) Append(ctx context.Context, userEmail string, rec *domain.InvoiceRecord) error {
	summaryRows, err := m.sink.Rows(ctx, m.summary)
	if err != nil {
		return fmt.Errorf("reading summary sheet: %w", err)
	}
	rowNum := len(summaryRows) + 1
	seq := fmt.Sprintf("%04d", rowNum-1)

	summaryRow := []any{
		seq,
		fmt.Sprintf("%s (%s)", userEmail, userEmail),
		time.Now().Format("02/01/2006 15:04:05"),
		rec.BillTo.DisplayName(),
		rec.Vendor.DisplayName(),
		rec.InvoiceNo,
		rec.Date,
		rec.VehicleNo,
	}
	if err := m.sink.UpdateRow(ctx, m.summary, rowNum, summaryRow); err != nil {
		return fmt.Errorf("writing summary row: %w", err)
	}

	itemRows, err := m.sink.Rows(ctx, m.items)
	if err != nil {
		return fmt.Errorf("reading items sheet: %w", err)
	}
	start := len(itemRows) + 1

	for i, item := range rec.Items {
		row := []any{
			start + i,
			seq,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.Remark,
		}
		if err := m.sink.UpdateRow(ctx, m.items, start+i, row); err != nil {
			return fmt.Errorf("writing item row %d: %w", i+1, err)
		}
	}
	return nil
}
