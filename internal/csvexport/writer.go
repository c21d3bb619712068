package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"invosync/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Invoice No",
	"Invoice Date",
	"Due Date",
	"Vehicle No",
	"Vendor",
	"Bill To",
	"Pay To",
	"Subtotal",
	"Tax Percent",
	"Total",
	"Line Item Count",
	"Uploaded At",
}

// Writer wraps csv.Writer for exporting invoice records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of invoice records to CSV rows and writes them.
func (w *Writer) WriteInvoices(recs []domain.InvoiceRecord) error {
	for i := range recs {
		row := invoiceToRow(&recs[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func invoiceToRow(rec *domain.InvoiceRecord) []string {
	row := make([]string, len(columns))

	row[0] = rec.InvoiceNo
	row[1] = rec.Date
	row[2] = rec.DueDate
	row[3] = rec.VehicleNo
	if rec.Vendor != nil {
		row[4] = rec.Vendor.DisplayName()
	}
	if rec.BillTo != nil {
		row[5] = rec.BillTo.DisplayName()
	}
	if rec.PayTo != nil {
		row[6] = rec.PayTo.DisplayName()
	}
	row[7] = formatMoney(rec.Subtotal)
	row[8] = formatMoney(rec.TaxPercent)
	row[9] = formatMoney(rec.Total)
	row[10] = strconv.Itoa(len(rec.Items))
	row[11] = rec.Timestamp

	return row
}

func formatMoney(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans an email or label for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: invoices_{sanitized_label}_{YYYY-MM-DD}.csv
func BuildFilename(label string) string {
	sanitized := SanitizeFilename(label)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("invoices_%s_%s.csv", sanitized, date)
}
