package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"invosync/internal/config"
)

var summaryHeader = []any{"Sr No", "User", "Uploaded At", "Bill To", "Vendor", "Invoice No", "Invoice Date", "Vehicle No"}
var itemsHeader = []any{"Row", "Sr No", "Description", "Quantity", "Unit Price", "Remark"}

// Workbook is an excelize-backed port.SheetSink over a single .xlsx file
// with a summary sheet and an items sheet. The workbook is opened per
// operation so external edits between requests are picked up; a mutex
// serializes file access within the process.
type Workbook struct {
	mu      sync.Mutex
	path    string
	summary string
	items   string
}

// Open returns a Workbook over the configured file, creating it with header
// rows when it does not exist yet.
func Open(cfg *config.SheetConfig) (*Workbook, error) {
	w := &Workbook{
		path:    cfg.WorkbookPath,
		summary: cfg.SummarySheet,
		items:   cfg.ItemsSheet,
	}
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		if err := w.create(); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *Workbook) create() error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating workbook dir: %w", err)
		}
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", w.summary); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}
	if _, err := f.NewSheet(w.items); err != nil {
		return fmt.Errorf("creating items sheet: %w", err)
	}
	if err := setRow(f, w.summary, 1, summaryHeader); err != nil {
		return err
	}
	if err := setRow(f, w.items, 1, itemsHeader); err != nil {
		return err
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func (w *Workbook) Rows(_ context.Context, sheet string) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func (w *Workbook) UpdateRow(_ context.Context, sheet string, row int, values []any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := setRow(f, sheet, row, values); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("addressing cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
