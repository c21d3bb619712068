package extract

import (
	"strconv"
	"time"

	"invosync/internal/domain"
)

// Normalize turns a parsed extractor mapping, possibly partial or malformed,
// into the canonical typed record. Nothing downstream trusts the raw map:
// alternate field shapes are reconciled here, required composites are
// defaulted, a capture timestamp is stamped, and empty values are pruned.
// Normalize is idempotent over its own serialized output.
func Normalize(raw map[string]any, now time.Time) *domain.InvoiceRecord {
	// The extractor sometimes omits billing info; the issued-to party then
	// doubles as bill-to.
	if isEmptyValue(raw["bill_to"]) && !isEmptyValue(raw["issued_to"]) {
		raw["bill_to"] = raw["issued_to"]
	}

	rec := &domain.InvoiceRecord{
		Vendor:     asParty(raw["vendor"]),
		BillTo:     asParty(raw["bill_to"]),
		IssuedTo:   asParty(raw["issued_to"]),
		PayTo:      asParty(raw["pay_to"]),
		InvoiceNo:  asString(raw["invoice_no"]),
		Date:       asString(raw["date"]),
		DueDate:    asString(raw["due_date"]),
		VehicleNo:  asString(raw["vehicle_no"]),
		Items:      asItems(raw["items"]),
		Subtotal:   asNumber(raw["subtotal"]),
		TaxPercent: asNumber(raw["tax_percent"]),
		Total:      asNumber(raw["total"]),
		Timestamp:  now.UTC().Format(time.RFC3339),
	}

	rec.Prune()
	return rec
}

// asParty coerces a value into a party. Non-map values (the extractor
// occasionally emits a bare string or null) collapse to an empty party.
func asParty(v any) *domain.Party {
	m, ok := v.(map[string]any)
	if !ok {
		return &domain.Party{}
	}
	return &domain.Party{
		Name:    asString(m["name"]),
		Company: asString(m["company"]),
		Address: asString(m["address"]),
	}
}

// asItems coerces a value into a line-item slice. Missing or non-sequence
// values become an empty slice; elements that are not objects are dropped.
func asItems(v any) []domain.LineItem {
	seq, ok := v.([]any)
	if !ok {
		return []domain.LineItem{}
	}
	items := make([]domain.LineItem, 0, len(seq))
	for _, el := range seq {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, domain.LineItem{
			Description: asString(m["description"]),
			Quantity:    asNumber(m["quantity"]),
			UnitPrice:   asNumber(m["unit_price"]),
			Total:       asNumber(m["total"]),
			Remark:      asString(m["remark"]),
		})
	}
	return items
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func asNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// isEmptyValue mirrors the pruning emptiness test for raw extractor values:
// nil, empty string, numeric zero, empty sequence, empty map.
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
