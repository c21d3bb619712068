package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Party identifies one of the billing parties on an invoice
// (vendor, bill_to, issued_to, pay_to).
type Party struct {
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Address string `json:"address,omitempty"`
}

// IsEmpty reports whether the party carries no information at all.
func (p *Party) IsEmpty() bool {
	return p == nil || (p.Name == "" && p.Company == "" && p.Address == "")
}

// DisplayName returns the party's company name, falling back to the
// personal name, falling back to empty.
func (p *Party) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Company != "" {
		return p.Company
	}
	return p.Name
}

// LineItem is a single billed row on an invoice.
type LineItem struct {
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity,omitempty"`
	UnitPrice   float64 `json:"unit_price,omitempty"`
	Total       float64 `json:"total,omitempty"`
	Remark      string  `json:"remark,omitempty"`
}

// IsEmpty reports whether every field of the line item is zero-valued.
func (i *LineItem) IsEmpty() bool {
	return i.Description == "" && i.Quantity == 0 && i.UnitPrice == 0 &&
		i.Total == 0 && i.Remark == ""
}

// InvoiceRecord is the canonical extracted invoice entity. Extractor output
// is decoded into this type at the normalization boundary; nothing past that
// boundary sees the raw extractor map. Empty leaves serialize as absent
// (omitempty), while Items always serializes as an array.
type InvoiceRecord struct {
	Vendor     *Party     `json:"vendor,omitempty"`
	BillTo     *Party     `json:"bill_to,omitempty"`
	IssuedTo   *Party     `json:"issued_to,omitempty"`
	PayTo      *Party     `json:"pay_to,omitempty"`
	InvoiceNo  string     `json:"invoice_no,omitempty"`
	Date       string     `json:"date,omitempty"`
	DueDate    string     `json:"due_date,omitempty"`
	VehicleNo  string     `json:"vehicle_no,omitempty"`
	Items      []LineItem `json:"items"`
	Subtotal   float64    `json:"subtotal,omitempty"`
	TaxPercent float64    `json:"tax_percent,omitempty"`
	Total      float64    `json:"total,omitempty"`
	Timestamp  string     `json:"timestamp,omitempty"`
}

// ResolveInvoiceNo derives a stable, storage-safe identifier for the record,
// generating one when the extractor found none. The id is used as a document
// path segment, so any "/" is replaced with "_". The resolved id is written
// back into InvoiceNo so the stored record is self-describing.
func (r *InvoiceRecord) ResolveInvoiceNo() string {
	id := r.InvoiceNo
	if id == "" {
		id = uuid.New().String()
	}
	id = strings.ReplaceAll(id, "/", "_")
	r.InvoiceNo = id
	return id
}

// Prune drops empty values bottom-up: all-empty line items are removed from
// Items (the slice itself always remains), and a party that ends up fully
// empty drops to nil so it is absent from the serialized record. Scalar
// leaves are pruned at serialization via omitempty. Prune is idempotent.
func (r *InvoiceRecord) Prune() {
	if r.Items == nil {
		r.Items = []LineItem{}
	}
	kept := r.Items[:0]
	for _, it := range r.Items {
		if !it.IsEmpty() {
			kept = append(kept, it)
		}
	}
	r.Items = kept

	if r.Vendor.IsEmpty() {
		r.Vendor = nil
	}
	if r.BillTo.IsEmpty() {
		r.BillTo = nil
	}
	if r.IssuedTo.IsEmpty() {
		r.IssuedTo = nil
	}
	if r.PayTo.IsEmpty() {
		r.PayTo = nil
	}
}

// HasExtractedFields reports whether the extraction produced at least one
// canonical invoice field. A record that fails this check is treated as a
// missing-fields input error, not stored.
func (r *InvoiceRecord) HasExtractedFields() bool {
	return r.InvoiceNo != "" || r.Date != "" || len(r.Items) > 0 ||
		r.Vendor != nil || r.BillTo != nil || r.IssuedTo != nil ||
		r.PayTo != nil || r.Total != 0
}

// User is an invoice owner, created lazily on first sight of an email.
type User struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the read-back projection of a user document.
type Profile struct {
	Email        string `json:"email"`
	CreatedAt    string `json:"created_at"`
	LastAccessed string `json:"last_accessed"`
}
