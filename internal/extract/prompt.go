package extract

// BuildInvoicePrompt returns the extraction prompt sent alongside the
// invoice image.
func BuildInvoicePrompt() string {
	return `You are an invoice data extractor. Extract the following fields from the provided document in JSON format:

{"vendor": {"name": "", "company": "", "address": ""},
 "invoice_no": "", "date": "", "due_date": "", "vehicle_no": "",
 "bill_to": {"name": "", "company": "", "address": ""},
 "issued_to": {"name": "", "company": "", "address": ""},
 "pay_to": {"name": "", "company": "", "address": ""},
 "items": [{"description": "", "unit_price": 0, "quantity": 0, "total": 0, "remark": ""}],
 "subtotal": 0, "tax_percent": 0, "total": 0
}

If a field is not present in the document, use empty string for text and 0 for numbers. Return only the JSON object.`
}
