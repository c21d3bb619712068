package port

import "context"

// EmailSender defines the contract for sending notification emails.
type EmailSender interface {
	SendInvoiceStoredEmail(ctx context.Context, toEmail, invoiceNo string) error
}
