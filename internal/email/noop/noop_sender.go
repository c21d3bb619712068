package noop

import (
	"context"
	"log"

	"invosync/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs instead of sending.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendInvoiceStoredEmail(_ context.Context, toEmail, invoiceNo string) error {
	log.Printf("[NOOP EMAIL] invoice %s stored for %s", invoiceNo, toEmail)
	return nil
}
