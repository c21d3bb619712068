package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendInvoiceStoredEmail(ctx context.Context, toEmail, invoiceNo string) error {
	args := m.Called(ctx, toEmail, invoiceNo)
	return args.Error(0)
}
