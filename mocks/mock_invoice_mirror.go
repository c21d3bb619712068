package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invosync/internal/domain"
)

// MockInvoiceMirror is a mock implementation of port.InvoiceMirror.
type MockInvoiceMirror struct {
	mock.Mock
}

func (m *MockInvoiceMirror) Append(ctx context.Context, userEmail string, rec *domain.InvoiceRecord) error {
	args := m.Called(ctx, userEmail, rec)
	return args.Error(0)
}
