package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invosync/internal/domain"
	"invosync/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Process(ctx context.Context, input service.ProcessInput) (*service.ProcessResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProcessResult), args.Error(1)
}

func (m *MockInvoiceService) ProcessArchive(ctx context.Context, input service.ProcessInput) ([]service.ArchiveEntryResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ArchiveEntryResult), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, email string) ([]domain.InvoiceRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceRecord), args.Error(1)
}

func (m *MockInvoiceService) Update(ctx context.Context, email, docID string, fields map[string]any) (string, error) {
	args := m.Called(ctx, email, docID, fields)
	return args.String(0), args.Error(1)
}
