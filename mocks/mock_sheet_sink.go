package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSheetSink is a mock implementation of port.SheetSink.
type MockSheetSink struct {
	mock.Mock
}

func (m *MockSheetSink) Rows(ctx context.Context, sheet string) ([][]string, error) {
	args := m.Called(ctx, sheet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}

func (m *MockSheetSink) UpdateRow(ctx context.Context, sheet string, row int, values []any) error {
	args := m.Called(ctx, sheet, row, values)
	return args.Error(0)
}
