package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrExtractionFailed     = errors.New("no structured data in extraction response")
	ErrMissingInvoiceFields = errors.New("no invoice fields extracted")
	ErrDuplicateInvoice     = errors.New("invoice already uploaded")
)
