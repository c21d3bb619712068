package service_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invosync/internal/config"
	"invosync/internal/domain"
	"invosync/internal/port"
	"invosync/internal/service"
	"invosync/mocks"
)

// pdfContent returns minimal PDF bytes the sniffer recognizes.
func pdfContent() []byte {
	return []byte("%PDF-1.4 test content that is at least a few bytes long for detection purposes")
}

// pngContent returns PNG magic bytes padded with zeros.
func pngContent() []byte {
	header := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return append(header, bytes.Repeat([]byte{0x00}, 100)...)
}

const extractionResponse = "```json\n" + `{
  "vendor": {"company": "Acme Corp"},
  "issued_to": {"name": "Beta Traders"},
  "invoice_no": "INV/001",
  "date": "15/05/2025",
  "items": [{"description": "widget", "quantity": 2, "unit_price": 5, "total": 10}],
  "total": 10
}` + "\n```"

type invoiceServiceFixture struct {
	extractor *mocks.MockInvoiceExtractor
	store     *mocks.MockDocumentStore
	users     *mocks.MockUserService
	mirror    *mocks.MockInvoiceMirror
	emailer   *mocks.MockEmailSender
	archive   *mocks.MockObjectStorage
	svc       service.InvoiceService
}

func newInvoiceServiceFixture(withArchive bool) *invoiceServiceFixture {
	f := &invoiceServiceFixture{
		extractor: new(mocks.MockInvoiceExtractor),
		store:     new(mocks.MockDocumentStore),
		users:     new(mocks.MockUserService),
		mirror:    new(mocks.MockInvoiceMirror),
		emailer:   new(mocks.MockEmailSender),
	}
	writer := service.NewDualSinkWriter(f.store, f.mirror)
	archCfg := &config.ArchiveConfig{}
	var archive port.ObjectStorage
	if withArchive {
		f.archive = new(mocks.MockObjectStorage)
		archive = f.archive
		archCfg.Bucket = "test-bucket"
	}
	uploadCfg := &config.UploadConfig{MaxFileSizeMB: 20}
	f.svc = service.NewInvoiceService(f.extractor, f.store, f.users, writer, archive, f.emailer, archCfg, uploadCfg)
	return f
}

func TestInvoiceService_Process_Stored(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	f.extractor.On("Extract", mock.Anything, mock.AnythingOfType("port.ExtractInput")).
		Return(extractionResponse, nil)
	f.users.On("Resolve", mock.Anything, "a@b.com").Return("uid-1", nil)
	f.store.On("Exists", mock.Anything, "users/uid-1/invoices/INV_001").Return(false, nil)
	f.store.On("Set", mock.Anything, "users/uid-1/invoices/INV_001", mock.AnythingOfType("*domain.InvoiceRecord")).Return(nil)
	f.mirror.On("Append", mock.Anything, "a@b.com", mock.AnythingOfType("*domain.InvoiceRecord")).Return(nil)
	f.emailer.On("SendInvoiceStoredEmail", mock.Anything, "a@b.com", "INV_001").Return(nil)

	res, err := f.svc.Process(context.Background(), service.ProcessInput{
		FileName:  "invoice.pdf",
		FileBytes: pdfContent(),
		Email:     "a@b.com",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeStored, res.Outcome)
	assert.Equal(t, "uid-1", res.UserID)
	assert.Equal(t, "INV_001", res.Record.InvoiceNo, "slash in invoice no is replaced")
	assert.Equal(t, "Acme Corp", res.Record.Vendor.DisplayName())
	require.NotNil(t, res.Record.BillTo, "bill_to falls back to issued_to")
	assert.Equal(t, "Beta Traders", res.Record.BillTo.Name)
	require.Len(t, res.Record.Items, 1)
	assert.Equal(t, float64(2), res.Record.Items[0].Quantity)
	assert.Equal(t, float64(5), res.Record.Items[0].UnitPrice)

	f.store.AssertExpectations(t)
	f.emailer.AssertExpectations(t)
}

func TestInvoiceService_Process_Duplicate(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	f.extractor.On("Extract", mock.Anything, mock.Anything).Return(extractionResponse, nil)
	f.users.On("Resolve", mock.Anything, "a@b.com").Return("uid-1", nil)
	f.store.On("Exists", mock.Anything, "users/uid-1/invoices/INV_001").Return(true, nil)

	res, err := f.svc.Process(context.Background(), service.ProcessInput{
		FileName:  "invoice.pdf",
		FileBytes: pdfContent(),
		Email:     "a@b.com",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDuplicate, res.Outcome)

	f.store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	f.emailer.AssertNotCalled(t, "SendInvoiceStoredEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Process_MirrorFailureIsPartial(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	f.extractor.On("Extract", mock.Anything, mock.Anything).Return(extractionResponse, nil)
	f.users.On("Resolve", mock.Anything, "a@b.com").Return("uid-1", nil)
	f.store.On("Exists", mock.Anything, mock.Anything).Return(false, nil)
	f.store.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.mirror.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("sheet locked"))
	f.emailer.On("SendInvoiceStoredEmail", mock.Anything, "a@b.com", "INV_001").Return(nil)

	res, err := f.svc.Process(context.Background(), service.ProcessInput{
		FileName:  "invoice.pdf",
		FileBytes: pdfContent(),
		Email:     "a@b.com",
	})
	require.NoError(t, err, "a partial write still returns the record")
	assert.Equal(t, domain.OutcomePartial, res.Outcome)
}

func TestInvoiceService_Process_UnsupportedFileType(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	_, err := f.svc.Process(context.Background(), service.ProcessInput{
		FileName:  "notes.txt",
		FileBytes: []byte("plain text, definitely not an invoice image"),
		Email:     "a@b.com",
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	f.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestInvoiceService_Process_FileTooLarge(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	big := bytes.Repeat([]byte{0x01}, 21*1024*1024)
	_, err := f.svc.Process(context.Background(), service.ProcessInput{
		FileName:  "huge.pdf",
		FileBytes: big,
		Email:     "a@b.com",
	})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestInvoiceService_Process_UnparseableExtraction(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	f.extractor.On("Extract", mock.Anything, mock.Anything).
		Return("I could not read this document.", nil)

	_, err := f.svc.Process(context.Background(), service.ProcessInput{
		FileName:  "invoice.png",
		FileBytes: pngContent(),
		Email:     "a@b.com",
	})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestInvoiceService_Process_NoExtractedFields(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	f.extractor.On("Extract", mock.Anything, mock.Anything).Return(`{"items": []}`, nil)

	_, err := f.svc.Process(context.Background(), service.ProcessInput{
		FileName:  "invoice.png",
		FileBytes: pngContent(),
		Email:     "a@b.com",
	})
	assert.ErrorIs(t, err, domain.ErrMissingInvoiceFields)
	f.users.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestInvoiceService_Process_ExtractorError(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	f.extractor.On("Extract", mock.Anything, mock.Anything).
		Return("", errors.New("upstream timeout"))

	_, err := f.svc.Process(context.Background(), service.ProcessInput{
		FileName:  "invoice.pdf",
		FileBytes: pdfContent(),
		Email:     "a@b.com",
	})
	assert.Error(t, err)
}

func TestInvoiceService_Process_ArchiveFailureIsBestEffort(t *testing.T) {
	f := newInvoiceServiceFixture(true)

	f.archive.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(nil, errors.New("bucket unavailable"))
	f.extractor.On("Extract", mock.Anything, mock.Anything).Return(extractionResponse, nil)
	f.users.On("Resolve", mock.Anything, "a@b.com").Return("uid-1", nil)
	f.store.On("Exists", mock.Anything, mock.Anything).Return(false, nil)
	f.store.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.mirror.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.emailer.On("SendInvoiceStoredEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	res, err := f.svc.Process(context.Background(), service.ProcessInput{
		FileName:  "invoice.pdf",
		FileBytes: pdfContent(),
		Email:     "a@b.com",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeStored, res.Outcome)
	f.archive.AssertExpectations(t)
}

func TestInvoiceService_Process_EmailFailureIsBestEffort(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	f.extractor.On("Extract", mock.Anything, mock.Anything).Return(extractionResponse, nil)
	f.users.On("Resolve", mock.Anything, "a@b.com").Return("uid-1", nil)
	f.store.On("Exists", mock.Anything, mock.Anything).Return(false, nil)
	f.store.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.mirror.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.emailer.On("SendInvoiceStoredEmail", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("ses throttled"))

	res, err := f.svc.Process(context.Background(), service.ProcessInput{
		FileName:  "invoice.pdf",
		FileBytes: pdfContent(),
		Email:     "a@b.com",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeStored, res.Outcome)
}

func buildZip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestInvoiceService_ProcessArchive(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	f.extractor.On("Extract", mock.Anything, mock.Anything).Return(extractionResponse, nil).Once()
	f.extractor.On("Extract", mock.Anything, mock.Anything).Return("garbage", nil)
	f.users.On("Resolve", mock.Anything, "a@b.com").Return("uid-1", nil)
	f.store.On("Exists", mock.Anything, mock.Anything).Return(false, nil).Once()
	f.store.On("Exists", mock.Anything, mock.Anything).Return(true, nil)
	f.store.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.mirror.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.emailer.On("SendInvoiceStoredEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	archive := buildZip(t, map[string][]byte{
		"a.pdf":     pdfContent(),
		"skip.docx": []byte("not supported"),
	})

	results, err := f.svc.ProcessArchive(context.Background(), service.ProcessInput{
		FileName:  "batch.zip",
		FileBytes: archive,
		Email:     "a@b.com",
	})
	require.NoError(t, err)

	// Only the pdf entry is processed; the docx is skipped silently.
	require.Len(t, results, 1)
	assert.Equal(t, "a.pdf", results[0].FileName)
	assert.Empty(t, results[0].Error)
}

func TestInvoiceService_ProcessArchive_BadZip(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	_, err := f.svc.ProcessArchive(context.Background(), service.ProcessInput{
		FileName:  "broken.zip",
		FileBytes: []byte("this is not a zip archive"),
		Email:     "a@b.com",
	})
	assert.Error(t, err)
}

func TestInvoiceService_ProcessArchive_BadEntryDoesNotAbortBatch(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	f.extractor.On("Extract", mock.Anything, mock.Anything).Return(extractionResponse, nil)
	f.users.On("Resolve", mock.Anything, "a@b.com").Return("uid-1", nil)
	f.store.On("Exists", mock.Anything, mock.Anything).Return(false, nil).Once()
	f.store.On("Exists", mock.Anything, mock.Anything).Return(true, nil)
	f.store.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.mirror.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.emailer.On("SendInvoiceStoredEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	archive := buildZip(t, map[string][]byte{
		"good.pdf": pdfContent(),
		"bad.pdf":  []byte("claims to be a pdf but is not"),
	})

	results, err := f.svc.ProcessArchive(context.Background(), service.ProcessInput{
		FileName:  "batch.zip",
		FileBytes: archive,
		Email:     "a@b.com",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	byName := map[string]service.ArchiveEntryResult{}
	for _, r := range results {
		byName[r.FileName] = r
	}
	assert.Empty(t, byName["good.pdf"].Error)
	assert.NotEmpty(t, byName["bad.pdf"].Error)
}

func TestInvoiceService_List(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	f.users.On("Lookup", mock.Anything, "a@b.com").Return("uid-1", nil)
	f.store.On("List", mock.Anything, "users/uid-1/invoices").Return([]port.Snapshot{
		{Path: "users/uid-1/invoices/INV-1", ID: "INV-1", Data: []byte(`{"invoice_no":"INV-1","items":[]}`)},
		{Path: "users/uid-1/invoices/bad", ID: "bad", Data: []byte(`{{`)},
	}, nil)

	invoices, err := f.svc.List(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Len(t, invoices, 1, "undecodable documents are skipped")
	assert.Equal(t, "INV-1", invoices[0].InvoiceNo)
}

func TestInvoiceService_List_UnseenEmail(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	f.users.On("Lookup", mock.Anything, "ghost@b.com").Return("", domain.ErrNotFound)

	invoices, err := f.svc.List(context.Background(), "ghost@b.com")
	require.NoError(t, err)
	assert.Empty(t, invoices)
	f.store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestInvoiceService_Update(t *testing.T) {
	f := newInvoiceServiceFixture(false)

	f.users.On("Resolve", mock.Anything, "a@b.com").Return("uid-1", nil)
	f.store.On("Merge", mock.Anything, "users/uid-1/invoices/INV_9",
		map[string]any{"total": 50.0, "doc_id": "INV_9"}).Return(nil)

	docID, err := f.svc.Update(context.Background(), "a@b.com", "INV/9", map[string]any{"total": 50.0})
	require.NoError(t, err)
	assert.Equal(t, "INV_9", docID)
	f.store.AssertExpectations(t)
}
