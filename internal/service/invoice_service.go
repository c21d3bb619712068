package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"invosync/internal/config"
	"invosync/internal/domain"
	"invosync/internal/extract"
	"invosync/internal/port"
)

// ProcessInput carries one uploaded invoice document.
type ProcessInput struct {
	FileName  string
	FileBytes []byte
	Email     string
}

// ProcessResult is the outcome of a single invoice submission.
type ProcessResult struct {
	Record  *domain.InvoiceRecord
	Outcome domain.WriteOutcome
	UserID  string
}

// ArchiveEntryResult is the per-file outcome of a ZIP batch submission.
type ArchiveEntryResult struct {
	FileName string                `json:"file_name"`
	Record   *domain.InvoiceRecord `json:"record,omitempty"`
	Outcome  domain.WriteOutcome   `json:"outcome,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// InvoiceService orchestrates extraction, normalization, identity
// resolution, and the dual-sink write, plus the read-back and merge-patch
// paths.
type InvoiceService interface {
	Process(ctx context.Context, input ProcessInput) (*ProcessResult, error)
	ProcessArchive(ctx context.Context, input ProcessInput) ([]ArchiveEntryResult, error)
	List(ctx context.Context, email string) ([]domain.InvoiceRecord, error)
	Update(ctx context.Context, email, docID string, fields map[string]any) (string, error)
}

type invoiceService struct {
	extractor port.InvoiceExtractor
	store     port.DocumentStore
	users     UserService
	writer    *DualSinkWriter
	archive   port.ObjectStorage // nil disables archival
	emailer   port.EmailSender
	archCfg   *config.ArchiveConfig
	uploadCfg *config.UploadConfig
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	extractor port.InvoiceExtractor,
	store port.DocumentStore,
	users UserService,
	writer *DualSinkWriter,
	archive port.ObjectStorage,
	emailer port.EmailSender,
	archCfg *config.ArchiveConfig,
	uploadCfg *config.UploadConfig,
) InvoiceService {
	return &invoiceService{
		extractor: extractor,
		store:     store,
		users:     users,
		writer:    writer,
		archive:   archive,
		emailer:   emailer,
		archCfg:   archCfg,
		uploadCfg: uploadCfg,
	}
}

func (s *invoiceService) Process(ctx context.Context, input ProcessInput) (*ProcessResult, error) {
	maxBytes := s.uploadCfg.MaxFileSizeMB * 1024 * 1024
	if int64(len(input.FileBytes)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	contentType := detectContentType(input.FileBytes)
	if _, ok := domain.AllowedContentTypes[contentType]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	s.archiveUpload(ctx, input, contentType)

	text, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   input.FileBytes,
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("extracting invoice: %w", err)
	}

	raw, ok := extract.ParseJSON(text)
	if !ok {
		log.Printf("invoiceService.Process: no parseable JSON in extraction response for %s", input.FileName)
		return nil, domain.ErrExtractionFailed
	}

	rec := extract.Normalize(raw, time.Now())
	if !rec.HasExtractedFields() {
		return nil, domain.ErrMissingInvoiceFields
	}
	rec.ResolveInvoiceNo()

	userID, err := s.users.Resolve(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	outcome, werr := s.writer.Write(ctx, userID, input.Email, rec)
	if outcome == domain.OutcomeFailed {
		return nil, werr
	}

	if outcome == domain.OutcomeStored || outcome == domain.OutcomePartial {
		if err := s.emailer.SendInvoiceStoredEmail(ctx, input.Email, rec.InvoiceNo); err != nil {
			log.Printf("invoiceService.Process: notification email failed for %s: %v", input.Email, err)
		}
	}

	return &ProcessResult{Record: rec, Outcome: outcome, UserID: userID}, nil
}

// ProcessArchive unpacks a ZIP of invoice documents and processes each
// supported entry independently; one bad entry does not abort the batch.
func (s *invoiceService) ProcessArchive(ctx context.Context, input ProcessInput) ([]ArchiveEntryResult, error) {
	zr, err := zip.NewReader(bytes.NewReader(input.FileBytes), int64(len(input.FileBytes)))
	if err != nil {
		return nil, fmt.Errorf("opening zip archive: %w", err)
	}

	var results []ArchiveEntryResult
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(entry.Name), "."))
		if _, ok := domain.AllowedExtensions[ext]; !ok {
			log.Printf("invoiceService.ProcessArchive: skipping unsupported entry %s", entry.Name)
			continue
		}

		data, err := readZipEntry(entry)
		if err != nil {
			results = append(results, ArchiveEntryResult{FileName: entry.Name, Error: err.Error()})
			continue
		}

		res, err := s.Process(ctx, ProcessInput{
			FileName:  entry.Name,
			FileBytes: data,
			Email:     input.Email,
		})
		if err != nil {
			results = append(results, ArchiveEntryResult{FileName: entry.Name, Error: err.Error()})
			continue
		}
		results = append(results, ArchiveEntryResult{
			FileName: entry.Name,
			Record:   res.Record,
			Outcome:  res.Outcome,
		})
	}
	return results, nil
}

// List returns every stored invoice for the email's user. An unseen email
// or a user without invoices yields an empty list, not an error.
func (s *invoiceService) List(ctx context.Context, email string) ([]domain.InvoiceRecord, error) {
	userID, err := s.users.Lookup(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return []domain.InvoiceRecord{}, nil
		}
		return nil, err
	}

	snaps, err := s.store.List(ctx, invoiceCollection(userID))
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	invoices := make([]domain.InvoiceRecord, 0, len(snaps))
	for _, snap := range snaps {
		var rec domain.InvoiceRecord
		if err := json.Unmarshal(snap.Data, &rec); err != nil {
			log.Printf("invoiceService.List: skipping undecodable document %s: %v", snap.Path, err)
			continue
		}
		invoices = append(invoices, rec)
	}
	return invoices, nil
}

// Update shallow-merges the caller's fields into the stored document at the
// canonical users/{uid}/invoices path, stamping doc_id so the document is
// self-describing. Merge semantics create the document when absent; the
// fields are stored as given, with no re-normalization.
func (s *invoiceService) Update(ctx context.Context, email, docID string, fields map[string]any) (string, error) {
	userID, err := s.users.Resolve(ctx, email)
	if err != nil {
		return "", err
	}

	docID = strings.ReplaceAll(docID, "/", "_")
	fields["doc_id"] = docID

	if err := s.store.Merge(ctx, invoicePath(userID, docID), fields); err != nil {
		return "", fmt.Errorf("merging invoice update: %w", err)
	}
	return docID, nil
}

// archiveUpload stores the raw upload bytes in object storage before
// extraction. Archival is best-effort and never fails the request.
func (s *invoiceService) archiveUpload(ctx context.Context, input ProcessInput, contentType string) {
	if s.archive == nil || s.archCfg.Bucket == "" {
		return
	}
	key := fmt.Sprintf("uploads/%s/%s", uuid.New(), filepath.Base(input.FileName))
	_, err := s.archive.Upload(ctx, port.UploadInput{
		Bucket:      s.archCfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(input.FileBytes),
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("invoiceService: archiving upload %s failed: %v", input.FileName, err)
	}
}

func detectContentType(data []byte) string {
	n := len(data)
	if n > 512 {
		n = 512
	}
	return http.DetectContentType(data[:n])
}

func readZipEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("opening zip entry: %w", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading zip entry: %w", err)
	}
	return data, nil
}
