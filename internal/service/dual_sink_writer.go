package service

import (
	"context"
	"fmt"
	"log"

	"invosync/internal/domain"
	"invosync/internal/port"
)

// DualSinkWriter commits a normalized record into the document store and
// mirrors it into the spreadsheet sink. The two stores share no transaction;
// the writer is a two-phase best-effort protocol with a defined outcome
// instead of faked atomicity:
//
//  1. existence check at (user, invoice id) — already present means
//     DUPLICATE, nothing touched; re-submitting is an observable no-op
//  2. primary write to the document store — the authoritative copy; failure
//     means FAILED and the mirror is never attempted
//  3. mirror append — failure of any kind downgrades the result to PARTIAL;
//     the record is durable but the projection is stale
type DualSinkWriter struct {
	store  port.DocumentStore
	mirror port.InvoiceMirror
}

// NewDualSinkWriter creates a DualSinkWriter.
func NewDualSinkWriter(store port.DocumentStore, mirror port.InvoiceMirror) *DualSinkWriter {
	return &DualSinkWriter{store: store, mirror: mirror}
}

// Write persists rec for the given user. The returned error is non-nil only
// for OutcomeFailed (primary write or existence check failed) and
// OutcomePartial (the mirror error, for logging); a PARTIAL record is
// durable and must not be blindly retried.
func (w *DualSinkWriter) Write(ctx context.Context, userID, userEmail string, rec *domain.InvoiceRecord) (domain.WriteOutcome, error) {
	path := invoicePath(userID, rec.InvoiceNo)

	exists, err := w.store.Exists(ctx, path)
	if err != nil {
		return domain.OutcomeFailed, fmt.Errorf("checking for existing invoice: %w", err)
	}
	if exists {
		return domain.OutcomeDuplicate, nil
	}

	if err := w.store.Set(ctx, path, rec); err != nil {
		return domain.OutcomeFailed, fmt.Errorf("storing invoice: %w", err)
	}

	if err := w.mirror.Append(ctx, userEmail, rec); err != nil {
		log.Printf("dualSinkWriter: stored %s but mirror append failed: %v", path, err)
		return domain.OutcomePartial, err
	}

	return domain.OutcomeStored, nil
}
