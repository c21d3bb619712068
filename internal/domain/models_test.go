package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invosync/internal/domain"
)

func TestResolveInvoiceNo_ReplacesSlashes(t *testing.T) {
	rec := &domain.InvoiceRecord{InvoiceNo: "A/123/B"}

	id := rec.ResolveInvoiceNo()

	assert.Equal(t, "A_123_B", id)
	assert.Equal(t, "A_123_B", rec.InvoiceNo, "resolved id is written back")
}

func TestResolveInvoiceNo_GeneratesWhenEmpty(t *testing.T) {
	rec := &domain.InvoiceRecord{}

	id := rec.ResolveInvoiceNo()

	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, rec.InvoiceNo)
}

func TestResolveInvoiceNo_StableForCleanIDs(t *testing.T) {
	rec := &domain.InvoiceRecord{InvoiceNo: "INV-42"}
	assert.Equal(t, "INV-42", rec.ResolveInvoiceNo())
	assert.Equal(t, "INV-42", rec.ResolveInvoiceNo())
}

func TestPrune_DropsEmptyItemsAndParties(t *testing.T) {
	rec := &domain.InvoiceRecord{
		Vendor: &domain.Party{},
		BillTo: &domain.Party{Name: "Beta"},
		Items: []domain.LineItem{
			{Description: "kept"},
			{},
		},
	}

	rec.Prune()

	assert.Nil(t, rec.Vendor)
	require.NotNil(t, rec.BillTo)
	require.Len(t, rec.Items, 1)
	assert.Equal(t, "kept", rec.Items[0].Description)
}

func TestPrune_NilItemsBecomesEmptySlice(t *testing.T) {
	rec := &domain.InvoiceRecord{}
	rec.Prune()
	require.NotNil(t, rec.Items)
	assert.Empty(t, rec.Items)
}

func TestParty_DisplayName(t *testing.T) {
	assert.Equal(t, "Acme Corp", (&domain.Party{Name: "R. Sharma", Company: "Acme Corp"}).DisplayName())
	assert.Equal(t, "R. Sharma", (&domain.Party{Name: "R. Sharma"}).DisplayName())
	assert.Equal(t, "", (*domain.Party)(nil).DisplayName())
}

func TestHasExtractedFields(t *testing.T) {
	assert.False(t, (&domain.InvoiceRecord{}).HasExtractedFields())
	assert.True(t, (&domain.InvoiceRecord{InvoiceNo: "X"}).HasExtractedFields())
	assert.True(t, (&domain.InvoiceRecord{Total: 5}).HasExtractedFields())
	assert.True(t, (&domain.InvoiceRecord{Vendor: &domain.Party{Name: "A"}}).HasExtractedFields())
	assert.True(t, (&domain.InvoiceRecord{Items: []domain.LineItem{{Description: "x"}}}).HasExtractedFields())
}
