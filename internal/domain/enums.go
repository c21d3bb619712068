package domain

// FileType represents the allowed upload types.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps detected MIME content types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// WriteOutcome classifies the result of a dual-sink invoice write.
// The two sinks share no transaction; the outcome makes partial failure
// observable instead of hiding it.
type WriteOutcome string

const (
	// OutcomeStored means the primary write and the mirror append both succeeded.
	OutcomeStored WriteOutcome = "stored"
	// OutcomePartial means the record is durable in the document store but the
	// spreadsheet mirror failed; the projection is stale.
	OutcomePartial WriteOutcome = "partial"
	// OutcomeDuplicate means a document already exists at the target path;
	// neither sink was mutated.
	OutcomeDuplicate WriteOutcome = "duplicate"
	// OutcomeFailed means the primary write failed; the mirror was not attempted.
	OutcomeFailed WriteOutcome = "failed"
)
