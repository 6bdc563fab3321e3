package domain

import "time"

// DocumentMetadata is the durable per-document ledger record.
// TotalChunks equals the number of chunk entries present in the vector
// store for the document immediately after a successful upload or delete.
type DocumentMetadata struct {
	// DocumentID is the unique identifier generated at upload time.
	DocumentID string `json:"document_id"`

	// DocumentName is the original filename.
	DocumentName string `json:"document_name"`

	// UploadDate is when the document was processed.
	UploadDate time.Time `json:"upload_date"`

	// TotalChunks is the number of chunks stored for the document.
	TotalChunks int `json:"total_chunks"`

	// TotalCharacters is the rune count of the cleaned text.
	TotalCharacters int `json:"total_characters"`

	// FileType is the lowercase file extension without the dot.
	FileType string `json:"file_type"`
}

// UploadResult summarises a successful document upload.
type UploadResult struct {
	DocumentID      string        `json:"document_id"`
	DocumentName    string        `json:"document_name"`
	ChunksCreated   int           `json:"chunks_created"`
	TotalCharacters int           `json:"total_characters"`
	ProcessingTime  time.Duration `json:"processing_time"`
	Success         bool          `json:"success"`
}

// DeletionResult summarises a successful document deletion.
type DeletionResult struct {
	DocumentID    string `json:"document_id"`
	ChunksDeleted int    `json:"chunks_deleted"`
}
